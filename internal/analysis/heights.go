package analysis

import (
	"math"
	"strings"

	"github.com/KaramelBytes/moviecorpus-cli/internal/corpus"
)

// MaxHeight is the largest plausible actor height in meters.
const MaxHeight = 3.0

// DefaultBins is the default number of histogram bins.
const DefaultBins = 20

// HeightFilter selects rows for Heights. Bounds are inclusive; a nil Min
// means 0 and a nil Max means MaxHeight.
type HeightFilter struct {
	// Gender is "", "All", "M" or "F".
	Gender string   `json:"gender,omitempty" validate:"omitempty,oneof=All M F"`
	Min    *float64 `json:"min,omitempty" validate:"omitempty,gte=0,lte=3"`
	Max    *float64 `json:"max,omitempty" validate:"omitempty,gte=0,lte=3"`
}

// Meters returns a pointer to v, for HeightFilter bounds.
func Meters(v float64) *float64 { return &v }

// Validate checks the filter. Bounds must lie in [0, MaxHeight] with Min <= Max.
func (f HeightFilter) Validate() error {
	for _, b := range []struct {
		name string
		v    *float64
	}{{"min", f.Min}, {"max", f.Max}} {
		if b.v != nil && (math.IsNaN(*b.v) || math.IsInf(*b.v, 0)) {
			return &FilterError{Param: b.name, Value: *b.v, Reason: "must be a finite number"}
		}
	}
	canon := f
	canon.Gender = canonicalGender(f.Gender)
	if err := validateStruct(canon); err != nil {
		return err
	}
	if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
		return &FilterError{Param: "range", Value: [2]float64{*f.Min, *f.Max}, Reason: "min must not exceed max"}
	}
	return nil
}

func canonicalGender(s string) string {
	switch u := strings.ToUpper(strings.TrimSpace(s)); u {
	case "ALL":
		return "All"
	case "M", "F":
		return u
	default:
		return s
	}
}

func (f HeightFilter) gender() corpus.Gender {
	switch canonicalGender(f.Gender) {
	case "M":
		return corpus.GenderMale
	case "F":
		return corpus.GenderFemale
	default:
		return corpus.GenderUnknown
	}
}

// Bounds returns the effective inclusive height range.
func (f HeightFilter) Bounds() (lo, hi float64) {
	lo, hi = 0, MaxHeight
	if f.Min != nil {
		lo = *f.Min
	}
	if f.Max != nil {
		hi = *f.Max
	}
	return lo, hi
}

func (f HeightFilter) match(ch corpus.CharacterRecord) bool {
	if g := f.gender(); g != corpus.GenderUnknown && ch.Gender != g {
		return false
	}
	lo, hi := f.Bounds()
	h := *ch.Height
	return h >= lo && h <= hi
}

// HeightSummary is the result of Heights. Values keep load order.
type HeightSummary struct {
	Filter   HeightFilter `json:"filter"`
	Values   []float64    `json:"-"`
	Stats    NumStats     `json:"stats"`
	Included int          `json:"included"`
	Excluded int          `json:"excluded"`
	Filtered int          `json:"filtered"`
}

// Heights returns the heights of characters that satisfy f. Rows with a
// missing height are excluded; heights outside the filter bounds, including
// implausible ones above MaxHeight, count as filtered.
func Heights(c *corpus.Corpus, f HeightFilter) (HeightSummary, error) {
	if err := f.Validate(); err != nil {
		return HeightSummary{}, err
	}
	s := HeightSummary{Filter: f, Values: []float64{}}
	for _, ch := range c.Characters {
		if ch.Height == nil {
			s.Excluded++
			continue
		}
		if !f.match(ch) {
			s.Filtered++
			continue
		}
		s.Values = append(s.Values, *ch.Height)
		s.Included++
	}
	s.Stats = describe(s.Values)
	return s, nil
}

// Histogram bins the summary values over the filter range, or over the
// observed range for open bounds.
func (s HeightSummary) Histogram(n int) []HistogramBin {
	lo, hi := s.Stats.Min, s.Stats.Max
	if s.Filter.Min != nil {
		lo = *s.Filter.Min
	}
	if s.Filter.Max != nil {
		hi = *s.Filter.Max
	}
	return Bin(s.Values, lo, hi, n)
}

// HistogramBin covers [Lo, Hi); the last bin of a histogram also includes Hi.
type HistogramBin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Mid   float64 `json:"mid"`
	Count int     `json:"count"`
}

// Bin splits [lo, hi] into n equal-width bins and counts values into them.
// Bins are left-closed and right-open except the last, which is closed. A
// value's index is floor((v-lo)/width), clamped to n-1; values outside
// [lo, hi] are ignored. A degenerate range (lo == hi) yields one bin.
// n <= 0 selects DefaultBins.
func Bin(values []float64, lo, hi float64, n int) []HistogramBin {
	if n <= 0 {
		n = DefaultBins
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi == lo {
		b := HistogramBin{Lo: lo, Hi: hi, Mid: lo}
		for _, v := range values {
			if v == lo {
				b.Count++
			}
		}
		return []HistogramBin{b}
	}
	width := (hi - lo) / float64(n)
	bins := make([]HistogramBin, n)
	for i := range bins {
		bins[i].Lo = lo + float64(i)*width
		bins[i].Hi = lo + float64(i+1)*width
		bins[i].Mid = (bins[i].Lo + bins[i].Hi) / 2
	}
	bins[n-1].Hi = hi
	for _, v := range values {
		if v < lo || v > hi {
			continue
		}
		i := int(math.Floor((v - lo) / width))
		if i >= n {
			i = n - 1
		}
		// Rounding can put a value sitting on an edge one bin off.
		if i+1 < n && v >= bins[i+1].Lo {
			i++
		} else if i > 0 && v < bins[i].Lo {
			i--
		}
		bins[i].Count++
	}
	return bins
}
