package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/moviecorpus-cli/internal/corpus"
)

// ReportOptions controls BuildReport.
type ReportOptions struct {
	TopN   int
	Field  TypeField
	Height HeightFilter
	Bins   int
	Genre  string
}

// DefaultReportOptions returns the settings used by the report command.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{TopN: 10, Field: FieldGenre, Bins: DefaultBins}
}

// Report collects every summary over one corpus session.
type Report struct {
	Session     string           `json:"session"`
	Dir         string           `json:"dir"`
	LoadedAt    time.Time        `json:"loaded_at"`
	Load        corpus.LoadStats `json:"load"`
	Characters  int              `json:"characters"`
	Movies      int              `json:"movies"`
	Types       Frequency        `json:"types"`
	ActorCounts Distribution     `json:"actor_counts"`
	Heights     HeightSummary    `json:"heights"`
	HeightBins  []HistogramBin   `json:"height_bins"`
	Releases    Distribution     `json:"releases"`
	BirthYears  Distribution     `json:"birth_years"`
	BirthMonths Distribution     `json:"birth_months"`
	Ages        Distribution     `json:"ages"`
	Warnings    []string         `json:"warnings,omitempty"`
}

// BuildReport runs all operations. An invalid height filter is replaced by
// the unfiltered view and noted in Warnings.
func BuildReport(c *corpus.Corpus, opt ReportOptions) (*Report, error) {
	if opt.TopN <= 0 {
		opt.TopN = 10
	}
	r := &Report{
		Session:    c.ID.String(),
		Dir:        c.Dir,
		LoadedAt:   c.LoadedAt,
		Load:       c.Stats,
		Characters: len(c.Characters),
		Movies:     len(c.Movies),
	}
	var err error
	if r.Types, err = MovieTypes(c, opt.TopN, opt.Field); err != nil {
		return nil, err
	}
	r.ActorCounts = ActorCounts(c)
	if r.Heights, err = Heights(c, opt.Height); err != nil {
		r.Warnings = append(r.Warnings, fmt.Sprintf("height filter ignored: %v", err))
		if r.Heights, err = Heights(c, HeightFilter{}); err != nil {
			return nil, err
		}
	}
	r.HeightBins = r.Heights.Histogram(opt.Bins)
	r.Releases = Releases(c, opt.Genre)
	if r.BirthYears, err = Births(c, ByYear); err != nil {
		return nil, err
	}
	if r.BirthMonths, err = Births(c, ByMonth); err != nil {
		return nil, err
	}
	r.Ages = Ages(c)

	if c.Stats.Characters.Malformed > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%d malformed character rows skipped", c.Stats.Characters.Malformed))
	}
	if len(c.Movies) == 0 {
		r.Warnings = append(r.Warnings, "no movie metadata loaded; genre counts are empty and the release trend uses character rows")
	}
	return r, nil
}

// Markdown renders the report as a standalone document.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Session: %s\n", r.Session))
	if r.Dir != "" {
		b.WriteString(fmt.Sprintf("Data dir: %s\n", r.Dir))
	}
	b.WriteString(fmt.Sprintf("Characters: %d\nMovies: %d\n\n", r.Characters, r.Movies))

	b.WriteString("[LOAD DIAGNOSTICS]\n")
	for _, fs := range []corpus.FileStats{r.Load.Characters, r.Load.Movies, r.Load.Summaries} {
		if fs.Path == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("- %s: %d rows, %d malformed", fs.Path, fs.Rows, fs.Malformed))
		if len(fs.Missing) > 0 {
			keys := make([]string, 0, len(fs.Missing))
			for k := range fs.Missing {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			b.WriteString("; missing: ")
			for i, k := range keys {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", k, fs.Missing[k]))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n[TOP %s VALUES]\n", strings.ToUpper(string(r.Types.Field))))
	b.WriteString(fmt.Sprintf("distinct=%d, observations=%d, excluded rows=%d\n", r.Types.Distinct, r.Types.Total, r.Types.Excluded))
	b.WriteString("| Value | Count |\n| --- | ---: |\n")
	for _, it := range r.Types.Items {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", safeVal(it.Value), it.Count))
	}

	writeDistribution(&b, "ACTORS PER MOVIE", r.ActorCounts)

	b.WriteString("\n[HEIGHT DISTRIBUTION]\n")
	s := r.Heights.Stats
	b.WriteString(fmt.Sprintf("n=%d, excluded=%d, filtered=%d", s.Count, r.Heights.Excluded, r.Heights.Filtered))
	if s.Count > 0 {
		b.WriteString(fmt.Sprintf(" | min %.2f, max %.2f, mean %.3f, std %.3f, median %.3f", s.Min, s.Max, s.Mean, s.Std, s.Median))
	}
	b.WriteString("\n")
	if s.Count > 0 {
		b.WriteString("| Bin (m) | Count |\n| --- | ---: |\n")
		for _, bin := range r.HeightBins {
			b.WriteString(fmt.Sprintf("| %.3f–%.3f | %d |\n", bin.Lo, bin.Hi, bin.Count))
		}
	}

	writeDistribution(&b, "RELEASES PER YEAR", r.Releases)
	writeDistribution(&b, "ACTOR BIRTHS PER YEAR", r.BirthYears)
	writeDistribution(&b, "ACTOR BIRTHS PER MONTH", r.BirthMonths)
	writeDistribution(&b, "ACTOR AGE AT RELEASE", r.Ages)

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// writeDistribution renders buckets inline as label(count) to keep long
// year ranges compact.
func writeDistribution(b *strings.Builder, title string, d Distribution) {
	b.WriteString(fmt.Sprintf("\n[%s]\n", title))
	b.WriteString(fmt.Sprintf("included=%d, excluded=%d", d.Included, d.Excluded))
	if d.Filtered > 0 {
		b.WriteString(fmt.Sprintf(", filtered=%d", d.Filtered))
	}
	b.WriteString("\n")
	for i, bk := range d.Buckets {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(fmt.Sprintf("%s(%d)", bk.Label, bk.Count))
	}
	if len(d.Buckets) > 0 {
		b.WriteString("\n")
	}
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
