package analysis

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/moviecorpus-cli/internal/corpus"
)

// Bucket is one entry of an integer-keyed distribution.
type Bucket struct {
	Key   int    `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Distribution maps integer keys (years, months, ages, actor counts) to counts.
// Excluded counts rows missing a field the operation needs; Filtered counts
// rows rejected by an explicit filter.
type Distribution struct {
	Name     string   `json:"name"`
	Buckets  []Bucket `json:"buckets"`
	Included int      `json:"included"`
	Excluded int      `json:"excluded"`
	Filtered int      `json:"filtered,omitempty"`
}

// Map returns the distribution as key -> count.
func (d Distribution) Map() map[int]int {
	out := make(map[int]int, len(d.Buckets))
	for _, b := range d.Buckets {
		out[b.Key] = b.Count
	}
	return out
}

// Max returns the largest bucket count.
func (d Distribution) Max() int {
	m := 0
	for _, b := range d.Buckets {
		if b.Count > m {
			m = b.Count
		}
	}
	return m
}

func sortedBuckets(counts map[int]int, label func(int) string) []Bucket {
	out := make([]Bucket, 0, len(counts))
	for k, v := range counts {
		out = append(out, Bucket{Key: k, Label: label(k), Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ActorCounts groups characters by movie and returns how many movies have
// each number of credited characters, ascending by that number.
func ActorCounts(c *corpus.Corpus) Distribution {
	d := Distribution{Name: "actors per movie"}
	perMovie := map[string]int{}
	for _, ch := range c.Characters {
		if ch.WikipediaMovieID == "" {
			d.Excluded++
			continue
		}
		perMovie[ch.WikipediaMovieID]++
		d.Included++
	}
	hist := map[int]int{}
	for _, n := range perMovie {
		hist[n]++
	}
	d.Buckets = sortedBuckets(hist, strconv.Itoa)
	return d
}

// Releases counts movies per release year, ascending by year. A non-empty
// genre keeps only movies with a genre label containing it, case-insensitively.
// Without movie metadata the character table is used, one entry per movie ID.
func Releases(c *corpus.Corpus, genre string) Distribution {
	genre = strings.ToLower(strings.TrimSpace(genre))
	d := Distribution{Name: "releases per year"}
	counts := map[int]int{}

	hasMeta := false
	for _, m := range c.Movies {
		if m.Title != "" || m.ReleaseDate.Valid() || len(m.Genres) > 0 {
			hasMeta = true
			break
		}
	}
	if hasMeta {
		for _, m := range c.Movies {
			if !m.ReleaseDate.Valid() {
				d.Excluded++
				continue
			}
			if genre != "" && !hasGenre(m.Genres, genre) {
				d.Filtered++
				continue
			}
			counts[m.ReleaseDate.Year]++
			d.Included++
		}
	} else {
		seen := map[string]bool{}
		for _, ch := range c.Characters {
			if ch.WikipediaMovieID != "" {
				if seen[ch.WikipediaMovieID] {
					continue
				}
				seen[ch.WikipediaMovieID] = true
			}
			if !ch.ReleaseDate.Valid() {
				d.Excluded++
				continue
			}
			if genre != "" {
				d.Filtered++
				continue
			}
			counts[ch.ReleaseDate.Year]++
			d.Included++
		}
	}
	d.Buckets = sortedBuckets(counts, strconv.Itoa)
	return d
}

func hasGenre(genres []string, needle string) bool {
	for _, g := range genres {
		if strings.Contains(strings.ToLower(g), needle) {
			return true
		}
	}
	return false
}

// BirthMode selects the granularity of Births.
type BirthMode string

const (
	ByYear  BirthMode = "year"
	ByMonth BirthMode = "month"
)

// ParseBirthMode accepts year/month and the single-letter forms Y/M.
func ParseBirthMode(s string) (BirthMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "y", "year":
		return ByYear, nil
	case "m", "month":
		return ByMonth, nil
	default:
		return "", &FilterError{Param: "mode", Value: s, Reason: "must be one of: year, month"}
	}
}

// Births counts actor birth dates by year or by calendar month. Month mode
// always returns twelve buckets in calendar order and excludes dates that
// carry only a year.
func Births(c *corpus.Corpus, mode BirthMode) (Distribution, error) {
	switch mode {
	case ByYear:
		d := Distribution{Name: "actor births per year"}
		counts := map[int]int{}
		for _, ch := range c.Characters {
			if !ch.ActorDOB.Valid() {
				d.Excluded++
				continue
			}
			counts[ch.ActorDOB.Year]++
			d.Included++
		}
		d.Buckets = sortedBuckets(counts, strconv.Itoa)
		return d, nil
	case ByMonth:
		d := Distribution{Name: "actor births per month"}
		d.Buckets = make([]Bucket, 12)
		for i := range d.Buckets {
			m := time.Month(i + 1)
			d.Buckets[i] = Bucket{Key: int(m), Label: m.String()}
		}
		for _, ch := range c.Characters {
			if !ch.ActorDOB.HasMonth() {
				d.Excluded++
				continue
			}
			d.Buckets[int(ch.ActorDOB.Month)-1].Count++
			d.Included++
		}
		return d, nil
	default:
		return Distribution{}, &FilterError{Param: "mode", Value: mode, Reason: "must be one of: year, month"}
	}
}

// Ages counts actor age at release. Missing and negative ages are excluded.
func Ages(c *corpus.Corpus) Distribution {
	d := Distribution{Name: "actor age at release"}
	counts := map[int]int{}
	for _, ch := range c.Characters {
		if ch.AgeAtRelease == nil || *ch.AgeAtRelease < 0 {
			d.Excluded++
			continue
		}
		counts[*ch.AgeAtRelease]++
		d.Included++
	}
	d.Buckets = sortedBuckets(counts, strconv.Itoa)
	return d
}
