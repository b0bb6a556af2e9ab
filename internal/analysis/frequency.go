package analysis

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/moviecorpus-cli/internal/corpus"
)

// TypeField selects the categorical field counted by MovieTypes.
type TypeField string

const (
	FieldGenre     TypeField = "genre"
	FieldMovie     TypeField = "movie"
	FieldGender    TypeField = "gender"
	FieldEthnicity TypeField = "ethnicity"
	FieldLanguage  TypeField = "language"
	FieldCountry   TypeField = "country"
)

// TypeFields lists the accepted fields in display order.
var TypeFields = []TypeField{FieldGenre, FieldMovie, FieldGender, FieldEthnicity, FieldLanguage, FieldCountry}

// ParseTypeField maps a user string to a TypeField. Empty selects genre.
func ParseTypeField(s string) (TypeField, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FieldGenre, nil
	}
	for _, f := range TypeFields {
		if string(f) == s {
			return f, nil
		}
	}
	names := make([]string, len(TypeFields))
	for i, f := range TypeFields {
		names[i] = string(f)
	}
	return "", &FilterError{Param: "field", Value: s, Reason: "must be one of: " + strings.Join(names, ", ")}
}

type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Frequency is the result of MovieTypes. Total is the sum of counts over all
// distinct values, before the top-N cut.
type Frequency struct {
	Field    TypeField       `json:"field"`
	Items    []CategoryCount `json:"items"`
	Total    int             `json:"total"`
	Distinct int             `json:"distinct"`
	Included int             `json:"included"`
	Excluded int             `json:"excluded"`
}

// counter counts values and remembers first-seen order for tie breaking.
type counter struct {
	idx   map[string]int
	items []CategoryCount
}

func newCounter() *counter { return &counter{idx: map[string]int{}} }

func (c *counter) add(v string) {
	if i, ok := c.idx[v]; ok {
		c.items[i].Count++
		return
	}
	c.idx[v] = len(c.items)
	c.items = append(c.items, CategoryCount{Value: v, Count: 1})
}

// ranked returns items by descending count; equal counts keep first-seen order.
func (c *counter) ranked() []CategoryCount {
	out := make([]CategoryCount, len(c.items))
	copy(out, c.items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// MovieTypes counts field across the corpus and returns the n most frequent
// values. For multi-valued fields (genre, language, country) each label of a
// movie is one observation; rows with no value are excluded.
func MovieTypes(c *corpus.Corpus, n int, field TypeField) (Frequency, error) {
	if n <= 0 {
		return Frequency{}, &FilterError{Param: "n", Value: n, Reason: "must be > 0"}
	}
	if field == "" {
		field = FieldGenre
	}
	res := Frequency{Field: field}
	cnt := newCounter()
	observe := func(values ...string) {
		seen := false
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				cnt.add(v)
				seen = true
			}
		}
		if seen {
			res.Included++
		} else {
			res.Excluded++
		}
	}
	switch field {
	case FieldGenre, FieldLanguage, FieldCountry:
		for _, m := range c.Movies {
			switch field {
			case FieldGenre:
				observe(m.Genres...)
			case FieldLanguage:
				observe(m.Languages...)
			default:
				observe(m.Countries...)
			}
		}
	case FieldMovie:
		for _, ch := range c.Characters {
			observe(ch.WikipediaMovieID)
		}
	case FieldGender:
		for _, ch := range c.Characters {
			observe(string(ch.Gender))
		}
	case FieldEthnicity:
		for _, ch := range c.Characters {
			observe(ch.Ethnicity)
		}
	default:
		return Frequency{}, &FilterError{Param: "field", Value: field, Reason: "unsupported field"}
	}
	ranked := cnt.ranked()
	for _, it := range ranked {
		res.Total += it.Count
	}
	res.Distinct = len(ranked)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	res.Items = ranked
	return res, nil
}
