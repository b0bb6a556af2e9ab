package classify

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Unclassified is reported when a response names no known genre.
const Unclassified = "UNCLASSIFIED"

// DefaultGenres is the recognized genre set, in canonical upper-case form.
var DefaultGenres = []string{
	"COMEDY", "DRAMA", "ACTION", "ADVENTURE", "FANTASY", "HORROR",
	"THRILLER", "ROMANCE", "SCIENCE FICTION", "ANIMATION", "FAMILY",
	"MUSICAL", "DOCUMENTARY", "SHORT FILM", "WAR", "WESTERN",
	"MYSTERY", "CRIME", "BIOGRAPHY",
}

// DefaultAliases maps alternate spellings onto canonical genres.
var DefaultAliases = map[string]string{
	"SCI-FI":       "SCIENCE FICTION",
	"SCIFI":        "SCIENCE FICTION",
	"ROMANTIC":     "ROMANCE",
	"BIOPIC":       "BIOGRAPHY",
	"BIOGRAPHICAL": "BIOGRAPHY",
	"ANIMATED":     "ANIMATION",
}

type term struct {
	label string
	re    *regexp.Regexp
}

// Vocabulary matches genre terms in free text. It is safe for concurrent use.
type Vocabulary struct {
	labels []string
	terms  []term
}

// NewVocabulary builds a vocabulary from canonical genres plus aliases.
// Matching is whole-word and case-insensitive.
func NewVocabulary(genres []string, aliases map[string]string) *Vocabulary {
	v := &Vocabulary{}
	seen := map[string]bool{}
	add := func(word, label string) {
		word = strings.ToUpper(strings.TrimSpace(word))
		if word == "" || seen[word] {
			return
		}
		seen[word] = true
		v.terms = append(v.terms, term{label: label, re: wordPattern(word)})
	}
	for _, g := range genres {
		g = strings.ToUpper(strings.TrimSpace(g))
		if g == "" {
			continue
		}
		v.labels = append(v.labels, g)
		add(g, g)
	}
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add(k, strings.ToUpper(aliases[k]))
	}
	return v
}

// Default returns the built-in vocabulary.
func Default() *Vocabulary { return NewVocabulary(DefaultGenres, DefaultAliases) }

// Labels returns the canonical genres.
func (v *Vocabulary) Labels() []string { return append([]string(nil), v.labels...) }

func wordPattern(word string) *regexp.Regexp {
	parts := strings.Fields(word)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?i)\b` + strings.Join(parts, `[\s-]+`) + `\b`)
}

// Find returns the canonical genres mentioned in text, ordered by first
// occurrence. Overlapping matches keep the longer term.
func (v *Vocabulary) Find(text string) []string {
	type hit struct {
		start, end int
		label      string
	}
	var hits []hit
	for _, t := range v.terms {
		for _, loc := range t.re.FindAllStringIndex(text, -1) {
			hits = append(hits, hit{start: loc[0], end: loc[1], label: t.label})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].start != hits[j].start {
			return hits[i].start < hits[j].start
		}
		return hits[i].end > hits[j].end
	})
	var out []string
	seen := map[string]bool{}
	covered := -1
	for _, h := range hits {
		if h.start < covered {
			continue
		}
		covered = h.end
		if !seen[h.label] {
			seen[h.label] = true
			out = append(out, h.label)
		}
	}
	return out
}

// Normalize maps stored genre labels (e.g. "War film", "Romantic comedy")
// onto canonical genres, keeping first-seen order.
func (v *Vocabulary) Normalize(stored []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range stored {
		for _, g := range v.Find(s) {
			if !seen[g] {
				seen[g] = true
				out = append(out, g)
			}
		}
	}
	return out
}

var titleCaser = cases.Title(language.Und)

// Display renders a canonical label for humans, e.g. "SCIENCE FICTION" -> "Science Fiction".
func Display(label string) string {
	if label == Unclassified {
		return label
	}
	return titleCaser.String(strings.ToLower(label))
}
