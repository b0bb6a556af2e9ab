package classify

// Verdict is the result of comparing predicted genres with stored ones.
type Verdict int

const (
	Unknown Verdict = iota
	Match
	Mismatch
)

func (v Verdict) String() string {
	switch v {
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// MarshalText renders the verdict by name in JSON output.
func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// MarshalText renders the outcome by name in JSON output.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Comparison lists both sides in canonical form and their overlap.
type Comparison struct {
	Verdict   Verdict  `json:"verdict"`
	Predicted []string `json:"predicted"`
	Stored    []string `json:"stored"`
	Shared    []string `json:"shared,omitempty"`
}

// Compare checks predicted genres against the stored genre labels of a movie.
// The verdict is Match when any predicted genre is among the stored ones, and
// Unknown when either side has no recognizable genre.
func (v *Vocabulary) Compare(predicted, stored []string) Comparison {
	cmp := Comparison{Predicted: v.Normalize(predicted), Stored: v.Normalize(stored)}
	if len(cmp.Predicted) == 0 || len(cmp.Stored) == 0 {
		return cmp
	}
	in := make(map[string]bool, len(cmp.Stored))
	for _, s := range cmp.Stored {
		in[s] = true
	}
	for _, p := range cmp.Predicted {
		if in[p] {
			cmp.Shared = append(cmp.Shared, p)
		}
	}
	if len(cmp.Shared) > 0 {
		cmp.Verdict = Match
	} else {
		cmp.Verdict = Mismatch
	}
	return cmp
}
