package classify

import (
	"strings"
	"testing"
)

func TestFindWholeWord(t *testing.T) {
	v := Default()
	tests := []struct {
		text string
		want string
	}{
		{"a gripping war drama", "WAR,DRAMA"},
		{"Dramatic warfare", ""},
		{"Sci-Fi, Horror", "SCIENCE FICTION,HORROR"},
		{"science fiction and COMEDY", "SCIENCE FICTION,COMEDY"},
		{"Drama, drama, DRAMA", "DRAMA"},
		{"Short Film", "SHORT FILM"},
	}
	for _, tt := range tests {
		if got := strings.Join(v.Find(tt.text), ","); got != tt.want {
			t.Errorf("Find(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestNormalizeStoredGenres(t *testing.T) {
	got := Default().Normalize([]string{"Crime Fiction", "War film", "Romantic comedy", "World cinema"})
	if strings.Join(got, ",") != "CRIME,WAR,ROMANCE,COMEDY" {
		t.Fatalf("normalize = %v", got)
	}
}

func TestCompare(t *testing.T) {
	v := Default()
	tests := []struct {
		name      string
		predicted []string
		stored    []string
		want      Verdict
	}{
		{"shared", []string{"DRAMA", "WAR"}, []string{"War film", "Historical drama"}, Match},
		{"disjoint", []string{"COMEDY"}, []string{"Thriller"}, Mismatch},
		{"no prediction", nil, []string{"Thriller"}, Unknown},
		{"no stored genre", []string{"COMEDY"}, []string{"World cinema"}, Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Compare(tt.predicted, tt.stored); got.Verdict != tt.want {
				t.Fatalf("verdict = %v, want %v (%+v)", got.Verdict, tt.want, got)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	if got := Display("SCIENCE FICTION"); got != "Science Fiction" {
		t.Fatalf("Display = %q", got)
	}
	if Display(Unclassified) != Unclassified {
		t.Fatalf("UNCLASSIFIED should stay as is")
	}
}
