package analysis

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/moviecorpus-cli/internal/corpus"
)

func f64(v float64) *float64 { return &v }
func intp(v int) *int { return &v }

func date(s string) corpus.PartialDate {
	d, _ := corpus.ParsePartialDate(s)
	return d
}

func fixture() *corpus.Corpus {
	return &corpus.Corpus{
		Characters: []corpus.CharacterRecord{
			{WikipediaMovieID: "1", Gender: corpus.GenderFemale, Height: f64(1.62), ActorDOB: date("1958-08-26"), AgeAtRelease: intp(42), Ethnicity: "/m/e1"},
			{WikipediaMovieID: "1", Gender: corpus.GenderMale, Height: f64(1.80), ActorDOB: date("1974"), AgeAtRelease: intp(-3)},
			{WikipediaMovieID: "1", Gender: corpus.GenderMale, Height: nil, ActorDOB: date("1960-01-02")},
			{WikipediaMovieID: "2", Gender: corpus.GenderFemale, Height: f64(1.70), ActorDOB: date("1960-01"), AgeAtRelease: intp(35), Ethnicity: "/m/e2"},
			{WikipediaMovieID: "3", Gender: corpus.GenderUnknown, Height: f64(2.50), AgeAtRelease: intp(35), Ethnicity: "/m/e1"},
		},
		Movies: []corpus.MovieRecord{
			{WikipediaMovieID: "1", Title: "A", ReleaseDate: date("1995-03-01"), Genres: []string{"Drama", "War film"}},
			{WikipediaMovieID: "2", Title: "B", ReleaseDate: date("1995"), Genres: []string{"Comedy", "Drama"}},
			{WikipediaMovieID: "3", Title: "C", ReleaseDate: date("2000-05"), Genres: []string{"Comedy"}},
			{WikipediaMovieID: "4", Title: "D", Genres: nil},
		},
	}
}

func TestMovieTypesGenreCountsAndTies(t *testing.T) {
	c := fixture()
	res, err := MovieTypes(c, 10, FieldGenre)
	if err != nil {
		t.Fatalf("MovieTypes: %v", err)
	}
	want := []CategoryCount{{"Drama", 2}, {"Comedy", 2}, {"War film", 1}}
	if !reflect.DeepEqual(res.Items, want) {
		t.Fatalf("items = %+v, want %+v", res.Items, want)
	}
	if res.Excluded != 1 || res.Included != 3 || res.Total != 5 {
		t.Fatalf("diagnostics = %+v", res)
	}
}

func TestMovieTypesSumMatchesNonMissingRows(t *testing.T) {
	c := fixture()
	for _, f := range []TypeField{FieldMovie, FieldGender, FieldEthnicity} {
		res, err := MovieTypes(c, 100, f)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		sum := 0
		for _, it := range res.Items {
			sum += it.Count
		}
		if sum != res.Included || res.Included+res.Excluded != len(c.Characters) {
			t.Fatalf("%s: sum=%d included=%d excluded=%d", f, sum, res.Included, res.Excluded)
		}
	}
}

func TestMovieTypesTopNAndValidation(t *testing.T) {
	c := fixture()
	res, err := MovieTypes(c, 1, FieldMovie)
	if err != nil {
		t.Fatalf("MovieTypes: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0] != (CategoryCount{"1", 3}) || res.Distinct != 3 {
		t.Fatalf("top-1 = %+v distinct=%d", res.Items, res.Distinct)
	}
	var fe *FilterError
	if _, err := MovieTypes(c, 0, FieldGenre); !errors.As(err, &fe) {
		t.Fatalf("expected FilterError for n=0, got %v", err)
	}
	if _, err := ParseTypeField("budget"); !errors.As(err, &fe) {
		t.Fatalf("expected FilterError for unknown field, got %v", err)
	}
}

func TestActorCounts(t *testing.T) {
	d := ActorCounts(fixture())
	if got := d.Map(); !reflect.DeepEqual(got, map[int]int{1: 2, 3: 1}) {
		t.Fatalf("histogram = %v", got)
	}
	if d.Buckets[0].Key != 1 || d.Buckets[1].Key != 3 {
		t.Fatalf("buckets not ascending: %+v", d.Buckets)
	}
}

func TestHeightsFilterInclusion(t *testing.T) {
	c := fixture()
	cases := []struct {
		name   string
		filter HeightFilter
		want   []float64
	}{
		{"all", HeightFilter{}, []float64{1.62, 1.80, 1.70, 2.50}},
		{"all keyword", HeightFilter{Gender: "All"}, []float64{1.62, 1.80, 1.70, 2.50}},
		{"female", HeightFilter{Gender: "F"}, []float64{1.62, 1.70}},
		{"male lower-case", HeightFilter{Gender: "m"}, []float64{1.80}},
		{"inclusive bounds", HeightFilter{Min: f64(1.62), Max: f64(1.80)}, []float64{1.62, 1.80, 1.70}},
		{"female and range", HeightFilter{Gender: "F", Min: f64(1.65)}, []float64{1.70}},
	}
	for _, tc := range cases {
		s, err := Heights(c, tc.filter)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if !reflect.DeepEqual(s.Values, tc.want) {
			t.Fatalf("%s: values = %v, want %v", tc.name, s.Values, tc.want)
		}
		if s.Excluded != 1 {
			t.Fatalf("%s: missing height should be excluded once, got %d", tc.name, s.Excluded)
		}
		if s.Included+s.Excluded+s.Filtered != len(c.Characters) {
			t.Fatalf("%s: counts do not add up: %+v", tc.name, s)
		}
	}
}

func TestHeightsInvalidFilter(t *testing.T) {
	c := fixture()
	bad := []HeightFilter{
		{Min: f64(-0.1)},
		{Max: f64(3.5)},
		{Min: f64(2), Max: f64(1)},
		{Gender: "X"},
	}
	for _, f := range bad {
		var fe *FilterError
		if _, err := Heights(c, f); !errors.As(err, &fe) {
			t.Fatalf("filter %+v: expected FilterError, got %v", f, err)
		}
	}
}

func TestBinPolicy(t *testing.T) {
	bins := Bin([]float64{0, 0.5, 0.99, 1, 1.5, 2, 2.5}, 0, 2, 4)
	if len(bins) != 4 {
		t.Fatalf("bins = %d", len(bins))
	}
	got := []int{bins[0].Count, bins[1].Count, bins[2].Count, bins[3].Count}
	// [0,0.5) [0.5,1) [1,1.5) [1.5,2]; 2.5 is out of range.
	if !reflect.DeepEqual(got, []int{1, 2, 1, 2}) {
		t.Fatalf("counts = %v", got)
	}
	if bins[0].Mid != 0.25 || bins[3].Hi != 2 {
		t.Fatalf("unexpected edges: %+v", bins)
	}
	if one := Bin([]float64{1.7, 1.7}, 1.7, 1.7, 5); len(one) != 1 || one[0].Count != 2 {
		t.Fatalf("degenerate range: %+v", one)
	}
	if def := Bin(nil, 0, 1, 0); len(def) != DefaultBins {
		t.Fatalf("default bins = %d", len(def))
	}
}

func TestBinEdgesAreLeftClosed(t *testing.T) {
	if bins := Bin([]float64{1.7}, 1.5, 2.0, 5); bins[2].Count != 1 {
		t.Fatalf("1.7 should land in [1.7, 1.8): %+v", bins)
	}
	ranges := []struct {
		lo, hi float64
		n      int
	}{{1.5, 2.0, 5}, {0, 3, 20}, {1.5, 1.9, 8}, {0.3, 2.1, 6}}
	for _, r := range ranges {
		for cm := 0; cm <= 300; cm++ {
			v := float64(cm) / 100
			if v < r.lo || v > r.hi {
				continue
			}
			bins := Bin([]float64{v}, r.lo, r.hi, r.n)
			for i, b := range bins {
				if b.Count == 0 {
					continue
				}
				last := i == len(bins)-1
				if v < b.Lo || v > b.Hi || (!last && v == b.Hi) {
					t.Fatalf("Bin(%v, %v, %v, %d): landed in bin %d [%v, %v)", v, r.lo, r.hi, r.n, i, b.Lo, b.Hi)
				}
			}
		}
	}
}

func TestHeightsDropsImplausibleValues(t *testing.T) {
	c := fixture()
	c.Characters = append(c.Characters, corpus.CharacterRecord{WikipediaMovieID: "3", Height: f64(510)})
	s, err := Heights(c, HeightFilter{})
	if err != nil {
		t.Fatalf("Heights: %v", err)
	}
	if s.Included != 4 || s.Filtered != 1 || s.Stats.Max != 2.50 {
		t.Fatalf("510 m should be filtered: included=%d filtered=%d max=%v", s.Included, s.Filtered, s.Stats.Max)
	}
	lo, hi := HeightFilter{}.Bounds()
	if lo != 0 || hi != MaxHeight {
		t.Fatalf("default bounds = [%v, %v]", lo, hi)
	}
	hist := s.Histogram(4)
	if hist[len(hist)-1].Hi != 2.50 {
		t.Fatalf("histogram should span the plausible values: %+v", hist)
	}
}

func TestReleasesYearTrend(t *testing.T) {
	c := fixture()
	d := Releases(c, "")
	if got := d.Map(); !reflect.DeepEqual(got, map[int]int{1995: 2, 2000: 1}) {
		t.Fatalf("trend = %v", got)
	}
	if d.Excluded != 1 || d.Buckets[0].Key != 1995 {
		t.Fatalf("diagnostics = %+v", d)
	}
	war := Releases(c, "WAR")
	if got := war.Map(); !reflect.DeepEqual(got, map[int]int{1995: 1}) {
		t.Fatalf("war trend = %v", got)
	}
	if war.Filtered != 2 {
		t.Fatalf("filtered = %d, want 2", war.Filtered)
	}
}

func TestReleasesFromCharactersWithoutMetadata(t *testing.T) {
	c := &corpus.Corpus{Characters: []corpus.CharacterRecord{
		{WikipediaMovieID: "a", ReleaseDate: date("1995")},
		{WikipediaMovieID: "a", ReleaseDate: date("1995")},
		{WikipediaMovieID: "b", ReleaseDate: date("1995-02")},
		{WikipediaMovieID: "c", ReleaseDate: date("2000")},
	}}
	if got := Releases(c, "").Map(); !reflect.DeepEqual(got, map[int]int{1995: 2, 2000: 1}) {
		t.Fatalf("trend = %v", got)
	}
}

func TestBirths(t *testing.T) {
	c := fixture()
	years, err := Births(c, ByYear)
	if err != nil {
		t.Fatalf("Births(year): %v", err)
	}
	if got := years.Map(); !reflect.DeepEqual(got, map[int]int{1958: 1, 1960: 2, 1974: 1}) {
		t.Fatalf("years = %v", got)
	}
	months, err := Births(c, ByMonth)
	if err != nil {
		t.Fatalf("Births(month): %v", err)
	}
	if len(months.Buckets) != 12 || months.Buckets[0].Label != "January" {
		t.Fatalf("month buckets = %+v", months.Buckets)
	}
	if months.Buckets[0].Count != 2 || months.Buckets[7].Count != 1 {
		t.Fatalf("january=%d august=%d", months.Buckets[0].Count, months.Buckets[7].Count)
	}
	// year-only and missing dates are excluded from month statistics
	if months.Excluded != 2 || years.Excluded != 1 {
		t.Fatalf("excluded month=%d year=%d", months.Excluded, years.Excluded)
	}
	if _, err := ParseBirthMode("decade"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if m, _ := ParseBirthMode("M"); m != ByMonth {
		t.Fatalf("ParseBirthMode(M) = %q", m)
	}
}

func TestAges(t *testing.T) {
	d := Ages(fixture())
	if got := d.Map(); !reflect.DeepEqual(got, map[int]int{35: 2, 42: 1}) {
		t.Fatalf("ages = %v", got)
	}
	if d.Excluded != 2 {
		t.Fatalf("negative and missing ages should be excluded, got %d", d.Excluded)
	}
}

func TestOperationsAreIdempotent(t *testing.T) {
	c := fixture()
	a, _ := MovieTypes(c, 2, FieldGenre)
	b, _ := MovieTypes(c, 2, FieldGenre)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("MovieTypes drifted: %+v vs %+v", a, b)
	}
	h1, _ := Heights(c, HeightFilter{Gender: "F"})
	h2, _ := Heights(c, HeightFilter{Gender: "F"})
	if !reflect.DeepEqual(h1, h2) {
		t.Fatalf("Heights drifted")
	}
	if !reflect.DeepEqual(Releases(c, "drama"), Releases(c, "drama")) {
		t.Fatalf("Releases drifted")
	}
	if !reflect.DeepEqual(ActorCounts(c), ActorCounts(c)) {
		t.Fatalf("ActorCounts drifted")
	}
}

func TestBuildReportFallsBackOnBadFilter(t *testing.T) {
	opt := DefaultReportOptions()
	opt.Height = HeightFilter{Min: f64(2), Max: f64(1)}
	r, err := BuildReport(fixture(), opt)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if r.Heights.Included != 4 || len(r.Warnings) == 0 {
		t.Fatalf("expected unfiltered heights with a warning: included=%d warnings=%v", r.Heights.Included, r.Warnings)
	}
	md := r.Markdown()
	for _, section := range []string{"[DATASET SUMMARY]", "[TOP GENRE VALUES]", "[HEIGHT DISTRIBUTION]", "[RELEASES PER YEAR]", "[NOTES]"} {
		if !strings.Contains(md, section) {
			t.Fatalf("markdown missing %s:\n%s", section, md)
		}
	}
}

