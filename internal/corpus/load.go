package corpus

import (
	"context"
	"errors"
	"io/fs"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/KaramelBytes/moviecorpus-cli/internal/logging"
)

// Source file names inside the data directory.
const (
	CharacterFile = "character.metadata.tsv"
	MovieFile     = "movie.metadata.tsv"
	SummaryFile   = "plot_summaries.txt"
)

// Fetcher makes the dataset files available in dir.
type Fetcher interface {
	Ensure(ctx context.Context, dir string) error
}

// Options controls Load.
type Options struct {
	// Dir holds the three source files.
	Dir string
	// Fetcher is consulted when the character file is missing. Nil disables downloads.
	Fetcher Fetcher
}

// LoadStats collects per-file diagnostics.
type LoadStats struct {
	Characters FileStats `json:"characters"`
	Movies     FileStats `json:"movies"`
	Summaries  FileStats `json:"summaries"`
}

// Corpus is a loaded dataset session. Records are read-only once Load returns.
type Corpus struct {
	ID         uuid.UUID
	Dir        string
	LoadedAt   time.Time
	Characters []CharacterRecord
	Movies     []MovieRecord
	Stats      LoadStats

	movieIdx map[string]int
}

// Load reads the dataset in opts.Dir. The character file is required; the
// movie metadata and plot summary files are optional.
func Load(ctx context.Context, opts Options) (*Corpus, error) {
	if opts.Dir == "" {
		return nil, &DataLoadError{Err: errors.New("data directory not set")}
	}
	charPath := filepath.Join(opts.Dir, CharacterFile)
	if _, err := os.Stat(charPath); errors.Is(err, fs.ErrNotExist) && opts.Fetcher != nil {
		logging.Info().Str("dir", opts.Dir).Msg("dataset not found locally, fetching")
		if err := opts.Fetcher.Ensure(ctx, opts.Dir); err != nil {
			return nil, &DataLoadError{Path: charPath, Err: err}
		}
	}

	c := &Corpus{
		ID:       uuid.New(),
		Dir:      opts.Dir,
		LoadedAt: time.Now(),
		movieIdx: map[string]int{},
	}
	start := time.Now()
	if err := c.loadCharacters(charPath); err != nil {
		return nil, err
	}
	if err := c.loadMovies(filepath.Join(opts.Dir, MovieFile)); err != nil {
		return nil, err
	}
	if err := c.loadSummaries(filepath.Join(opts.Dir, SummaryFile)); err != nil {
		return nil, err
	}
	logging.Debug().
		Str("session", c.ID.String()).
		Int("characters", len(c.Characters)).
		Int("movies", len(c.Movies)).
		Int("malformed", c.Stats.Characters.Malformed+c.Stats.Movies.Malformed+c.Stats.Summaries.Malformed).
		Dur("elapsed", time.Since(start)).
		Msg("corpus loaded")
	return c, nil
}

func (c *Corpus) loadCharacters(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &DataLoadError{Path: path, Err: err}
	}
	defer f.Close()
	st := &c.Stats.Characters
	st.Path = path
	return readRows(f, path, CharacterColumns, false, st, func(fields []string) {
		c.Characters = append(c.Characters, parseCharacter(fields, st))
	})
}

func parseCharacter(f []string, st *FileStats) CharacterRecord {
	rec := CharacterRecord{
		WikipediaMovieID:  strings.TrimSpace(f[0]),
		FreebaseMovieID:   strings.TrimSpace(f[1]),
		CharacterName:     strings.TrimSpace(f[3]),
		Gender:            ParseGender(f[5]),
		Ethnicity:         strings.TrimSpace(f[7]),
		ActorName:         strings.TrimSpace(f[8]),
		FreebaseCharActor: strings.TrimSpace(f[10]),
		FreebaseCharacter: strings.TrimSpace(f[11]),
		FreebaseActorID:   strings.TrimSpace(f[12]),
	}
	var ok bool
	if rec.ReleaseDate, ok = ParsePartialDate(f[2]); !ok {
		st.missing("release_date")
	}
	if rec.ActorDOB, ok = ParsePartialDate(f[4]); !ok {
		st.missing("actor_dob")
	}
	if rec.Gender == GenderUnknown {
		st.missing("actor_gender")
	}
	if h, ok := parsePositiveFloat(f[6]); ok {
		rec.Height = &h
	} else {
		st.missing("actor_height")
	}
	if a, ok := parseInt(f[9]); ok {
		rec.AgeAtRelease = &a
	} else {
		st.missing("actor_age_at_release")
	}
	return rec
}

func (c *Corpus) loadMovies(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Str("path", path).Msg("movie metadata not found; genre, release and detail views will be empty")
		return nil
	}
	if err != nil {
		return &DataLoadError{Path: path, Err: err}
	}
	defer f.Close()
	st := &c.Stats.Movies
	st.Path = path
	return readRows(f, path, MovieColumns, false, st, func(fields []string) {
		m := parseMovie(fields, st)
		if _, dup := c.movieIdx[m.WikipediaMovieID]; dup {
			st.Malformed++
			return
		}
		c.movieIdx[m.WikipediaMovieID] = len(c.Movies)
		c.Movies = append(c.Movies, m)
	})
}

func parseMovie(f []string, st *FileStats) MovieRecord {
	m := MovieRecord{
		WikipediaMovieID: strings.TrimSpace(f[0]),
		FreebaseMovieID:  strings.TrimSpace(f[1]),
		Title:            strings.TrimSpace(f[2]),
	}
	var ok bool
	if m.ReleaseDate, ok = ParsePartialDate(f[3]); !ok {
		st.missing("movie_release_date")
	}
	if v, ok := parsePositiveFloat(f[4]); ok {
		m.BoxOffice = &v
	} else {
		st.missing("box_office")
	}
	if v, ok := parsePositiveFloat(f[5]); ok {
		m.Runtime = &v
	} else {
		st.missing("runtime")
	}
	if m.Languages, ok = parseLabelSet(f[6]); !ok {
		st.missing("languages")
	}
	if m.Countries, ok = parseLabelSet(f[7]); !ok {
		st.missing("countries")
	}
	if m.Genres, ok = parseLabelSet(f[8]); !ok {
		st.missing("genres")
	}
	return m
}

func (c *Corpus) loadSummaries(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Str("path", path).Msg("plot summaries not found; classification will have no input")
		return nil
	}
	if err != nil {
		return &DataLoadError{Path: path, Err: err}
	}
	defer f.Close()
	st := &c.Stats.Summaries
	st.Path = path
	return readRows(f, path, SummaryColumns, true, st, func(fields []string) {
		id := strings.TrimSpace(fields[0])
		i, ok := c.movieIdx[id]
		if !ok {
			// Summaries without metadata still get a record so they can be classified.
			c.movieIdx[id] = len(c.Movies)
			c.Movies = append(c.Movies, MovieRecord{WikipediaMovieID: id, Summary: strings.TrimSpace(fields[1])})
			return
		}
		c.Movies[i].Summary = strings.TrimSpace(fields[1])
	})
}

// parseLabelSet decodes a Freebase {"id": "label"} object into sorted labels.
// An empty object is valid and yields no labels.
func parseLabelSet(s string) ([]string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(m))
	for _, v := range m {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out, true
}

func parsePositiveFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseInt accepts integers and integral floats such as "42.0".
func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != float64(int(v)) {
		return 0, false
	}
	return int(v), true
}

// Movie returns the movie with the given Wikipedia ID.
func (c *Corpus) Movie(id string) (MovieRecord, bool) {
	i, ok := c.movieIdx[strings.TrimSpace(id)]
	if !ok {
		return MovieRecord{}, false
	}
	return c.Movies[i], true
}

// RandomMovie picks a movie that has a plot summary.
func (c *Corpus) RandomMovie(rng *rand.Rand) (MovieRecord, bool) {
	candidates := make([]int, 0, len(c.Movies))
	for i, m := range c.Movies {
		if m.Summary != "" {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return MovieRecord{}, false
	}
	return c.Movies[candidates[rng.Intn(len(candidates))]], true
}

// Details is the display view of a movie with placeholders for missing text.
type Details struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Genres  []string `json:"genres"`
	Year    int      `json:"year,omitempty"`
}

// MovieDetails returns display details for id. Unknown IDs still yield a
// Details value with placeholders, and ok=false.
func (c *Corpus) MovieDetails(id string) (Details, bool) {
	m, ok := c.Movie(id)
	d := Details{ID: strings.TrimSpace(id), Title: "Unknown Title", Summary: "Summary not available", Genres: []string{}}
	if !ok {
		return d, false
	}
	if m.Title != "" {
		d.Title = m.Title
	}
	if m.Summary != "" {
		d.Summary = m.Summary
	}
	if len(m.Genres) > 0 {
		d.Genres = m.Genres
	}
	if m.ReleaseDate.Valid() {
		d.Year = m.ReleaseDate.Year
	}
	return d, true
}
