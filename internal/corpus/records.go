package corpus

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Precision records how much of a PartialDate was present in the source.
type Precision int

const (
	PrecisionNone Precision = iota
	PrecisionYear
	PrecisionMonth
	PrecisionDay
)

// PartialDate is a calendar date that may carry only a year or a year and month.
// The zero value is a missing date.
type PartialDate struct {
	Year      int
	Month     time.Month
	Day       int
	Precision Precision
}

// Valid reports whether at least the year is known.
func (d PartialDate) Valid() bool { return d.Precision >= PrecisionYear }

// HasMonth reports whether the month is known.
func (d PartialDate) HasMonth() bool { return d.Precision >= PrecisionMonth }

func (d PartialDate) String() string {
	switch d.Precision {
	case PrecisionYear:
		return fmt.Sprintf("%04d", d.Year)
	case PrecisionMonth:
		return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
	case PrecisionDay:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
	default:
		return ""
	}
}

// ParsePartialDate accepts YYYY, YYYY-MM and YYYY-MM-DD. Anything after a 'T'
// (a time component) is ignored. ok is false for empty or malformed input.
func ParsePartialDate(s string) (PartialDate, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return PartialDate{}, false
	}
	parts := strings.Split(s, "-")
	if len(parts) > 3 || len(parts[0]) != 4 {
		return PartialDate{}, false
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return PartialDate{}, false
		}
		nums[i] = n
	}
	d := PartialDate{Year: nums[0], Precision: PrecisionYear}
	if len(nums) >= 2 {
		if nums[1] < 1 || nums[1] > 12 {
			return PartialDate{}, false
		}
		d.Month = time.Month(nums[1])
		d.Precision = PrecisionMonth
	}
	if len(nums) == 3 {
		t := time.Date(d.Year, d.Month, nums[2], 0, 0, 0, 0, time.UTC)
		if nums[2] < 1 || t.Day() != nums[2] {
			return PartialDate{}, false
		}
		d.Day = nums[2]
		d.Precision = PrecisionDay
	}
	return d, true
}

// Gender of an actor as recorded in the corpus.
type Gender string

const (
	GenderMale    Gender = "M"
	GenderFemale  Gender = "F"
	GenderUnknown Gender = ""
)

// ParseGender maps M/F (case-insensitive) and treats anything else as unknown.
func ParseGender(s string) Gender {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M":
		return GenderMale
	case "F":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// CharacterRecord is one row of character.metadata.tsv.
// Optional numeric fields are nil when absent or unparseable.
type CharacterRecord struct {
	WikipediaMovieID  string      `json:"wikipedia_movie_id"`
	FreebaseMovieID   string      `json:"freebase_movie_id"`
	ReleaseDate       PartialDate `json:"-"`
	CharacterName     string      `json:"character_name,omitempty"`
	ActorDOB          PartialDate `json:"-"`
	Gender            Gender      `json:"actor_gender,omitempty"`
	Height            *float64    `json:"actor_height,omitempty"`
	Ethnicity         string      `json:"actor_ethnicity,omitempty"`
	ActorName         string      `json:"actor_name,omitempty"`
	AgeAtRelease      *int        `json:"actor_age_at_release,omitempty"`
	FreebaseCharActor string      `json:"freebase_char_actor_map_id,omitempty"`
	FreebaseCharacter string      `json:"freebase_character_id,omitempty"`
	FreebaseActorID   string      `json:"freebase_actor_id,omitempty"`
}

// MovieRecord joins movie.metadata.tsv with plot_summaries.txt.
type MovieRecord struct {
	WikipediaMovieID string      `json:"wikipedia_movie_id"`
	FreebaseMovieID  string      `json:"freebase_movie_id"`
	Title            string      `json:"title"`
	ReleaseDate      PartialDate `json:"-"`
	BoxOffice        *float64    `json:"box_office,omitempty"`
	Runtime          *float64    `json:"runtime,omitempty"`
	Languages        []string    `json:"languages,omitempty"`
	Countries        []string    `json:"countries,omitempty"`
	Genres           []string    `json:"genres,omitempty"`
	Summary          string      `json:"summary,omitempty"`
}

// CharacterColumns lists the character.metadata.tsv columns in file order.
var CharacterColumns = []string{
	"wikipedia_movie_id", "freebase_movie_id", "release_date", "character_name",
	"actor_dob", "actor_gender", "actor_height", "actor_ethnicity",
	"actor_name", "actor_age_at_release", "freebase_char_actor_map_id",
	"freebase_character_id", "freebase_actor_id",
}

// MovieColumns lists the movie.metadata.tsv columns in file order.
var MovieColumns = []string{
	"wikipedia_movie_id", "freebase_movie_id", "movie_name", "movie_release_date",
	"box_office", "runtime", "languages", "countries", "genres",
}

// SummaryColumns lists the plot_summaries.txt columns.
var SummaryColumns = []string{"wikipedia_movie_id", "summary"}
