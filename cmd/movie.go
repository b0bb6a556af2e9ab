package cmd

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/KaramelBytes/moviecorpus-cli/internal/corpus"
	"github.com/KaramelBytes/moviecorpus-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	movieRandom bool
	movieSeed   int64
)

var movieCmd = &cobra.Command{
	Use:   "movie [wikipedia-id]",
	Short: "Show a movie's title, genres and plot summary",
	Example: `  moviecorpus movie 975900
  moviecorpus movie --random`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(outputFormat); err != nil {
			return err
		}
		c, err := openCorpus(cmd)
		if err != nil {
			return err
		}
		d, err := pickMovie(c, args, movieRandom, movieSeed)
		if err != nil {
			return err
		}
		return printDetails(cmd.OutOrStdout(), d)
	},
}

// pickMovie resolves a movie from an explicit ID or picks a random one with a summary.
func pickMovie(c *corpus.Corpus, args []string, random bool, seed int64) (corpus.Details, error) {
	if len(args) == 0 && !random {
		return corpus.Details{}, errors.New("provide a wikipedia movie id or --random")
	}
	if random {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		m, ok := c.RandomMovie(rand.New(rand.NewSource(seed)))
		if !ok {
			return corpus.Details{}, errors.New("no movies with plot summaries loaded")
		}
		d, _ := c.MovieDetails(m.WikipediaMovieID)
		return d, nil
	}
	d, ok := c.MovieDetails(args[0])
	if !ok {
		return d, fmt.Errorf("movie %s not found", args[0])
	}
	return d, nil
}

func printDetails(w io.Writer, d corpus.Details) error {
	switch outputFormat {
	case "json":
		b, err := utils.PrettyJSON(d)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(b))
	case "markdown", "md":
		fmt.Fprintf(w, "## %s\n\n", d.Title)
		fmt.Fprintf(w, "- ID: %s\n", d.ID)
		if d.Year > 0 {
			fmt.Fprintf(w, "- Year: %d\n", d.Year)
		}
		fmt.Fprintf(w, "- Genres: %s\n\n%s\n", genreList(d.Genres), d.Summary)
	default:
		fmt.Fprintf(w, "Title:   %s\n", d.Title)
		fmt.Fprintf(w, "ID:      %s\n", d.ID)
		if d.Year > 0 {
			fmt.Fprintf(w, "Year:    %d\n", d.Year)
		}
		fmt.Fprintf(w, "Genres:  %s\n\n%s\n", genreList(d.Genres), d.Summary)
	}
	return nil
}

func genreList(genres []string) string {
	if len(genres) == 0 {
		return "No genres available"
	}
	return strings.Join(genres, ", ")
}

func init() {
	rootCmd.AddCommand(movieCmd)
	movieCmd.Flags().BoolVar(&movieRandom, "random", false, "pick a random movie that has a plot summary")
	movieCmd.Flags().Int64Var(&movieSeed, "seed", 0, "random seed for --random (0 = time based)")
}
