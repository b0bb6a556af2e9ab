package cmd

import (
	"fmt"

	"github.com/KaramelBytes/moviecorpus-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var releasesGenre string

var releasesCmd = &cobra.Command{
	Use:   "releases",
	Short: "Show the number of movies released per year",
	Example: `  moviecorpus releases
  moviecorpus releases --genre comedy`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(outputFormat); err != nil {
			return err
		}
		c, err := openCorpus(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		d := analysis.Releases(c, releasesGenre)
		title := "Movie releases per year"
		if releasesGenre != "" {
			title = fmt.Sprintf("%s (%s)", title, releasesGenre)
			if len(d.Buckets) == 0 {
				warnf(cmd.ErrOrStderr(), "no movies found for genre %q", releasesGenre)
			}
		}
		return render(out, distributionView(out, title, "Year", d))
	},
}

func init() {
	rootCmd.AddCommand(releasesCmd)
	releasesCmd.Flags().StringVar(&releasesGenre, "genre", "", "only count movies whose genres contain this text (case-insensitive)")
}
