package cmd

import (
	"github.com/KaramelBytes/moviecorpus-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var actorsCmd = &cobra.Command{
	Use:   "actors",
	Short: "Show how many movies have each number of credited characters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(outputFormat); err != nil {
			return err
		}
		c, err := openCorpus(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		d := analysis.ActorCounts(c)
		return render(out, distributionView(out, "Movies by number of credited characters", "Characters", d))
	},
}

func init() {
	rootCmd.AddCommand(actorsCmd)
}
