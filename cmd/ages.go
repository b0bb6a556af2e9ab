package cmd

import (
	"github.com/KaramelBytes/moviecorpus-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var agesCmd = &cobra.Command{
	Use:   "ages",
	Short: "Show actor ages at movie release",
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
		return render(out, distributionView(out, "Actor age at release", "Age", analysis.Ages(c)))
	},
}

func init() {
	rootCmd.AddCommand(agesCmd)
}
