package cmd

import (
	"errors"

	"github.com/KaramelBytes/moviecorpus-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var birthsMode string

var birthsCmd = &cobra.Command{
	Use:   "births",
	Short: "Show actor births per year or per calendar month",
	Example: `  moviecorpus births
  moviecorpus births --by month`,
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
		mode, err := analysis.ParseBirthMode(birthsMode)
		var fe *analysis.FilterError
		if errors.As(err, &fe) {
			warnf(cmd.ErrOrStderr(), "%v; showing births per year", fe)
			mode, err = analysis.ByYear, nil
		}
		if err != nil {
			return err
		}
		d, err := analysis.Births(c, mode)
		if err != nil {
			return err
		}
		title, key := "Actor births per year", "Year"
		if mode == analysis.ByMonth {
			title, key = "Actor births per month", "Month"
		}
		return render(out, distributionView(out, title, key, d))
	},
}

func init() {
	rootCmd.AddCommand(birthsCmd)
	birthsCmd.Flags().StringVar(&birthsMode, "by", "year", "granularity: year|month")
}
