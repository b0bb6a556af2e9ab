package cmd

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/moviecorpus-cli/internal/analysis"
	"github.com/KaramelBytes/moviecorpus-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	repOutputPath string
	repTopN       int
	repField      string
	repGenre      string
	repGender     string
	repMin        float64
	repMax        float64
	repBins       int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a Markdown report with every statistic over the corpus",
	Example: `  moviecorpus report
  moviecorpus report -o corpus.md --by ethnicity --genre drama
  moviecorpus report --format json -o report.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(outputFormat); err != nil {
			return err
		}
		opt := analysis.DefaultReportOptions()
		if field, err := analysis.ParseTypeField(repField); err != nil {
			warnf(cmd.ErrOrStderr(), "%v; counting genres", err)
		} else {
			opt.Field = field
		}
		opt.Genre = repGenre
		opt.Height.Gender = repGender
		if cmd.Flags().Changed("min") {
			opt.Height.Min = analysis.Meters(repMin)
		}
		if cmd.Flags().Changed("max") {
			opt.Height.Max = analysis.Meters(repMax)
		}
		opt.TopN = repTopN
		opt.Bins = repBins
		if cfg != nil {
			if !cmd.Flags().Changed("top") {
				opt.TopN = cfg.TopN
			}
			if !cmd.Flags().Changed("bins") {
				opt.Bins = cfg.HeightBins
			}
		}

		c, err := openCorpus(cmd)
		if err != nil {
			return err
		}
		rep, err := analysis.BuildReport(c, opt)
		var fe *analysis.FilterError
		if errors.As(err, &fe) {
			warnf(cmd.ErrOrStderr(), "%v; using report defaults", fe)
			rep, err = analysis.BuildReport(c, analysis.DefaultReportOptions())
		}
		if err != nil {
			return err
		}
		for _, w := range rep.Warnings {
			warnf(cmd.ErrOrStderr(), "%s", w)
		}

		var body []byte
		if outputFormat == "json" {
			if body, err = utils.PrettyJSON(rep); err != nil {
				return err
			}
		} else {
			body = []byte(rep.Markdown())
		}

		if repOutputPath != "" {
			if err := utils.SafeWriteFile(repOutputPath, body); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", repOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(body))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&repOutputPath, "output", "o", "", "optional path to write the report")
	reportCmd.Flags().IntVarP(&repTopN, "top", "n", 10, "number of values in the frequency section (defaults to config top_n)")
	reportCmd.Flags().StringVar(&repField, "by", string(analysis.FieldGenre), "field for the frequency section: genre|movie|gender|ethnicity|language|country")
	reportCmd.Flags().StringVar(&repGenre, "genre", "", "genre filter for the release trend")
	reportCmd.Flags().StringVar(&repGender, "gender", "All", "gender filter for heights: All|M|F")
	reportCmd.Flags().Float64Var(&repMin, "min", 0, "minimum height in meters")
	reportCmd.Flags().Float64Var(&repMax, "max", analysis.MaxHeight, "maximum height in meters")
	reportCmd.Flags().IntVar(&repBins, "bins", analysis.DefaultBins, "number of height histogram bins (defaults to config height_bins)")
}
