package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/KaramelBytes/moviecorpus-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	heightsGender string
	heightsMin    float64
	heightsMax    float64
	heightsBins   int
)

var heightsCmd = &cobra.Command{
	Use:   "heights",
	Short: "Show the distribution of actor heights (meters)",
	Example: `  moviecorpus heights
  moviecorpus heights --gender F --min 1.5 --max 1.9 --bins 8`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(outputFormat); err != nil {
			return err
		}
		filter := analysis.HeightFilter{Gender: heightsGender}
		if cmd.Flags().Changed("min") {
			filter.Min = analysis.Meters(heightsMin)
		}
		if cmd.Flags().Changed("max") {
			filter.Max = analysis.Meters(heightsMax)
		}
		bins := heightsBins
		if !cmd.Flags().Changed("bins") && cfg != nil {
			bins = cfg.HeightBins
		}

		c, err := openCorpus(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		s, err := analysis.Heights(c, filter)
		var fe *analysis.FilterError
		if errors.As(err, &fe) {
			warnf(cmd.ErrOrStderr(), "%v; showing all heights", fe)
			s, err = analysis.Heights(c, analysis.HeightFilter{})
		}
		if err != nil {
			return err
		}
		hist := s.Histogram(bins)

		colorize := outputFormat == "table" && shouldColorize(out)
		peak := 0
		for _, b := range hist {
			if b.Count > peak {
				peak = b.Count
			}
		}
		rows := make([][]string, 0, len(hist))
		for _, b := range hist {
			rows = append(rows, []string{
				fmt.Sprintf("%.3f-%.3f", b.Lo, b.Hi),
				fmt.Sprintf("%.3f", b.Mid),
				strconv.Itoa(b.Count),
				bar(b.Count, peak, colorize),
			})
		}
		st := s.Stats
		return render(out, view{
			title:   heightsTitle(s.Filter),
			headers: []string{"Range (m)", "Mid", "Count", ""},
			rows:    rows,
			aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
			data: struct {
				analysis.HeightSummary
				Bins []analysis.HistogramBin `json:"bins"`
			}{s, hist},
			notes: []string{
				fmt.Sprintf("n=%d mean=%.3f std=%.3f median=%.3f min=%.3f max=%.3f", st.Count, st.Mean, st.Std, st.Median, st.Min, st.Max),
				exclusionNote(s.Included, s.Excluded, s.Filtered),
			},
		})
	},
}

func heightsTitle(f analysis.HeightFilter) string {
	title := "Actor heights"
	if f.Gender != "" && f.Gender != "All" {
		title += " (gender " + f.Gender + ")"
	}
	if f.Min != nil || f.Max != nil {
		lo, hi := "*", "*"
		if f.Min != nil {
			lo = fmt.Sprintf("%.2f", *f.Min)
		}
		if f.Max != nil {
			hi = fmt.Sprintf("%.2f", *f.Max)
		}
		title += fmt.Sprintf(" in [%s, %s] m", lo, hi)
	}
	return title
}

func init() {
	rootCmd.AddCommand(heightsCmd)
	heightsCmd.Flags().StringVar(&heightsGender, "gender", "All", "gender filter: All|M|F")
	heightsCmd.Flags().Float64Var(&heightsMin, "min", 0, "minimum height in meters (inclusive)")
	heightsCmd.Flags().Float64Var(&heightsMax, "max", analysis.MaxHeight, "maximum height in meters (inclusive)")
	heightsCmd.Flags().IntVar(&heightsBins, "bins", analysis.DefaultBins, "number of histogram bins (defaults to config height_bins)")
}
