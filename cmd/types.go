package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/KaramelBytes/moviecorpus-cli/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	typesTopN  int
	typesField string
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Show the most frequent values of a categorical field",
	Example: `  moviecorpus types -n 10
  moviecorpus types --by movie -n 5
  moviecorpus types --by ethnicity --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(outputFormat); err != nil {
			return err
		}
		field, err := analysis.ParseTypeField(typesField)
		if err != nil {
			warnf(cmd.ErrOrStderr(), "%v; counting genres", err)
			field = analysis.FieldGenre
		}
		n := typesTopN
		if !cmd.Flags().Changed("top") && cfg != nil {
			n = cfg.TopN
		}
		c, err := openCorpus(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		freq, err := analysis.MovieTypes(c, n, field)
		var fe *analysis.FilterError
		if errors.As(err, &fe) {
			warnf(cmd.ErrOrStderr(), "%v; showing the default top %d", fe, analysis.DefaultReportOptions().TopN)
			freq, err = analysis.MovieTypes(c, analysis.DefaultReportOptions().TopN, field)
		}
		if err != nil {
			return err
		}

		colorize := outputFormat == "table" && shouldColorize(out)
		peak := 0
		if len(freq.Items) > 0 {
			peak = freq.Items[0].Count
		}
		rows := make([][]string, 0, len(freq.Items))
		for i, it := range freq.Items {
			rows = append(rows, []string{strconv.Itoa(i + 1), it.Value, strconv.Itoa(it.Count), bar(it.Count, peak, colorize)})
		}
		return render(out, view{
			title:   fmt.Sprintf("Top %d %s values (%d distinct, %d observations)", len(freq.Items), freq.Field, freq.Distinct, freq.Total),
			headers: []string{"#", string(freq.Field), "Count", ""},
			rows:    rows,
			aligns:  []columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
			data:    freq,
			notes:   []string{exclusionNote(freq.Included, freq.Excluded, 0)},
		})
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
	typesCmd.Flags().IntVarP(&typesTopN, "top", "n", 10, "number of values to show (defaults to config top_n)")
	typesCmd.Flags().StringVar(&typesField, "by", string(analysis.FieldGenre), "field to count: genre|movie|gender|ethnicity|language|country")
}
