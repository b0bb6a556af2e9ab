package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/KaramelBytes/moviecorpus-cli/internal/ai"
	"github.com/KaramelBytes/moviecorpus-cli/internal/classify"
	"github.com/KaramelBytes/moviecorpus-cli/internal/corpus"
	"github.com/KaramelBytes/moviecorpus-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	clsMovieID    string
	clsRandom     bool
	clsSeed       int64
	clsSummary    string
	clsModel      string
	clsProvider   string
	clsOllamaHost string
	clsTimeoutSec int
)

// classifyOutput is the --format json shape of the classify command.
type classifyOutput struct {
	Movie      corpus.Details      `json:"movie"`
	Provider   string              `json:"provider"`
	Result     classify.Result     `json:"result"`
	Comparison classify.Comparison `json:"comparison"`
	Error      string              `json:"error,omitempty"`
	Hint       string              `json:"hint,omitempty"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Ask a language model for a movie's genres and compare with the stored ones",
	Example: `  moviecorpus classify --random
  moviecorpus classify --movie-id 975900 --model llama3:8b
  moviecorpus classify --summary "A gripping war drama set in 1917."`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(outputFormat); err != nil {
			return err
		}
		c, err := requireConfig()
		if err != nil {
			return err
		}

		var d corpus.Details
		if strings.TrimSpace(clsSummary) != "" {
			d = corpus.Details{ID: "-", Title: "Custom summary", Summary: clsSummary, Genres: []string{}}
		} else {
			sess, err := openCorpus(cmd)
			if err != nil {
				return err
			}
			var ids []string
			if clsMovieID != "" {
				ids = []string{clsMovieID}
			}
			if d, err = pickMovie(sess, ids, clsRandom || clsMovieID == "", clsSeed); err != nil {
				return err
			}
		}

		rt, provider, err := buildRuntime(c, runtimeOptions{ProviderFlag: clsProvider, OllamaHost: clsOllamaHost})
		if err != nil {
			return err
		}
		model := clsModel
		if model == "" {
			model = c.Model
		}
		timeout := time.Duration(c.ClassifyTimeoutSec) * time.Second
		if clsTimeoutSec > 0 {
			timeout = time.Duration(clsTimeoutSec) * time.Second
		}
		classifier := classify.New(rt, classify.Options{
			Model:             model,
			Temperature:       c.Temperature,
			Timeout:           timeout,
			SummaryTokenLimit: c.SummaryTokenLimit,
		})

		res := classifier.Classify(cmd.Context(), d.Summary)
		out := classifyOutput{
			Movie:      d,
			Provider:   provider,
			Result:     res,
			Comparison: classifier.Vocabulary().Compare(res.Labels, d.Genres),
		}
		if res.Err != nil {
			out.Error = res.Err.Error()
			out.Hint = ai.Hint(res.Err, provider, model)
		}
		return printClassification(cmd.OutOrStdout(), cmd.ErrOrStderr(), out)
	},
}

func printClassification(w, errw io.Writer, o classifyOutput) error {
	if outputFormat == "json" {
		b, err := utils.PrettyJSON(o)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(b))
		return nil
	}
	if o.Error != "" {
		warnf(errw, "Classification failed: %s", o.Error)
		if o.Hint != "" {
			fmt.Fprintf(errw, "  Hint: %s\n", o.Hint)
		}
	}
	llm := make([]string, 0, len(o.Result.Labels))
	for _, l := range o.Result.Labels {
		llm = append(llm, classify.Display(l))
	}
	llmText := classify.Unclassified
	if len(llm) > 0 {
		llmText = strings.Join(llm, ", ")
	}
	shared := make([]string, 0, len(o.Comparison.Shared))
	for _, s := range o.Comparison.Shared {
		shared = append(shared, classify.Display(s))
	}
	rows := [][]string{
		{"Movie", fmt.Sprintf("%s (%s)", o.Movie.Title, o.Movie.ID)},
		{"Database genres", genreList(o.Movie.Genres)},
		{"LLM genres", llmText},
		{"Outcome", o.Result.Outcome.String()},
		{"Verdict", strings.ToUpper(o.Comparison.Verdict.String())},
		{"Shared", strings.Join(shared, ", ")},
		{"Model", fmt.Sprintf("%s via %s (%s)", o.Result.Model, o.Provider, o.Result.Elapsed.Round(time.Millisecond))},
	}
	return render(w, view{
		title:   "Genre classification",
		headers: []string{"Field", "Value"},
		rows:    rows,
		data:    o,
	})
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().StringVar(&clsMovieID, "movie-id", "", "wikipedia movie id to classify")
	classifyCmd.Flags().BoolVar(&clsRandom, "random", false, "classify a random movie with a plot summary (default when no id is given)")
	classifyCmd.Flags().Int64Var(&clsSeed, "seed", 0, "random seed for --random (0 = time based)")
	classifyCmd.Flags().StringVar(&clsSummary, "summary", "", "classify this text instead of a corpus movie")
	classifyCmd.Flags().StringVar(&clsModel, "model", "", "model name (defaults to config model)")
	classifyCmd.Flags().StringVar(&clsProvider, "provider", "", "runtime provider: ollama|openrouter (defaults to config default_provider)")
	classifyCmd.Flags().StringVar(&clsOllamaHost, "ollama-host", "", "Ollama base URL (defaults to config ollama_host)")
	classifyCmd.Flags().IntVar(&clsTimeoutSec, "timeout", 0, "classification timeout in seconds (defaults to config classify_timeout_sec)")
}
