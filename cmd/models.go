package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/KaramelBytes/moviecorpus-cli/internal/ai"
	"github.com/spf13/cobra"
)

var modelsOllamaHost string

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models installed in the local Ollama runtime",
	Example: `  moviecorpus models
  moviecorpus models --ollama-host http://gpu-box:11434`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(outputFormat); err != nil {
			return err
		}
		c, err := requireConfig()
		if err != nil {
			return err
		}
		rt, provider, err := buildRuntime(c, runtimeOptions{ProviderFlag: ai.ProviderOllama, OllamaHost: modelsOllamaHost})
		if err != nil {
			return err
		}
		lister, ok := rt.(ai.ModelLister)
		if !ok {
			return fmt.Errorf("provider %s cannot list models", provider)
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		names, err := lister.Models(ctx)
		if err != nil {
			if hint := ai.Hint(err, provider, c.Model); hint != "" {
				return fmt.Errorf("%w\n  Hint: %s", err, hint)
			}
			return err
		}

		rows := make([][]string, 0, len(names))
		found := false
		for _, n := range names {
			mark := ""
			if n == c.Model {
				mark = "✓"
				found = true
			}
			rows = append(rows, []string{n, mark})
		}
		var notes []string
		if !found {
			notes = append(notes, fmt.Sprintf("⚠ configured model %q is not installed; run 'ollama pull %s'", c.Model, c.Model))
		}
		return render(cmd.OutOrStdout(), view{
			title:   fmt.Sprintf("%d models installed", len(names)),
			headers: []string{"Model", "Configured"},
			rows:    rows,
			data:    names,
			notes:   notes,
		})
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.Flags().StringVar(&modelsOllamaHost, "ollama-host", "", "Ollama base URL (defaults to config ollama_host)")
}
