package cmd

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/moviecorpus-cli/internal/ai"
	cfgpkg "github.com/KaramelBytes/moviecorpus-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set moviecorpus configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(w, "No config loaded")
			return nil
		}
		fmt.Fprintf(w, "data_dir: %s\n", cfg.DataDir)
		fmt.Fprintf(w, "dataset_url: %s\n", cfg.DatasetURL)
		fmt.Fprintf(w, "default_provider: %s\n", cfg.DefaultProvider)
		fmt.Fprintf(w, "api_key: %s\n", mask(cfg.APIKey))
		fmt.Fprintf(w, "model: %s\n", cfg.Model)
		fmt.Fprintf(w, "temperature: %.3f\n", cfg.Temperature)
		fmt.Fprintf(w, "ollama_host: %s\n", cfg.OllamaHost)
		fmt.Fprintf(w, "ollama_timeout_sec: %d\n", cfg.OllamaTimeoutSec)
		fmt.Fprintf(w, "classify_timeout_sec: %d\n", cfg.ClassifyTimeoutSec)
		fmt.Fprintf(w, "summary_token_limit: %d\n", cfg.SummaryTokenLimit)
		fmt.Fprintf(w, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Fprintf(w, "retry_max_attempts: %d\n", cfg.RetryMaxAttempts)
		fmt.Fprintf(w, "retry_base_delay_ms: %d\n", cfg.RetryBaseDelayMs)
		fmt.Fprintf(w, "retry_max_delay_ms: %d\n", cfg.RetryMaxDelayMs)
		fmt.Fprintf(w, "height_bins: %d\n", cfg.HeightBins)
		fmt.Fprintf(w, "top_n: %d\n", cfg.TopN)
		fmt.Fprintf(w, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(w, "log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		next := *cfg
		intVal := func(dst *int) error {
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			*dst = i
			return nil
		}
		var err error
		switch key {
		case "data_dir":
			next.DataDir = val
		case "dataset_url":
			next.DatasetURL = val
		case "default_provider":
			switch p := ai.NormalizeProvider(val); p {
			case ai.ProviderOllama, ai.ProviderOpenRouter:
				next.DefaultProvider = p
			default:
				return fmt.Errorf("invalid default_provider: %s (use ollama or openrouter)", val)
			}
		case "api_key":
			next.APIKey = val
		case "model":
			next.Model = val
		case "temperature":
			f, perr := strconv.ParseFloat(val, 64)
			if perr != nil {
				return fmt.Errorf("invalid float for temperature: %w", perr)
			}
			next.Temperature = f
		case "ollama_host":
			next.OllamaHost = val
		case "ollama_timeout_sec":
			err = intVal(&next.OllamaTimeoutSec)
		case "classify_timeout_sec":
			err = intVal(&next.ClassifyTimeoutSec)
		case "summary_token_limit":
			err = intVal(&next.SummaryTokenLimit)
		case "http_timeout_sec":
			err = intVal(&next.HTTPTimeoutSec)
		case "retry_max_attempts":
			err = intVal(&next.RetryMaxAttempts)
		case "retry_base_delay_ms":
			err = intVal(&next.RetryBaseDelayMs)
		case "retry_max_delay_ms":
			err = intVal(&next.RetryMaxDelayMs)
		case "height_bins":
			err = intVal(&next.HeightBins)
		case "top_n":
			err = intVal(&next.TopN)
		case "log_level":
			next.LogLevel = val
		case "log_format":
			next.LogFormat = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err != nil {
			return err
		}
		if err := next.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		cfg = &next
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
