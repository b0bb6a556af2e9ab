package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/moviecorpus-cli/internal/config"
	"github.com/KaramelBytes/moviecorpus-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile      string
	debug        bool
	flagDataDir  string
	flagLogFmt   string
	outputFormat string
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "moviecorpus",
	Short: "Explore the CMU Movie Summary Corpus from the terminal",
	Long: `moviecorpus loads the CMU Movie Summary Corpus (character, movie and plot summary files),
prints descriptive statistics as tables, JSON or Markdown, and can ask a local Ollama model
to classify a movie's genre from its plot summary.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.moviecorpus/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory holding the corpus files (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFmt, "log-format", "", "log format: auto|json|console (overrides config)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "output format: table|json|markdown")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max retry attempts on 429/5xx (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		initLogging("info", flagLogFmt)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data-dir") && flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		cfg.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		cfg.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
	if flagLogFmt != "" {
		cfg.LogFormat = flagLogFmt
	}
	initLogging(cfg.LogLevel, cfg.LogFormat)
}

func initLogging(level, format string) {
	lc := logging.DefaultConfig()
	lc.Level = level
	if format != "" {
		lc.Format = format
	}
	if debug {
		lc.Level = "debug"
		lc.Caller = true
	}
	logging.Init(lc)
}

// requireConfig returns the loaded configuration or an error explaining why
// there is none.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		return nil, fmt.Errorf("no configuration loaded (check %s or MOVIECORPUS_* variables)", configPathHint())
	}
	return cfg, nil
}

func configPathHint() string {
	if cfgFile != "" {
		return cfgFile
	}
	dir, err := cfgpkg.Dir()
	if err != nil {
		return "config.yaml"
	}
	return dir + string(os.PathSeparator) + "config.yaml"
}
