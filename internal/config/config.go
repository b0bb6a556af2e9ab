package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultDatasetURL is the public archive of the CMU Movie Summary Corpus.
const DefaultDatasetURL = "http://www.cs.cmu.edu/~ark/personas/data/MovieSummaries.tar.gz"

// Global configuration structure.
type Global struct {
	// Dataset location
	DataDir    string `mapstructure:"data_dir" yaml:"data_dir"`
	DatasetURL string `mapstructure:"dataset_url" yaml:"dataset_url" validate:"required,url"`

	// Classifier runtime
	DefaultProvider    string  `mapstructure:"default_provider" yaml:"default_provider" validate:"oneof=ollama openrouter"`
	APIKey             string  `mapstructure:"api_key" yaml:"api_key"`
	Model              string  `mapstructure:"model" yaml:"model" validate:"required"`
	Temperature        float64 `mapstructure:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
	ClassifyTimeoutSec int     `mapstructure:"classify_timeout_sec" yaml:"classify_timeout_sec" validate:"gt=0"`
	SummaryTokenLimit  int     `mapstructure:"summary_token_limit" yaml:"summary_token_limit" validate:"gt=0"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec" validate:"gt=0"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts" validate:"gte=1"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms" validate:"gte=0"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms" validate:"gte=0"`

	// Local runtimes (Ollama)
	OllamaHost       string `mapstructure:"ollama_host" yaml:"ollama_host" validate:"required,url"`
	OllamaTimeoutSec int    `mapstructure:"ollama_timeout_sec" yaml:"ollama_timeout_sec" validate:"gt=0"`

	// Analysis defaults
	HeightBins int `mapstructure:"height_bins" yaml:"height_bins" validate:"gte=1,lte=200"`
	TopN       int `mapstructure:"top_n" yaml:"top_n" validate:"gte=1"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=trace debug info warn error disabled"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=auto json console"`
}

var validate = validator.New()

// Validate checks field constraints declared on the struct tags.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Dir returns the per-user configuration directory (~/.moviecorpus).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".moviecorpus"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.moviecorpus/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
// A .env file in the working directory is applied to the environment first;
// variables already set in the process win over it.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("MOVIECORPUS")
	v.AutomaticEnv()

	v.SetDefault("data_dir", "")
	v.SetDefault("dataset_url", DefaultDatasetURL)
	v.SetDefault("default_provider", "ollama")
	v.SetDefault("api_key", "")
	v.SetDefault("model", "deepseek-r1:1.5b")
	v.SetDefault("temperature", 0.1)
	v.SetDefault("classify_timeout_sec", 120)
	v.SetDefault("summary_token_limit", 1024)
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 120)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	// Ollama defaults
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	v.SetDefault("ollama_timeout_sec", 120)
	// Analysis defaults
	v.SetDefault("height_bins", 20)
	v.SetDefault("top_n", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "auto")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve data_dir default: ~/.moviecorpus/data
	if c.DataDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.DataDir = filepath.Join(dir, "data")
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
