package cmd

import (
	"context"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/moviecorpus-cli/internal/corpus"
	"github.com/KaramelBytes/moviecorpus-cli/internal/dataset"
	"github.com/KaramelBytes/moviecorpus-cli/internal/logging"
	"github.com/KaramelBytes/moviecorpus-cli/internal/utils"
	"github.com/spf13/cobra"
)

// localDatasetDir is the directory name the corpus archive unpacks to.
const localDatasetDir = "MovieSummaries"

// dataDir resolves where the corpus lives: --data-dir, then a MovieSummaries
// directory in or above the working directory, then the configured data_dir.
func dataDir() (string, error) {
	c, err := requireConfig()
	if err != nil {
		return "", err
	}
	if rootCmd.PersistentFlags().Changed("data-dir") {
		return c.DataDir, nil
	}
	if root, err := utils.FindUp("", filepath.Join(localDatasetDir, corpus.CharacterFile)); err == nil {
		return filepath.Join(root, localDatasetDir), nil
	}
	return c.DataDir, nil
}

func newFetcher() *dataset.Fetcher {
	timeout := 10 * time.Minute
	if cfg != nil && cfg.HTTPTimeoutSec > 0 {
		timeout = time.Duration(cfg.HTTPTimeoutSec) * time.Second
	}
	url := ""
	if cfg != nil {
		url = cfg.DatasetURL
	}
	return dataset.New(url, timeout)
}

// openCorpus loads a corpus session for one command, downloading the dataset
// first if it is missing.
func openCorpus(cmd *cobra.Command) (*corpus.Corpus, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := corpus.Load(ctx, corpus.Options{Dir: dir, Fetcher: newFetcher()})
	if err != nil {
		return nil, err
	}
	logging.Debug().
		Str("session", c.ID.String()).
		Int("malformed", c.Stats.Characters.Malformed).
		Msg("session opened")
	return c, nil
}
