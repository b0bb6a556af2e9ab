package cmd

import (
	"fmt"

	"github.com/KaramelBytes/moviecorpus-cli/internal/dataset"
	"github.com/spf13/cobra"
)

var fetchForce bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and unpack the corpus into the data directory",
	Example: `  moviecorpus fetch
  moviecorpus fetch --force --data-dir ./MovieSummaries`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := dataDir()
		if err != nil {
			return err
		}
		f := newFetcher()
		if fetchForce {
			err = f.Fetch(cmd.Context(), dir)
		} else {
			err = f.Ensure(cmd.Context(), dir)
		}
		if err != nil {
			return fmt.Errorf("fetch dataset: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Dataset ready in %s (%d files)\n", dir, len(dataset.Files))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "download again even if the files exist")
}
