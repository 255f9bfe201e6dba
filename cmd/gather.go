// gather.go implements the "irit-rst-dt gather" command: feature
// extraction for every configured corpus into a fresh data snapshot.

package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/irit-melodi/irit-rst-dt/internal/gather"
)

func newGatherCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gather",
		Short: "Extract features from the training corpora",
		Long: `Creates a timestamped data snapshot under the data root, runs the
configured feature extraction command for every training corpus, and
points the "latest" symlink at the result. Evaluate works on the latest
snapshot.`,
		Args: cobra.NoArgs,
		RunE: runGather,
	}
}

func runGather(c *cobra.Command, _ []string) error {
	g := gather.New(Config())
	if Quiet() {
		g.Stderr = io.Discard
	}
	snapshot, err := g.Run(c.Context(), DataDir(), time.Now())
	if err != nil {
		return PrintJSONError(fmt.Errorf("gather: %w", err))
	}

	if JSON() {
		return PrintJSON(map[string]string{"snapshot": snapshot})
	}
	fmt.Fprintf(Out(), "Gathered data in %s\n", snapshot)
	return nil
}

func init() {
	rootCmd.AddCommand(newGatherCmd())
}
