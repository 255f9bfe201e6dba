// clean.go implements the "irit-rst-dt clean" command: delete stale
// evaluation and scratch dirs from the data snapshot. The dirs behind
// the -current symlinks are kept unless --all is given, so a resumable
// run survives routine cleanup.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/irit-melodi/irit-rst-dt/internal/workspace"
)

func newCleanCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "clean",
		Short: "Delete stale evaluation dirs from the data snapshot",
		Args:  cobra.NoArgs,
		RunE:  runClean,
	}
	c.Flags().Bool("all", false, "Also delete the current evaluation and its symlinks")
	return c
}

func runClean(c *cobra.Command, _ []string) error {
	all, _ := c.Flags().GetBool("all")

	dataDir, err := workspace.Latest(DataDir())
	if err != nil {
		return PrintJSONError(err)
	}

	keep := map[string]bool{}
	if !all {
		for _, link := range []string{workspace.EvalCurrentLink, workspace.ScratchCurrentLink} {
			if target, err := os.Readlink(filepath.Join(dataDir, link)); err == nil {
				keep[filepath.Base(target)] = true
			}
		}
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return PrintJSONError(fmt.Errorf("reading data snapshot: %w", err))
	}

	var removed []string
	for _, entry := range entries {
		name := entry.Name()
		stale := entry.IsDir() &&
			(strings.HasPrefix(name, "eval-") || strings.HasPrefix(name, "scratch-")) &&
			!keep[name]
		link := all && (name == workspace.EvalCurrentLink || name == workspace.ScratchCurrentLink)
		if !stale && !link {
			continue
		}
		path := filepath.Join(dataDir, name)
		if err := os.RemoveAll(path); err != nil {
			return PrintJSONError(fmt.Errorf("removing %s: %w", path, err))
		}
		removed = append(removed, name)
	}

	if JSON() {
		return PrintJSON(map[string][]string{"removed": removed})
	}
	for _, name := range removed {
		fmt.Fprintf(Out(), "removed %s\n", name)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newCleanCmd())
}
