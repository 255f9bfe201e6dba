// scores.go implements the "irit-rst-dt scores" command group for
// inspecting score reports without touching the experiment config.
//
// Design: show renders a report with glamour on a terminal and falls
// back to raw text when piped, mirroring how attelo's pretty reports are
// usually read; diff compares two reports from different runs to spot
// score movement.

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/irit-melodi/irit-rst-dt/internal/report"
	"github.com/irit-melodi/irit-rst-dt/internal/workspace"
)

func newScoresCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "scores",
		Short: "Inspect score reports",
	}
	c.AddCommand(newScoresShowCmd())
	c.AddCommand(newScoresDiffCmd())
	return c
}

func newScoresShowCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "show [report-file]",
		Short: "Display a score report",
		Long: `Displays a score report, defaulting to the newest scores-*.txt in the
current evaluation dir. On a terminal the report is rendered for
readability; piped output is the raw text.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScoresShow,
	}
	c.Flags().Bool("raw", false, "Print the raw report even on a terminal")
	return c
}

func runScoresShow(c *cobra.Command, args []string) error {
	raw, _ := c.Flags().GetBool("raw")

	explicit := ""
	if len(args) > 0 {
		explicit = args[0]
	}

	path := explicit
	if path == "" {
		dataDir, err := workspace.Latest(DataDir())
		if err != nil {
			return err
		}
		evalDir := filepath.Join(dataDir, workspace.EvalCurrentLink)
		path, err = report.FindScoreFile(evalDir, "")
		if err != nil {
			return err
		}
	}

	return report.Show(Out(), path, raw)
}

func newScoresDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Compare two score reports",
		Long: `Diffs two score report files, typically the scores-<dataset>.txt from
two different evaluation runs.`,
		Args: cobra.ExactArgs(2),
		RunE: runScoresDiff,
	}
}

func runScoresDiff(_ *cobra.Command, args []string) error {
	cmp, err := report.Compare(args[0], args[1])
	if err != nil {
		return PrintJSONError(err)
	}

	if JSON() {
		return PrintJSON(map[string]string{
			"old":  cmp.Old,
			"new":  cmp.New,
			"diff": cmp.Diff,
		})
	}
	fmt.Fprint(Out(), cmp.Format())
	return nil
}

func init() {
	rootCmd.AddCommand(newScoresCmd())
}
