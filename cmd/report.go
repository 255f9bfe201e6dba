// report.go implements the "irit-rst-dt report" command: regenerate
// corpus-level score reports for the evaluation in progress without
// re-running any learning or decoding.

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/irit-melodi/irit-rst-dt/internal/attelo"
	"github.com/irit-melodi/irit-rst-dt/internal/layout"
	"github.com/irit-melodi/irit-rst-dt/internal/report"
	"github.com/irit-melodi/irit-rst-dt/internal/runlog"
	"github.com/irit-melodi/irit-rst-dt/internal/workspace"
)

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Regenerate score reports for the current evaluation",
		Long: `Re-runs attelo report over the count indices left by evaluate,
rewriting the corpus-level scores-<dataset>.txt and .json files. Useful
after a partial run, or with a newer attelo.`,
		Args: cobra.NoArgs,
		RunE: runReport,
	}
}

func runReport(c *cobra.Command, _ []string) error {
	ctx := c.Context()

	dataDir, err := workspace.Latest(DataDir())
	if err != nil {
		return PrintJSONError(err)
	}
	dirs, err := workspace.Resume(dataDir)
	if err != nil {
		return PrintJSONError(err)
	}
	if abs, absErr := filepath.Abs(dataDir); absErr == nil {
		runlog.SetExperiment(abs)
	}

	runner := attelo.NewRunner(Config().AtteloBin())
	if Quiet() {
		runner.Stderr = io.Discard
	}
	var reports []string
	for _, corpus := range Config().Corpora {
		e := layout.Eval{
			EvalDir:    dirs.Eval,
			ScratchDir: dirs.Scratch,
			Dataset:    filepath.Base(corpus),
		}
		idxFile := e.CountIndex(e.ScratchDir)
		if _, err := os.Stat(idxFile); err != nil {
			return PrintJSONError(fmt.Errorf(
				"no count index for %s (run evaluate first): %w", e.Dataset, err))
		}

		err := report.Generate(ctx, runner, e, e.EvalDir, idxFile)
		runlog.Event("report:report", "report").Dataset(e.Dataset).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		reports = append(reports, e.ScorePrefix(e.EvalDir)+".txt")
	}

	return PrintJSON(map[string][]string{"reports": reports})
}

func init() {
	rootCmd.AddCommand(newReportCmd())
}
