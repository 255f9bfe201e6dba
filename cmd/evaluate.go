// evaluate.go implements the "irit-rst-dt evaluate" command: the
// cross-validation loop over the latest gathered data.
//
// Design: a fresh run creates timestamped eval/scratch dirs and records
// a versions.txt snapshot; --resume reuses the dirs behind the -current
// symlinks and relies on the loop's file-existence checks to skip
// completed work.

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/irit-melodi/irit-rst-dt/internal/attelo"
	"github.com/irit-melodi/irit-rst-dt/internal/evaluate"
	"github.com/irit-melodi/irit-rst-dt/internal/runlog"
	"github.com/irit-melodi/irit-rst-dt/internal/version"
	"github.com/irit-melodi/irit-rst-dt/internal/workspace"
)

func newEvaluateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "evaluate",
		Short: "Run cross-validation over every corpus",
		Long: `For each training corpus, assigns documents to folds with attelo
enfold, then trains and decodes every configured learner/decoder
combination on every fold, collecting score counts and writing reports.
Steps whose output files already exist are skipped.`,
		Args: cobra.NoArgs,
		RunE: runEvaluate,
	}
	c.Flags().Bool("resume", false, "Resume a previously interrupted evaluation")
	return c
}

func runEvaluate(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	resume, _ := c.Flags().GetBool("resume")

	dataDir, err := workspace.Latest(DataDir())
	if err != nil {
		return PrintJSONError(err)
	}
	if abs, absErr := filepath.Abs(dataDir); absErr == nil {
		runlog.SetExperiment(abs)
	}

	var dirs workspace.Dirs
	if resume {
		dirs, err = workspace.Resume(dataDir)
	} else {
		dirs, err = workspace.Create(dataDir, time.Now())
	}
	if err != nil {
		return PrintJSONError(err)
	}

	ev := evaluate.New(Config(), dirs)
	if Quiet() {
		ev.Stderr = io.Discard
		ev.Runner.Stderr = io.Discard
	}
	writeVersions(ctx, ev.Runner, dirs.Eval)

	if err := ev.Run(ctx); err != nil {
		return PrintJSONError(err)
	}

	if JSON() {
		return PrintJSON(map[string]string{
			"eval_dir":    dirs.Eval,
			"scratch_dir": dirs.Scratch,
		})
	}
	fmt.Fprintf(Out(), "Evaluation complete; reports in %s\n", dirs.Eval)
	return nil
}

// writeVersions records what produced this eval dir: harness build info
// plus the attelo version. Best effort; the evaluation does not depend
// on it.
func writeVersions(ctx context.Context, runner *attelo.Runner, evalDir string) {
	var b strings.Builder
	fmt.Fprintf(&b, "irit-rst-dt %s\n", version.Short())
	b.WriteString(version.Get().String())
	if v, err := runner.Version(ctx); err == nil {
		fmt.Fprintf(&b, "attelo %s\n", v)
	}

	path := filepath.Join(evalDir, "versions.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot write %s: %v\n", path, err)
	}
}

func init() {
	rootCmd.AddCommand(newEvaluateCmd())
}
