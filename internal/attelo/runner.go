// runner.go shells out to the attelo binary.
//
// Separated from args.go to keep the argument-vector contract (pure,
// easily tested) apart from process plumbing. Child stderr is streamed
// through so attelo's own progress output reaches the user; stdout is
// either discarded or redirected to a file (the report subcommand writes
// its pretty report to stdout).
package attelo

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner invokes the attelo binary.
type Runner struct {
	// Bin is the attelo executable (a bare name is resolved via PATH).
	Bin string
	// Stderr receives the child's stderr. Defaults to os.Stderr.
	Stderr io.Writer
}

// NewRunner returns a runner for the given attelo binary.
func NewRunner(bin string) *Runner {
	return &Runner{Bin: bin, Stderr: os.Stderr}
}

// Run executes attelo with the given arguments, discarding stdout.
func (r *Runner) Run(ctx context.Context, args []string) error {
	return r.run(ctx, args, nil)
}

// RunToFile executes attelo with stdout redirected to the named file.
// On failure the file is removed: a partial output left behind would
// make the existence checks of a resumed run treat the step as done.
func (r *Runner) RunToFile(ctx context.Context, args []string, stdoutPath string) error {
	f, err := os.Create(stdoutPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", stdoutPath, err)
	}
	if err := r.run(ctx, args, f); err != nil {
		f.Close()
		os.Remove(stdoutPath)
		return err
	}
	return f.Close()
}

func (r *Runner) run(ctx context.Context, args []string, stdout io.Writer) error {
	cmd := exec.CommandContext(ctx, r.Bin, args...)
	cmd.Stdout = stdout
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s %s: %w", r.Bin, strings.Join(args, " "), err)
	}
	return nil
}

// Version returns the attelo version string, best effort. Used for the
// versions.txt snapshot; failures are reported as an error rather than
// aborting anything.
func (r *Runner) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, r.Bin, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", r.Bin, err)
	}
	return strings.TrimSpace(string(out)), nil
}
