// Package report generates and displays score summaries. Aggregation
// itself is attelo's job: Generate shells out to attelo report with a
// count index and collects the pretty report (stdout) and JSON summary.
// The show and diff helpers only look at the resulting score files.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/irit-melodi/irit-rst-dt/internal/attelo"
	"github.com/irit-melodi/irit-rst-dt/internal/countindex"
	"github.com/irit-melodi/irit-rst-dt/internal/layout"
)

// Generate aggregates the counts named by idxFile into score files under
// parent: scores-<dataset>.txt (attelo's pretty report, from stdout) and
// scores-<dataset>.json. Notes where the summary landed on stderr.
func Generate(ctx context.Context, runner *attelo.Runner, e layout.Eval, parent, idxFile string) error {
	prefix := e.ScorePrefix(parent)
	jsonFile := prefix + ".json"
	prettyFile := prefix + ".txt"

	// Refuse to shell out over an unreadable index; attelo's own error
	// for this is much less direct.
	if _, err := countindex.Read(idxFile); err != nil {
		return fmt.Errorf("cannot report on %s: %w", idxFile, err)
	}

	args := attelo.ReportArgs(idxFile, jsonFile)
	if err := runner.RunToFile(ctx, args, prettyFile); err != nil {
		return err
	}

	stderr := runner.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	fmt.Fprintf(stderr, "Scores summarised in %s\n", prettyFile)
	return nil
}

// Show writes the score report at path to w. On a TTY the report is
// wrapped in a fenced code block and rendered with glamour; otherwise
// (pipes, redirects) the raw text is written unchanged.
func Show(w io.Writer, path string, raw bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading score report: %w", err)
	}

	if !raw && isTerminal(w) {
		var md bytes.Buffer
		fmt.Fprintf(&md, "# %s\n\n```\n%s\n```\n", path, bytes.TrimRight(data, "\n"))
		if rendered, renderErr := glamour.Render(md.String(), "dark"); renderErr == nil {
			fmt.Fprint(w, rendered)
			return nil
		}
	}

	_, err = w.Write(data)
	return err
}

// FindScoreFile locates a score report. An explicit path wins; otherwise
// the eval dir is searched for scores-*.txt files and the
// lexicographically last one (the newest, given the dataset naming) is
// returned.
func FindScoreFile(evalDir, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	entries, err := os.ReadDir(evalDir)
	if err != nil {
		return "", fmt.Errorf("reading eval dir: %w", err)
	}

	var candidates []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "scores-") && strings.HasSuffix(name, ".txt") {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no score reports in %s", evalDir)
	}
	sort.Strings(candidates)
	return filepath.Join(evalDir, candidates[len(candidates)-1]), nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
