// compare.go diffs two score reports, for eyeballing how a change to the
// evaluation configs moved the numbers between runs.
//
// Separated from report.go to keep the diff formatting apart from report
// generation. The output format is unified-ish: -/+ prefixed lines with
// long unchanged stretches collapsed.
package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines shown before/after
// changes. When equal sections exceed 2*contextLines, they're collapsed
// with "...".
const contextLines = 3

// Comparison holds the diff between two score reports.
type Comparison struct {
	Old  string // old report path
	New  string // new report path
	Diff string // plain diff text
}

// Compare diffs two score report files.
func Compare(oldPath, newPath string) (Comparison, error) {
	oldData, err := os.ReadFile(oldPath)
	if err != nil {
		return Comparison{}, fmt.Errorf("reading %s: %w", oldPath, err)
	}
	newData, err := os.ReadFile(newPath)
	if err != nil {
		return Comparison{}, fmt.Errorf("reading %s: %w", newPath, err)
	}

	dmp := diffmatchpatch.New()
	d := dmp.DiffMain(string(oldData), string(newData), false)
	d = dmp.DiffCleanupSemantic(d)

	return Comparison{
		Old:  oldPath,
		New:  newPath,
		Diff: format(d),
	}, nil
}

// format converts diffs to unified-style text.
func format(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		// Trim trailing newline to avoid artefact empty string from Split
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, l := range lines {
				b.WriteString("- " + l + "\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range lines {
				b.WriteString("+ " + l + "\n")
			}
		case diffmatchpatch.DiffEqual:
			if len(lines) > 2*contextLines {
				for i := 0; i < contextLines; i++ {
					b.WriteString("  " + lines[i] + "\n")
				}
				b.WriteString("  ...\n")
				for i := len(lines) - contextLines; i < len(lines); i++ {
					b.WriteString("  " + lines[i] + "\n")
				}
			} else {
				for _, l := range lines {
					b.WriteString("  " + l + "\n")
				}
			}
		}
	}
	return b.String()
}

// Format returns the full comparison with header.
func (c Comparison) Format() string {
	return fmt.Sprintf("--- %s\n+++ %s\n%s", c.Old, c.New, c.Diff)
}
