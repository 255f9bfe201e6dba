package attelo

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irit-melodi/irit-rst-dt/internal/expconfig"
	"github.com/irit-melodi/irit-rst-dt/internal/layout"
)

func testEval() layout.Eval {
	return layout.Eval{
		EvalDir:    "eval",
		ScratchDir: "scratch",
		Dataset:    "corpus",
	}
}

func testEconf() expconfig.EvalConfig {
	return expconfig.EvalConfig{
		Name:    "bayes-last",
		Learner: expconfig.Learner{Name: "bayes", Attach: "bayes"},
		Decoder: expconfig.Decoder{Name: "last", Decoder: "last"},
	}
}

func TestEnfoldArgs(t *testing.T) {
	e := testEval()
	got := EnfoldArgs(e, "attelo.ini")

	want := []string{
		"enfold",
		filepath.Join("eval", "corpus.relations.sparse.edu_input"),
		filepath.Join("eval", "corpus.relations.sparse.pairings"),
		filepath.Join("eval", "corpus.relations.sparse"),
		"--config", "attelo.ini",
		"--output", filepath.Join("eval", "folds-corpus.json"),
	}
	assert.Equal(t, want, got)
}

func TestLearnArgs(t *testing.T) {
	e := testEval()
	got := LearnArgs(e, "attelo.ini", testEconf(), 2)

	foldDir := filepath.Join("scratch", "fold-2")
	assert.Equal(t, "learn", got[0])
	assert.Contains(t, got, "--fold")
	assert.Contains(t, got, "2")
	assert.Contains(t, got, filepath.Join("eval", "folds-corpus.json"))
	assert.Contains(t, got, filepath.Join(foldDir, "corpus.bayes.attach.model"))
	assert.Contains(t, got, filepath.Join(foldDir, "corpus.bayes.relate.model"))
	assert.Contains(t, got, "--learner")
	assert.NotContains(t, got, "--relation-learner")
	assert.Contains(t, got, "--decoder")
}

func TestLearnArgsRelationLearner(t *testing.T) {
	econf := testEconf()
	econf.Learner.Relate = "maxent"
	got := LearnArgs(testEval(), "attelo.ini", econf, 0)

	assert.Contains(t, got, "--relation-learner")
	assert.Contains(t, got, "maxent")
}

func TestDecodeArgs(t *testing.T) {
	e := testEval()
	got := DecodeArgs(e, "attelo.ini", testEconf(), 1)

	foldDir := filepath.Join("scratch", "fold-1")
	assert.Equal(t, "decode", got[0])
	assert.Contains(t, got, "--scores")
	assert.Contains(t, got, filepath.Join(foldDir, "counts.bayes-last.csv"))
	assert.Contains(t, got, "--output")
	assert.Contains(t, got, filepath.Join(foldDir, "output.bayes-last"))
}

func TestReportArgs(t *testing.T) {
	got := ReportArgs("count-index-corpus.csv", "scores-corpus.json")
	assert.Equal(t, []string{
		"report", "count-index-corpus.csv", "--json", "scores-corpus.json",
	}, got)
}

func TestRunnerWrapsFailure(t *testing.T) {
	r := NewRunner(filepath.Join(t.TempDir(), "no-such-binary"))
	err := r.Run(context.Background(), []string{"enfold", "x"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "enfold x")
}

func TestRunnerToFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on /bin/echo")
	}
	out := filepath.Join(t.TempDir(), "report.txt")
	r := NewRunner("echo")
	require.NoError(t, r.RunToFile(context.Background(), []string{"hello"}, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestRunnerToFileRemovesOutputOnFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.txt")
	r := NewRunner(filepath.Join(t.TempDir(), "no-such-binary"))
	require.Error(t, r.RunToFile(context.Background(), []string{"report", "idx"}, out))

	// A leftover file would make a resumed run skip the step.
	assert.NoFileExists(t, out)
}
