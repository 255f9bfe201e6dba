// Testing Strategy Design Decision:
//
// The cmd/ package contains CLI integration tests that exercise the full
// stack: command parsing -> workspace layout -> subprocess invocation,
// with a stub attelo binary standing in for the real learner/decoder.
// The orchestration internals (internal/evaluate, internal/gather) have
// their own package tests; the tests here check the wiring: config
// discovery, symlink management, resumability and output formats as seen
// from the command line.

package cmd

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the irit-rst-dt binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "irit-rst-dt-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "irit-rst-dt"
		if os.PathSeparator == '\\' {
			binaryName = "irit-rst-dt.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Find project root (parent of cmd/)
		wd := mustGetwd()
		projectRoot := filepath.Dir(wd)

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// stubAttelo stands in for the attelo binary: it produces the files each
// subcommand is expected to leave behind.
const stubAttelo = `#!/bin/sh
cmd=$1
case "$cmd" in
	--version) printf '0.4-stub\n'; exit 0 ;;
esac
shift
out=""; scores=""; attach=""; relate=""; json=""
while [ $# -gt 0 ]; do
	case "$1" in
		--output) out=$2; shift 2 ;;
		--scores) scores=$2; shift 2 ;;
		--attachment-model) attach=$2; shift 2 ;;
		--relation-model) relate=$2; shift 2 ;;
		--json) json=$2; shift 2 ;;
		*) shift ;;
	esac
done
case "$cmd" in
	enfold) printf '{"wsj_0601": 0, "wsj_0602": 1}' > "$out" ;;
	learn) : > "$attach"; : > "$relate" ;;
	decode) printf 'counts\n' > "$scores"; : > "$out" ;;
	report) [ -n "$json" ] && printf '{}' > "$json"; printf 'REPORT\n' ;;
esac
`

// stubExtract stands in for the feature extraction tooling.
const stubExtract = `#!/bin/sh
corpus=$1
out=$2
dataset=$(basename "$corpus")
printf 'features' > "$out/$dataset.relations.sparse"
printf 'edus' > "$out/$dataset.relations.sparse.edu_input"
printf 'pairs' > "$out/$dataset.relations.sparse.pairings"
`

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string
	binary string
}

// newTestEnv creates a temporary project dir with an experiment config
// pointing at stub attelo and extraction binaries.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub binaries are shell scripts")
	}

	binary := buildBinary(t)
	dir := t.TempDir()

	atteloBin := filepath.Join(dir, "attelo")
	writeExecutable(t, atteloBin, stubAttelo)
	extractBin := filepath.Join(dir, "extract-features")
	writeExecutable(t, extractBin, stubExtract)

	corpus := filepath.Join(dir, "corpora", "corpus")
	if err := os.MkdirAll(corpus, 0755); err != nil {
		t.Fatal(err)
	}

	config := `
corpora:
  - corpora/corpus
attelo: ` + atteloBin + `
attelo_config: attelo.ini
learners:
  - name: bayes
    attach: bayes
decoders:
  - name: last
    decoder: last
evaluations:
  - learner: bayes
    decoder: last
gather:
  command: [` + extractBin + `]
`
	if err := os.WriteFile(filepath.Join(dir, "irit-rst-dt.yaml"), []byte(config), 0644); err != nil {
		t.Fatal(err)
	}

	return &testEnv{t: t, dir: dir, binary: binary}
}

func writeExecutable(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatal(err)
	}
}

// run executes irit-rst-dt with the given args and returns combined output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("irit-rst-dt %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes irit-rst-dt and returns combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	// Keep the run log out of the developer's real home dir
	cmd.Env = append(os.Environ(), "HOME="+e.dir)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// dataDir returns the path of the latest data snapshot.
func (e *testEnv) dataDir() string {
	return filepath.Join(e.dir, "TMP", "latest")
}
