// Package workspace manages the on-disk layout of an experiment run. The
// gather step produces timestamped data snapshots under the data root with
// a "latest" symlink; evaluate creates matching eval-<stamp> and
// scratch-<stamp> dirs inside the snapshot, with eval-current and
// scratch-current symlinks pointing at the run in progress so it can be
// resumed after an interruption.
package workspace

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

var (
	// ErrUngathered is returned when there is no data snapshot to run
	// experiments on.
	ErrUngathered = errors.New("no data to run experiments on (run `irit-rst-dt gather` first)")
	// ErrNothingToResume is returned by Resume when no evaluation is
	// in progress.
	ErrNothingToResume = errors.New("no currently running evaluation to resume")
	// ErrStampCollision is returned when an eval dir for the current
	// second already exists. Try again in literally one second.
	ErrStampCollision = errors.New("evaluation dir for this timestamp already exists")
)

// Symlink names maintained inside a data snapshot.
const (
	LatestLink         = "latest"
	EvalCurrentLink    = "eval-current"
	ScratchCurrentLink = "scratch-current"
)

// Timestamp formats t the way snapshot and eval dirs are named.
func Timestamp(t time.Time) string {
	return t.Format("2006-01-02T150405")
}

// Dirs holds the directories one evaluation run works in.
type Dirs struct {
	Eval    string // data files, fold files, final reports
	Scratch string // per-fold models, counts, decoder output
}

// Latest resolves the current data snapshot under the data root. A
// missing root or missing "latest" link means gather has not been run.
func Latest(dataRoot string) (string, error) {
	link := filepath.Join(dataRoot, LatestLink)
	if _, err := os.Stat(link); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrUngathered
		}
		return "", fmt.Errorf("checking data snapshot: %w", err)
	}
	return link, nil
}

// NewSnapshot creates a fresh timestamped data dir under the data root
// and points the "latest" symlink at it. Used by gather.
func NewSnapshot(dataRoot string, now time.Time) (string, error) {
	dir := filepath.Join(dataRoot, Timestamp(now))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating data snapshot: %w", err)
	}
	if err := ForceSymlink(filepath.Base(dir), filepath.Join(dataRoot, LatestLink)); err != nil {
		return "", err
	}
	return dir, nil
}

// Create makes fresh eval and scratch dirs inside the data snapshot,
// hard-links the snapshot's data files into the eval dir, and updates
// the -current symlinks.
func Create(dataDir string, now time.Time) (Dirs, error) {
	stamp := Timestamp(now)

	evalDir := filepath.Join(dataDir, "eval-"+stamp)
	if _, err := os.Stat(evalDir); err == nil {
		return Dirs{}, fmt.Errorf("%w: %s", ErrStampCollision, evalDir)
	}
	if err := os.MkdirAll(evalDir, 0755); err != nil {
		return Dirs{}, fmt.Errorf("creating eval dir: %w", err)
	}
	if err := linkDataFiles(dataDir, evalDir); err != nil {
		return Dirs{}, err
	}
	if err := ForceSymlink(filepath.Base(evalDir),
		filepath.Join(dataDir, EvalCurrentLink)); err != nil {
		return Dirs{}, err
	}

	scratchDir := filepath.Join(dataDir, "scratch-"+stamp)
	if err := os.MkdirAll(scratchDir, 0755); err != nil {
		return Dirs{}, fmt.Errorf("creating scratch dir: %w", err)
	}
	if err := ForceSymlink(filepath.Base(scratchDir),
		filepath.Join(dataDir, ScratchCurrentLink)); err != nil {
		return Dirs{}, err
	}

	return Dirs{Eval: evalDir, Scratch: scratchDir}, nil
}

// Resume returns the dirs of the evaluation in progress, via the
// -current symlinks.
func Resume(dataDir string) (Dirs, error) {
	d := Dirs{
		Eval:    filepath.Join(dataDir, EvalCurrentLink),
		Scratch: filepath.Join(dataDir, ScratchCurrentLink),
	}
	for _, dir := range []string{d.Eval, d.Scratch} {
		if _, err := os.Stat(dir); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Dirs{}, ErrNothingToResume
			}
			return Dirs{}, fmt.Errorf("checking %s: %w", dir, err)
		}
	}
	return d, nil
}

// ForceSymlink creates a symlink, replacing any existing one.
func ForceSymlink(target, link string) error {
	if fi, err := os.Lstat(link); err == nil {
		if fi.Mode()&os.ModeSymlink == 0 {
			return fmt.Errorf("%s exists and is not a symlink", link)
		}
		if err := os.Remove(link); err != nil {
			return fmt.Errorf("replacing symlink %s: %w", link, err)
		}
	}
	if err := os.Symlink(target, link); err != nil {
		return fmt.Errorf("creating symlink %s: %w", link, err)
	}
	return nil
}

// linkDataFiles hard-links every regular file from the snapshot into the
// eval dir. This costs no space and makes archiving an eval dir
// self-contained. Falls back to copying when linking fails (e.g. the
// snapshot sits on another filesystem).
func linkDataFiles(dataDir, evalDir string) error {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return fmt.Errorf("reading data dir: %w", err)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		src := filepath.Join(dataDir, entry.Name())
		dst := filepath.Join(evalDir, entry.Name())
		if err := os.Link(src, dst); err != nil {
			if err := copyFile(src, dst); err != nil {
				return fmt.Errorf("copying %s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
