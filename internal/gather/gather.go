// Package gather builds the data snapshot the evaluation loop runs on.
// Feature extraction itself is external (the educe tooling): the
// configured gather command is run once per corpus with the corpus dir
// and the snapshot dir appended, and is expected to leave the
// <dataset>.relations.sparse triple behind. Corpora whose features are
// already present in the snapshot are skipped.
package gather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/irit-melodi/irit-rst-dt/internal/expconfig"
	"github.com/irit-melodi/irit-rst-dt/internal/layout"
	"github.com/irit-melodi/irit-rst-dt/internal/runlog"
	"github.com/irit-melodi/irit-rst-dt/internal/workspace"
)

// ErrNoCommand is returned when the config declares no gather command.
var ErrNoCommand = errors.New("no gather command configured (set gather.command in " +
	expconfig.FileName + ")")

// Gatherer runs feature extraction into a fresh data snapshot.
type Gatherer struct {
	Config *expconfig.Config

	// Stderr receives progress notices and the extraction command's
	// output. Defaults to os.Stderr.
	Stderr io.Writer
}

// New returns a gatherer for the given config.
func New(cfg *expconfig.Config) *Gatherer {
	return &Gatherer{Config: cfg, Stderr: os.Stderr}
}

// Run creates a timestamped snapshot under dataRoot, extracts features
// for every configured corpus into it, and points the "latest" symlink
// at the result. Returns the snapshot dir.
func (g *Gatherer) Run(ctx context.Context, dataRoot string, now time.Time) (string, error) {
	if len(g.Config.Gather.Command) == 0 {
		return "", ErrNoCommand
	}
	for _, corpus := range g.Config.Corpora {
		if _, err := os.Stat(corpus); err != nil {
			return "", fmt.Errorf("corpus %s is not available: %w", corpus, err)
		}
	}

	snapshot, err := workspace.NewSnapshot(dataRoot, now)
	if err != nil {
		return "", err
	}

	for _, corpus := range g.Config.Corpora {
		if err := g.extract(ctx, corpus, snapshot); err != nil {
			return "", err
		}
	}
	return snapshot, nil
}

// extract runs the feature extraction command for one corpus, unless
// its output is already in the snapshot.
func (g *Gatherer) extract(ctx context.Context, corpus, snapshot string) error {
	dataset := filepath.Base(corpus)
	e := layout.Eval{EvalDir: snapshot, Dataset: dataset}
	if _, err := os.Stat(e.Features()); err == nil {
		fmt.Fprintf(g.stderr(), "skipping %s (already gathered)\n", dataset)
		return nil
	}

	argv := append(append([]string{}, g.Config.Gather.Command...), corpus, snapshot)
	fmt.Fprintf(g.stderr(), "gathering %s\n", dataset)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = g.stderr()
	cmd.Stderr = g.stderr()
	err := cmd.Run()
	if err != nil && ctx.Err() != nil {
		err = ctx.Err()
	} else if err != nil {
		err = fmt.Errorf("%s: %w", strings.Join(argv, " "), err)
	}

	runlog.Event("gather:extract", "extract").Dataset(dataset).Write(err)
	return err
}

func (g *Gatherer) stderr() io.Writer {
	if g.Stderr == nil {
		return os.Stderr
	}
	return g.Stderr
}
