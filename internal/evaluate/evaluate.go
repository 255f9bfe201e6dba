// Package evaluate runs the cross-validation loop: for each corpus, for
// each fold, for each learner/decoder combination, train and decode via
// the external attelo tool, then aggregate the collected score counts
// into reports.
//
// Execution is strictly sequential. Resumability comes from file
// existence alone: model files, counts files and fold-level reports that
// already exist mean the corresponding step is skipped, so an
// interrupted run picks up where it left off when pointed at the same
// eval and scratch dirs.
package evaluate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/irit-melodi/irit-rst-dt/internal/attelo"
	"github.com/irit-melodi/irit-rst-dt/internal/countindex"
	"github.com/irit-melodi/irit-rst-dt/internal/expconfig"
	"github.com/irit-melodi/irit-rst-dt/internal/folds"
	"github.com/irit-melodi/irit-rst-dt/internal/layout"
	"github.com/irit-melodi/irit-rst-dt/internal/report"
	"github.com/irit-melodi/irit-rst-dt/internal/runlog"
	"github.com/irit-melodi/irit-rst-dt/internal/workspace"
)

// Evaluator drives the evaluation loop.
type Evaluator struct {
	Config *expconfig.Config
	Runner *attelo.Runner
	Dirs   workspace.Dirs

	// Stderr receives banners and skip notices. Defaults to os.Stderr.
	Stderr io.Writer
}

// New returns an evaluator over the given workspace dirs.
func New(cfg *expconfig.Config, dirs workspace.Dirs) *Evaluator {
	return &Evaluator{
		Config: cfg,
		Runner: attelo.NewRunner(cfg.AtteloBin()),
		Dirs:   dirs,
		Stderr: os.Stderr,
	}
}

// Run evaluates every configured corpus in order.
func (ev *Evaluator) Run(ctx context.Context) error {
	for _, corpus := range ev.Config.Corpora {
		e := layout.Eval{
			EvalDir:    ev.Dirs.Eval,
			ScratchDir: ev.Dirs.Scratch,
			Dataset:    filepath.Base(corpus),
		}
		if err := ev.doCorpus(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// doCorpus runs the full fold loop for one corpus and writes the
// corpus-level report.
func (ev *Evaluator) doCorpus(ctx context.Context, e layout.Eval) error {
	fmt.Fprintln(ev.Stderr, corpusBanner(e.Dataset))

	if _, err := os.Stat(e.EDUInput()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s is missing", workspace.ErrUngathered, e.EDUInput())
		}
		return fmt.Errorf("checking %s: %w", e.EDUInput(), err)
	}

	if err := ev.generateFoldFile(ctx, e); err != nil {
		return err
	}
	assignment, err := folds.Load(e.FoldFile())
	if err != nil {
		return err
	}

	idxFile := e.CountIndex(e.ScratchDir)
	idx, err := countindex.Create(idxFile)
	if err != nil {
		return err
	}

	for _, fold := range assignment.Distinct() {
		if err := ev.doFold(ctx, e, fold, idx); err != nil {
			idx.Close()
			return err
		}
	}
	if err := idx.Close(); err != nil {
		return err
	}

	return ev.report(ctx, e, e.EvalDir, idxFile)
}

// generateFoldFile runs attelo enfold unless the fold file is already
// there. Keeping an existing assignment matters when resuming: a fresh
// enfold would reshuffle documents and quietly invalidate every model
// built so far.
func (ev *Evaluator) generateFoldFile(ctx context.Context, e layout.Eval) error {
	if _, err := os.Stat(e.FoldFile()); err == nil {
		fmt.Fprintf(ev.Stderr, "reusing fold file %s\n", e.FoldFile())
		return nil
	}
	err := ev.Runner.Run(ctx, attelo.EnfoldArgs(e, ev.Config.AtteloConfig))
	runlog.Event("evaluate:enfold", "enfold").Dataset(e.Dataset).Write(err)
	return err
}

// doFold runs all learner/decoder combos within one fold, writing index
// entries to both the fold-level and corpus-level indices, then the
// fold-level report.
func (ev *Evaluator) doFold(ctx context.Context, e layout.Eval, fold int, idx *countindex.Writer) error {
	foldDir := e.FoldDir(fold)

	// Already run to completion? Re-register its counts with the
	// corpus index so the final report still covers every fold, then
	// move on.
	if _, err := os.Stat(e.ScorePrefix(foldDir) + ".txt"); err == nil {
		fmt.Fprintf(ev.Stderr, "Skipping fold %d (already run)\n", fold)
		return ev.reindexFold(e, fold, idx)
	}

	fmt.Fprintln(ev.Stderr, foldBanner(e.Dataset, fold))
	if err := os.MkdirAll(foldDir, 0755); err != nil {
		return fmt.Errorf("creating fold dir: %w", err)
	}

	foldIdxFile := e.CountIndex(foldDir)
	foldIdx, err := countindex.Create(foldIdxFile)
	if err != nil {
		return err
	}

	for _, econf := range ev.Config.EvalConfigs() {
		fmt.Fprintln(ev.Stderr, evalBanner(e.Dataset, fold, econf))
		entry, err := ev.doTuple(ctx, e, econf, fold)
		if err != nil {
			foldIdx.Close()
			return err
		}
		if err := idx.Write(entry); err != nil {
			foldIdx.Close()
			return err
		}
		if err := foldIdx.Write(entry); err != nil {
			foldIdx.Close()
			return err
		}
	}
	if err := foldIdx.Close(); err != nil {
		return err
	}

	return ev.report(ctx, e, foldDir, foldIdxFile)
}

// reindexFold appends index entries for a completed fold's existing
// counts files.
func (ev *Evaluator) reindexFold(e layout.Eval, fold int, idx *countindex.Writer) error {
	for _, econf := range ev.Config.EvalConfigs() {
		cfile := e.Counts(fold, econf.Name)
		if _, err := os.Stat(cfile); err != nil {
			continue
		}
		if err := idx.Write(countindex.Entry{
			Config:     econf.Name,
			Fold:       fold,
			CountsFile: cfile,
		}); err != nil {
			return err
		}
	}
	return nil
}

// doTuple runs a single learner/decoder combination (innermost block)
// and returns its count index entry.
func (ev *Evaluator) doTuple(ctx context.Context, e layout.Eval, econf expconfig.EvalConfig, fold int) (countindex.Entry, error) {
	entry := countindex.Entry{
		Config:     econf.Name,
		Fold:       fold,
		CountsFile: e.Counts(fold, econf.Name),
	}
	if err := ev.maybeLearn(ctx, e, econf, fold); err != nil {
		return entry, err
	}
	if err := ev.decode(ctx, e, econf, fold); err != nil {
		return entry, err
	}
	return entry, nil
}

// maybeLearn runs the learner unless the model files already exist.
func (ev *Evaluator) maybeLearn(ctx context.Context, e layout.Eval, econf expconfig.EvalConfig, fold int) error {
	if err := os.MkdirAll(e.FoldDir(fold), 0755); err != nil {
		return fmt.Errorf("creating fold dir: %w", err)
	}

	attach := e.Model(fold, econf.Learner.Name, layout.ModelAttach)
	relate := e.Model(fold, econf.Learner.Name, layout.ModelRelate)
	if exists(attach) && exists(relate) {
		fmt.Fprintf(ev.Stderr, "reusing %s model (already built)\n", econf.Learner.Name)
		return nil
	}

	err := ev.Runner.Run(ctx, attelo.LearnArgs(e, ev.Config.AtteloConfig, econf, fold))
	runlog.Event("evaluate:learn", "learn").
		Dataset(e.Dataset).
		Fold(fold).
		Config(econf.Name).
		Write(err)
	return err
}

// decode runs the decoder for this fold unless its counts file already
// exists.
func (ev *Evaluator) decode(ctx context.Context, e layout.Eval, econf expconfig.EvalConfig, fold int) error {
	if exists(e.Counts(fold, econf.Name)) {
		fmt.Fprintf(ev.Stderr, "skipping %s/%s (already done)\n",
			econf.Learner.Name, econf.Decoder.Name)
		return nil
	}

	if err := os.MkdirAll(e.FoldDir(fold), 0755); err != nil {
		return fmt.Errorf("creating fold dir: %w", err)
	}
	err := ev.Runner.Run(ctx, attelo.DecodeArgs(e, ev.Config.AtteloConfig, econf, fold))
	runlog.Event("evaluate:decode", "decode").
		Dataset(e.Dataset).
		Fold(fold).
		Config(econf.Name).
		Write(err)
	return err
}

// report generates score files under parent from the given index.
func (ev *Evaluator) report(ctx context.Context, e layout.Eval, parent, idxFile string) error {
	err := report.Generate(ctx, ev.Runner, e, parent, idxFile)
	runlog.Event("evaluate:report", "report").Dataset(e.Dataset).Write(err)
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
