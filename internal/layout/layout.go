// Package layout defines the file naming conventions shared between the
// harness and adjacent tooling. Model files, count files, fold files and
// score reports are all found by name, so these conventions are the
// harness's one externally meaningful contract: resumability and the
// attelo report step both depend on them staying exactly as they are.
package layout

import (
	"fmt"
	"path/filepath"
)

// Eval locates the per-dataset files inside an evaluation directory.
type Eval struct {
	EvalDir    string // files shared across folds (data, fold file, reports)
	ScratchDir string // per-fold working files (models, counts, outputs)
	Dataset    string // corpus basename, e.g. "RSTtrees-WSJ-main-1.0"
}

// DataFile returns the path to a dataset file with the given extension,
// e.g. "RSTtrees-WSJ-main-1.0.relations.sparse".
func (e Eval) DataFile(ext string) string {
	return filepath.Join(e.EvalDir, e.Dataset+"."+ext)
}

// Features returns the path to the sparse feature file.
func (e Eval) Features() string {
	return e.DataFile("relations.sparse")
}

// EDUInput returns the path to the EDU input file.
func (e Eval) EDUInput() string {
	return e.Features() + ".edu_input"
}

// Pairings returns the path to the EDU pairings file.
func (e Eval) Pairings() string {
	return e.Features() + ".pairings"
}

// FoldFile returns the path to the JSON fold assignment file.
func (e Eval) FoldFile() string {
	return filepath.Join(e.EvalDir, "folds-"+e.Dataset+".json")
}

// FoldDir returns the scratch directory for working within a given fold.
func (e Eval) FoldDir(fold int) string {
	return filepath.Join(e.ScratchDir, fmt.Sprintf("fold-%d", fold))
}

// Model types accepted by [Eval.Model].
const (
	ModelAttach = "attach"
	ModelRelate = "relate"
)

// Model returns the model file path for a learner and model type
// within a fold, e.g. "fold-3/corpus.bayes.attach.model".
func (e Eval) Model(fold int, learner, mtype string) string {
	name := fmt.Sprintf("%s.%s.%s.model", e.Dataset, learner, mtype)
	return filepath.Join(e.FoldDir(fold), name)
}

// Counts returns the path to the score-count file collected for one
// evaluation configuration within a fold.
func (e Eval) Counts(fold int, econf string) string {
	return filepath.Join(e.FoldDir(fold), "counts."+econf+".csv")
}

// DecodeOutput returns the path the decoder writes its predictions to.
func (e Eval) DecodeOutput(fold int, econf string) string {
	return filepath.Join(e.FoldDir(fold), "output."+econf)
}

// CountIndex returns the path to the count index file under parent.
// The corpus-level index lives in the scratch dir; fold-level indices
// live in the fold dirs.
func (e Eval) CountIndex(parent string) string {
	return filepath.Join(parent, "count-index-"+e.Dataset+".csv")
}

// ScorePrefix returns the score file path under parent without its
// extension; callers tack on ".json" or ".txt".
func (e Eval) ScorePrefix(parent string) string {
	return filepath.Join(parent, "scores-"+e.Dataset)
}
