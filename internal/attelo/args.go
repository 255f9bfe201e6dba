// Package attelo builds argument vectors for the external attelo
// learner/decoder tool and runs it. The harness never interprets the
// feature or model files itself; everything algorithmic lives behind
// attelo's command-line interface, and this package is the only place
// that interface is spelled out.
package attelo

import (
	"strconv"

	"github.com/irit-melodi/irit-rst-dt/internal/expconfig"
	"github.com/irit-melodi/irit-rst-dt/internal/layout"
)

// dataArgs is the data triple plus config file common to the enfold,
// learn and decode subcommands.
func dataArgs(e layout.Eval, atteloConfig string) []string {
	return []string{
		e.EDUInput(),
		e.Pairings(),
		e.Features(),
		"--config", atteloConfig,
	}
}

// foldArgs selects a fold within the shared fold file.
func foldArgs(e layout.Eval, fold int) []string {
	return []string{
		"--fold", strconv.Itoa(fold),
		"--fold-file", e.FoldFile(),
	}
}

// modelArgs names the attachment and relation model files for a fold.
func modelArgs(e layout.Eval, econf expconfig.EvalConfig, fold int) []string {
	return []string{
		"--attachment-model", e.Model(fold, econf.Learner.Name, layout.ModelAttach),
		"--relation-model", e.Model(fold, econf.Learner.Name, layout.ModelRelate),
	}
}

// EnfoldArgs builds the argument vector for attelo enfold, which
// assigns documents to folds and writes the fold file.
func EnfoldArgs(e layout.Eval, atteloConfig string) []string {
	args := []string{"enfold"}
	args = append(args, dataArgs(e, atteloConfig)...)
	args = append(args, "--output", e.FoldFile())
	return args
}

// LearnArgs builds the argument vector for attelo learn, which trains
// the attachment (and optionally relation) models for one fold.
func LearnArgs(e layout.Eval, atteloConfig string, econf expconfig.EvalConfig, fold int) []string {
	args := []string{"learn"}
	args = append(args, dataArgs(e, atteloConfig)...)
	args = append(args, foldArgs(e, fold)...)
	args = append(args, modelArgs(e, econf, fold)...)
	args = append(args, "--learner", econf.Learner.Attach)
	if econf.Learner.Relate != "" {
		args = append(args, "--relation-learner", econf.Learner.Relate)
	}
	if econf.Decoder.Decoder != "" {
		args = append(args, "--decoder", econf.Decoder.Decoder)
	}
	return args
}

// DecodeArgs builds the argument vector for attelo decode, which runs
// the decoder over the test split of a fold and writes both the
// predictions and the score counts.
func DecodeArgs(e layout.Eval, atteloConfig string, econf expconfig.EvalConfig, fold int) []string {
	args := []string{"decode"}
	args = append(args, dataArgs(e, atteloConfig)...)
	args = append(args, foldArgs(e, fold)...)
	args = append(args, modelArgs(e, econf, fold)...)
	args = append(args,
		"--decoder", econf.Decoder.Decoder,
		"--scores", e.Counts(fold, econf.Name),
		"--output", e.DecodeOutput(fold, econf.Name))
	return args
}

// ReportArgs builds the argument vector for attelo report, which
// aggregates the counts named by an index file. The pretty report goes
// to stdout; the JSON summary to jsonFile.
func ReportArgs(indexFile, jsonFile string) []string {
	return []string{"report", indexFile, "--json", jsonFile}
}
