/*
Copyright © 2026 IRIT Melodi <melodi@irit.fr>
*/

// root.go defines the root command and CLI execution entry point.
//
// Design: PersistentPreRunE loads the experiment config lazily - only
// commands that drive attelo need it. This lets utility commands
// (version, scores) work without a config file or gathered data. The
// noConfigCommands map controls which commands skip loading.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/irit-melodi/irit-rst-dt/internal/expconfig"
	"github.com/irit-melodi/irit-rst-dt/internal/runlog"
	"github.com/irit-melodi/irit-rst-dt/internal/workspace"
)

// expCfg is the experiment config loaded by PersistentPreRunE.
var expCfg *expconfig.Config

// noConfigCommands are top-level commands that run without an
// experiment config.
var noConfigCommands = map[string]bool{
	"version":    true,
	"scores":     true,
	"clean":      true,
	"help":       true,
	"completion": true,
}

var rootCmd = &cobra.Command{
	Use:   "irit-rst-dt",
	Short: "Experiment harness for discourse parsing on the RST-DT corpus",
	Long: `Runs cross-validation experiments with the attelo discourse parser:
gathers features from the training corpora, trains and decodes every
configured learner/decoder combination on every fold, and aggregates the
scores into reports. Interrupted evaluations resume from the files already
on disk.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if output != "" && !slices.Contains(validOutputFormats, output) {
			return fmt.Errorf("invalid output format: %s (valid: %v)", output, validOutputFormats)
		}

		if noConfigCommands[topLevelCmdName(cmd)] {
			return nil
		}

		cfg, err := expconfig.Load(filepath.Join(DataDir(), workspace.LatestLink))
		if err != nil {
			if JSON() {
				_ = PrintJSON(map[string]string{"error": err.Error()})
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
			}
			return fmt.Errorf("load experiment config: %w", err)
		}
		expCfg = cfg
		return nil
	},
}

// Config returns the experiment config loaded by PersistentPreRunE.
func Config() *expconfig.Config {
	return expCfg
}

// topLevelCmdName returns the name of the top-level command (direct
// child of root). For "irit-rst-dt scores diff a b", returns "scores".
func topLevelCmdName(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// Execute runs the root command and handles process lifecycle. Opens the
// run log, executes the command, and exits 1 on error.
func Execute() {
	// Initialise the run log (warn if it fails, but continue)
	if err := runlog.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: run log unavailable: %v\n", err)
	}
	defer runlog.Close()

	if err := rootCmd.Execute(); err != nil {
		runlog.Close()
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}
