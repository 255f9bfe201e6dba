// config.go implements the "irit-rst-dt config" command: show the
// effective experiment configuration and where it was loaded from.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective experiment configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfig,
	}
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := Config()
	fmt.Fprintf(os.Stderr, "loaded from %s\n", cfg.Path())

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	_, err = Out().Write(data)
	return err
}

func init() {
	rootCmd.AddCommand(newConfigCmd())
}
