// version.go implements the "irit-rst-dt version" command.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/irit-melodi/irit-rst-dt/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			info := version.Get()
			if JSON() {
				return PrintJSON(info)
			}
			fmt.Fprint(Out(), info.String())
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
