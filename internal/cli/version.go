package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pinhole/pkg/pinhole"
)

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pinhole version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.jsonOut {
				return writeJSON(a.stdout, map[string]string{
					"version": pinhole.Version,
					"module":  pinhole.ModulePath,
				})
			}
			fmt.Fprintf(a.stdout, "pinhole v%s\nmodule: %s\n", pinhole.Version, pinhole.ModulePath)
			return nil
		},
	}
}
