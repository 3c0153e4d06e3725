package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/weld/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [tasks...]",
		Short: "Run tasks of the root build, building substituted dependencies as needed",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}

			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			noBuildDeps, err := cmd.Flags().GetBool("no-build-deps")
			if err != nil {
				return err
			}

			return c.app.Run(cmd.Context(), app.RunOptions{
				ConfigPath:          configPath,
				TaskPaths:           args,
				NoBuildDependencies: noBuildDeps,
			})
		},
	}

	cmd.Flags().Bool("no-build-deps", false, "Resolve substituted dependencies without building them")

	return cmd
}
