package cli

import (
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api.Health(cmd.Context()); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Server is healthy.")
			return nil
		},
	}
}
