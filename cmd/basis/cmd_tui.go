package main

import (
	"github.com/spf13/cobra"

	"basislab/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	var policy string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, err := a.engineConfig(policy)
			if err != nil {
				return err
			}
			return tui.Run(bc, a.plotOptions())
		},
	}
	cmd.Flags().StringVar(&policy, "policy", "", "Initial rotation policy")
	return cmd
}
