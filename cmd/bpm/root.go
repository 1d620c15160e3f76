package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bpm",
		Short:         "Broadcast performance metrics tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newSimulateCommand())
	rootCmd.AddCommand(newCaptureCommand())
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
