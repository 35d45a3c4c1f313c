package main

import (
	"github.com/spf13/cobra"

	"github.com/HustleV0/VirtinSaz-sub001/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Show the client version",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newOutputFormatter(cmd)
			return out.Print(map[string]any{
				"version": version.FormatVersion(version.String()),
			})
		},
	}
}
