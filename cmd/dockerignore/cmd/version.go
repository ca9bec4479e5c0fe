package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the release version (set via -ldflags).
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dockerignore %s\n", Version)
		},
	}
}
