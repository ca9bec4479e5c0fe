package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLsCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List the files that go into the context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := a.walker(cmd)
			if err != nil {
				return err
			}

			entries, err := w.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range entries {
				if e.IsDir() {
					if all {
						fmt.Fprintln(out, e.Path+"/")
					}
					continue
				}
				fmt.Fprintln(out, e.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "list directories too")

	return cmd
}
