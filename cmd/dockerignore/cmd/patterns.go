package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPatternsCmd(a *app) *cobra.Command {
	var compiled bool

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Print the final pattern list in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, m, _, err := a.load(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !compiled {
				for _, p := range list.Patterns {
					fmt.Fprintln(out, p)
				}
				return nil
			}

			for _, p := range m.Patterns() {
				fmt.Fprintf(out, "%d\t%s\t%s\n", p.Line(), p, strings.Join(p.Flags(), ","))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&compiled, "compiled", false, "show compiled patterns with position and flags")

	return cmd
}
