package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "check PATH...",
		Short: "Report whether paths are excluded from the context",
		Long: `Report the verdict for each PATH, relative to the context directory.

A PATH ending in / is treated as a directory. Otherwise the path is looked up
in the context and treated as a directory if it is one there.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, m, _, err := a.load(cmd)
			if err != nil {
				return err
			}

			root := a.v.GetString("context")
			out := cmd.OutOrStdout()
			for _, arg := range args {
				isDir := strings.HasSuffix(arg, "/") || isContextDir(root, arg)
				res := m.MatchWithReason(arg, isDir)

				if verbose && res.Matched {
					fmt.Fprintf(out, "%s\t%s\t%d:%s\n", res.Verdict(), arg, res.Line, res.Pattern)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", res.Verdict(), arg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the deciding pattern and its position")

	return cmd
}

// isContextDir reports whether rel names an existing directory in the context.
func isContextDir(root, rel string) bool {
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil && info.IsDir()
}
