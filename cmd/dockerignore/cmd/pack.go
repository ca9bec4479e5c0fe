package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newPackCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Write the context as a tar archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			w, err := a.walker(cmd)
			if err != nil {
				return err
			}

			var dst io.Writer = cmd.OutOrStdout()
			if output != "-" {
				f, ferr := os.Create(output)
				if ferr != nil {
					return fmt.Errorf("creating %s: %w", output, ferr)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = fmt.Errorf("closing %s: %w", output, cerr)
					}
				}()
				dst = f
			}

			rc := w.Pack(cmd.Context())
			if _, err := io.Copy(dst, rc); err != nil {
				_ = rc.Close()
				return fmt.Errorf("writing archive: %w", err)
			}
			return rc.Close()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "archive file, - for stdout")

	return cmd
}
