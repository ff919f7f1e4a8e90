package main

import (
	"fmt"

	xlog "github.com/pstuifzand/go-jsonhelper/internal/log"
	"github.com/pstuifzand/go-jsonhelper/internal/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <operation> <file>",
		Short: "Re-run an operation each time a file changes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			operation, path := args[0], args[1]
			if err := checkOperation(operation); err != nil {
				return err
			}

			pipeline := a.cfg.NewPipeline()
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

			w := watch.New(path, xlog.WithComponent("watch"))
			return w.Run(cmd.Context(), func(content string) {
				res := pipeline.Apply(operation, content)
				if !res.OK() {
					fmt.Fprintln(errOut, "Error:", res.Err)
					return
				}
				fmt.Fprintln(out, res.Output)
			})
		},
	}
}
