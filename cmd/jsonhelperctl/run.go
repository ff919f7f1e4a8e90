package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pstuifzand/go-jsonhelper/internal/clip"
	"github.com/pstuifzand/go-jsonhelper/internal/core"
	"github.com/pstuifzand/go-jsonhelper/internal/repl"
	"github.com/pstuifzand/go-jsonhelper/transform"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newRunCmd(a *app) *cobra.Command {
	var copyOutput bool

	cmd := &cobra.Command{
		Use:   "run <operation> [file]",
		Short: "Run an operation on a file, stdin or the clipboard",
		Long: `Run an operation and print the result.

Input is read from file when given, else from stdin when it is not a
terminal, else from the system clipboard.`,
		Args: cobra.RangeArgs(1, 2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return transform.OperationNames(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			operation := args[0]
			if err := checkOperation(operation); err != nil {
				return err
			}

			opts := []core.Option{
				core.WithPipeline(a.cfg.NewPipeline()),
				core.WithTransport("cli"),
			}
			if clip.Available() {
				opts = append(opts, core.WithClipboard(clip.System{}))
			}
			c := core.New(opts...)

			input, ok, err := readInput(args[1:], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if ok {
				c.SetInputText(input)
			}

			res := c.Run(operation)
			if !res.OK() {
				return res.Err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Output)
			a.logger.Debug().Str("label", c.Labels().Output).Msg("operation done")

			if copyOutput {
				if err := c.CopyOutput(); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyOutput, "copy", "c", false, "also copy the output to the clipboard")
	return cmd
}

// checkOperation rejects unknown operation names with a suggestion
func checkOperation(name string) error {
	if _, ok := transform.Lookup(name); ok {
		return nil
	}
	err := fmt.Errorf("%w: %q", transform.ErrUnknownOperation, name)
	if s := repl.Suggest(name, transform.OperationNames()); s != "" {
		err = fmt.Errorf("%w (did you mean %q?)", err, s)
	}
	return err
}

// readInput returns the file contents, or stdin when it is piped. ok is
// false when neither applies and the clipboard should be used.
func readInput(files []string, stdin io.Reader) (input string, ok bool, err error) {
	if len(files) > 0 {
		data, err := os.ReadFile(files[0])
		if err != nil {
			return "", false, err
		}
		return string(data), true, nil
	}

	if f, isFile := stdin.(*os.File); isFile && term.IsTerminal(int(f.Fd())) {
		return "", false, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", false, fmt.Errorf("read stdin: %w", err)
	}
	return string(data), true, nil
}

func newOpsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the available operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := repl.NewFormatter(cmd.OutOrStdout(), a.cfg.Terminal.Color && isTerminal(cmd.OutOrStdout()))
			var rows [][]string
			for _, op := range transform.Operations() {
				rows = append(rows, []string{op.Name, op.Description})
			}
			f.PrintTable([]string{"OPERATION", "DESCRIPTION"}, rows)
			return nil
		},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
