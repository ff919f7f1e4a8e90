package main

import (
	"github.com/pstuifzand/go-jsonhelper/internal/clip"
	"github.com/pstuifzand/go-jsonhelper/internal/core"
	xlog "github.com/pstuifzand/go-jsonhelper/internal/log"
	"github.com/pstuifzand/go-jsonhelper/internal/repl"
	"github.com/pstuifzand/go-jsonhelper/internal/socket"
	"github.com/spf13/cobra"
)

func newReplCmd(a *app) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive shell for the daemon's session",
		Long: `Start an interactive shell connected to a running daemon
(jsonhelperctl serve, or jsonhelper --socket). With --local the shell
holds its own session instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if local {
				opts := []core.Option{
					core.WithPipeline(a.cfg.NewPipeline()),
					core.WithTransport("repl"),
				}
				if clip.Available() {
					opts = append(opts, core.WithClipboard(clip.System{}))
				}
				return a.runSession(core.New(opts...), "local session")
			}

			client, err := socket.Dial(a.cfg.Socket.Path)
			if err != nil {
				return err
			}
			defer client.Close()

			commands := socket.NewClientCommands(client, xlog.WithComponent("repl"))
			return a.runSession(commands, a.cfg.Socket.Path)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "use an in-process session instead of the daemon")
	return cmd
}

func (a *app) runSession(commands core.Commands, target string) error {
	session := repl.NewSession(commands, target, a.cfg.Terminal.Color)
	session.SetHistoryFile(a.cfg.Terminal.HistoryFile)
	return session.Run()
}
