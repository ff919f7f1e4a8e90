// Command jsonhelper is the GTK JSON helper window.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gotk3/gotk3/gtk"
	"github.com/pstuifzand/go-jsonhelper/internal/clip"
	"github.com/pstuifzand/go-jsonhelper/internal/config"
	"github.com/pstuifzand/go-jsonhelper/internal/core"
	xlog "github.com/pstuifzand/go-jsonhelper/internal/log"
	"github.com/pstuifzand/go-jsonhelper/internal/socket"
	"github.com/pstuifzand/go-jsonhelper/internal/ui"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	serve      bool
	connect    bool
	socketPath string
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:          "jsonhelper",
		Short:        "JSON helper window",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}
	root.Flags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/jsonhelper/config.toml)")
	root.Flags().BoolVar(&opts.serve, "serve", false, "share the window's session over the socket")
	root.Flags().BoolVar(&opts.connect, "connect", false, "use the session of a running daemon")
	root.Flags().StringVar(&opts.socketPath, "socket", "", "socket path (overrides config)")
	root.MarkFlagsMutuallyExclusive("serve", "connect")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.socketPath != "" {
		cfg.Socket.Path = opts.socketPath
	}

	xlog.Configure(xlog.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "jsonhelper",
	})
	logger := xlog.WithComponent("ui")

	gtk.Init(nil)

	var commands core.Commands
	var server *socket.Server

	switch {
	case opts.connect:
		client, err := socket.Dial(cfg.Socket.Path)
		if err != nil {
			return err
		}
		defer client.Close()
		commands = socket.NewClientCommands(client, xlog.WithComponent("socket-client"))

	default:
		// Socket clients run on their own goroutines and must not touch the
		// GTK clipboard, so a served session uses the system clipboard tool.
		var cb core.Clipboard
		if opts.serve && clip.Available() {
			cb = clip.System{}
		} else if !opts.serve {
			gtkClipboard, err := ui.NewClipboard()
			if err != nil {
				return err
			}
			cb = gtkClipboard
		}

		coreOpts := []core.Option{
			core.WithPipeline(cfg.NewPipeline()),
			core.WithTransport("gtk"),
		}
		if cb != nil {
			coreOpts = append(coreOpts, core.WithClipboard(cb))
		}
		session := core.New(coreOpts...)
		commands = session

		if opts.serve {
			server = socket.NewServer(cfg.Socket.Path, session, xlog.WithComponent("socket"))
			if err := server.Start(); err != nil {
				return fmt.Errorf("start socket server: %w", err)
			}
			defer server.Stop()
		}
	}

	window, err := ui.New(commands, time.Duration(cfg.UI.HighlightMS)*time.Millisecond, logger)
	if err != nil {
		return err
	}
	if server != nil {
		server.SetUpdateCallback(window.RefreshAsync)
	}
	window.Show()

	gtk.Main()
	return nil
}
