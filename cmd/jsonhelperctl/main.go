// Command jsonhelperctl runs the JSON helper operations from a terminal and
// hosts the session daemon.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pstuifzand/go-jsonhelper/internal/config"
	xlog "github.com/pstuifzand/go-jsonhelper/internal/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once flags are parsed
type app struct {
	configPath string
	socketPath string

	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "jsonhelperctl",
		Short:         "Prettify, minify, escape, encode and compress JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/jsonhelper/config.toml)")
	root.PersistentFlags().StringVar(&a.socketPath, "socket", "", "daemon socket path (overrides config)")

	root.AddCommand(
		newRunCmd(a),
		newOpsCmd(a),
		newServeCmd(a),
		newReplCmd(a),
		newWatchCmd(a),
	)
	return root
}

// load reads the configuration and sets up logging
func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.socketPath != "" {
		cfg.Socket.Path = a.socketPath
	}
	a.cfg = cfg

	xlog.Configure(xlog.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "jsonhelperctl",
	})
	a.logger = xlog.WithComponent("cli")
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		root.PrintErrln("Error:", err)
		stop()
		os.Exit(1)
	}
}
