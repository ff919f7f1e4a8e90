package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pstuifzand/go-jsonhelper/internal/api"
	"github.com/pstuifzand/go-jsonhelper/internal/clip"
	"github.com/pstuifzand/go-jsonhelper/internal/core"
	xlog "github.com/pstuifzand/go-jsonhelper/internal/log"
	"github.com/pstuifzand/go-jsonhelper/internal/socket"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Hold a session and serve it over the socket (and HTTP)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if httpAddr != "" {
				a.cfg.HTTP.Enabled = true
				a.cfg.HTTP.Addr = httpAddr
			}
			return serve(cmd.Context(), a)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", "also serve the HTTP API on this address")
	return cmd
}

// serve runs the daemon until ctx is cancelled
func serve(ctx context.Context, a *app) error {
	pipeline := a.cfg.NewPipeline()

	opts := []core.Option{core.WithPipeline(pipeline), core.WithTransport("socket")}
	if clip.Available() {
		opts = append(opts, core.WithClipboard(clip.System{}))
	} else {
		a.logger.Warn().Msg("no clipboard backend found, clipboard commands will fail")
	}
	session := core.New(opts...)

	server := socket.NewServer(a.cfg.Socket.Path, session, xlog.WithComponent("socket"))
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	errCh := make(chan error, 1)
	var httpServer *http.Server
	if a.cfg.HTTP.Enabled {
		transformer := core.New(core.WithPipeline(pipeline), core.WithTransport("http"))
		routes := api.New(transformer, api.Config{
			RateLimit: a.cfg.HTTP.RateLimit,
			Metrics:   true,
		}, xlog.WithComponent("api")).Routes()

		httpServer = &http.Server{
			Addr:              a.cfg.HTTP.Addr,
			Handler:           routes,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			a.logger.Info().Str("addr", a.cfg.HTTP.Addr).Msg("http api listening")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http api: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info().Msg("shutting down")
	case runErr = <-errCh:
	}

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn().Err(err).Msg("http shutdown")
		}
	}
	return runErr
}
