package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/noctonic/cyberchef-mcp-sse/config"
	"github.com/noctonic/cyberchef-mcp-sse/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Long: `Run the MCP server.

With the http transport the server listens on --addr and serves the SSE
transport, the streamable HTTP transport and a health report. With the stdio
transport it serves a single client over stdin and stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().String("transport", config.TransportHTTP, "transport to serve: http or stdio")
	cmd.Flags().String("addr", "", "listen address for the http transport")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	c, err := newChef(a.cfg, a.logger)
	if err != nil {
		return err
	}
	srv := server.New(c,
		server.WithSSEPath(a.cfg.Server.SSEPath),
		server.WithHTTPPath(a.cfg.Server.HTTPPath),
		server.WithVersion(version),
		server.WithLogger(a.logger),
	)

	if a.cfg.Server.Transport == config.TransportStdio {
		return srv.RunStdio(ctx)
	}
	return a.serveHTTP(ctx, srv)
}

// serveHTTP runs the listener until ctx is done, then shuts down. Open event
// streams are ended by canceling their base context, since Shutdown does not
// wait out long-lived requests on its own.
func (a *app) serveHTTP(ctx context.Context, srv *server.Server) error {
	streams, cancelStreams := context.WithCancel(context.Background())
	defer cancelStreams()

	httpSrv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return streams },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("listening",
			zap.String("addr", a.cfg.Server.Addr),
			zap.String("sse", a.cfg.Server.SSEPath),
			zap.String("http", a.cfg.Server.HTTPPath),
		)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		open := srv.Sessions().List()
		a.logger.Info("shutting down", zap.Int("sessions", len(open)))
		for _, sess := range open {
			a.logger.Debug("closing session",
				zap.String("session", sess.ID),
				zap.String("transport", sess.Transport),
				zap.Time("connected_at", sess.ConnectedAt),
			)
		}
		cancelStreams()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GetShutdownTimeout())
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
