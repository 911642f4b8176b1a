package main

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xwui-dev/xwui"
	"github.com/xwui-dev/xwui/internal/errors"
	"github.com/xwui-dev/xwui/pkg/loop"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(configDir *string) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo site over HTTP",
		Long: `Serve renders every request on a single event loop.

Routes:
  /metrics          Prometheus metrics (server.metrics)
  /_xwui/events     devtools websocket (server.devtools)
  /*                rendered pages

Examples:
  xwui serve
  xwui serve --port=8080
  xwui serve -c ./site --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configDir)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, err := newSite(cfg, "http://"+cfg.Address()+"/", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.close()

			opts := []xwui.HandlerOption{xwui.WithGatherer(s.registry)}
			if !cfg.Server.Metrics {
				opts = append(opts, xwui.WithoutMetrics())
			}
			if !cfg.Server.Devtools {
				opts = append(opts, xwui.WithoutDevtools())
			}

			ln, err := net.Listen("tcp", cfg.Address())
			if err != nil {
				return errors.New("X300").Wrap(err)
			}
			success(cmd.ErrOrStderr(), "Serving %s on http://%s", cfg.Title, ln.Addr())
			return serve(ctx, ln, s, opts)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	return cmd
}

// serve runs the loop and the HTTP server until ctx ends.
func serve(ctx context.Context, ln net.Listener, s *site, opts []xwui.HandlerOption) error {
	lp := loop.New(loop.WithLogger(s.app.Config().Logger))
	loopCtx, cancelLoop := context.WithCancel(context.Background())
	defer func() {
		cancelLoop()
		<-lp.Done()
	}()
	go lp.Run(loopCtx)

	srv := &http.Server{
		Handler:           s.app.Handler(lp, opts...),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return errors.New("X300").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.New("X300").Wrap(err).WithDetail("Shutdown did not finish in " + shutdownTimeout.String())
	}
	return nil
}
