package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/dealflow/internal/logging"
	"github.com/alexanderramin/dealflow/internal/mockapi"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newMockServerCmd(app *App) *cobra.Command {
	var addr, secret string
	var seed bool

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Serve an in-memory pipeline API for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(cmd.ErrOrStderr(), app.Config.LogLevel)
			srv := mockapi.New(mockapi.Options{Secret: secret, Logger: logger})
			if seed {
				if err := srv.SeedDemo(); err != nil {
					return err
				}
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", addr, err)
			}
			printf(cmd, "Mock API listening on http://%s\n", ln.Addr())
			if seed {
				printf(cmd, "Demo accounts: admin@, analyst@, partner@dealflow.dev (password \"password\")\n")
			}
			return serveUntilDone(cmd.Context(), &http.Server{
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}, ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", app.Config.MockAddr, "listen address")
	cmd.Flags().StringVar(&secret, "secret", app.Config.MockSecret, "token signing secret")
	cmd.Flags().BoolVar(&seed, "seed", true, "load demo users and deals")
	return cmd
}

// serveUntilDone serves on ln until ctx is cancelled, then shuts down
// gracefully.
func serveUntilDone(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
