package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VoxDroid/cqe/internal/mockapi"
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Run an in-memory CQE backend for local development",
	Long: fmt.Sprintf(`Serve every backend route from memory with seeded projects and releases.
Sign in with SOEID %s and passcode %s.`, mockapi.DemoSOEID, mockapi.DemoPasscode),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		latency, _ := cmd.Flags().GetDuration("latency")

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		// request logs go to stderr even when the CLI logs to a file
		srvLogger := logger
		if !verbose {
			if l, err := zap.NewProduction(); err == nil {
				srvLogger = l
			}
		}
		srv := mockapi.New(mockapi.Options{Latency: latency, Logger: srvLogger})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "mock backend listening on http://%s (demo login %s / %s)\n",
			ln.Addr(), mockapi.DemoSOEID, mockapi.DemoPasscode)
		return serveMock(ctx, ln, srv.Router(), srvLogger)
	},
}

// serveMock serves h on ln until ctx is done, then shuts down gracefully.
func serveMock(ctx context.Context, ln net.Listener, h http.Handler, l *zap.Logger) error {
	s := &http.Server{
		Handler:      h,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := s.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	l.Info("shutting down mock backend")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func init() {
	mockServerCmd.Flags().String("addr", "127.0.0.1:8001", "Listen address")
	mockServerCmd.Flags().Duration("latency", 0, "Delay added to every response")
	rootCmd.AddCommand(mockServerCmd)
}
