package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/qgen/internal/logging"
	"github.com/abhisek/qgen/internal/orchestrator"
	"github.com/abhisek/qgen/internal/web"
)

const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question generator web form",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().Bool("secure-cookie", false, "Mark the session cookie Secure (behind TLS)")
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	sessions := orchestrator.NewSessionStore(p.orch)
	if cfg.Server.SessionIdleTimeout > 0 {
		go sessions.RunSweeper(ctx, cfg.Server.SessionIdleTimeout/4, cfg.Server.SessionIdleTimeout)
	}

	var secure bool
	if cmd.Flags().Lookup("secure-cookie") != nil {
		secure, _ = cmd.Flags().GetBool("secure-cookie")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           web.NewServer(sessions, web.Options{SecureCookie: secure}).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Logger.WithField("addr", srv.Addr).Info("listening")
		fmt.Fprintf(cmd.OutOrStdout(), "qgen is running at http://%s\n", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
