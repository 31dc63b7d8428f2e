package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/example/snapedit/internal/config"
	"github.com/example/snapedit/internal/httpapi"
	"github.com/example/snapedit/internal/store"
	"github.com/example/snapedit/internal/store/memory"
	"github.com/example/snapedit/internal/store/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the editing engine over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	// A local .env can carry SNAPEDIT_* overrides. The config resolved
	// before the .env was loaded, so resolve it again when one exists.
	if err := godotenv.Load(); err == nil {
		reloaded, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		cfg = reloaded
	}

	var exports store.ExportStore
	if cfg.DatabasePath != "" {
		s, err := sqlite.NewExportStore(cfg.DatabasePath)
		if err != nil {
			return err
		}
		exports = s
		logrus.WithField("path", cfg.DatabasePath).Info("using sqlite export store")
	} else {
		exports = memory.NewExportStore()
		logrus.Info("using in-memory export store")
	}
	defer func() {
		if err := exports.Close(); err != nil {
			logrus.WithError(err).Warn("store close failed")
		}
	}()

	api := httpapi.New(cfg, exports, logrus.StandardLogger())
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", cfg.ListenAddr).Info("listening")
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logrus.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
