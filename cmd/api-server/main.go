package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"clawledge/internal/config"
	"clawledge/internal/logging"
	"clawledge/internal/submissions"
	"clawledge/pkg/database"
)

func main() {
	path := os.Getenv("CLAWLEDGE_CONFIG")
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	db := database.MustOpen(database.Config{Path: cfg.Database.Path}, log)
	defer db.Close()

	store, err := openStore(cfg, db)
	if err != nil {
		log.Fatal("submission store", zap.Error(err))
	}

	router, err := newRouter(cfg, deps{db: db, store: store, log: log})
	if err != nil {
		log.Fatal("router setup failed", zap.Error(err))
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP API server listening", zap.String("addr", cfg.Server.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", zap.Error(err))
	}
	log.Info("server stopped")
}

// openStore picks the submission sheet. The local table needs no
// credentials; a Google sheet without credentials is a startup error.
func openStore(cfg *config.Config, db *sql.DB) (submissions.Store, error) {
	switch cfg.Sheet.Backend {
	case "sqlite":
		return submissions.NewSQLiteStore(db), nil
	case "", "google":
		return submissions.NewGoogleStore(context.Background(), submissions.GoogleConfig{
			SpreadsheetID:       cfg.Sheet.SpreadsheetID,
			SheetName:           cfg.Sheet.SheetName,
			CredentialsFile:     cfg.Sheet.CredentialsFile,
			ServiceAccountEmail: cfg.Sheet.ServiceAccountEmail,
			PrivateKey:          cfg.Sheet.PrivateKey,
		})
	default:
		return nil, fmt.Errorf("unknown sheet backend %q", cfg.Sheet.Backend)
	}
}
