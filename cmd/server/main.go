package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/petfurme/petcal/internal/config"
	"github.com/petfurme/petcal/internal/confirm"
	httpserver "github.com/petfurme/petcal/internal/http"
	"github.com/petfurme/petcal/internal/logging"
	"github.com/petfurme/petcal/internal/petapi"
	"github.com/petfurme/petcal/internal/session"
	"github.com/petfurme/petcal/internal/store"
	"github.com/petfurme/petcal/internal/syncer"
	"github.com/petfurme/petcal/internal/watch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	logger := logging.New(cfg.Environment)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	logger.Info("starting petcal gateway", zap.String("env", cfg.Environment))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend := petapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger)
	st := store.New(logger)

	var reader session.Reader
	if cfg.UserID > 0 {
		reader = session.Static(cfg.UserID)
	} else {
		reader = session.FileReader{Path: cfg.Session.File}
	}

	// HTTP callers carry their confirmation answer on the request context,
	// so the controller's gateway reads it from there.
	controller := syncer.New(backend, st, reader, confirm.Context{}, nil, logger)
	if err := controller.Start(ctx); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			logger.Fatal("no signed-in user: set APP_USER_ID or provide a session file",
				zap.String("session_file", cfg.Session.File))
		}
		logger.Fatal("initial sync failed", zap.Error(err))
	}
	defer controller.Close()

	watcher := watch.New(controller, st, cfg.Watch.Every, logger)
	if err := watcher.Start(ctx); err != nil {
		logger.Fatal("failed to start status watcher", zap.Error(err))
	}
	defer watcher.Stop()

	r := httpserver.NewRouter(cfg, st, controller, backend, logger)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("addr", cfg.ListenAddr),
			zap.Int64("user_id", controller.UserID()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}
