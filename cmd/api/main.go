package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"TalentSift-backend/internal/config"
	"TalentSift-backend/internal/database"
	"TalentSift-backend/internal/llm"
	"TalentSift-backend/internal/logger"
	"TalentSift-backend/internal/processing"
	"TalentSift-backend/internal/server"
)

func main() {
	log := logger.New()
	defer func() { _ = log.Sync() }()

	cfg := config.Load()

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalw("database failed to initialize", "error", err)
	}

	invoker, err := llm.NewClient(cfg)
	if err != nil {
		log.Fatalw("LLM client failed to initialize", "error", err)
	}

	runner := processing.NewRunner(db, cfg, invoker, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Scheduled batch passes share the runner with the on-demand trigger.
	go runner.StartLoop(ctx)

	srv := server.NewServer(&server.MyServer{
		DB:      db,
		Cfg:     cfg,
		Invoker: invoker,
		Runner:  runner,
		Log:     log,
	})

	go func() {
		log.Infow("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("http server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("http server shutdown failed", "error", err)
	}
	if err := db.Close(); err != nil {
		log.Errorw("database close failed", "error", err)
	}
}
