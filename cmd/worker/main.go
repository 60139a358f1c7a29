// Standalone resume processing worker. Runs the same batch loop as the API
// binary without exposing any HTTP surface, so processing can be scaled or
// restarted independently.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"TalentSift-backend/internal/config"
	"TalentSift-backend/internal/database"
	"TalentSift-backend/internal/llm"
	"TalentSift-backend/internal/logger"
	"TalentSift-backend/internal/processing"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := processing.NewRunner(db, cfg, invoker, log)
	runner.StartLoop(ctx)

	if err := db.Close(); err != nil {
		log.Errorw("database close failed", "error", err)
	}
}
