package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"leadchat_backend/internal/email"
	"leadchat_backend/internal/scheduler"
	"leadchat_backend/platform/config"
	"leadchat_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender := email.NewSender(cfg, log)

	worker, err := scheduler.NewWorker(cfg, sender, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	if err := worker.Run(ctx); err != nil {
		log.Error("worker error", "error", err)
		panic("worker error: " + err.Error())
	}

	log.Info("worker stopped")
}
