package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hris-leave/internal/app"
	"hris-leave/internal/bootstrap"
	"hris-leave/internal/config"
	"hris-leave/internal/shared/apperror"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := bootstrap.NewLogger(cfg.Env, cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	audit := bootstrap.NewAuditLogger(logger)
	audit.Log(ctx, bootstrap.AuditLog{Action: "WORKER_STARTED", Message: "worker started"})
	defer audit.Log(context.Background(), bootstrap.AuditLog{Action: "WORKER_STOPPED", Message: "worker stopped"})

	if err := app.RunWorker(ctx, cfg, logger); err != nil {
		logger.Error("run worker failed", zap.Error(err))
	}
}
