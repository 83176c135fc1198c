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

	router, closeInfra, err := app.BuildApp(cfg, logger)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}
	defer closeInfra()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = bootstrap.StartHTTPServer(ctx, router, bootstrap.ServerConfig{
		Port:         cfg.Port,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}, bootstrap.NewAuditLogger(logger), logger)
	if err != nil {
		logger.Error("http server stopped with error", zap.Error(err))
	}
}
