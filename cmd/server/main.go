package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/culvertcrawlers/fieldsurvey/internal/buildinfo"
	"github.com/culvertcrawlers/fieldsurvey/internal/logging"
	"github.com/culvertcrawlers/fieldsurvey/internal/server"
	"github.com/culvertcrawlers/fieldsurvey/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}

}
