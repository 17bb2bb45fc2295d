// Command forumstub serves the forum REST API from in-memory or PostgreSQL
// storage for local development.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"forumview/config"
	"forumview/internal/app"
	"forumview/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx = logger.WithLogger(ctx, log)

	cfg := config.LoadStubConfig()
	gin.SetMode(gin.ReleaseMode)

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Error("error initializing app", "error", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
