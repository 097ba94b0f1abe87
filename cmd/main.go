package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"scorecard/internal/application"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := slog.New(newHandler(os.Stdout))
	slog.SetDefault(log)

	if err := application.Run(ctx); err != nil {
		log.Error("application failed", tint.Err(err))
		os.Exit(1)
	}

	log.Info("application stopped")
}

func newHandler(out *os.File) slog.Handler {
	if isatty.IsTerminal(out.Fd()) {
		return tint.NewHandler(out, &tint.Options{ //nolint:exhaustruct
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		})
	}

	return slog.NewTextHandler(out, &slog.HandlerOptions{ //nolint:exhaustruct
		Level: slog.LevelDebug,
	})
}
