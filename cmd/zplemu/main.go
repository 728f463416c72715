package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"zplemu/internal/app"
	"zplemu/internal/journal"
	u "zplemu/internal/utils"
)

func main() {
	cfg := u.LoadConfig()

	if err := ensureLogDir(cfg.Logger.File); err != nil {
		u.Error("Failed to create log directory", "file", cfg.Logger.File, "error", err)
		cfg.Logger.File = ""
	}
	u.InitLogger(
		cfg.Logger.File,
		cfg.Logger.MaxSizeMB,
		cfg.Logger.MaxBackups,
		cfg.Logger.MaxAgeDays,
		cfg.Logger.Compress,
		cfg.Logger.Level,
	)
	u.SetLogLevel(cfg.Logger.Level)

	rec, err := journal.Open(context.Background(), cfg)
	if err != nil {
		u.Error("Failed to open print journal, continuing without it", "driver", cfg.Journal.Driver, "error", err)
		rec = journal.Nop{}
	}
	defer rec.Close()

	idleConnsClosed := make(chan struct{})
	app := app.SetupApp(cfg, rec)

	startServer(app, cfg, idleConnsClosed)
	<-idleConnsClosed
}

// ensureLogDir creates the directory holding the log file.
func ensureLogDir(file string) error {
	if file == "" {
		return nil
	}
	dir := filepath.Dir(file)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// startServer starts the Fiber app and listens for shutdown signals
func startServer(app *fiber.App, cfg u.Config, idleConnsClosed chan struct{}) {
	go func() {
		u.Info("Starting server", "addr", cfg.Server.Host+cfg.Server.Port, "render_url", cfg.Render.BaseURL)
		if err := app.Listen(cfg.Server.Host + cfg.Server.Port); err != nil {
			u.Error("Server error", "error", err)
		}
	}()

	// Listen for OS termination signals
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
	<-sigint
	signal.Stop(sigint)

	u.Warn("Shutdown signal received, closing server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		u.Error("Server forced to shutdown", "error", err)
	}

	close(idleConnsClosed)
	u.Info("Server stopped cleanly")
}
