package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"launchpad_go/internal/app"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Dispatcher (the single workflow goroutine)
	go bootstrap.Dispatcher.Run(ctx)
	slog.InfoContext(ctx, "✅ Dispatcher started")

	// 5. Exchange event monitor
	if bootstrap.Monitor != nil {
		if err := bootstrap.Monitor.Connect(ctx); err != nil {
			slog.Error("Failed to connect exchange feed", slog.Any("error", err))
		}
		defer bootstrap.Monitor.Disconnect()
		slog.InfoContext(ctx, "✅ Exchange event monitor started")
	}

	// Surface the current price list once at startup.
	if standard, err := bootstrap.Service.StandardCost(); err == nil {
		slog.InfoContext(ctx, "Launch pricing", slog.String("standard", standard.String()))
	}
	if scarce, err := bootstrap.Service.ScarceCost(); err == nil {
		slog.InfoContext(ctx, "Launch pricing", slog.String("scarce", scarce.String()))
	}

	slog.InfoContext(ctx, "✨ Launchpad fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
}
