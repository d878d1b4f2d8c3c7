package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"atm-accounts/internal/app"
	"atm-accounts/internal/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logOutput, closeLog, err := openLogOutput(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	atm, err := app.NewApp(cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		slog.Error("Failed to open account store", "storage", cfg.Storage, "error", err)
		fmt.Fprintf(os.Stderr, "Failed to open account store: %v\n", err)
		closeLog()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A blocked read cannot observe ctx, so a signal exits from here.
	// Every completed operation is already persisted.
	finish := watchSignals(ctx, func() {
		slog.Info("Signal received, ATM stopping")
		atm.Close()
		closeLog()
		os.Exit(0)
	})

	runErr := atm.Run(ctx)
	if !finish() {
		// The signal handler owns shutdown and is about to exit.
		select {}
	}

	if err := atm.Close(); err != nil {
		slog.Error("Failed to close account store", "error", err)
	}
	if runErr != nil {
		slog.Error("ATM stopped with error", "error", runErr)
		closeLog()
		os.Exit(1)
	}

	slog.Info("ATM stopped")
}

// watchSignals runs onSignal once ctx is done, unless the returned finish is
// called first. Exactly one side wins: finish reports false when onSignal
// has already been claimed.
func watchSignals(ctx context.Context, onSignal func()) (finish func() bool) {
	var claimed atomic.Bool
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			if claimed.CompareAndSwap(false, true) {
				onSignal()
			}
		case <-done:
		}
	}()

	return func() bool {
		if !claimed.CompareAndSwap(false, true) {
			return false
		}
		close(done)
		return true
	}
}

func openLogOutput(path string) (io.Writer, func(), error) {
	if path == config.LogToStderr {
		return os.Stderr, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
