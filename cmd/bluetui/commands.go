package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/muurk/bluetui/internal/bluez"
	"github.com/muurk/bluetui/internal/config"
	"github.com/muurk/bluetui/internal/logging"
	"github.com/muurk/bluetui/internal/tui"
	"github.com/muurk/bluetui/internal/version"
)

var errNotTerminal = errors.New("bluetui needs an interactive terminal")

func runBrowser(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logging.Initialize(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()
	logging.Info("Starting bluetui",
		zap.String("version", version.Full()),
		zap.String("adapter", cfg.Adapter),
	)

	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return errNotTerminal
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	session, err := bluez.Connect(bluez.Options{Adapter: cfg.Adapter})
	if err != nil {
		logging.Error("Failed to connect to BlueZ", zap.Error(err))
		return fmt.Errorf("failed to connect to BlueZ: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logging.Warn("Failed to close BlueZ session", zap.Error(err))
		}
	}()

	if err := tui.Run(ctx, session); err != nil {
		logging.Error("Exited with error", zap.Error(err))
		return err
	}
	logging.Info("Exited")
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
