package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/dodorz/contline/internal/app"
	"github.com/dodorz/contline/internal/config"
	"github.com/dodorz/contline/internal/input"
	"github.com/dodorz/contline/internal/logging"
	"github.com/dodorz/contline/internal/settings"
)

var errNotATerminal = errors.New("contline needs an interactive terminal")

func requireTTY() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotATerminal
	}
	return nil
}

// openStore loads the config and applies the CLI overrides. The returned
// config is a copy carrying the overridden log settings; the store keeps
// the file's values.
func openStore() (*config.Store, *config.UserConfig, error) {
	store, err := config.OpenStore(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := *store.Config()
	config.ApplyOverrides(config.Overrides{
		BorderStyle: borderStyle,
		Shell:       shellPath,
		ThemeName:   themeName,
		LogLevel:    logLevel,
		Debug:       debugMode,
	}, &cfg)
	return store, &cfg, nil
}

func runLocal() error {
	if err := requireTTY(); err != nil {
		return err
	}

	store, cfg, err := openStore()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, File: cfg.Log.File}, config.DefaultLogPath)
	if err != nil {
		log.Printf("Warning: file logging disabled: %v", err)
		logger = logging.Discard()
	}
	defer func() {
		if closeErr := logger.Close(); closeErr != nil {
			log.Printf("Warning: failed to close log file: %v", closeErr)
		}
	}()
	if debugMode {
		log.Printf("Configuration: %s", store.Path())
		if p := logger.Path(); p != "" {
			log.Printf("Log file: %s", p)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := store.Watch(ctx); err != nil {
		logger.Warn("config hot reload disabled", "err", err)
	}

	app.SetInputHandler(input.HandleInput)

	host, err := app.New(app.Options{Store: store, Logger: logger})
	if err != nil {
		return err
	}
	logger.Info("starting", "version", version, "config", store.Path())

	p := tea.NewProgram(
		host,
		tea.WithFPS(config.NormalFPS),
		tea.WithoutSignalHandler(),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			p.Send(tea.QuitMsg{})
		case <-ctx.Done():
		}
	}()

	finalModel, err := p.Run()

	if finalHost, ok := finalModel.(*app.Host); ok {
		finalHost.Cleanup()
	}
	logger.Info("stopped")

	if err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func runSettings() error {
	if err := requireTTY(); err != nil {
		return err
	}

	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	registry := config.NewKeybindRegistry(cfg)

	form := settings.New(store, registry.GetKeysForDisplay(config.ActionSendText), settings.Standalone())
	if _, err := tea.NewProgram(form).Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	if err := form.Err(); err != nil {
		return fmt.Errorf("last save failed: %w", err)
	}
	return nil
}
