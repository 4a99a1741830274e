// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package main implements the lightning-locator command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wneessen/lightning-locator/internal/config"
	"github.com/wneessen/lightning-locator/internal/i18n"
	"github.com/wneessen/lightning-locator/internal/logger"
	"github.com/wneessen/lightning-locator/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var confPath string

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	rootCmd := &cobra.Command{
		Use:   "lightning-locator",
		Short: "Estimate where lightning struck from the flash-to-thunder delay",
		Long: `lightning-locator times the delay between a lightning flash and its thunder,
samples the compass heading while you point towards the flash and projects the
estimated strike position from your GPS fix, together with an uncertainty radius.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&confPath, "config", "", "path to the config file")
	rootCmd.AddCommand(
		newRecordCmd(),
		newEstimateCmd(),
		newHistoryCmd(),
		newShowCmd(),
		newExportCmd(),
		newClearCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, StyleError.Render("Error: "+err.Error()))
		}
		cancel()
		os.Exit(1)
	}
}

// withService loads the configuration, creates the service and runs fn with it.
func withService(cmd *cobra.Command, fn func(*service.Service) error) error {
	// A missing .env file is not an error
	_ = godotenv.Load()

	conf, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(conf.LogLevel)
	t, err := i18n.New(conf.Locale)
	if err != nil {
		return fmt.Errorf("failed to initialize localizer: %w", err)
	}

	serv, err := service.New(conf, log, t)
	if err != nil {
		return fmt.Errorf("failed to initialize lightning-locator: %w", err)
	}
	defer func() {
		if err := serv.Close(); err != nil {
			log.Error("failed to close strike history", logger.Err(err))
		}
	}()
	log.Debug("lightning-locator initialized", slog.String("command", cmd.Name()),
		slog.String("version", version), slog.String("storage", conf.Storage.Path))

	return fn(serv)
}

func loadConfig() (*config.Config, error) {
	if confPath != "" {
		conf, err := config.NewFromFile(filepath.Dir(confPath), filepath.Base(confPath))
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		return conf, nil
	}
	if path, file := findConfigFile(); path != "" && file != "" {
		conf, err := config.NewFromFile(path, file)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		return conf, nil
	}
	conf, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return conf, nil
}

func findConfigFile() (string, string) {
	confDir, err := os.UserConfigDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(confDir, "lightning-locator", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
