// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command ndu-mockd serves a stand-in for the Ndu assistant API.
//
//	ndu-mockd --addr 127.0.0.1:8000 --delay 800ms
//	NDU_MOCK_FAIL=status ndu-mockd
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jeranaias/ndu-tui/internal/server"
)

// mockConfig is read from the environment; flags override it.
type mockConfig struct {
	Addr     string        `env:"NDU_MOCK_ADDR" envDefault:"127.0.0.1:8000"`
	Fail     string        `env:"NDU_MOCK_FAIL"`
	Delay    time.Duration `env:"NDU_MOCK_DELAY" envDefault:"600ms"`
	LogLevel string        `env:"NDU_MOCK_LOG_LEVEL" envDefault:"info"`
}

func main() {
	if err := newCommand().Execute(); err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		color.Yellow("warning: failed to load .env file: %v\n", err)
	}

	cfg := mockConfig{}
	if err := env.Parse(&cfg); err != nil {
		color.Yellow("warning: ignoring invalid environment: %v\n", err)
	}

	cmd := &cobra.Command{
		Use:           "ndu-mockd",
		Short:         "Serve a mock Ndu assistant API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flags.StringVar(&cfg.Fail, "fail", cfg.Fail, "force failures: status, missing or malformed")
	flags.DurationVar(&cfg.Delay, "delay", cfg.Delay, "hold each reply this long")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "zerolog level")
	return cmd
}

func serve(ctx context.Context, cfg mockConfig) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()

	mode, err := server.ParseFailMode(cfg.Fail)
	if err != nil {
		return err
	}

	srv := server.NewServer(cfg.Addr).
		WithLogger(logger).
		WithFailMode(mode).
		WithDelay(cfg.Delay)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
