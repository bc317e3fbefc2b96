// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/jeranaias/ndu-tui/internal/agent"
	"github.com/jeranaias/ndu-tui/internal/config"
	"github.com/jeranaias/ndu-tui/internal/identity"
	"github.com/jeranaias/ndu-tui/internal/logging"
	"github.com/jeranaias/ndu-tui/internal/storage"
)

// Runtime holds the services a command needs.
type Runtime struct {
	Config *config.Config
	Log    zerolog.Logger
	Store  storage.KV
	IDs    *identity.Store
	Client *agent.Client

	closeLog func() error
}

// loadConfig resolves the config file and applies the command line flags.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	if opts.envFile != "" {
		if err := config.LoadDotEnv(opts.envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", opts.envFile, err)
		}
	}

	path := opts.configPath
	if path == "" {
		p, err := config.ConfigPathTOML()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}

	if opts.storage != "" {
		cfg.Storage.Backend = opts.storage
	}
	if opts.logConsole {
		cfg.Log.Console = true
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	config.SetGlobal(cfg)
	return cfg, nil
}

// newRuntime builds logging, storage, identity and the API client.
func newRuntime(opts *globalOptions, stderr io.Writer) (*Runtime, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logPath := cfg.Log.Path
	if logPath == "" && !cfg.Log.Console {
		if logPath, err = config.DefaultLogPath(); err != nil {
			return nil, err
		}
	}
	log, closeLog, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Path:    logPath,
		Console: cfg.Log.Console,
		Stderr:  stderr,
	})
	if err != nil {
		return nil, err
	}

	kv, err := storage.Open(storage.Options{
		Backend: cfg.Storage.Backend,
		Path:    cfg.Storage.Path,
		Logger:  log,
	})
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	client := agent.NewClient(cfg.Backend.BaseURL).
		WithChatPath(cfg.Backend.ChatPath).
		WithLogger(log)
	if cfg.Backend.UserAgent != "" {
		client = client.WithUserAgent(cfg.Backend.UserAgent)
	}

	log.Debug().
		Str("endpoint", client.Endpoint()).
		Str("storage", cfg.Storage.Backend).
		Msg("runtime ready")

	return &Runtime{
		Config:   cfg,
		Log:      log,
		Store:    kv,
		IDs:      identity.NewStore(kv),
		Client:   client,
		closeLog: closeLog,
	}, nil
}

// Close releases storage and the log file.
func (rt *Runtime) Close() error {
	return errors.Join(rt.Store.Close(), rt.closeLog())
}
