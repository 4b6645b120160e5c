package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nikbrunner/vault/internal/config"
	"github.com/nikbrunner/vault/internal/logger"
	"github.com/nikbrunner/vault/internal/state"
	"github.com/nikbrunner/vault/internal/storage"
	"github.com/nikbrunner/vault/internal/store"
	"github.com/nikbrunner/vault/internal/tui"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "vault: %v\n", err)
		os.Exit(1)
	}
}

// env carries what every subcommand needs once config is loaded.
type env struct {
	cfg   *config.Config
	log   logger.Logger
	kv    storage.KV
	store *store.Store
}

func (e *env) Close() {
	if e.kv != nil {
		if err := e.kv.Close(); err != nil {
			e.log.Warn("failed to close storage", logger.Error(err))
		}
	}
	_ = e.log.Sync()
}

// openEnv loads config, starts the file logger and opens the storage
// backend. Log lines go to a file so they never mix with command output or
// the alt-screen.
func openEnv(ctx context.Context, configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Pretty, cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("failed to start logger: %w", err)
	}

	kv, err := storage.Open(ctx, cfg.Storage, log)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	log.Debug("storage opened",
		logger.String("backend", cfg.Storage.Backend),
		logger.String("path", cfg.Storage.Path))

	return &env{
		cfg:   cfg,
		log:   log,
		kv:    kv,
		store: store.New(kv, store.WithLogger(log)),
	}, nil
}

func defaultConfigPath() string {
	if v := os.Getenv("VAULT_CONFIG"); v != "" {
		return v
	}
	path, err := config.DefaultConfigFilePath()
	if err != nil {
		return "config.toml"
	}
	return path
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Keyboard-driven bookmark manager",
		Long: `vault keeps a flat collection of bookmarks (title, url, description, tags).

Run without arguments to open the interactive list. Changes appear
immediately and are confirmed in the background; failed writes roll back.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			e, err := openEnv(ctx, configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			mgr := state.New(state.Options{
				Store:           e.store,
				Latency:         e.cfg.State.Latency.Duration,
				Debounce:        e.cfg.State.Debounce.Duration,
				SimulateFailure: e.cfg.State.SimulateFailure,
				Logger:          e.log.With(logger.String("component", "state")),
			})
			// confirmations still in flight are written before storage closes
			defer mgr.Close()

			return tui.Run(ctx, tui.AppParams{
				Manager: mgr,
				Logger:  e.log.With(logger.String("component", "tui")),
			})
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to config.toml")

	cmd.AddCommand(
		newFindCmd(&configPath),
		newAddCmd(&configPath),
		newListCmd(&configPath),
		newRmCmd(&configPath),
		newImportCmd(&configPath),
		newExportCmd(&configPath),
		newAuditCmd(&configPath),
		newConfigCmd(&configPath),
	)
	return cmd
}
