package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nikbrunner/vault/internal/config"
	"github.com/nikbrunner/vault/internal/logger"
)

// Open opens the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (KV, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileKV(cfg.Path), nil
	case "sqlite":
		return NewSQLiteKV(filepath.Join(cfg.Path, "vault.db"))
	case "redis":
		r := cfg.Redis
		return DialRedis(ctx, RedisOptions{
			Addr:           r.Addr,
			Username:       r.Username,
			Password:       r.Password,
			DB:             r.DB,
			Prefix:         r.Prefix,
			ConnectTimeout: r.ConnectTimeout.Duration,
			RetryInterval:  r.RetryInterval.Duration,
			MaxWait:        r.MaxWait.Duration,
			PingTimeout:    r.PingTimeout.Duration,
		}, log)
	case "memory":
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
