package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nikbrunner/vault/internal/config"
	"github.com/nikbrunner/vault/internal/logger"
	"github.com/nikbrunner/vault/internal/storage"
)

// exerciseKV runs the behaviour every backend must share.
func exerciseKV(t *testing.T, kv storage.KV) {
	t.Helper()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := kv.Set(ctx, "bookmark-vault-data", `[{"id":"1"}]`); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	got, err := kv.Get(ctx, "bookmark-vault-data")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if got != `[{"id":"1"}]` {
		t.Errorf("unexpected value %q", got)
	}

	if err := kv.Set(ctx, "bookmark-vault-data", "[]"); err != nil {
		t.Fatalf("failed to overwrite: %v", err)
	}
	got, _ = kv.Get(ctx, "bookmark-vault-data")
	if got != "[]" {
		t.Errorf("expected overwritten value, got %q", got)
	}

	if err := kv.Delete(ctx, "bookmark-vault-data"); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if _, err := kv.Get(ctx, "bookmark-vault-data"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := kv.Delete(ctx, "bookmark-vault-data"); err != nil {
		t.Errorf("deleting a missing key should succeed, got %v", err)
	}
}

func TestFileKV(t *testing.T) {
	kv := storage.NewFileKV(filepath.Join(t.TempDir(), "data"))
	exerciseKV(t, kv)
}

func TestFileKV_WritesOneFilePerKey(t *testing.T) {
	dir := t.TempDir()
	kv := storage.NewFileKV(dir)

	if err := kv.Set(context.Background(), "bookmark-vault-data", "[]"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "bookmark-vault-data.json"))
	if err != nil {
		t.Fatalf("expected value file: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("unexpected file content %q", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestFileKV_RejectsPathKeys(t *testing.T) {
	kv := storage.NewFileKV(t.TempDir())
	for _, key := range []string{"", "../escape", "a/b", ".."} {
		if err := kv.Set(context.Background(), key, "x"); err == nil {
			t.Errorf("expected error for key %q", key)
		}
	}
}

func TestFileKV_CancelledContext(t *testing.T) {
	kv := storage.NewFileKV(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := kv.Set(ctx, "k", "v"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, storage.NewMemoryKV())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		backend string
		wantErr bool
	}{
		{"file", false},
		{"", false},
		{"sqlite", false},
		{"memory", false},
		{"floppy", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			kv, err := storage.Open(context.Background(), config.StorageConfig{
				Backend: tt.backend,
				Path:    filepath.Join(dir, tt.backend),
			}, logger.NewNop())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer kv.Close()
			exerciseKV(t, kv)
		})
	}
}
