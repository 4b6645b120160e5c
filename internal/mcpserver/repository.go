package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/nikbrunner/vault/internal/logger"
	"github.com/nikbrunner/vault/internal/model"
)

// Repository is the collection the tools operate on.
type Repository interface {
	Load(ctx context.Context) ([]model.Bookmark, error)
	Save(ctx context.Context, bookmarks []model.Bookmark) error
}

// FileRepository keeps the whole collection in one JSON file. Every call
// re-reads the file so edits made by other processes are picked up.
type FileRepository struct {
	path string
	log  logger.Logger
	mu   sync.Mutex
}

// NewFileRepository returns a repository backed by path. A nil log discards.
func NewFileRepository(path string, log logger.Logger) *FileRepository {
	if log == nil {
		log = logger.NewNop()
	}
	return &FileRepository{path: path, log: log}
}

// Path returns the backing file.
func (r *FileRepository) Path() string { return r.path }

// Load returns the stored collection. A missing or unparsable file reads as
// empty.
func (r *FileRepository) Load(ctx context.Context) ([]model.Bookmark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Bookmark{}, nil
	}
	if err != nil {
		r.log.Warn("read data file", logger.String("path", r.path), logger.Error(err))
		return []model.Bookmark{}, nil
	}

	var bookmarks []model.Bookmark
	if err := json.Unmarshal(data, &bookmarks); err != nil {
		r.log.Warn("data file is not a bookmark array", logger.String("path", r.path), logger.Error(err))
		return []model.Bookmark{}, nil
	}
	if bookmarks == nil {
		bookmarks = []model.Bookmark{}
	}
	return bookmarks, nil
}

// Save rewrites the file with bookmarks, indented two spaces.
func (r *FileRepository) Save(ctx context.Context, bookmarks []model.Bookmark) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bookmarks == nil {
		bookmarks = []model.Bookmark{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(bookmarks); err != nil {
		return fmt.Errorf("encode bookmarks: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to write bookmarks: %w", err)
		}
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write bookmarks: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write bookmarks: %w", err)
	}
	return nil
}
