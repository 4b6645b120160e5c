// Package store persists the bookmark collection as a single JSON array in a
// key-value backend and exposes the CRUD and search operations over it.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nikbrunner/vault/internal/logger"
	"github.com/nikbrunner/vault/internal/model"
	"github.com/nikbrunner/vault/internal/search"
	"github.com/nikbrunner/vault/internal/storage"
	"github.com/nikbrunner/vault/internal/validation"
)

// Key is the storage key holding the serialized collection.
const Key = "bookmark-vault-data"

// Store reads and writes the whole collection on every operation. Mutations
// hold mu across their read and write so concurrent callers never overwrite
// each other's changes.
type Store struct {
	mu     sync.Mutex
	kv     storage.KV
	ids    model.IDGenerator
	stamps *model.Timestamper
	log    logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for createdAt/updatedAt.
func WithClock(c model.Clock) Option {
	return func(s *Store) { s.stamps = model.NewTimestamper(c) }
}

// WithIDs sets the id generator.
func WithIDs(g model.IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithLogger sets the logger used for swallowed failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates a Store over kv.
func New(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		ids:    model.UUIDGenerator{},
		stamps: model.NewTimestamper(nil),
		log:    logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRecord builds a record with a fresh id and creation timestamp without
// persisting it.
func (s *Store) NewRecord(in model.CreateInput) model.Bookmark {
	return model.NewBookmark(in, s.ids.New(), s.stamps.Stamp())
}

// Stamp returns a fresh timestamp from the store's clock.
func (s *Store) Stamp() string {
	return s.stamps.Stamp()
}

// Load reads the collection, returning backend errors. A missing, blank or
// non-array value is an empty collection; records failing validation are
// dropped.
func (s *Store) Load(ctx context.Context) ([]model.Bookmark, error) {
	raw, err := s.kv.Get(ctx, Key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []model.Bookmark{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", Key, err)
	}
	return s.decode(raw), nil
}

func (s *Store) decode(raw string) []model.Bookmark {
	if strings.TrimSpace(raw) == "" {
		return []model.Bookmark{}
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Warn("stored collection is not a JSON array, ignoring it", logger.Error(err))
		return []model.Bookmark{}
	}

	out := make([]model.Bookmark, 0, len(items))
	for i, item := range items {
		b, issues := validation.DecodeBookmark(item)
		if !issues.OK() {
			s.log.Warn("dropping invalid stored bookmark",
				logger.Int("index", i),
				logger.Strings("issues", issues.Strings()))
			continue
		}
		out = append(out, b)
	}
	return out
}

func (s *Store) save(ctx context.Context, bookmarks []model.Bookmark) error {
	if bookmarks == nil {
		bookmarks = []model.Bookmark{}
	}
	data, err := json.Marshal(bookmarks)
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}
	if err := s.kv.Set(ctx, Key, string(data)); err != nil {
		return fmt.Errorf("writing %s: %w", Key, err)
	}
	return nil
}

// GetAll returns every valid stored record. It never fails: backend errors
// are logged and yield an empty collection.
func (s *Store) GetAll(ctx context.Context) []model.Bookmark {
	bookmarks, err := s.Load(ctx)
	if err != nil {
		s.log.Error("failed to load bookmarks", logger.Error(err))
		return []model.Bookmark{}
	}
	return bookmarks
}

// Add creates a record and prepends it. The record is returned even when the
// write fails.
func (s *Store) Add(ctx context.Context, in model.CreateInput) model.Bookmark {
	b := s.NewRecord(in)
	if err := s.Insert(ctx, b); err != nil {
		s.log.Error("failed to save bookmark", logger.String("id", b.ID), logger.Error(err))
	}
	return b
}

// Delete removes the record with id. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id string) {
	if err := s.Remove(ctx, id); err != nil {
		s.log.Error("failed to delete bookmark", logger.String("id", id), logger.Error(err))
	}
}

// Update merges in onto the record with id and stamps updatedAt. Unknown ids
// are a no-op.
func (s *Store) Update(ctx context.Context, id string, in model.UpdateInput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, err := s.Load(ctx)
	if err != nil {
		s.log.Error("failed to update bookmark", logger.String("id", id), logger.Error(err))
		return
	}
	current := model.FindByID(bookmarks, id)
	if current == nil {
		return
	}
	if err := s.save(ctx, model.Replace(bookmarks, in.ApplyTo(*current, s.Stamp()))); err != nil {
		s.log.Error("failed to update bookmark", logger.String("id", id), logger.Error(err))
	}
}

// Search filters collection by query. A nil collection means the stored one.
func (s *Store) Search(ctx context.Context, query string, collection []model.Bookmark) []model.Bookmark {
	if collection == nil {
		collection = s.GetAll(ctx)
	}
	return search.Filter(collection, query)
}

// Insert prepends b.
func (s *Store) Insert(ctx context.Context, b model.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, model.Prepend(bookmarks, b))
}

// Remove deletes the record with id. Unknown ids succeed without writing.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if model.IndexOf(bookmarks, id) < 0 {
		return nil
	}
	return s.save(ctx, model.Without(bookmarks, id))
}

// Put replaces the stored record sharing b's id with b. Unknown ids succeed
// without writing.
func (s *Store) Put(ctx context.Context, b model.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if model.IndexOf(bookmarks, b.ID) < 0 {
		return nil
	}
	return s.save(ctx, model.Replace(bookmarks, b))
}

// ReplaceAll discards the stored collection and writes bookmarks.
func (s *Store) ReplaceAll(ctx context.Context, bookmarks []model.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, bookmarks)
}

// Append adds bookmarks after the existing records.
func (s *Store) Append(ctx context.Context, bookmarks []model.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, append(existing, bookmarks...))
}
