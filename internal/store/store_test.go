package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/nikbrunner/vault/internal/model"
	"github.com/nikbrunner/vault/internal/storage"
	"github.com/nikbrunner/vault/internal/store"
	"github.com/nikbrunner/vault/internal/testutil"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func newStore(kv storage.KV) *store.Store {
	return store.New(kv,
		store.WithClock(testutil.FixedClock()),
		store.WithIDs(testutil.NewSequentialIDs("id")))
}

func TestStore_EndToEnd(t *testing.T) {
	ctx := context.Background()
	s := newStore(storage.NewMemoryKV())

	added := s.Add(ctx, model.CreateInput{
		Title: "Google",
		URL:   "https://www.google.com",
		Tags:  []string{"search"},
	})

	all := s.GetAll(ctx)
	assert.Assert(t, is.Len(all, 1))
	assert.DeepEqual(t, all[0], model.Bookmark{
		ID:        "id-1",
		Title:     "Google",
		URL:       "https://www.google.com",
		Tags:      []string{"search"},
		CreatedAt: "2025-01-15T10:30:00.000Z",
	})
	assert.Equal(t, added.ID, all[0].ID)

	found := s.Search(ctx, "search", nil)
	assert.Assert(t, is.Len(found, 1))
	assert.Equal(t, found[0].ID, added.ID)

	s.Delete(ctx, added.ID)
	assert.Assert(t, is.Len(s.GetAll(ctx), 0))
}

func TestStore_AddPrependsWithDistinctTimestamps(t *testing.T) {
	ctx := context.Background()
	s := newStore(storage.NewMemoryKV())

	first := s.Add(ctx, model.CreateInput{Title: "A", URL: "https://a.com"})
	second := s.Add(ctx, model.CreateInput{Title: "B", URL: "https://b.com"})

	all := s.GetAll(ctx)
	assert.Equal(t, all[0].ID, second.ID)
	assert.Equal(t, all[1].ID, first.ID)
	assert.Assert(t, first.CreatedAt != second.CreatedAt)
	assert.Assert(t, all[1].Tags != nil, "tags default to an empty list")
}

func TestStore_DeleteTwiceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewFailingKV(storage.NewMemoryKV())
	s := newStore(kv)

	a := s.Add(ctx, model.CreateInput{Title: "A", URL: "https://a.com"})
	s.Add(ctx, model.CreateInput{Title: "B", URL: "https://b.com"})

	s.Delete(ctx, a.ID)
	once := s.GetAll(ctx)
	writes := kv.SetCalls()

	s.Delete(ctx, a.ID)
	assert.DeepEqual(t, s.GetAll(ctx), once)
	assert.Equal(t, kv.SetCalls(), writes, "absent id must not rewrite the collection")
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	clock := testutil.FixedClock()
	s := store.New(storage.NewMemoryKV(), store.WithClock(clock), store.WithIDs(testutil.NewSequentialIDs("id")))

	b := s.Add(ctx, model.CreateInput{Title: "Old", URL: "https://a.com", Tags: []string{"x"}})
	clock.Advance(time.Minute)

	title := "New"
	s.Update(ctx, b.ID, model.UpdateInput{Title: &title})
	s.Update(ctx, "missing", model.UpdateInput{Title: &title})

	all := s.GetAll(ctx)
	assert.Assert(t, is.Len(all, 1))
	assert.Equal(t, all[0].Title, "New")
	assert.Equal(t, all[0].URL, "https://a.com")
	assert.DeepEqual(t, all[0].Tags, []string{"x"})
	assert.Equal(t, all[0].UpdatedAt, "2025-01-15T10:31:00.000Z")
}

func TestStore_GetAllDegradesGracefully(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   int
	}{
		{"blank", "   ", 0},
		{"not json", "{oops", 0},
		{"object instead of array", `{"id":"1"}`, 0},
		{"drops invalid records", `[
			{"id":"1","title":"ok","url":"https://ok.com","tags":[],"createdAt":"c"},
			{"id":"2","title":"","url":"https://bad.com","tags":[],"createdAt":"c"},
			{"id":"3","title":"no url","tags":[],"createdAt":"c"}
		]`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := storage.NewMemoryKV()
			assert.NilError(t, kv.Set(ctx, store.Key, tt.stored))

			assert.Assert(t, is.Len(newStore(kv).GetAll(ctx), tt.want))
		})
	}
}

func TestStore_SwallowsBackendFailures(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewFailingKV(storage.NewMemoryKV())
	s := newStore(kv)

	kv.FailSets(true)
	b := s.Add(ctx, model.CreateInput{Title: "A", URL: "https://a.com"})
	assert.Equal(t, b.ID, "id-1", "record is returned even when the write fails")
	assert.Assert(t, is.Len(s.GetAll(ctx), 0))

	kv.FailSets(false)
	kv.FailGets(true)
	assert.Assert(t, is.Len(s.GetAll(ctx), 0))
	assert.ErrorIs(t, s.Insert(ctx, b), testutil.ErrInjected)
	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, testutil.ErrInjected)
}

func TestStore_SearchExplicitCollection(t *testing.T) {
	ctx := context.Background()
	s := newStore(storage.NewMemoryKV())
	collection := []model.Bookmark{
		{ID: "1", Title: "GitHub", URL: "https://github.com", Tags: []string{}},
		{ID: "2", Title: "Go", URL: "https://go.dev", Tags: []string{}},
	}

	got := s.Search(ctx, "GITHUB", collection)
	assert.Assert(t, is.Len(got, 1))
	assert.Equal(t, got[0].ID, "1")

	assert.DeepEqual(t, s.Search(ctx, "  ", collection), collection)
}

func TestStore_AppendAndReplaceAll(t *testing.T) {
	ctx := context.Background()
	s := newStore(storage.NewMemoryKV())
	s.Add(ctx, model.CreateInput{Title: "Existing", URL: "https://e.com"})

	incoming := []model.Bookmark{{ID: "x", Title: "New", URL: "https://n.com", Tags: []string{}, CreatedAt: "c"}}

	assert.NilError(t, s.Append(ctx, incoming))
	all := s.GetAll(ctx)
	assert.Assert(t, is.Len(all, 2))
	assert.Equal(t, all[1].ID, "x")

	assert.NilError(t, s.ReplaceAll(ctx, incoming))
	all = s.GetAll(ctx)
	assert.Assert(t, is.Len(all, 1))
	assert.Equal(t, all[0].ID, "x")
}

func TestStore_PutUnknownIDDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	kv := testutil.NewFailingKV(storage.NewMemoryKV())
	s := newStore(kv)

	assert.NilError(t, s.Put(ctx, model.Bookmark{ID: "ghost"}))
	assert.Equal(t, kv.SetCalls(), 0)
}
