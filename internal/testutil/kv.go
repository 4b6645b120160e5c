package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/nikbrunner/vault/internal/storage"
)

// ErrInjected is returned by FailingKV when a failure is switched on.
var ErrInjected = errors.New("injected storage failure")

// FailingKV wraps a KV and fails reads or writes on demand.
type FailingKV struct {
	storage.KV

	mu       sync.Mutex
	failGet  bool
	failSet  bool
	setCalls int
}

func NewFailingKV(kv storage.KV) *FailingKV {
	return &FailingKV{KV: kv}
}

// FailGets makes Get return ErrInjected.
func (f *FailingKV) FailGets(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet = fail
}

// FailSets makes Set return ErrInjected.
func (f *FailingKV) FailSets(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSet = fail
}

// SetCalls returns how many times Set was called.
func (f *FailingKV) SetCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setCalls
}

func (f *FailingKV) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return "", ErrInjected
	}
	return f.KV.Get(ctx, key)
}

func (f *FailingKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	f.setCalls++
	fail := f.failSet
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.KV.Set(ctx, key, value)
}
