// Package state owns the in-memory bookmark collection. Mutations are applied
// optimistically and confirmed (or rolled back) by a deferred step that
// writes through to the store.
package state

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/vault/internal/logger"
	"github.com/nikbrunner/vault/internal/model"
	"github.com/nikbrunner/vault/internal/store"
	"github.com/nikbrunner/vault/internal/validation"
)

// Errors recorded when fault injection is on.
const (
	ErrSimulatedSave   = "Simulated error: Failed to save bookmark"
	ErrSimulatedDelete = "Simulated error: Failed to delete bookmark"
	ErrSimulatedUpdate = "Simulated error: Failed to update bookmark"
)

// DefaultDebounce is the search box idle window.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Manager.
type Options struct {
	Store           *store.Store
	Scheduler       Scheduler     // defaults to RealScheduler
	Latency         time.Duration // delay before a mutation is confirmed
	Debounce        time.Duration // defaults to DefaultDebounce
	SimulateFailure bool
	Logger          logger.Logger
}

// Snapshot is a copy of the manager's state for rendering.
type Snapshot struct {
	State
	Filtered        []model.Bookmark
	SearchTerm      string
	DebouncedTerm   string
	SimulateFailure bool
}

// Manager coordinates optimistic mutations against the store.
type Manager struct {
	store    *store.Store
	sched    Scheduler
	latency  time.Duration
	debounce time.Duration
	log      logger.Logger

	mu              sync.Mutex
	state           State
	simulateFailure bool
	searchTerm      string
	debouncedTerm   string
	debounceTimer   Timer
	debounceSeq     uint64

	runMu    sync.Mutex // held while a confirmation runs
	queueMu  sync.Mutex
	queue    []*confirmation
	inflight sync.WaitGroup
	changes  chan struct{}
}

// New creates a Manager. It panics if opts.Store is nil.
func New(opts Options) *Manager {
	if opts.Store == nil {
		panic("state: New called without a Store")
	}
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler{}
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}

	return &Manager{
		store:           opts.Store,
		sched:           opts.Scheduler,
		latency:         opts.Latency,
		debounce:        opts.Debounce,
		log:             opts.Logger,
		state:           NewState(),
		simulateFailure: opts.SimulateFailure,
		changes:         make(chan struct{}, 1),
	}
}

// Changes delivers a signal after every state change. Signals coalesce.
func (m *Manager) Changes() <-chan struct{} {
	return m.changes
}

func (m *Manager) notify() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

func (m *Manager) dispatch(a Action) {
	m.mu.Lock()
	m.state = Reduce(m.state, a)
	m.mu.Unlock()

	m.log.Debug("state transition",
		logger.String("action", a.Kind.String()),
		logger.String("id", a.ID))
	m.notify()
}

// confirmation is a deferred step waiting in the FIFO queue.
type confirmation struct {
	run   func()
	ready bool
}

// schedule queues step to run once the configured latency has elapsed.
// Steps run one at a time in the order they were issued, whatever order
// their timers fire in. Issued steps are never cancelled, so the caller's
// cancellation is detached.
func (m *Manager) schedule(ctx context.Context, step func(ctx context.Context)) {
	ctx = context.WithoutCancel(ctx)
	c := &confirmation{run: func() { step(ctx) }}

	m.inflight.Add(1)
	m.queueMu.Lock()
	m.queue = append(m.queue, c)
	m.queueMu.Unlock()

	m.sched.AfterFunc(m.latency, func() {
		m.queueMu.Lock()
		c.ready = true
		m.queueMu.Unlock()
		m.drain()
	})
}

// drain runs ready steps from the head of the queue. A step whose timer
// fired early waits for every step issued before it.
func (m *Manager) drain() {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	for {
		m.queueMu.Lock()
		if len(m.queue) == 0 || !m.queue[0].ready {
			m.queueMu.Unlock()
			return
		}
		c := m.queue[0]
		m.queue = m.queue[1:]
		m.queueMu.Unlock()

		c.run()
		m.inflight.Done()
	}
}

func (m *Manager) failing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.simulateFailure
}

// Load replaces the in-memory collection with the store's.
func (m *Manager) Load(ctx context.Context) {
	m.dispatch(Action{Kind: CollectionReplaced, Bookmarks: m.store.GetAll(ctx)})
}

// Create validates in, prepends the new record immediately and schedules its
// confirmation. The returned record carries the assigned id.
func (m *Manager) Create(ctx context.Context, in model.CreateInput) (model.Bookmark, error) {
	if issues := validation.ValidateCreateInput(in); !issues.OK() {
		return model.Bookmark{}, issues
	}

	b := m.store.NewRecord(in)
	m.dispatch(Action{Kind: CreateRequested, ID: b.ID, Bookmark: b})

	m.schedule(ctx, func(ctx context.Context) {
		if m.failing() {
			m.dispatch(Action{Kind: CreateFailed, ID: b.ID, Err: ErrSimulatedSave})
			return
		}
		if err := m.store.Insert(ctx, b); err != nil {
			m.log.Error("failed to persist bookmark", logger.String("id", b.ID), logger.Error(err))
			m.dispatch(Action{Kind: CreateFailed, ID: b.ID, Err: err.Error()})
			return
		}
		m.dispatch(Action{Kind: CreateConfirmed, ID: b.ID})
	})

	return b, nil
}

// Delete marks id pending and schedules its removal.
func (m *Manager) Delete(ctx context.Context, id string) {
	m.dispatch(Action{Kind: DeleteRequested, ID: id})

	m.schedule(ctx, func(ctx context.Context) {
		if m.failing() {
			m.dispatch(Action{Kind: DeleteFailed, ID: id, Err: ErrSimulatedDelete})
			return
		}
		if err := m.store.Remove(ctx, id); err != nil {
			m.log.Error("failed to delete bookmark", logger.String("id", id), logger.Error(err))
			m.dispatch(Action{Kind: DeleteFailed, ID: id, Err: err.Error()})
			return
		}
		m.dispatch(Action{Kind: DeleteConfirmed, ID: id})
	})
}

// Update merges in onto the record with id immediately and schedules the
// write. On failure the record is restored to its pre-update value. Unknown
// ids are a no-op.
func (m *Manager) Update(ctx context.Context, id string, in model.UpdateInput) error {
	if issues := validation.ValidateUpdateInput(in); !issues.OK() {
		return issues
	}

	m.mu.Lock()
	current := model.FindByID(m.state.Bookmarks, id)
	if current == nil {
		m.mu.Unlock()
		return nil
	}
	previous := current.Clone()
	updated := in.ApplyTo(previous, m.store.Stamp())
	m.state = Reduce(m.state, Action{Kind: UpdateRequested, ID: id, Bookmark: updated})
	m.mu.Unlock()
	m.notify()

	m.schedule(ctx, func(ctx context.Context) {
		if m.failing() {
			m.rollbackUpdate(ctx, updated, previous, ErrSimulatedUpdate)
			return
		}
		if err := m.store.Put(ctx, updated); err != nil {
			m.log.Error("failed to update bookmark", logger.String("id", id), logger.Error(err))
			m.rollbackUpdate(ctx, updated, previous, err.Error())
			return
		}
		m.dispatch(Action{Kind: UpdateConfirmed, ID: id})
	})

	return nil
}

// rollbackUpdate records a failed update. While the in-memory record is still
// the one this update produced it is restored to the stored record, falling
// back to previous when the store cannot be read. A record that a later
// update has since replaced is left for that update to settle.
func (m *Manager) rollbackUpdate(ctx context.Context, updated, previous model.Bookmark, reason string) {
	restore := previous
	if stored, err := m.store.Load(ctx); err != nil {
		m.log.Warn("failed to read stored bookmark for rollback",
			logger.String("id", updated.ID), logger.Error(err))
	} else if b := model.FindByID(stored, updated.ID); b != nil {
		restore = *b
	}

	m.mu.Lock()
	if current := model.FindByID(m.state.Bookmarks, updated.ID); current == nil || current.UpdatedAt != updated.UpdatedAt {
		restore = model.Bookmark{}
	}
	m.state = Reduce(m.state, Action{Kind: UpdateFailed, ID: updated.ID, Bookmark: restore, Err: reason})
	m.mu.Unlock()

	m.log.Debug("state transition",
		logger.String("action", UpdateFailed.String()),
		logger.String("id", updated.ID),
		logger.Bool("restored", restore.ID != ""))
	m.notify()
}

// SetSimulateFailure toggles fault injection and clears the error.
func (m *Manager) SetSimulateFailure(v bool) {
	m.mu.Lock()
	m.simulateFailure = v
	m.mu.Unlock()
	m.dispatch(Action{Kind: ErrorCleared})
}

// SimulateFailure reports whether fault injection is on.
func (m *Manager) SimulateFailure() bool {
	return m.failing()
}

// ClearError dismisses the current error.
func (m *Manager) ClearError() {
	m.dispatch(Action{Kind: ErrorCleared})
}

// SetSearchTerm updates the live term now and the filtering term once no
// further call arrives within the debounce window.
func (m *Manager) SetSearchTerm(term string) {
	m.mu.Lock()
	m.searchTerm = term
	if m.debounceTimer != nil {
		m.debounceTimer.Stop()
	}
	m.debounceSeq++
	seq := m.debounceSeq
	m.debounceTimer = m.sched.AfterFunc(m.debounce, func() {
		m.mu.Lock()
		// A timer that lost the race with Stop must not apply a stale term
		if seq != m.debounceSeq {
			m.mu.Unlock()
			return
		}
		m.debouncedTerm = term
		m.debounceTimer = nil
		m.mu.Unlock()
		m.notify()
	})
	m.mu.Unlock()
	m.notify()
}

// Filtered returns the bookmarks matching the debounced term, or all of them
// when the term is blank.
func (m *Manager) Filtered(ctx context.Context) []model.Bookmark {
	m.mu.Lock()
	bookmarks := model.CloneAll(m.state.Bookmarks)
	term := m.debouncedTerm
	m.mu.Unlock()

	return m.filter(ctx, bookmarks, term)
}

func (m *Manager) filter(ctx context.Context, bookmarks []model.Bookmark, term string) []model.Bookmark {
	if strings.TrimSpace(term) == "" {
		return bookmarks
	}
	return m.store.Search(ctx, term, bookmarks)
}

// Snapshot returns a copy of the current state and search terms.
func (m *Manager) Snapshot(ctx context.Context) Snapshot {
	m.mu.Lock()
	s := Snapshot{
		State:           m.state.Clone(),
		SearchTerm:      m.searchTerm,
		DebouncedTerm:   m.debouncedTerm,
		SimulateFailure: m.simulateFailure,
	}
	m.mu.Unlock()

	s.Filtered = m.filter(ctx, s.Bookmarks, s.DebouncedTerm)
	return s
}

// Wait blocks until every scheduled confirmation has run.
func (m *Manager) Wait() {
	m.inflight.Wait()
}

// Close cancels the pending debounce and waits for confirmations.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.debounceTimer != nil {
		m.debounceTimer.Stop()
		m.debounceTimer = nil
	}
	m.debounceSeq++
	m.mu.Unlock()
	m.Wait()
}
