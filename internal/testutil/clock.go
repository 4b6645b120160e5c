package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/nikbrunner/vault/internal/model"
)

// Epoch is the instant FixedClock starts at.
var Epoch = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

var (
	_ model.Clock       = (*ManualClock)(nil)
	_ model.IDGenerator = (*SequentialIDs)(nil)
)

// ManualClock is a model.Clock that moves only when told to. A non-zero
// tick advances it after every Now, so each reading is distinct.
type ManualClock struct {
	mu   sync.Mutex
	now  time.Time
	tick time.Duration
}

// NewManualClock starts a clock at start that advances by tick per reading.
func NewManualClock(start time.Time, tick time.Duration) *ManualClock {
	return &ManualClock{now: start, tick: tick}
}

// FixedClock reads Epoch until advanced.
func FixedClock() *ManualClock {
	return NewManualClock(Epoch, 0)
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.tick)
	return t
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// SequentialIDs yields "<prefix>-1", "<prefix>-2", ...
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	issued int
}

func NewSequentialIDs(prefix string) *SequentialIDs {
	return &SequentialIDs{prefix: prefix}
}

func (g *SequentialIDs) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued++
	return fmt.Sprintf("%s-%d", g.prefix, g.issued)
}

// Issued returns how many ids have been handed out.
func (g *SequentialIDs) Issued() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.issued
}
