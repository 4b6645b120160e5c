package model

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// TimeLayout matches the millisecond ISO-8601 form used in persisted records.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Clock abstracts time retrieval so business logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts unique ID generation so tests are deterministic.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

// FormatTime renders t in TimeLayout (UTC).
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Timestamper issues strictly increasing timestamps from a Clock.
// Two stamps taken within the same millisecond are pushed apart by 1ms.
type Timestamper struct {
	mu    sync.Mutex
	clock Clock
	last  time.Time
}

// NewTimestamper wraps clock. A nil clock means RealClock.
func NewTimestamper(clock Clock) *Timestamper {
	if clock == nil {
		clock = RealClock{}
	}
	return &Timestamper{clock: clock}
}

// Stamp returns the next timestamp.
func (s *Timestamper) Stamp() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC().Truncate(time.Millisecond)
	if !now.After(s.last) {
		now = s.last.Add(time.Millisecond)
	}
	s.last = now
	return FormatTime(now)
}
