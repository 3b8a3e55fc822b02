package geocoding

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Throttle spaces calls at least interval apart across all goroutines that
// share it. The zero time in last means no call has been made yet.
type Throttle struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	interval time.Duration
	last     time.Time
}

// NewThrottle creates a Throttle. A nil clock uses the real clock.
func NewThrottle(interval time.Duration, clock clockwork.Clock) *Throttle {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Throttle{clock: clock, interval: interval}
}

// Wait blocks until interval has passed since the previous successful Wait,
// then records the current time as the start of a new call. The lock is held
// while sleeping so concurrent callers queue up behind each other and each
// observes the timestamp written by its predecessor.
//
// If ctx ends first, Wait returns ctx.Err() and leaves the timestamp unchanged.
// The returned duration is the time spent sleeping.
func (t *Throttle) Wait(ctx context.Context) (time.Duration, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var waited time.Duration
	if !t.last.IsZero() {
		if wait := t.interval - t.clock.Since(t.last); wait > 0 {
			timer := t.clock.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return 0, ctx.Err()
			case <-timer.Chan():
			}
			waited = wait
		}
	}

	t.last = t.clock.Now()
	return waited, nil
}

// Last returns the time recorded by the most recent successful Wait.
func (t *Throttle) Last() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}
