package status

import (
	"context"
	"sync"
	"time"

	"lms-engagement-client/internal/models"
)

// Board keeps the most recent line. Writes may interleave in any order; the
// last one to arrive wins.
type Board struct {
	mu        sync.RWMutex
	latest    Line
	has       bool
	now       func() time.Time
	listeners []func(Line)
}

func NewBoard() *Board {
	return &Board{now: time.Now}
}

func (b *Board) Notify(_ context.Context, userID models.ID, message string) {
	line := Line{UserID: userID, Message: message, At: b.now()}

	b.mu.Lock()
	b.latest = line
	b.has = true
	listeners := make([]func(Line), len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(line)
	}
}

func (b *Board) Latest() (Line, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest, b.has
}

// Subscribe registers fn for every future line. fn runs on the notifying
// goroutine and must not block.
func (b *Board) Subscribe(fn func(Line)) {
	b.mu.Lock()
	b.listeners = append(b.listeners, fn)
	b.mu.Unlock()
}
