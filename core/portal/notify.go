package portal

import (
	"sync"
	"time"
)

// Notification levels
const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type (
	Level string

	Notification struct {
		Level   Level
		Message string
		Expires time.Time
	}

	// Board holds transient notifications. Each one auto-dismisses after the TTL.
	Board struct {
		mutex sync.Mutex
		ttl   time.Duration
		now   func() time.Time
		items []Notification
		log   []Notification
	}
)

func NewBoard(ttl time.Duration) *Board {
	return &Board{ttl: ttl, now: time.Now}
}

func (b *Board) Notify(level Level, msg string) Notification {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	n := Notification{Level: level, Message: msg, Expires: b.now().Add(b.ttl)}
	b.items = append(b.items, n)
	b.log = append(b.log, n)
	return n
}

// Active returns the notifications not yet dismissed at `now`, dropping the others.
func (b *Board) Active(now time.Time) []Notification {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	active := b.items[:0]
	for _, n := range b.items {
		if now.Before(n.Expires) {
			active = append(active, n)
		}
	}
	b.items = active
	return append([]Notification(nil), active...)
}

// History returns every notification raised, dismissed or not.
func (b *Board) History() []Notification {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return append([]Notification(nil), b.log...)
}

// Last returns the most recent notification.
func (b *Board) Last() (Notification, bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if len(b.log) == 0 {
		return Notification{}, false
	}
	return b.log[len(b.log)-1], true
}
