package flashsale

import (
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/storefront/go/internal/models"
)

// ErrAlreadyStarted is returned by Start when the scheduler loop is running
var ErrAlreadyStarted = errors.New("flash sale scheduler already started")

// Clock is the interface we use for time operations.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) clockwork.Ticker
}

// Update is emitted to listeners after every tick and whenever the
// selection is replaced.
type Update struct {
	Selection      []models.Product `json:"selection"`
	Window         Window           `json:"window"`
	Countdown      string           `json:"countdown"`
	NextRotationAt time.Time        `json:"next_rotation_at"`
	Rotated        bool             `json:"rotated"` // selection was replaced by this update
	At             time.Time        `json:"at"`
}

// Listener receives scheduler updates. Listeners are called from the
// scheduler loop and must not block; Selection must be treated as read-only.
type Listener interface {
	OnFlashSaleUpdate(u Update)
}

// ListenerFunc adapts a plain function to Listener
type ListenerFunc func(u Update)

func (f ListenerFunc) OnFlashSaleUpdate(u Update) { f(u) }
