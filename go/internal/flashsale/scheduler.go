package flashsale

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/storefront/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Scheduler rotates the flash sale selection at each window boundary and
// publishes a live countdown to the next boundary.
//
// Selection state is owned by the loop goroutine started by Start; catalog
// updates and listener callbacks are funnelled through that goroutine so the
// state itself needs no locking.
type Scheduler struct {
	clock    Clock
	rng      *rand.Rand
	size     int
	interval time.Duration
	loc      *time.Location

	listenersMu sync.RWMutex
	listeners   []Listener

	// pending catalog handed over by UpdateCatalog
	pendingMu  sync.Mutex
	pending    []models.Product
	hasPending bool
	catalogCh  chan struct{}

	latest atomic.Pointer[Update]

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	// loop-owned
	catalog      []models.Product
	selection    []models.Product
	lastWindow   Window
	bootstrapped bool
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock overrides the real clock
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithRand sets the random source used for selections
func WithRand(r *rand.Rand) Option {
	return func(s *Scheduler) { s.rng = r }
}

// WithSelectionSize sets how many products are shown per window
func WithSelectionSize(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.size = n
		}
	}
}

// WithTickInterval sets how often the countdown is recomputed
func WithTickInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLocation sets the time zone whose wall clock defines the windows.
// Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewScheduler creates a flash sale scheduler. It does nothing until Start.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:     clockwork.NewRealClock(),
		size:      DefaultSelectionSize,
		interval:  time.Second,
		loc:       time.UTC,
		catalogCh: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a listener for scheduler updates
func (s *Scheduler) Subscribe(l Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, l)
}

// UpdateCatalog replaces the catalog the next selection is drawn from.
// It never blocks; if several updates arrive before the loop picks them up,
// only the most recent is kept.
func (s *Scheduler) UpdateCatalog(items []models.Product) {
	cp := make([]models.Product, len(items))
	copy(cp, items)

	s.pendingMu.Lock()
	s.pending = cp
	s.hasPending = true
	s.pendingMu.Unlock()

	select {
	case s.catalogCh <- struct{}{}:
	default:
	}
}

// Snapshot returns the most recent update, if any has been produced
func (s *Scheduler) Snapshot() (Update, bool) {
	u := s.latest.Load()
	if u == nil {
		return Update{}, false
	}
	return *u, true
}

// Start begins the periodic tick loop. The first tick is evaluated
// immediately. The loop runs until Stop is called or ctx is cancelled; after
// either, Start may be called again.
func (s *Scheduler) Start(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.cancel != nil {
		select {
		case <-s.done:
			// the loop already exited because the parent ctx was cancelled
			s.cancel()
			s.cancel, s.done = nil, nil
		default:
			return ErrAlreadyStarted
		}
	}

	now := s.now()
	s.lastWindow = WindowFor(now.Hour())
	s.selection = []models.Product{}
	s.bootstrapped = false

	// a restarted scheduler bootstraps from the catalog it already holds
	s.pendingMu.Lock()
	if !s.hasPending && len(s.catalog) > 0 {
		s.pending, s.hasPending = s.catalog, true
	}
	s.pendingMu.Unlock()

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	ticker := s.clock.NewTicker(s.interval)

	s.cancel = cancel
	s.done = done

	log.Info().
		Str("window", s.lastWindow.String()).
		Int("selection_size", s.size).
		Dur("interval", s.interval).
		Msg("flash sale scheduler started")

	go s.run(loopCtx, ticker, done)
	return nil
}

// Stop cancels the tick loop and waits for it to exit. Once Stop returns
// no listener is invoked again. Stop on a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil

	log.Info().Msg("flash sale scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context, ticker clockwork.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	s.takePendingCatalog()
	s.tick()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.catalogCh:
			s.takePendingCatalog()
		case <-ticker.Chan():
			s.tick()
		}
	}
}

// takePendingCatalog installs the latest catalog and performs the one-time
// bootstrap selection once a non-empty catalog is available.
func (s *Scheduler) takePendingCatalog() {
	s.pendingMu.Lock()
	items, ok := s.pending, s.hasPending
	s.pending, s.hasPending = nil, false
	s.pendingMu.Unlock()

	if !ok {
		return
	}
	s.catalog = items

	log.Debug().Int("items", len(items)).Msg("flash sale catalog updated")

	if s.bootstrapped || len(items) == 0 {
		return
	}

	now := s.now()
	s.lastWindow = WindowFor(now.Hour())
	s.selection = SelectSubset(s.rng, s.catalog, s.size)
	s.bootstrapped = true

	log.Info().
		Str("window", s.lastWindow.String()).
		Int("selected", len(s.selection)).
		Msg("flash sale bootstrap selection")

	res := Tick(now, s.lastWindow)
	s.emit(now, res.Countdown, true)
}

func (s *Scheduler) tick() {
	now := s.now()
	res := Tick(now, s.lastWindow)

	rotated := false
	if res.WindowChanged {
		s.lastWindow = res.NewWindow

		// with nothing to draw from, the previous selection stays up
		if len(s.catalog) == 0 {
			log.Warn().
				Str("window", s.lastWindow.String()).
				Int("kept", len(s.selection)).
				Msg("flash sale window changed with empty catalog - keeping selection")
		} else {
			s.selection = SelectSubset(s.rng, s.catalog, s.size)
			s.bootstrapped = true
			rotated = true

			log.Info().
				Str("window", s.lastWindow.String()).
				Int("selected", len(s.selection)).
				Int("catalog_size", len(s.catalog)).
				Msg("flash sale window changed - reselected")
		}
	}

	s.emit(now, res.Countdown, rotated)
}

func (s *Scheduler) emit(now time.Time, countdown string, rotated bool) {
	u := Update{
		Selection:      s.selection,
		Window:         s.lastWindow,
		Countdown:      countdown,
		NextRotationAt: NextBoundary(now),
		Rotated:        rotated,
		At:             now,
	}
	s.latest.Store(&u)

	s.listenersMu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersMu.RUnlock()

	for _, l := range listeners {
		l.OnFlashSaleUpdate(u)
	}
}

func (s *Scheduler) now() time.Time {
	return s.clock.Now().In(s.loc)
}
