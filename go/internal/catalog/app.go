package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/storefront/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ErrProductNotFound is returned when a product id is not in the catalog
var ErrProductNotFound = errors.New("product not found")

// DefaultRefreshInterval is how often the catalog is re-fetched
const DefaultRefreshInterval = 15 * time.Minute

// Source defines what the app needs from a catalog provider
type Source interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetUsers(ctx context.Context) ([]models.User, error)
}

// Sink receives every product list the app accepts
type Sink interface {
	UpdateCatalog(items []models.Product)
}

// App keeps the latest catalog fetched from a Source and forwards products
// to its sinks. Fetch failures degrade to the previous (or empty) list.
type App struct {
	source   Source
	sinks    []Sink
	clock    clockwork.Clock
	interval time.Duration

	mu       sync.RWMutex
	products []models.Product
	users    []models.User
	loadedAt time.Time
}

// NewApp creates a new catalog App
func NewApp(source Source, clock clockwork.Clock, interval time.Duration, sinks ...Sink) *App {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &App{
		source:   source,
		sinks:    sinks,
		clock:    clock,
		interval: interval,
		products: []models.Product{},
		users:    []models.User{},
	}
}

// Refresh fetches products and users. A failed product fetch keeps the
// previous list; the returned error is informational only.
func (a *App) Refresh(ctx context.Context) error {
	var errs []error

	products, err := a.source.GetProducts(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("refresh products: %w", err))
	} else {
		a.mu.Lock()
		a.products = products
		a.loadedAt = a.clock.Now()
		a.mu.Unlock()

		for _, s := range a.sinks {
			s.UpdateCatalog(products)
		}
		log.Info().Int("products", len(products)).Msg("catalog refreshed")
	}

	users, err := a.source.GetUsers(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("refresh users: %w", err))
	} else {
		a.mu.Lock()
		a.users = users
		a.mu.Unlock()
	}

	return errors.Join(errs...)
}

// Run refreshes immediately and then on every interval until ctx is done
func (a *App) Run(ctx context.Context) {
	ticker := a.clock.NewTicker(a.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", a.interval).Msg("catalog refresher started")

	a.refreshAndLog(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("catalog refresher shutting down")
			return
		case <-ticker.Chan():
			a.refreshAndLog(ctx)
		}
	}
}

func (a *App) refreshAndLog(ctx context.Context) {
	if err := a.Refresh(ctx); err != nil {
		a.mu.RLock()
		stale := len(a.products)
		a.mu.RUnlock()

		log.Warn().
			Err(err).
			Int("serving_products", stale).
			Msg("catalog refresh failed - serving previous catalog")
	}
}

// Products returns the current product list
func (a *App) Products() []models.Product {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.products
}

// Users returns the current user list
func (a *App) Users() []models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.users
}

// LoadedAt returns when products were last fetched successfully
func (a *App) LoadedAt() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loadedAt
}

// ProductByID looks a product up in the current catalog
func (a *App) ProductByID(id int) (*models.Product, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for i := range a.products {
		if a.products[i].ID == id {
			p := a.products[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product %d: %w", id, ErrProductNotFound)
}
