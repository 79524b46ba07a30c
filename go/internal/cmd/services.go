package main

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/storefront/go/clients"
	"github.com/mcdev12/storefront/go/clients/fakestore_client"
	"github.com/mcdev12/storefront/go/internal/catalog"
	"github.com/mcdev12/storefront/go/internal/flashsale"
	"github.com/mcdev12/storefront/go/internal/gateway"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Catalog     *catalog.App
	Scheduler   *flashsale.Scheduler
	Connections *gateway.ConnectionManager
	Storefront  *gateway.StorefrontHandler
	WebSocket   *gateway.WebSocketHandler
}

func setupCatalogSource(config *Config) (catalog.Source, error) {
	switch config.Catalog.Source {
	case clients.ExternalSourceStatic:
		src, err := catalog.LoadStaticSource(config.Catalog.StaticFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load static catalog: %w", err)
		}
		return src, nil
	default:
		client := fakestore_client.NewClient(config.Catalog.BaseURL)
		client.SetTimeout(config.Catalog.Timeout)
		return client, nil
	}
}

func setupServices(config *Config, clock clockwork.Clock) (*Services, error) {
	// Wire up dependency injection chain
	// Catalog source → Catalog app → Scheduler → Listeners (gateway, publisher)

	loc, err := config.location()
	if err != nil {
		return nil, err
	}

	source, err := setupCatalogSource(config)
	if err != nil {
		return nil, err
	}

	scheduler := flashsale.NewScheduler(
		flashsale.WithClock(clock),
		flashsale.WithSelectionSize(config.FlashSale.Size),
		flashsale.WithTickInterval(config.FlashSale.TickInterval),
		flashsale.WithLocation(loc),
	)

	catalogApp := catalog.NewApp(source, clock, config.Catalog.RefreshInterval, scheduler)

	connections := gateway.NewConnectionManager(gateway.DefaultConnectionConfig(), scheduler, clock)
	scheduler.Subscribe(connections)

	// only the live API can answer lookups before the first refresh lands
	remote, _ := source.(gateway.RemoteCatalog)

	log.Info().
		Str("catalog_source", string(config.Catalog.Source)).
		Str("timezone", loc.String()).
		Int("flash_sale_size", config.FlashSale.Size).
		Str("now", clock.Now().In(loc).Format(time.RFC3339)).
		Msg("services wired")

	return &Services{
		Catalog:     catalogApp,
		Scheduler:   scheduler,
		Connections: connections,
		Storefront:  gateway.NewStorefrontHandler(catalogApp, remote, scheduler, clock, loc),
		WebSocket:   gateway.NewWebSocketHandler(connections),
	}, nil
}
