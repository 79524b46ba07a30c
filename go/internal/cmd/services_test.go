package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/storefront/go/clients"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const staticCatalog = `
products:
  - {id: 1, title: Backpack, price: 109.95, category: "men's clothing"}
  - {id: 2, title: Ring, price: 9.99, category: jewelery}
users:
  - {id: 1, username: johnd}
`

func staticConfig(t *testing.T) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(staticCatalog), 0o600))

	cfg := defaultConfig()
	cfg.Catalog.Source = clients.ExternalSourceStatic
	cfg.Catalog.StaticFile = path
	cfg.FlashSale.Timezone = "UTC"
	return cfg
}

func TestSetupServicesStaticCatalog(t *testing.T) {
	cfg := staticConfig(t)
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC))

	services, err := setupServices(cfg, clock)
	require.NoError(t, err)

	require.NoError(t, services.Scheduler.Start(context.Background()))
	t.Cleanup(services.Scheduler.Stop)

	require.NoError(t, services.Catalog.Refresh(context.Background()))
	assert.Len(t, services.Catalog.Products(), 2)

	require.Eventually(t, func() bool {
		u, ok := services.Scheduler.Snapshot()
		return ok && len(u.Selection) == 2
	}, 2*time.Second, 5*time.Millisecond)

	srv := setupServer(cfg, services)
	for _, path := range []string{"/health", "/api/flashsale", "/api/home", "/api/products/1"} {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestSetupServicesMissingStaticFile(t *testing.T) {
	cfg := staticConfig(t)
	cfg.Catalog.StaticFile = filepath.Join(t.TempDir(), "nope.yaml")

	_, err := setupServices(cfg, clockwork.NewFakeClock())
	assert.Error(t, err)
}

func TestSetupServicesFakeStoreServesBeforeFirstRefresh(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":2,"title":"Ring","category":"jewelery"}`))
	})
	mux.HandleFunc("GET /products/category/jewelery", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":2,"title":"Ring","category":"jewelery"},{"id":5,"title":"Bracelet","category":"jewelery"}]`))
	})
	upstream := httptest.NewServer(mux)
	defer upstream.Close()

	cfg := defaultConfig()
	cfg.Catalog.BaseURL = upstream.URL

	services, err := setupServices(cfg, clockwork.NewFakeClock())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	setupServer(cfg, services).Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Ring"`)
	assert.Contains(t, rec.Body.String(), `"title":"Bracelet"`)
}
