package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/storefront/go/clients"
	"github.com/mcdev12/storefront/go/internal/catalog"
	"github.com/mcdev12/storefront/go/internal/flashsale"
	"github.com/mcdev12/storefront/go/internal/models"
	"github.com/mcdev12/storefront/go/internal/storefront"
	"github.com/rs/zerolog/log"
)

// CatalogReader defines what the handlers need from the catalog
type CatalogReader interface {
	Products() []models.Product
	Users() []models.User
	ProductByID(id int) (*models.Product, error)
	LoadedAt() time.Time
}

// RemoteCatalog answers lookups straight from the upstream API while the
// local catalog is still empty
type RemoteCatalog interface {
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error)
	GetCategories(ctx context.Context) ([]string, error)
}

// StorefrontHandler serves the read-only storefront API
type StorefrontHandler struct {
	catalog   CatalogReader
	remote    RemoteCatalog
	snapshots SnapshotProvider
	clock     clockwork.Clock
	loc       *time.Location
}

// NewStorefrontHandler creates a new storefront handler. remote may be nil,
// in which case an empty catalog answers every lookup with nothing.
func NewStorefrontHandler(catalog CatalogReader, remote RemoteCatalog, snapshots SnapshotProvider, clock clockwork.Clock, loc *time.Location) *StorefrontHandler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &StorefrontHandler{
		catalog:   catalog,
		remote:    remote,
		snapshots: snapshots,
		clock:     clock,
		loc:       loc,
	}
}

// HandleGetFlashSale handles GET /api/flashsale
func (h *StorefrontHandler) HandleGetFlashSale(w http.ResponseWriter, r *http.Request) {
	u, ok := h.snapshots.Snapshot()
	if !ok {
		http.Error(w, "flash sale not started", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, storefront.FlashSaleView{
		Items:          u.Selection,
		Countdown:      u.Countdown,
		Window:         u.Window.String(),
		NextRotationAt: u.NextRotationAt,
	})
}

// HandleGetHome handles GET /api/home?category=
func (h *StorefrontHandler) HandleGetHome(w http.ResponseWriter, r *http.Request) {
	var flash *flashsale.Update
	if u, ok := h.snapshots.Snapshot(); ok {
		flash = &u
	}

	view := storefront.Home(
		h.clock.Now().In(h.loc),
		h.catalog.Users(),
		h.catalog.Products(),
		r.URL.Query().Get("category"),
		flash,
	)
	if loadedAt := h.catalog.LoadedAt(); !loadedAt.IsZero() {
		view.CatalogLoadedAt = &loadedAt
	}
	writeJSON(w, view)
}

// HandleGetProduct handles GET /api/products/{id}
func (h *StorefrontHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid product ID format", http.StatusBadRequest)
		return
	}

	products := h.catalog.Products()
	loaded := len(products) > 0

	var product *models.Product
	if loaded || h.remote == nil {
		product, err = h.catalog.ProductByID(id)
	} else {
		product, err = h.remote.GetProduct(r.Context(), id)
	}
	if errors.Is(err, catalog.ErrProductNotFound) || errors.Is(err, clients.ErrNotFound) {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Int("product_id", id).Msg("failed to get product")
		http.Error(w, "Failed to get product", http.StatusBadGateway)
		return
	}

	if !loaded {
		products = h.remoteCategoryProducts(r.Context(), product.Category)
	}

	writeJSON(w, storefront.ProductDetailView{
		Product:     product,
		Recommended: storefront.Recommended(products, *product, storefront.RecommendedLimit),
	})
}

// remoteCategoryProducts fetches a category from upstream. On failure it
// logs and returns nothing.
func (h *StorefrontHandler) remoteCategoryProducts(ctx context.Context, category string) []models.Product {
	if h.remote == nil || category == "" {
		return nil
	}
	products, err := h.remote.GetProductsByCategory(ctx, category)
	if err != nil {
		log.Warn().Err(err).Str("category", category).Msg("failed to fetch recommendations")
		return nil
	}
	return products
}

// HandleGetCategories handles GET /api/categories
func (h *StorefrontHandler) HandleGetCategories(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.Products()
	if len(products) > 0 || h.remote == nil {
		writeJSON(w, storefront.Categories(products))
		return
	}

	names, err := h.remote.GetCategories(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("failed to fetch categories")
		names = nil
	}
	categories := make([]storefront.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, storefront.Category{Name: name})
	}
	writeJSON(w, categories)
}

// RegisterRoutes registers storefront HTTP routes
func (h *StorefrontHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/flashsale", h.HandleGetFlashSale)
	mux.HandleFunc("GET /api/home", h.HandleGetHome)
	mux.HandleFunc("GET /api/categories", h.HandleGetCategories)
	mux.HandleFunc("GET /api/products/{id}", h.HandleGetProduct)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
