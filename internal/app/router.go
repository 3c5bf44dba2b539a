package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gallery-essence/essence-pos/internal/catalog"
	"github.com/gallery-essence/essence-pos/internal/inventory"
	"github.com/gallery-essence/essence-pos/internal/observability"
	"github.com/gallery-essence/essence-pos/internal/platform/httpx"
	"github.com/gallery-essence/essence-pos/internal/reports"
	"github.com/gallery-essence/essence-pos/internal/sales"
	"github.com/gallery-essence/essence-pos/internal/sales/customers"
	"github.com/gallery-essence/essence-pos/jobs"
)

// RouterParams aggregates handler dependencies for the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SalesHandler     *sales.Handler
	ReportsHandler   *reports.Handler
	CatalogHandler   *catalog.Handler
	CustomersHandler *customers.Handler
	InventoryHandler *inventory.Handler
	JobsHandler      *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter assembles the chi router with the full middleware stack.
func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{Logger: p.Logger, Config: p.Config, Metrics: p.Metrics}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", p.Metrics.Handler())

	r.Route("/sales", func(r chi.Router) {
		p.ReportsHandler.MountRoutes(r)
		p.SalesHandler.MountRoutes(r)
	})
	r.Route("/recipes", p.CatalogHandler.MountRoutes)
	r.Route("/customers", p.CustomersHandler.MountRoutes)
	r.Route("/inventory/batches", p.InventoryHandler.MountRoutes)
	r.Route("/jobs", p.JobsHandler.MountRoutes)

	return r
}
