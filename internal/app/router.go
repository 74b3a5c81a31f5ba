package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/audit"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/catalog/products"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/crm/opportunities"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/crm/tasks"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/challans"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/derivation"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/invoices"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/quotations"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	ProductHandler     *products.Handler
	OpportunityHandler *opportunities.Handler
	TaskHandler        *tasks.Handler
	QuotationHandler   *quotations.Handler
	InvoiceHandler     *invoices.Handler
	ChallanHandler     *challans.Handler
	DerivationHandler  *derivation.Handler
	AuditHandler       *audit.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		params.ProductHandler.MountRoutes(api)
		params.OpportunityHandler.MountRoutes(api)
		params.TaskHandler.MountRoutes(api)
		params.QuotationHandler.MountRoutes(api)
		params.InvoiceHandler.MountRoutes(api)
		params.ChallanHandler.MountRoutes(api)
		params.DerivationHandler.MountRoutes(api)
		params.AuditHandler.MountRoutes(api)
	})

	return r
}
