package routes

import (
	"net/http"

	"github.com/dukerupert/fatura/internal/handler"
	"github.com/dukerupert/fatura/internal/handler/api"
	"github.com/dukerupert/fatura/internal/router"
)

// APIDeps contains dependencies for the HTTP surface.
type APIDeps struct {
	Invoices *api.InvoiceHandler
	DB       api.Pinger
	Metrics  http.Handler

	// BlobDir is served under /blobs/ when documents are stored on local
	// disk. Empty when an object store serves them.
	BlobDir string
}

// RegisterAPIRoutes mounts the invoice API, the public invoice view and the
// operational endpoints.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	api.Register(r, deps.Invoices)

	r.Get("/health", api.Health(deps.DB))
	if deps.Metrics != nil {
		r.Handle(http.MethodGet, "/metrics", deps.Metrics)
	}
	if deps.BlobDir != "" {
		r.Static("/blobs/", deps.BlobDir)
	}

	r.NotFound(handler.NotFoundResponse)
}
