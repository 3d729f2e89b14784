package api

import "github.com/dukerupert/fatura/internal/router"

// Register mounts the invoice endpoints on r.
func Register(r *router.Router, h *InvoiceHandler) {
	r.Post("/api/invoices", h.Create)
	r.Get("/api/invoices", h.List)
	r.Get("/api/invoices/{id}", h.Get)
	r.Delete("/api/invoices/{id}", h.Delete)
	r.Post("/api/invoices/{id}/payments", h.RecordPayment)
	r.Patch("/api/invoices/{id}/status", h.UpdateStatus)
	r.Post("/api/invoices/{id}/cancel", h.Cancel)
	r.Post("/api/invoices/{id}/pdf", h.RegeneratePDF)
	r.Post("/api/invoices/{id}/email", h.SendEmail)
	r.Patch("/api/invoices/{id}/visibility", h.SetVisibility)
	r.Post("/api/orders/{id}/confirmation", h.SendOrderConfirmation)

	r.Get("/public/invoices/{token}", h.GetPublic)
}
