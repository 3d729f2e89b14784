package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/fatura/internal/domain"
	"github.com/dukerupert/fatura/internal/handler"
	"github.com/dukerupert/fatura/internal/middleware"
	"github.com/go-playground/validator/v10"
)

const maxListLimit = 200

// InvoiceHandler exposes the invoice lifecycle as JSON endpoints.
type InvoiceHandler struct {
	invoices domain.InvoiceService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewInvoiceHandler creates the invoice API handler.
func NewInvoiceHandler(invoices domain.InvoiceService, logger *slog.Logger) *InvoiceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InvoiceHandler{
		invoices: invoices,
		validate: newValidator(),
		logger:   logger,
	}
}

type createInvoiceRequest struct {
	OrderID             string     `json:"order_id" validate:"required,uuid"`
	DueDate             *time.Time `json:"due_date"`
	TotalAmount         string     `json:"total_amount" validate:"omitempty,numeric"`
	PaymentInstructions string     `json:"payment_instructions" validate:"max=2000"`
}

type recordPaymentRequest struct {
	PaymentDetails json.RawMessage `json:"payment_details"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending issued paid canceled"`
}

type sendEmailRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

type visibilityRequest struct {
	Public *bool `json:"public" validate:"required"`
}

type pdfResponse struct {
	URL string `json:"url"`
}

type listResponse struct {
	Invoices any   `json:"invoices"`
	Limit    int32 `json:"limit"`
	Offset   int32 `json:"offset"`
}

// Create handles POST /api/invoices.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	res, err := h.invoices.CreateInvoice(r.Context(), domain.CreateInvoiceParams{
		OrderID:             req.OrderID,
		DueDate:             req.DueDate,
		TotalAmount:         req.TotalAmount,
		PaymentInstructions: req.PaymentInstructions,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	h.logWarnings(r, res.Warnings)
	handler.WriteJSON(w, http.StatusCreated, res)
}

// List handles GET /api/invoices?limit=&offset=.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt32(r, "limit", 50)
	if err != nil || limit < 1 || limit > maxListLimit {
		handler.BadRequestResponse(w, r, "limit must be between 1 and 200")
		return
	}
	offset, err := queryInt32(r, "offset", 0)
	if err != nil || offset < 0 {
		handler.BadRequestResponse(w, r, "offset must be a non-negative integer")
		return
	}

	invoices, err := h.invoices.ListInvoices(r.Context(), limit, offset)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, listResponse{Invoices: invoices, Limit: limit, Offset: offset})
}

// Get handles GET /api/invoices/{id}.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invoices.GetInvoice(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, inv)
}

// RecordPayment handles POST /api/invoices/{id}/payments. The body is
// optional; payment_details is stored verbatim.
func (h *InvoiceHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if !h.decode(w, r, &req, true) {
		return
	}
	if len(req.PaymentDetails) > 0 && !json.Valid(req.PaymentDetails) {
		handler.BadRequestResponse(w, r, "payment_details must be valid JSON")
		return
	}

	res, err := h.invoices.RecordPayment(r.Context(), r.PathValue("id"), req.PaymentDetails)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, res)
}

// UpdateStatus handles PATCH /api/invoices/{id}/status.
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	res, err := h.invoices.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, res)
}

// Cancel handles POST /api/invoices/{id}/cancel.
func (h *InvoiceHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	res, err := h.invoices.CancelInvoice(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, res)
}

// Delete handles DELETE /api/invoices/{id}. Storage cleanup failures come
// back as warnings with a 200; a clean delete is a 204.
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.invoices.DeleteInvoice(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if len(res.Warnings) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.logWarnings(r, res.Warnings)
	handler.WriteJSON(w, http.StatusOK, res)
}

// RegeneratePDF handles POST /api/invoices/{id}/pdf.
func (h *InvoiceHandler) RegeneratePDF(w http.ResponseWriter, r *http.Request) {
	url, err := h.invoices.RegeneratePDF(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, pdfResponse{URL: url})
}

// SendEmail handles POST /api/invoices/{id}/email. An optional email field
// redirects the message away from the customer's address.
func (h *InvoiceHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if !h.decode(w, r, &req, true) {
		return
	}

	res, err := h.invoices.SendInvoiceEmail(r.Context(), r.PathValue("id"), req.Email)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, res)
}

// SetVisibility handles PATCH /api/invoices/{id}/visibility.
func (h *InvoiceHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	inv, err := h.invoices.SetPublic(r.Context(), r.PathValue("id"), *req.Public)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, inv)
}

// SendOrderConfirmation handles POST /api/orders/{id}/confirmation.
func (h *InvoiceHandler) SendOrderConfirmation(w http.ResponseWriter, r *http.Request) {
	res, err := h.invoices.SendOrderConfirmation(r.Context(), r.PathValue("id"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, res)
}

// GetPublic handles GET /public/invoices/{token}. Private and unknown
// tokens are indistinguishable.
func (h *InvoiceHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invoices.GetPublicInvoice(r.Context(), r.PathValue("token"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	handler.WriteJSON(w, http.StatusOK, inv)
}

// decode reads a JSON body into dst and validates it. With optional set an
// empty body is accepted as the zero value. It reports whether the handler
// should continue.
func (h *InvoiceHandler) decode(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF) && optional:
		case errors.Is(err, io.EOF):
			handler.BadRequestResponse(w, r, "request body is required")
			return false
		case errors.As(err, &maxErr):
			handler.BadRequestResponse(w, r, "request body too large")
			return false
		default:
			handler.BadRequestResponse(w, r, "malformed JSON body")
			return false
		}
	}

	if err := h.validate.Struct(dst); err != nil {
		handler.ValidationErrorResponse(w, r, validationError(err))
		return false
	}
	return true
}

func (h *InvoiceHandler) logWarnings(r *http.Request, warnings []domain.Warning) {
	if len(warnings) == 0 {
		return
	}
	steps := make([]string, 0, len(warnings))
	for _, w := range warnings {
		steps = append(steps, w.Step)
	}
	middleware.GetLogger(r.Context(), h.logger).Warn("completed with warnings", "steps", steps)
}

func queryInt32(r *http.Request, key string, fallback int32) (int32, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(n), nil
}
