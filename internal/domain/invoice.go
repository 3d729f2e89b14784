package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dukerupert/fatura/internal/repository"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "pending"
	InvoiceStatusIssued   InvoiceStatus = "issued"
	InvoiceStatusPaid     InvoiceStatus = "paid"
	InvoiceStatusCanceled InvoiceStatus = "canceled"
)

// invoiceTransitions lists the statuses reachable from each state. Paid and
// canceled have no entry: they are terminal.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusPending: {InvoiceStatusIssued, InvoiceStatusPaid, InvoiceStatusCanceled},
	InvoiceStatusIssued:  {InvoiceStatusPaid, InvoiceStatusCanceled},
}

// ParseInvoiceStatus validates a raw status value.
func ParseInvoiceStatus(s string) (InvoiceStatus, bool) {
	switch st := InvoiceStatus(s); st {
	case InvoiceStatusPending, InvoiceStatusIssued, InvoiceStatusPaid, InvoiceStatusCanceled:
		return st, true
	}
	return "", false
}

// IsTerminal reports whether no transition is defined out of s.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCanceled
}

// CanTransitionTo reports whether the lifecycle graph allows s -> to.
func (s InvoiceStatus) CanTransitionTo(to InvoiceStatus) bool {
	for _, next := range invoiceTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Warning is a best-effort step that failed after the primary state change
// committed. The operation itself still succeeded.
type Warning struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// InvoiceResult is the outcome of a lifecycle operation: the invoice as it
// stands after the primary write plus any soft failures from tail steps.
type InvoiceResult struct {
	Invoice  repository.Invoice `json:"invoice"`
	Warnings []Warning          `json:"warnings,omitempty"`
}

// DeleteResult reports soft failures from an invoice deletion.
type DeleteResult struct {
	Warnings []Warning `json:"warnings,omitempty"`
}

// SendEmailResult lists who an invoice email went to.
type SendEmailResult struct {
	Recipients []string `json:"recipients"`
	MessageID  string   `json:"message_id,omitempty"`
}

// DispatchStatus is the outcome of a notification attempt.
type DispatchStatus string

const (
	DispatchSent    DispatchStatus = "sent"
	DispatchSkipped DispatchStatus = "skipped"
	DispatchFailed  DispatchStatus = "failed"
)

// DispatchResult is returned by the notification dispatcher instead of an
// error so that callers can treat delivery as a tail step.
type DispatchResult struct {
	Status     DispatchStatus `json:"status"`
	Recipients []string       `json:"recipients,omitempty"`
	MessageID  string         `json:"message_id,omitempty"`
	Err        error          `json:"-"`

	// Invoice is the invoice after a successful send stamped it.
	Invoice *repository.Invoice `json:"-"`
}

// CompanyDetails is the issuer block frozen onto an invoice at creation.
type CompanyDetails struct {
	Name                string `json:"name"`
	NIF                 string `json:"nif,omitempty"`
	Address             string `json:"address,omitempty"`
	Phone               string `json:"phone,omitempty"`
	Email               string `json:"email,omitempty"`
	Website             string `json:"website,omitempty"`
	LogoURL             string `json:"logo_url,omitempty"`
	BankName            string `json:"bank_name,omitempty"`
	IBAN                string `json:"iban,omitempty"`
	PaymentInstructions string `json:"payment_instructions,omitempty"`
}

// InvoiceDocument is the denormalized view needed to render an invoice.
// Everything except Invoice may be missing for incomplete legacy data.
type InvoiceDocument struct {
	Invoice          repository.Invoice
	Order            *repository.Order
	Items            []repository.OrderItem
	Customer         *repository.Profile
	PaymentReference *repository.PaymentReference
	Company          CompanyDetails
}

// InvoiceService is the invoice lifecycle orchestrator.
type InvoiceService interface {
	// CreateInvoice issues an invoice for an order. PDF generation and the
	// invoice email run afterwards; their failures become warnings.
	CreateInvoice(ctx context.Context, params CreateInvoiceParams) (*InvoiceResult, error)

	// GetInvoice retrieves an invoice by ID.
	GetInvoice(ctx context.Context, invoiceID string) (*repository.Invoice, error)

	// ListInvoices lists invoices, newest first.
	ListInvoices(ctx context.Context, limit, offset int32) ([]repository.Invoice, error)

	// GetPublicInvoice resolves a public token. Invoices that are not
	// public are reported as not found.
	GetPublicInvoice(ctx context.Context, token string) (*repository.Invoice, error)

	// SetPublic toggles unauthenticated read access.
	SetPublic(ctx context.Context, invoiceID string, public bool) (*repository.Invoice, error)

	// RecordPayment marks the invoice paid and activates the order's services.
	RecordPayment(ctx context.Context, invoiceID string, details json.RawMessage) (*InvoiceResult, error)

	// UpdateStatus force-sets a status. The transition graph is not
	// enforced, but a resulting status of paid runs the activation cascade.
	UpdateStatus(ctx context.Context, invoiceID string, status string) (*InvoiceResult, error)

	// CancelInvoice moves a pending or issued invoice to canceled.
	CancelInvoice(ctx context.Context, invoiceID string) (*InvoiceResult, error)

	// DeleteInvoice removes stored documents (best effort) and the row.
	DeleteInvoice(ctx context.Context, invoiceID string) (*DeleteResult, error)

	// RegeneratePDF renders and uploads the document again.
	RegeneratePDF(ctx context.Context, invoiceID string) (string, error)

	// SendInvoiceEmail sends the invoice email now, optionally to a
	// different address than the customer's.
	SendInvoiceEmail(ctx context.Context, invoiceID string, overrideEmail string) (*SendEmailResult, error)

	// SendOrderConfirmation notifies the customer that an order was received.
	SendOrderConfirmation(ctx context.Context, orderID string) (*DispatchResult, error)
}

// CreateInvoiceParams contains parameters for creating an invoice.
type CreateInvoiceParams struct {
	OrderID string

	// DueDate defaults to creation time plus the configured number of days.
	DueDate *time.Time

	// TotalAmount overrides the order total, as a decimal string.
	TotalAmount string

	// PaymentInstructions overrides the company settings template.
	PaymentInstructions string
}

// Event types published after a primary state change.
const (
	EventInvoiceCreated       = "created"
	EventInvoicePaid          = "paid"
	EventInvoiceStatusChanged = "status_changed"
	EventInvoiceDeleted       = "deleted"
)

// DecodeCompanyDetails reads a company_details snapshot. Empty or invalid
// snapshots decode to the zero value.
func DecodeCompanyDetails(raw []byte) CompanyDetails {
	var c CompanyDetails
	if len(raw) == 0 {
		return c
	}
	_ = json.Unmarshal(raw, &c)
	return c
}

// CompanyDetailsFromSettings snapshots the live settings row.
func CompanyDetailsFromSettings(s repository.CompanySetting) CompanyDetails {
	return CompanyDetails{
		Name:                s.CompanyName,
		NIF:                 s.Nif.String,
		Address:             s.Address.String,
		Phone:               s.Phone.String,
		Email:               s.Email.String,
		Website:             s.Website.String,
		LogoURL:             s.LogoUrl.String,
		BankName:            s.BankName.String,
		IBAN:                s.Iban.String,
		PaymentInstructions: s.PaymentInstructions.String,
	}
}
