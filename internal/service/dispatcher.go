package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/fatura/internal/document"
	"github.com/dukerupert/fatura/internal/domain"
	"github.com/dukerupert/fatura/internal/email"
	"github.com/dukerupert/fatura/internal/reference"
	"github.com/dukerupert/fatura/internal/repository"
	"github.com/dukerupert/fatura/internal/telemetry"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	kindInvoiceIssued   = "invoice_issued"
	kindPaymentReceived = "payment_received"
	kindOrderConfirmed  = "order_confirmed"
)

// Dispatcher sends the lifecycle notifications. It never returns an error:
// every outcome is reported as a DispatchResult so callers can treat
// delivery as a best-effort step.
type Dispatcher struct {
	repo    repository.Querier
	mail    *email.Service
	metrics *telemetry.InvoiceMetrics
	baseURL string
	logger  *slog.Logger
	now     func() time.Time
}

// NewDispatcher creates a dispatcher. A nil mail service reports every
// send as failed with ErrEmailNotConfigured.
func NewDispatcher(repo repository.Querier, mail *email.Service, metrics *telemetry.InvoiceMetrics, baseURL string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		repo:    repo,
		mail:    mail,
		metrics: metrics,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger.With("component", "dispatcher"),
		now:     time.Now,
	}
}

// InvoiceIssued emails the invoice document. Automatic sends honour the
// auto-send setting; manual sends always go out. A successful send stamps
// the invoice as emailed.
func (d *Dispatcher) InvoiceIssued(ctx context.Context, doc *domain.InvoiceDocument, pdf []byte, override string, manual bool) domain.DispatchResult {
	if !manual {
		if res, gated := d.gate(ctx, kindInvoiceIssued); gated {
			return res
		}
	}

	to := recipient(doc.Customer, override)
	if to == "" {
		return d.failed(kindInvoiceIssued, ErrMissingCustomerEmail)
	}
	if d.mail == nil {
		return d.failed(kindInvoiceIssued, ErrEmailNotConfigured)
	}

	inv := doc.Invoice
	summary := document.Summarize(doc)
	data := email.InvoiceIssuedEmail{
		CustomerName:  customerName(doc.Customer),
		CompanyName:   doc.Company.Name,
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     inv.CreatedAt.Time,
		DueDate:       inv.DueDate.Time,
		Total:         summary.Total,
		Payment:       paymentDetails(summary.Payment),
		ViewURL:       d.invoiceURL(inv),
	}

	var attachments []email.Attachment
	if len(pdf) > 0 {
		attachments = append(attachments, email.Attachment{
			Filename:    "fatura-" + reference.SanitizeFilename(inv.InvoiceNumber) + ".pdf",
			ContentType: "application/pdf",
			Content:     pdf,
		})
	}

	recipients := []string{to}
	messageID, err := d.mail.SendInvoiceIssued(ctx, recipients, data, attachments...)
	if err != nil {
		return d.failed(kindInvoiceIssued, err)
	}

	res := d.sent(kindInvoiceIssued, recipients, messageID)
	stamped, err := d.repo.MarkInvoiceEmailSent(ctx, repository.MarkInvoiceEmailSentParams{
		ID:          inv.ID,
		EmailSentAt: pgtype.Timestamptz{Time: d.now(), Valid: true},
	})
	if err != nil {
		// The message is out; only the bookkeeping is missing.
		d.logger.Error("failed to stamp invoice email", "invoice_id", domain.IDString(inv.ID), "error", err)
		d.metrics.TailFailed("email_stamp")
		return res
	}
	res.Invoice = &stamped
	return res
}

// PaymentReceived confirms a recorded payment and lists the services it
// activated.
func (d *Dispatcher) PaymentReceived(ctx context.Context, doc *domain.InvoiceDocument, activated []string) domain.DispatchResult {
	if res, gated := d.gate(ctx, kindPaymentReceived); gated {
		return res
	}

	to := recipient(doc.Customer, "")
	if to == "" {
		return d.failed(kindPaymentReceived, ErrMissingCustomerEmail)
	}
	if d.mail == nil {
		return d.failed(kindPaymentReceived, ErrEmailNotConfigured)
	}

	inv := doc.Invoice
	paidAt := inv.PaidAt.Time
	if !inv.PaidAt.Valid {
		paidAt = d.now()
	}

	recipients := []string{to}
	messageID, err := d.mail.SendPaymentReceived(ctx, recipients, email.PaymentReceivedEmail{
		CustomerName:      customerName(doc.Customer),
		CompanyName:       doc.Company.Name,
		InvoiceNumber:     inv.InvoiceNumber,
		PaidAt:            paidAt,
		Amount:            document.Summarize(doc).Total,
		ActivatedServices: activated,
		ViewURL:           d.invoiceURL(inv),
	})
	if err != nil {
		return d.failed(kindPaymentReceived, err)
	}
	return d.sent(kindPaymentReceived, recipients, messageID)
}

// OrderConfirmed acknowledges an order with its items and payment reference.
func (d *Dispatcher) OrderConfirmed(ctx context.Context, order repository.Order) domain.DispatchResult {
	if res, gated := d.gate(ctx, kindOrderConfirmed); gated {
		return res
	}

	log := d.logger.With("order_id", domain.IDString(order.ID))

	var customer *repository.Profile
	if order.UserID.Valid {
		p, err := d.repo.GetProfile(ctx, order.UserID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return d.failed(kindOrderConfirmed, err)
		}
		if err == nil {
			customer = &p
		}
	}
	to := recipient(customer, "")
	if to == "" {
		return d.failed(kindOrderConfirmed, ErrMissingCustomerEmail)
	}
	if d.mail == nil {
		return d.failed(kindOrderConfirmed, ErrEmailNotConfigured)
	}

	items, err := d.repo.GetOrderItems(ctx, order.ID)
	if err != nil {
		log.Warn("order items unavailable for confirmation", "error", err)
	}
	refs, err := d.repo.ListPaymentReferencesForOrder(ctx, order.ID)
	if err != nil {
		log.Warn("payment references unavailable for confirmation", "error", err)
	}

	company := ""
	if settings, err := d.repo.GetCompanySettings(ctx); err == nil {
		company = settings.CompanyName
	}

	doc := &domain.InvoiceDocument{Order: &order, Items: items, PaymentReference: document.LatestPaymentReference(refs)}
	summary := document.Summarize(doc)
	lines := make([]email.LineItem, 0, len(summary.Lines))
	for _, l := range summary.Lines {
		lines = append(lines, email.LineItem{Description: l.Description, Quantity: l.Quantity, Total: l.Total})
	}

	recipients := []string{to}
	messageID, err := d.mail.SendOrderConfirmed(ctx, recipients, email.OrderConfirmedEmail{
		CustomerName: customerName(customer),
		CompanyName:  company,
		OrderNumber:  order.OrderNumber.String,
		OrderDate:    order.CreatedAt.Time,
		Items:        lines,
		Total:        summary.Total,
		Payment:      paymentDetails(summary.Payment),
		ViewURL:      d.baseURL,
	})
	if err != nil {
		return d.failed(kindOrderConfirmed, err)
	}
	return d.sent(kindOrderConfirmed, recipients, messageID)
}

// gate reports a skipped result when automatic sending is disabled. A
// missing settings row counts as disabled.
func (d *Dispatcher) gate(ctx context.Context, kind string) (domain.DispatchResult, bool) {
	settings, err := d.repo.GetCompanySettings(ctx)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return d.failed(kind, err), true
	}
	if err != nil || !settings.AutoSendInvoices {
		d.metrics.Email(kind, string(domain.DispatchSkipped))
		d.logger.Info("automatic email disabled, skipping", "kind", kind)
		return domain.DispatchResult{Status: domain.DispatchSkipped}, true
	}
	return domain.DispatchResult{}, false
}

func (d *Dispatcher) sent(kind string, recipients []string, messageID string) domain.DispatchResult {
	d.metrics.Email(kind, string(domain.DispatchSent))
	d.logger.Info("email sent", "kind", kind, "recipients", recipients, "message_id", messageID)
	return domain.DispatchResult{Status: domain.DispatchSent, Recipients: recipients, MessageID: messageID}
}

func (d *Dispatcher) failed(kind string, err error) domain.DispatchResult {
	d.metrics.Email(kind, string(domain.DispatchFailed))
	d.logger.Warn("email not sent", "kind", kind, "error", err)
	return domain.DispatchResult{Status: domain.DispatchFailed, Err: err}
}

// invoiceURL links the stored PDF, else the public page when the invoice is
// shared, else the site root.
func (d *Dispatcher) invoiceURL(inv repository.Invoice) string {
	if inv.PdfUrl.Valid && inv.PdfUrl.String != "" {
		return inv.PdfUrl.String
	}
	if inv.IsPublic {
		return d.baseURL + "/public/invoices/" + inv.PublicToken
	}
	return d.baseURL
}

func recipient(p *repository.Profile, override string) string {
	if o := strings.TrimSpace(override); o != "" {
		return o
	}
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.Email.String)
}

func customerName(p *repository.Profile) string {
	if p == nil || strings.TrimSpace(p.FullName.String) == "" {
		return "Cliente"
	}
	return p.FullName.String
}

func paymentDetails(p *document.Payment) email.PaymentDetails {
	if p == nil {
		return email.PaymentDetails{}
	}
	amount := p.Amount
	return email.PaymentDetails{
		Entity:     p.Entity,
		Reference:  p.Reference,
		Amount:     &amount,
		ValidUntil: p.ValidUntil,
	}
}
