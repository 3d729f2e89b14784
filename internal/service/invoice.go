package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/fatura/internal/document"
	"github.com/dukerupert/fatura/internal/domain"
	"github.com/dukerupert/fatura/internal/events"
	"github.com/dukerupert/fatura/internal/money"
	"github.com/dukerupert/fatura/internal/reference"
	"github.com/dukerupert/fatura/internal/repository"
	"github.com/dukerupert/fatura/internal/storage"
	"github.com/dukerupert/fatura/internal/telemetry"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Tail steps reported in warnings, logs and metrics.
const (
	StepPDF          = "pdf"
	StepEmail        = "email"
	StepActivation   = "activation"
	StepNotification = "notification"
	StepStorage      = "storage"
	StepEvent        = "event"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// InvoiceConfig holds the orchestrator's tunables.
type InvoiceConfig struct {
	DueDays     int
	TailTimeout time.Duration
}

type invoiceService struct {
	repo       repository.Querier
	generator  *document.Generator
	store      storage.Storage
	dispatcher *Dispatcher
	events     events.Publisher
	metrics    *telemetry.InvoiceMetrics
	logger     *slog.Logger
	cfg        InvoiceConfig
	now        func() time.Time
}

// NewInvoiceService creates the invoice lifecycle orchestrator.
func NewInvoiceService(
	repo repository.Querier,
	generator *document.Generator,
	store storage.Storage,
	dispatcher *Dispatcher,
	publisher events.Publisher,
	metrics *telemetry.InvoiceMetrics,
	logger *slog.Logger,
	cfg InvoiceConfig,
) domain.InvoiceService {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if cfg.DueDays <= 0 {
		cfg.DueDays = 7
	}
	if cfg.TailTimeout <= 0 {
		cfg.TailTimeout = 30 * time.Second
	}

	return &invoiceService{
		repo:       repo,
		generator:  generator,
		store:      store,
		dispatcher: dispatcher,
		events:     publisher,
		metrics:    metrics,
		logger:     logger.With("service", "invoice"),
		cfg:        cfg,
		now:        time.Now,
	}
}

// CreateInvoice persists a pending invoice for the order, then renders the
// document and emails it. Only the insert decides success.
func (s *invoiceService) CreateInvoice(ctx context.Context, params domain.CreateInvoiceParams) (*domain.InvoiceResult, error) {
	const op = "invoice.create"

	if strings.TrimSpace(params.OrderID) == "" {
		return nil, domain.NewValidationError(op, "order_id", "order_id is required")
	}
	orderID, err := domain.ParseID(op, "order_id", params.OrderID)
	if err != nil {
		return nil, err
	}

	var override *decimal.Decimal
	if strings.TrimSpace(params.TotalAmount) != "" {
		d, err := money.Parse(params.TotalAmount)
		if err != nil || d.IsNegative() {
			return nil, domain.NewValidationError(op, "total_amount", "must be a non-negative decimal number")
		}
		override = &d
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "order", params.OrderID)
		}
		return nil, domain.Internal(err, op, "failed to load order")
	}

	if _, err := s.repo.GetInvoiceByOrderID(ctx, orderID); err == nil {
		return nil, ErrDuplicateInvoice.WithOp(op)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.Internal(err, op, "failed to check existing invoice")
	}

	total, err := s.invoiceTotal(ctx, order, override)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to compute invoice total")
	}

	var company domain.CompanyDetails
	settings, err := s.repo.GetCompanySettings(ctx)
	switch {
	case err == nil:
		company = domain.CompanyDetailsFromSettings(settings)
	case errors.Is(err, pgx.ErrNoRows):
		s.logger.Warn("company settings missing, issuing invoice without issuer details", "order_id", params.OrderID)
	default:
		return nil, domain.Internal(err, op, "failed to load company settings")
	}
	snapshot, err := json.Marshal(company)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to snapshot company details")
	}

	instructions := strings.TrimSpace(params.PaymentInstructions)
	if instructions == "" {
		instructions = company.PaymentInstructions
	}

	now := s.now()
	dueDate := now.AddDate(0, 0, s.cfg.DueDays)
	if params.DueDate != nil {
		dueDate = *params.DueDate
	}

	number, err := reference.InvoiceNumber(now)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to generate invoice number")
	}

	inv, err := s.repo.CreateInvoice(ctx, repository.CreateInvoiceParams{
		InvoiceNumber:       number,
		OrderID:             orderID,
		DueDate:             pgtype.Date{Time: dueDate, Valid: true},
		TotalAmount:         money.ToNumeric(total),
		PaymentInstructions: pgtype.Text{String: instructions, Valid: instructions != ""},
		CompanyDetails:      snapshot,
		PublicToken:         reference.PublicToken(),
	})
	if err != nil {
		if isDuplicateOrderInvoice(err) {
			return nil, ErrDuplicateInvoice.WithOp(op)
		}
		return nil, domain.Internal(err, op, "failed to save invoice")
	}

	s.metrics.Created()
	s.logger.Info("invoice created",
		"invoice_id", domain.IDString(inv.ID),
		"invoice_number", inv.InvoiceNumber,
		"order_id", params.OrderID,
		"total", total.String(),
	)

	res := &domain.InvoiceResult{Invoice: inv}

	tctx, cancel := s.tailContext(ctx)
	defer cancel()

	s.publish(tctx, domain.EventInvoiceCreated, inv)

	var (
		doc *domain.InvoiceDocument
		pdf []byte
	)
	gen, err := s.generator.Generate(tctx, inv.ID)
	if err != nil {
		s.warn(tctx, &res.Warnings, inv.ID, StepPDF, "The invoice document could not be generated. Regenerate it to retry.", err)
		// The email still goes out, without the attachment.
		doc, err = s.generator.Assemble(tctx, inv.ID)
		if err != nil {
			s.warn(tctx, &res.Warnings, inv.ID, StepEmail, "The invoice email could not be prepared.", err)
			return res, nil
		}
	} else {
		doc, pdf = gen.Document, gen.PDF
		res.Invoice = gen.Document.Invoice
	}

	sent := s.dispatcher.InvoiceIssued(tctx, doc, pdf, "", false)
	switch sent.Status {
	case domain.DispatchFailed:
		s.warn(tctx, &res.Warnings, inv.ID, StepEmail, "The invoice email could not be sent. Send it again to retry.", sent.Err)
	case domain.DispatchSent:
		if sent.Invoice != nil {
			res.Invoice = *sent.Invoice
		}
	}

	return res, nil
}

// invoiceTotal resolves the stored total: an explicit override, else the
// order total, else the sum of the order's lines.
func (s *invoiceService) invoiceTotal(ctx context.Context, order repository.Order, override *decimal.Decimal) (decimal.Decimal, error) {
	if override != nil {
		return *override, nil
	}
	if order.TotalAmount.Valid {
		return money.FromNumeric(order.TotalAmount), nil
	}

	items, err := s.repo.GetOrderItems(ctx, order.ID)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(money.FromNumeric(item.UnitPrice).Mul(decimal.NewFromInt32(item.Quantity)))
	}
	return sum, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*repository.Invoice, error) {
	const op = "invoice.get"

	id, err := domain.ParseID(op, "invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}
	inv, err := s.getInvoice(ctx, op, id)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, limit, offset int32) ([]repository.Invoice, error) {
	const op = "invoice.list"

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	invoices, err := s.repo.ListInvoices(ctx, repository.ListInvoicesParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list invoices")
	}
	if invoices == nil {
		invoices = []repository.Invoice{}
	}
	return invoices, nil
}

// GetPublicInvoice hides private invoices behind the same not-found error
// as unknown tokens.
func (s *invoiceService) GetPublicInvoice(ctx context.Context, token string) (*repository.Invoice, error) {
	const op = "invoice.get_public"

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.NotFound(op, "invoice", "public token")
	}

	inv, err := s.repo.GetInvoiceByPublicToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "invoice", "public token")
		}
		return nil, domain.Internal(err, op, "failed to load invoice")
	}
	if !inv.IsPublic {
		return nil, domain.NotFound(op, "invoice", "public token")
	}
	return &inv, nil
}

func (s *invoiceService) SetPublic(ctx context.Context, invoiceID string, public bool) (*repository.Invoice, error) {
	const op = "invoice.set_public"

	id, err := domain.ParseID(op, "invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}

	inv, err := s.repo.SetInvoicePublic(ctx, repository.SetInvoicePublicParams{ID: id, IsPublic: public})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "invoice", invoiceID)
		}
		return nil, domain.Internal(err, op, "failed to update invoice visibility")
	}
	return &inv, nil
}

// RecordPayment marks the invoice paid and runs the payment cascade:
// service activation then the confirmation email. Recording a payment on
// an invoice that is already paid only re-runs activation.
func (s *invoiceService) RecordPayment(ctx context.Context, invoiceID string, details json.RawMessage) (*domain.InvoiceResult, error) {
	const op = "invoice.record_payment"

	id, err := domain.ParseID(op, "invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}
	if len(details) > 0 && !json.Valid(details) {
		return nil, ErrInvalidDetails.WithOp(op)
	}

	inv, err := s.getInvoice(ctx, op, id)
	if err != nil {
		return nil, err
	}

	status := domain.InvoiceStatus(inv.Status)
	if status != domain.InvoiceStatusPaid && !status.CanTransitionTo(domain.InvoiceStatusPaid) {
		return nil, ErrInvoiceTerminal.WithOp(op)
	}

	return s.applyPaid(ctx, op, inv, details)
}

// UpdateStatus force-sets a status without consulting the transition graph.
// A resulting status of paid runs the payment cascade.
func (s *invoiceService) UpdateStatus(ctx context.Context, invoiceID string, status string) (*domain.InvoiceResult, error) {
	const op = "invoice.update_status"

	id, err := domain.ParseID(op, "invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}
	next, ok := domain.ParseInvoiceStatus(strings.TrimSpace(status))
	if !ok {
		return nil, domain.NewValidationError(op, "status", ErrInvalidStatus.Message)
	}

	inv, err := s.getInvoice(ctx, op, id)
	if err != nil {
		return nil, err
	}

	if next == domain.InvoiceStatusPaid {
		return s.applyPaid(ctx, op, inv, nil)
	}

	return s.setStatus(ctx, op, inv, next)
}

// CancelInvoice moves a pending or issued invoice to canceled.
func (s *invoiceService) CancelInvoice(ctx context.Context, invoiceID string) (*domain.InvoiceResult, error) {
	const op = "invoice.cancel"

	id, err := domain.ParseID(op, "invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}
	inv, err := s.getInvoice(ctx, op, id)
	if err != nil {
		return nil, err
	}

	if !domain.InvoiceStatus(inv.Status).CanTransitionTo(domain.InvoiceStatusCanceled) {
		return nil, ErrInvoiceTerminal.WithOp(op)
	}

	return s.setStatus(ctx, op, inv, domain.InvoiceStatusCanceled)
}

func (s *invoiceService) setStatus(ctx context.Context, op string, inv repository.Invoice, next domain.InvoiceStatus) (*domain.InvoiceResult, error) {
	updated, err := s.repo.UpdateInvoiceStatus(ctx, repository.UpdateInvoiceStatusParams{ID: inv.ID, Status: string(next)})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "invoice", domain.IDString(inv.ID))
		}
		return nil, domain.Internal(err, op, "failed to update invoice status")
	}

	s.metrics.StatusChanged(string(next))
	s.logger.Info("invoice status changed",
		"invoice_id", domain.IDString(inv.ID),
		"from", inv.Status,
		"to", updated.Status,
	)

	tctx, cancel := s.tailContext(ctx)
	defer cancel()
	s.publish(tctx, domain.EventInvoiceStatusChanged, updated)

	return &domain.InvoiceResult{Invoice: updated}, nil
}

// applyPaid is the payment cascade as independent steps: the status write
// (the only step that can fail the call), service activation, then the
// confirmation email. Each later step records its failure as a warning.
func (s *invoiceService) applyPaid(ctx context.Context, op string, inv repository.Invoice, details json.RawMessage) (*domain.InvoiceResult, error) {
	repeat := inv.Status == string(domain.InvoiceStatusPaid)

	if !repeat {
		// Matches unpaid rows only; a lost race is handled as a repeat.
		paid, err := s.repo.MarkInvoicePaid(ctx, repository.MarkInvoicePaidParams{
			ID:             inv.ID,
			PaidAt:         pgtype.Timestamptz{Time: s.now(), Valid: true},
			PaymentDetails: details,
		})
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			current, err := s.getInvoice(ctx, op, inv.ID)
			if err != nil {
				return nil, err
			}
			if current.Status != string(domain.InvoiceStatusPaid) {
				return nil, domain.Internal(errors.New("payment write matched no row"), op, "failed to record payment")
			}
			inv, repeat = current, true
		case err != nil:
			return nil, domain.Internal(err, op, "failed to record payment")
		default:
			inv = paid
			s.metrics.StatusChanged(string(domain.InvoiceStatusPaid))
		}
	}
	s.metrics.PaymentRecorded(repeat)
	s.logger.Info("invoice paid", "invoice_id", domain.IDString(inv.ID), "repeat", repeat)

	res := &domain.InvoiceResult{Invoice: inv}

	tctx, cancel := s.tailContext(ctx)
	defer cancel()

	activated := s.activateServices(tctx, res, inv)

	if repeat {
		return res, nil
	}

	s.publish(tctx, domain.EventInvoicePaid, inv)

	doc, err := s.generator.Assemble(tctx, inv.ID)
	if err != nil {
		s.warn(tctx, &res.Warnings, inv.ID, StepNotification, "The payment confirmation could not be prepared.", err)
		return res, nil
	}
	if sent := s.dispatcher.PaymentReceived(tctx, doc, activated); sent.Status == domain.DispatchFailed {
		s.warn(tctx, &res.Warnings, inv.ID, StepNotification, "The payment confirmation could not be sent.", sent.Err)
	}

	return res, nil
}

// activateServices activates every service of the invoice's order and
// returns the names of those that changed. Already-active services are left
// alone, so repeated payments do not move activation dates.
func (s *invoiceService) activateServices(ctx context.Context, res *domain.InvoiceResult, inv repository.Invoice) []string {
	if !inv.OrderID.Valid {
		return nil
	}

	services, err := s.repo.ListServicesByOrder(ctx, inv.OrderID)
	if err != nil {
		s.warn(ctx, &res.Warnings, inv.ID, StepActivation, "The order's services could not be loaded for activation.", err)
		return nil
	}

	at := pgtype.Timestamptz{Time: s.now(), Valid: true}
	var activated []string
	for _, svc := range services {
		n, err := s.repo.ActivateService(ctx, repository.ActivateServiceParams{ID: svc.ID, ActivationDate: at})
		if err != nil {
			s.warn(ctx, &res.Warnings, inv.ID, StepActivation,
				fmt.Sprintf("Service %s could not be activated.", domain.IDString(svc.ID)), err)
			continue
		}
		if n > 0 {
			activated = append(activated, svc.Name)
		}
	}

	s.metrics.Activated(len(activated))
	if len(activated) > 0 {
		s.logger.Info("services activated", "invoice_id", domain.IDString(inv.ID), "count", len(activated))
	}
	return activated
}

// DeleteInvoice removes the invoice's stored documents, then the row. Blob
// cleanup failures leave orphans and are reported as warnings.
func (s *invoiceService) DeleteInvoice(ctx context.Context, invoiceID string) (*domain.DeleteResult, error) {
	const op = "invoice.delete"

	id, err := domain.ParseID(op, "invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}
	inv, err := s.getInvoice(ctx, op, id)
	if err != nil {
		return nil, err
	}

	res := &domain.DeleteResult{}
	tctx, cancel := s.tailContext(ctx)
	defer cancel()

	if err := s.removeDocuments(tctx, domain.IDString(id)); err != nil {
		s.warn(tctx, &res.Warnings, id, StepStorage, "Stored documents could not be removed.", err)
	}

	n, err := s.repo.DeleteInvoice(ctx, id)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to delete invoice")
	}
	if n == 0 {
		return nil, domain.NotFound(op, "invoice", domain.IDString(id))
	}

	s.logger.Info("invoice deleted", "invoice_id", domain.IDString(id), "invoice_number", inv.InvoiceNumber)
	s.publish(tctx, domain.EventInvoiceDeleted, inv)

	return res, nil
}

func (s *invoiceService) removeDocuments(ctx context.Context, invoiceID string) error {
	objects, err := s.store.List(ctx, reference.PDFPrefix(invoiceID))
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		return nil
	}

	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		keys = append(keys, o.Key)
	}
	return s.store.Remove(ctx, keys)
}

// RegeneratePDF renders and uploads the document again. It overwrites the
// previous file at the same path.
func (s *invoiceService) RegeneratePDF(ctx context.Context, invoiceID string) (string, error) {
	const op = "invoice.regenerate_pdf"

	id, err := domain.ParseID(op, "invoice_id", invoiceID)
	if err != nil {
		return "", err
	}

	gen, err := s.generator.Generate(ctx, id)
	if err != nil {
		s.logger.Error("invoice document regeneration failed", "invoice_id", invoiceID, "error", err)
		return "", err
	}

	s.logger.Info("invoice document generated", "invoice_id", invoiceID, "path", gen.Path, "bytes", len(gen.PDF))
	return gen.URL, nil
}

// SendInvoiceEmail sends the invoice now, ignoring the auto-send setting.
func (s *invoiceService) SendInvoiceEmail(ctx context.Context, invoiceID string, overrideEmail string) (*domain.SendEmailResult, error) {
	const op = "invoice.send_email"

	id, err := domain.ParseID(op, "invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}

	doc, pdf, err := s.generator.Render(ctx, id)
	if err != nil {
		return nil, err
	}

	sent := s.dispatcher.InvoiceIssued(ctx, doc, pdf, overrideEmail, true)
	if sent.Status != domain.DispatchSent {
		return nil, dispatchError(op, sent.Err)
	}

	return &domain.SendEmailResult{Recipients: sent.Recipients, MessageID: sent.MessageID}, nil
}

// SendOrderConfirmation emails the order acknowledgement. Disabled
// auto-send is reported as a skipped result, not an error.
func (s *invoiceService) SendOrderConfirmation(ctx context.Context, orderID string) (*domain.DispatchResult, error) {
	const op = "order.send_confirmation"

	id, err := domain.ParseID(op, "order_id", orderID)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "order", orderID)
		}
		return nil, domain.Internal(err, op, "failed to load order")
	}

	sent := s.dispatcher.OrderConfirmed(ctx, order)
	if sent.Status == domain.DispatchFailed {
		return nil, dispatchError(op, sent.Err)
	}
	return &sent, nil
}

func dispatchError(op string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.WithOp(op)
	}
	e := ErrEmailDelivery.WithOp(op)
	e.Err = err
	return e
}

func (s *invoiceService) getInvoice(ctx context.Context, op string, id pgtype.UUID) (repository.Invoice, error) {
	inv, err := s.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.Invoice{}, domain.NotFound(op, "invoice", domain.IDString(id))
		}
		return repository.Invoice{}, domain.Internal(err, op, "failed to load invoice")
	}
	return inv, nil
}

// tailContext detaches best-effort steps from the caller's cancellation and
// gives them their own budget.
func (s *invoiceService) tailContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.cfg.TailTimeout)
}

// warn records a failed tail step in warnings, the log, metrics and Sentry.
func (s *invoiceService) warn(ctx context.Context, warnings *[]domain.Warning, invoiceID pgtype.UUID, step, message string, err error) {
	id := domain.IDString(invoiceID)
	s.logger.Error("invoice tail step failed",
		"invoice_id", id,
		"step", step,
		"error", err,
		"request_id", domain.RequestIDFromContext(ctx),
	)
	s.metrics.TailFailed(step)
	telemetry.CaptureTailFailure(ctx, err, id, step)
	*warnings = append(*warnings, domain.Warning{Step: step, Message: message})
}

func (s *invoiceService) publish(ctx context.Context, eventType string, inv repository.Invoice) {
	err := s.events.Publish(ctx, events.Event{
		Type:          eventType,
		InvoiceID:     domain.IDString(inv.ID),
		InvoiceNumber: inv.InvoiceNumber,
		OrderID:       domain.IDString(inv.OrderID),
		Status:        inv.Status,
		RequestID:     domain.RequestIDFromContext(ctx),
		OccurredAt:    s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to publish invoice event", "type", eventType, "invoice_id", domain.IDString(inv.ID), "error", err)
		s.metrics.TailFailed(StepEvent)
	}
}
