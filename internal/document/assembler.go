// Package document assembles invoice documents from the normalized tables
// and renders them to PDF.
package document

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dukerupert/fatura/internal/domain"
	"github.com/dukerupert/fatura/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Assembler gathers everything needed to render one invoice.
type Assembler struct {
	repo   repository.Querier
	logger *slog.Logger
}

func NewAssembler(repo repository.Querier, logger *slog.Logger) *Assembler {
	return &Assembler{repo: repo, logger: logger}
}

// Assemble loads the invoice and its related records. Only a missing or
// unreadable invoice is an error; every other relation is optional and a
// failed lookup leaves it empty.
func (a *Assembler) Assemble(ctx context.Context, invoiceID pgtype.UUID) (*domain.InvoiceDocument, error) {
	const op = "document.assemble"

	inv, err := a.repo.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "invoice", domain.IDString(invoiceID))
		}
		return nil, domain.Internal(err, op, "failed to load invoice")
	}

	doc := &domain.InvoiceDocument{Invoice: inv}
	log := a.logger.With("invoice_id", domain.IDString(invoiceID), "op", op)

	if inv.OrderID.Valid {
		a.loadOrder(ctx, log, doc)
	}

	doc.Company = domain.DecodeCompanyDetails(inv.CompanyDetails)
	if doc.Company.Name == "" {
		settings, err := a.repo.GetCompanySettings(ctx)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				log.Warn("company settings unavailable", "error", err)
			}
		} else {
			doc.Company = domain.CompanyDetailsFromSettings(settings)
		}
	}

	return doc, nil
}

func (a *Assembler) loadOrder(ctx context.Context, log *slog.Logger, doc *domain.InvoiceDocument) {
	orderID := doc.Invoice.OrderID

	order, err := a.repo.GetOrder(ctx, orderID)
	if err != nil {
		logLookup(log, "order", err)
	} else {
		doc.Order = &order
	}

	items, err := a.repo.GetOrderItems(ctx, orderID)
	if err != nil {
		logLookup(log, "order items", err)
	} else {
		doc.Items = items
	}

	refs, err := a.repo.ListPaymentReferencesForOrder(ctx, orderID)
	if err != nil {
		logLookup(log, "payment references", err)
	} else {
		doc.PaymentReference = LatestPaymentReference(refs)
	}

	if doc.Order != nil && doc.Order.UserID.Valid {
		profile, err := a.repo.GetProfile(ctx, doc.Order.UserID)
		if err != nil {
			logLookup(log, "customer profile", err)
		} else {
			doc.Customer = &profile
		}
	}
}

func logLookup(log *slog.Logger, what string, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		log.Info("related record missing, rendering without it", "relation", what)
		return
	}
	log.Warn("related record lookup failed, rendering without it", "relation", what, "error", err)
}
