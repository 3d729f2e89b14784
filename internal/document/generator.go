package document

import (
	"context"
	"time"

	"github.com/dukerupert/fatura/internal/domain"
	"github.com/dukerupert/fatura/internal/reference"
	"github.com/dukerupert/fatura/internal/repository"
	"github.com/dukerupert/fatura/internal/storage"
	"github.com/dukerupert/fatura/internal/telemetry"
	"github.com/jackc/pgx/v5/pgtype"
)

const contentTypePDF = "application/pdf"

// Generated is a rendered and stored invoice document.
type Generated struct {
	Document *domain.InvoiceDocument
	PDF      []byte
	Path     string
	URL      string
}

// Generator assembles, renders and stores invoice documents.
type Generator struct {
	assembler *Assembler
	renderer  *Renderer
	store     storage.Storage
	repo      repository.Querier
	metrics   *telemetry.InvoiceMetrics
}

func NewGenerator(assembler *Assembler, renderer *Renderer, store storage.Storage, repo repository.Querier, metrics *telemetry.InvoiceMetrics) *Generator {
	return &Generator{
		assembler: assembler,
		renderer:  renderer,
		store:     store,
		repo:      repo,
		metrics:   metrics,
	}
}

// Assemble loads the document without rendering it.
func (g *Generator) Assemble(ctx context.Context, invoiceID pgtype.UUID) (*domain.InvoiceDocument, error) {
	return g.assembler.Assemble(ctx, invoiceID)
}

// Render assembles and renders the invoice without storing it.
func (g *Generator) Render(ctx context.Context, invoiceID pgtype.UUID) (*domain.InvoiceDocument, []byte, error) {
	const op = "document.render"

	start := time.Now()
	doc, err := g.assembler.Assemble(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}

	pdf, err := g.renderer.Render(doc)
	if err != nil {
		return nil, nil, domain.Internal(err, op, "failed to render invoice document")
	}
	g.metrics.Rendered(time.Since(start), len(pdf))

	return doc, pdf, nil
}

// Generate renders the invoice, uploads it to its deterministic path and
// records the URL on the invoice. Regenerating overwrites the same object.
func (g *Generator) Generate(ctx context.Context, invoiceID pgtype.UUID) (*Generated, error) {
	const op = "document.generate"

	doc, pdf, err := g.Render(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	path := reference.PDFPath(domain.IDString(invoiceID), doc.Invoice.InvoiceNumber)
	url, err := g.store.Upload(ctx, path, pdf, contentTypePDF, true)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to upload invoice document")
	}

	inv, err := g.repo.UpdateInvoicePdfUrl(ctx, repository.UpdateInvoicePdfUrlParams{
		ID:     invoiceID,
		PdfUrl: pgtype.Text{String: url, Valid: true},
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to record document url")
	}
	doc.Invoice = inv

	return &Generated{Document: doc, PDF: pdf, Path: path, URL: url}, nil
}
