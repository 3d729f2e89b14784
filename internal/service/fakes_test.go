package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/fatura/internal/document"
	"github.com/dukerupert/fatura/internal/email"
	"github.com/dukerupert/fatura/internal/events"
	"github.com/dukerupert/fatura/internal/money"
	"github.com/dukerupert/fatura/internal/repository"
	"github.com/dukerupert/fatura/internal/storage"
	"github.com/dukerupert/fatura/internal/telemetry"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeQuerier is an in-memory repository with the same semantics as the
// SQL queries the service relies on.
type fakeQuerier struct {
	mu sync.Mutex

	invoices map[uuid.UUID]repository.Invoice
	orders   map[uuid.UUID]repository.Order
	items    map[uuid.UUID][]repository.OrderItem
	refs     map[uuid.UUID][]repository.PaymentReference
	profiles map[uuid.UUID]repository.Profile
	services []repository.Service
	settings *repository.CompanySetting

	activateErr map[uuid.UUID]error
	now         func() time.Time
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		invoices:    map[uuid.UUID]repository.Invoice{},
		orders:      map[uuid.UUID]repository.Order{},
		items:       map[uuid.UUID][]repository.OrderItem{},
		refs:        map[uuid.UUID][]repository.PaymentReference{},
		profiles:    map[uuid.UUID]repository.Profile{},
		activateErr: map[uuid.UUID]error{},
		now:         time.Now,
	}
}

var _ repository.Querier = (*fakeQuerier)(nil)

func (f *fakeQuerier) ActivateService(_ context.Context, arg repository.ActivateServiceParams) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.activateErr[arg.ID.Bytes]; err != nil {
		return 0, err
	}
	for i := range f.services {
		if f.services[i].ID == arg.ID && f.services[i].Status != "active" {
			f.services[i].Status = "active"
			f.services[i].ActivationDate = arg.ActivationDate
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeQuerier) CreateInvoice(_ context.Context, arg repository.CreateInvoiceParams) (repository.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invoices {
		if inv.OrderID == arg.OrderID || inv.InvoiceNumber == arg.InvoiceNumber {
			return repository.Invoice{}, &pgconn.PgError{Code: "23505", ConstraintName: "invoices_order_id_key"}
		}
	}
	now := pgtype.Timestamptz{Time: f.now(), Valid: true}
	inv := repository.Invoice{
		ID:                  pgtype.UUID{Bytes: uuid.New(), Valid: true},
		InvoiceNumber:       arg.InvoiceNumber,
		OrderID:             arg.OrderID,
		Status:              "pending",
		DueDate:             arg.DueDate,
		TotalAmount:         arg.TotalAmount,
		PaymentInstructions: arg.PaymentInstructions,
		CompanyDetails:      arg.CompanyDetails,
		PublicToken:         arg.PublicToken,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	f.invoices[inv.ID.Bytes] = inv
	return inv, nil
}

func (f *fakeQuerier) DeleteInvoice(_ context.Context, id pgtype.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.invoices[id.Bytes]; !ok {
		return 0, nil
	}
	delete(f.invoices, id.Bytes)
	return 1, nil
}

func (f *fakeQuerier) GetCompanySettings(context.Context) (repository.CompanySetting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settings == nil {
		return repository.CompanySetting{}, pgx.ErrNoRows
	}
	return *f.settings, nil
}

func (f *fakeQuerier) GetInvoiceByID(_ context.Context, id pgtype.UUID) (repository.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id.Bytes]
	if !ok {
		return repository.Invoice{}, pgx.ErrNoRows
	}
	return inv, nil
}

func (f *fakeQuerier) GetInvoiceByOrderID(_ context.Context, orderID pgtype.UUID) (repository.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invoices {
		if inv.OrderID == orderID {
			return inv, nil
		}
	}
	return repository.Invoice{}, pgx.ErrNoRows
}

func (f *fakeQuerier) GetInvoiceByPublicToken(_ context.Context, token string) (repository.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invoices {
		if inv.PublicToken == token {
			return inv, nil
		}
	}
	return repository.Invoice{}, pgx.ErrNoRows
}

func (f *fakeQuerier) GetOrder(_ context.Context, id pgtype.UUID) (repository.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id.Bytes]
	if !ok {
		return repository.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (f *fakeQuerier) GetOrderItems(_ context.Context, orderID pgtype.UUID) ([]repository.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[orderID.Bytes], nil
}

func (f *fakeQuerier) GetProfile(_ context.Context, id pgtype.UUID) (repository.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id.Bytes]
	if !ok {
		return repository.Profile{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeQuerier) ListInvoices(_ context.Context, arg repository.ListInvoicesParams) ([]repository.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.Invoice, 0, len(f.invoices))
	for _, inv := range f.invoices {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time) })
	if int(arg.Offset) >= len(out) {
		return nil, nil
	}
	out = out[arg.Offset:]
	if int(arg.Limit) < len(out) {
		out = out[:arg.Limit]
	}
	return out, nil
}

func (f *fakeQuerier) ListPaymentReferencesForOrder(_ context.Context, orderID pgtype.UUID) ([]repository.PaymentReference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refs[orderID.Bytes], nil
}

func (f *fakeQuerier) ListServicesByOrder(_ context.Context, orderID pgtype.UUID) ([]repository.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Service
	for _, s := range f.services {
		if s.OrderID == orderID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeQuerier) MarkInvoiceEmailSent(_ context.Context, arg repository.MarkInvoiceEmailSentParams) (repository.Invoice, error) {
	return f.update(arg.ID, func(inv *repository.Invoice) {
		inv.EmailSent = true
		inv.EmailSentAt = arg.EmailSentAt
	})
}

func (f *fakeQuerier) MarkInvoicePaid(_ context.Context, arg repository.MarkInvoicePaidParams) (repository.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[arg.ID.Bytes]
	if !ok || inv.Status == "paid" {
		return repository.Invoice{}, pgx.ErrNoRows
	}
	inv.Status = "paid"
	if !inv.PaidAt.Valid {
		inv.PaidAt = arg.PaidAt
	}
	if arg.PaymentDetails != nil {
		inv.PaymentDetails = arg.PaymentDetails
	}
	inv.UpdatedAt = pgtype.Timestamptz{Time: f.now(), Valid: true}
	f.invoices[arg.ID.Bytes] = inv
	return inv, nil
}

func (f *fakeQuerier) SetInvoicePublic(_ context.Context, arg repository.SetInvoicePublicParams) (repository.Invoice, error) {
	return f.update(arg.ID, func(inv *repository.Invoice) { inv.IsPublic = arg.IsPublic })
}

func (f *fakeQuerier) UpdateInvoicePdfUrl(_ context.Context, arg repository.UpdateInvoicePdfUrlParams) (repository.Invoice, error) {
	return f.update(arg.ID, func(inv *repository.Invoice) { inv.PdfUrl = arg.PdfUrl })
}

func (f *fakeQuerier) UpdateInvoiceStatus(_ context.Context, arg repository.UpdateInvoiceStatusParams) (repository.Invoice, error) {
	return f.update(arg.ID, func(inv *repository.Invoice) { inv.Status = arg.Status })
}

func (f *fakeQuerier) update(id pgtype.UUID, fn func(*repository.Invoice)) (repository.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id.Bytes]
	if !ok {
		return repository.Invoice{}, pgx.ErrNoRows
	}
	fn(&inv)
	inv.UpdatedAt = pgtype.Timestamptz{Time: f.now(), Valid: true}
	f.invoices[id.Bytes] = inv
	return inv, nil
}

func (f *fakeQuerier) service(id pgtype.UUID) repository.Service {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.services {
		if s.ID == id {
			return s
		}
	}
	return repository.Service{}
}

func (f *fakeQuerier) invoiceCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.invoices)
}

// recordingSender captures outgoing mail.
type recordingSender struct {
	mu   sync.Mutex
	sent []*email.Email
	err  error
}

func (r *recordingSender) Send(_ context.Context, e *email.Email) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.sent = append(r.sent, e)
	return "msg-" + uuid.NewString()[:8], nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

// recordingPublisher captures lifecycle events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// brokenStorage simulates a blob store outage.
type brokenStorage struct {
	storage.Storage
}

var errStorageDown = errors.New("storage: connection refused")

func (brokenStorage) Upload(context.Context, string, []byte, string, bool) (string, error) {
	return "", errStorageDown
}

func (brokenStorage) List(context.Context, string) ([]storage.Object, error) {
	return nil, errStorageDown
}

func (brokenStorage) Remove(context.Context, []string) error {
	return errStorageDown
}

func newID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.New(), Valid: true}
}

func decimalOf(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var clock = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

type testEnv struct {
	repo      *fakeQuerier
	sender    *recordingSender
	publisher *recordingPublisher
	store     storage.Storage
	svc       *invoiceService
}

type envOption func(*envConfig)

type envConfig struct {
	store storage.Storage
}

func withStorage(s storage.Storage) envOption {
	return func(c *envConfig) { c.store = s }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	cfg := envConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.store == nil {
		local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:3000/blobs")
		require.NoError(t, err)
		cfg.store = local
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newFakeQuerier()
	repo.now = func() time.Time { return clock }
	repo.settings = &repository.CompanySetting{
		CompanyName:         "Acme Serviços Lda",
		Nif:                 pgtype.Text{String: "5417000000", Valid: true},
		PaymentInstructions: pgtype.Text{String: "Pague por referência multicaixa.", Valid: true},
	}

	sender := &recordingSender{}
	mail, err := email.NewService(sender, "faturacao@acme.ao", "Acme", "KZ")
	require.NoError(t, err)

	metrics := telemetry.NewInvoiceMetrics(prometheus.NewRegistry(), "test")
	gen := document.NewGenerator(
		document.NewAssembler(repo, logger),
		document.NewRenderer(document.RendererOptions{Currency: "KZ"}),
		cfg.store, repo, metrics,
	)
	dispatcher := NewDispatcher(repo, mail, metrics, "http://localhost:3000", logger)
	dispatcher.now = func() time.Time { return clock }
	publisher := &recordingPublisher{}

	svc := NewInvoiceService(repo, gen, cfg.store, dispatcher, publisher, metrics, logger, InvoiceConfig{
		DueDays:     7,
		TailTimeout: 5 * time.Second,
	}).(*invoiceService)
	svc.now = func() time.Time { return clock }

	return &testEnv{repo: repo, sender: sender, publisher: publisher, store: cfg.store, svc: svc}
}

func (e *testEnv) enableAutoSend() {
	e.repo.mu.Lock()
	defer e.repo.mu.Unlock()
	e.repo.settings.AutoSendInvoices = true
}

// seedOrder adds an order with one item per entry in prices and a customer
// profile with the given email.
func (e *testEnv) seedOrder(total string, customerEmail string, prices ...string) pgtype.UUID {
	e.repo.mu.Lock()
	defer e.repo.mu.Unlock()

	orderID := pgtype.UUID{Bytes: uuid.New(), Valid: true}
	userID := pgtype.UUID{Bytes: uuid.New(), Valid: true}

	order := repository.Order{
		ID:          orderID,
		UserID:      userID,
		OrderNumber: pgtype.Text{String: "ORD-" + uuid.NewString()[:6], Valid: true},
		Status:      "pending",
		CreatedAt:   pgtype.Timestamptz{Time: clock.Add(-time.Hour), Valid: true},
	}
	if total != "" {
		order.TotalAmount = money.ToNumeric(decimal.RequireFromString(total))
	}
	e.repo.orders[orderID.Bytes] = order

	for _, p := range prices {
		e.repo.items[orderID.Bytes] = append(e.repo.items[orderID.Bytes], repository.OrderItem{
			ID:        pgtype.UUID{Bytes: uuid.New(), Valid: true},
			OrderID:   orderID,
			Name:      "Hospedagem",
			Quantity:  1,
			UnitPrice: money.ToNumeric(decimal.RequireFromString(p)),
		})
	}

	e.repo.profiles[userID.Bytes] = repository.Profile{
		ID:       userID,
		FullName: pgtype.Text{String: "Maria João", Valid: true},
		Email:    pgtype.Text{String: customerEmail, Valid: customerEmail != ""},
	}
	return orderID
}

func (e *testEnv) seedService(orderID pgtype.UUID, name string) pgtype.UUID {
	e.repo.mu.Lock()
	defer e.repo.mu.Unlock()
	id := pgtype.UUID{Bytes: uuid.New(), Valid: true}
	e.repo.services = append(e.repo.services, repository.Service{
		ID:          id,
		OrderID:     orderID,
		Name:        name,
		ServiceType: "hosting",
		Status:      "pending",
	})
	return id
}
