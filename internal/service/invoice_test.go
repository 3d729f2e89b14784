package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/fatura/internal/document"
	"github.com/dukerupert/fatura/internal/domain"
	"github.com/dukerupert/fatura/internal/money"
	"github.com/dukerupert/fatura/internal/reference"
	"github.com/dukerupert/fatura/internal/repository"
	"github.com/dukerupert/fatura/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var invoiceNumberPattern = regexp.MustCompile(`^INV-[A-Z0-9]+-[A-Z0-9]{8}$`)

func TestCreateInvoice_SingleItemOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	orderID := env.seedOrder("50000", "maria@example.ao", "50000")

	res, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	inv := res.Invoice
	assert.Equal(t, "pending", inv.Status)
	assert.Regexp(t, invoiceNumberPattern, inv.InvoiceNumber)
	assert.Equal(t, "50000", money.FromNumeric(inv.TotalAmount).String())
	assert.Equal(t, clock.AddDate(0, 0, 7), inv.DueDate.Time)
	assert.NotEmpty(t, inv.PublicToken)
	assert.False(t, inv.IsPublic)
	assert.Equal(t, "Pague por referência multicaixa.", inv.PaymentInstructions.String)

	company := domain.DecodeCompanyDetails(inv.CompanyDetails)
	assert.Equal(t, "Acme Serviços Lda", company.Name)

	// The document was stored at its deterministic path and linked.
	wantPath := reference.PDFPath(domain.IDString(inv.ID), inv.InvoiceNumber)
	assert.Equal(t, env.store.URL(wantPath), inv.PdfUrl.String)
	local := env.store.(*storage.LocalStorage)
	_, err = os.Stat(filepath.Join(local.BasePath(), filepath.FromSlash(wantPath)))
	assert.NoError(t, err)

	// Totals block and emails read the same figure.
	doc, err := env.svc.generator.Assemble(ctx, inv.ID)
	require.NoError(t, err)
	summary := document.Summarize(doc)
	assert.Equal(t, "KZ 50.000,00", money.FormatCurrency("KZ", summary.Total))
	assert.Nil(t, summary.Payment, "no payment reference should render placeholders")

	// Auto-send is off by default.
	assert.Equal(t, 0, env.sender.count())
	assert.Equal(t, []string{domain.EventInvoiceCreated}, env.publisher.types())
}

func TestCreateInvoice_UniqueNumbers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		orderID := env.seedOrder("1000", "", "1000")
		res, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
		require.NoError(t, err)
		assert.Regexp(t, invoiceNumberPattern, res.Invoice.InvoiceNumber)
		assert.False(t, seen[res.Invoice.InvoiceNumber], "duplicate number %s", res.Invoice.InvoiceNumber)
		seen[res.Invoice.InvoiceNumber] = true
	}
}

func TestCreateInvoice_Duplicate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	orderID := env.seedOrder("50000", "", "50000")
	params := domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)}

	_, err := env.svc.CreateInvoice(ctx, params)
	require.NoError(t, err)

	_, err = env.svc.CreateInvoice(ctx, params)
	require.Error(t, err)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
	assert.ErrorIs(t, err, ErrDuplicateInvoice)
	assert.Equal(t, 1, env.repo.invoiceCount())
}

func TestCreateInvoice_DuplicateRaceHitsUniqueIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repository.NewMockQuerier(ctrl)
	orderID := newID()

	repo.EXPECT().GetOrder(gomock.Any(), orderID).Return(repository.Order{ID: orderID, TotalAmount: money.ToNumeric(decimalOf("100"))}, nil)
	repo.EXPECT().GetInvoiceByOrderID(gomock.Any(), orderID).Return(repository.Invoice{}, pgx.ErrNoRows)
	repo.EXPECT().GetCompanySettings(gomock.Any()).Return(repository.CompanySetting{CompanyName: "Acme"}, nil)
	repo.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(repository.Invoice{}, &pgconn.PgError{Code: "23505", ConstraintName: "invoices_order_id_key"})

	svc := NewInvoiceService(repo, nil, nil, nil, nil, nil, nil, InvoiceConfig{})

	_, err := svc.CreateInvoice(context.Background(), domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateInvoice)
}

func TestCreateInvoice_OtherUniqueCollisionIsInternal(t *testing.T) {
	for _, constraint := range []string{"invoices_invoice_number_key", "invoices_public_token_key"} {
		t.Run(constraint, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := repository.NewMockQuerier(ctrl)
			orderID := newID()

			repo.EXPECT().GetOrder(gomock.Any(), orderID).Return(repository.Order{ID: orderID, TotalAmount: money.ToNumeric(decimalOf("100"))}, nil)
			repo.EXPECT().GetInvoiceByOrderID(gomock.Any(), orderID).Return(repository.Invoice{}, pgx.ErrNoRows)
			repo.EXPECT().GetCompanySettings(gomock.Any()).Return(repository.CompanySetting{CompanyName: "Acme"}, nil)
			repo.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(repository.Invoice{}, &pgconn.PgError{Code: "23505", ConstraintName: constraint})

			svc := NewInvoiceService(repo, nil, nil, nil, nil, nil, nil, InvoiceConfig{})

			_, err := svc.CreateInvoice(context.Background(), domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrDuplicateInvoice)
			assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
		})
	}
}

func TestCreateInvoice_InsertFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repository.NewMockQuerier(ctrl)
	orderID := newID()

	repo.EXPECT().GetOrder(gomock.Any(), orderID).Return(repository.Order{ID: orderID, TotalAmount: money.ToNumeric(decimalOf("100"))}, nil)
	repo.EXPECT().GetInvoiceByOrderID(gomock.Any(), orderID).Return(repository.Invoice{}, pgx.ErrNoRows)
	repo.EXPECT().GetCompanySettings(gomock.Any()).Return(repository.CompanySetting{}, pgx.ErrNoRows)
	repo.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(repository.Invoice{}, errors.New("connection refused"))

	svc := NewInvoiceService(repo, nil, nil, nil, nil, nil, nil, InvoiceConfig{})

	_, err := svc.CreateInvoice(context.Background(), domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
	require.Error(t, err)
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
}

func TestCreateInvoice_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		params domain.CreateInvoiceParams
		code   string
	}{
		{name: "missing order", params: domain.CreateInvoiceParams{}, code: domain.EINVALID},
		{name: "malformed order id", params: domain.CreateInvoiceParams{OrderID: "order-1"}, code: domain.EINVALID},
		{name: "unknown order", params: domain.CreateInvoiceParams{OrderID: domain.IDString(newID())}, code: domain.ENOTFOUND},
		{
			name:   "bad total",
			params: domain.CreateInvoiceParams{OrderID: domain.IDString(newID()), TotalAmount: "abc"},
			code:   domain.EINVALID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.CreateInvoice(ctx, tt.params)
			require.Error(t, err)
			assert.Equal(t, tt.code, domain.ErrorCode(err))
		})
	}
	assert.Equal(t, 0, env.repo.invoiceCount())
}

func TestCreateInvoice_Overrides(t *testing.T) {
	env := newTestEnv(t)
	orderID := env.seedOrder("50000", "", "50000")
	due := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)

	res, err := env.svc.CreateInvoice(context.Background(), domain.CreateInvoiceParams{
		OrderID:             domain.IDString(orderID),
		DueDate:             &due,
		TotalAmount:         "45000.50",
		PaymentInstructions: "Transferência para o IBAN indicado.",
	})
	require.NoError(t, err)

	assert.Equal(t, due, res.Invoice.DueDate.Time)
	assert.Equal(t, "45000.5", money.FromNumeric(res.Invoice.TotalAmount).String())
	assert.Equal(t, "Transferência para o IBAN indicado.", res.Invoice.PaymentInstructions.String)
}

func TestCreateInvoice_TotalFromItemsWhenOrderHasNone(t *testing.T) {
	env := newTestEnv(t)
	orderID := env.seedOrder("", "", "20000", "5000")

	res, err := env.svc.CreateInvoice(context.Background(), domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
	require.NoError(t, err)
	assert.Equal(t, "25000", money.FromNumeric(res.Invoice.TotalAmount).String())
}

func TestCreateInvoice_AutoSend(t *testing.T) {
	env := newTestEnv(t)
	env.enableAutoSend()
	orderID := env.seedOrder("50000", "maria@example.ao", "50000")

	res, err := env.svc.CreateInvoice(context.Background(), domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	require.Equal(t, 1, env.sender.count())
	sent := env.sender.sent[0]
	assert.Equal(t, []string{"maria@example.ao"}, sent.To)
	assert.Contains(t, sent.Subject, res.Invoice.InvoiceNumber)
	require.Len(t, sent.Attachments, 1)
	assert.Equal(t, "application/pdf", sent.Attachments[0].ContentType)
	assert.Equal(t, "fatura-"+reference.SanitizeFilename(res.Invoice.InvoiceNumber)+".pdf", sent.Attachments[0].Filename)

	assert.True(t, res.Invoice.EmailSent)
	assert.Equal(t, clock, res.Invoice.EmailSentAt.Time)
	assert.Equal(t, "pending", res.Invoice.Status, "sending does not move the status")
	assert.NotContains(t, env.publisher.types(), domain.EventInvoiceStatusChanged)
}

func TestCreateInvoice_TailFailuresAreWarnings(t *testing.T) {
	t.Run("storage outage", func(t *testing.T) {
		env := newTestEnv(t, withStorage(brokenStorage{}))
		env.enableAutoSend()
		orderID := env.seedOrder("50000", "maria@example.ao", "50000")

		res, err := env.svc.CreateInvoice(context.Background(), domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
		require.NoError(t, err)

		require.Len(t, res.Warnings, 1)
		assert.Equal(t, StepPDF, res.Warnings[0].Step)
		assert.False(t, res.Invoice.PdfUrl.Valid)
		assert.Equal(t, 1, env.repo.invoiceCount())

		// The email still went out, without an attachment.
		require.Equal(t, 1, env.sender.count())
		assert.Empty(t, env.sender.sent[0].Attachments)
	})

	t.Run("mail outage", func(t *testing.T) {
		env := newTestEnv(t)
		env.enableAutoSend()
		env.sender.err = errors.New("smtp: 421 service not available")
		orderID := env.seedOrder("50000", "maria@example.ao", "50000")

		res, err := env.svc.CreateInvoice(context.Background(), domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
		require.NoError(t, err)

		require.Len(t, res.Warnings, 1)
		assert.Equal(t, StepEmail, res.Warnings[0].Step)
		assert.False(t, res.Invoice.EmailSent)
		assert.True(t, res.Invoice.PdfUrl.Valid)
	})

	t.Run("customer without email", func(t *testing.T) {
		env := newTestEnv(t)
		env.enableAutoSend()
		orderID := env.seedOrder("50000", "", "50000")

		res, err := env.svc.CreateInvoice(context.Background(), domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
		require.NoError(t, err)
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, StepEmail, res.Warnings[0].Step)
	})
}

func TestCreateInvoice_TailsSurviveCanceledRequest(t *testing.T) {
	env := newTestEnv(t)
	orderID := env.seedOrder("50000", "", "50000")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	res, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
	require.NoError(t, err)
	cancel()

	// Canceling afterwards must not matter; the tail already ran on its own context.
	assert.True(t, res.Invoice.PdfUrl.Valid)
}

func TestRecordPayment_ActivatesServicesIdempotently(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.enableAutoSend()
	orderID := env.seedOrder("50000", "maria@example.ao", "50000")
	hosting := env.seedService(orderID, "Alojamento")
	mailbox := env.seedService(orderID, "Email profissional")

	created, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
	require.NoError(t, err)
	id := domain.IDString(created.Invoice.ID)
	mailsAfterCreate := env.sender.count()

	details := json.RawMessage(`{"method":"multicaixa","reference":"987654321"}`)
	res, err := env.svc.RecordPayment(ctx, id, details)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "paid", res.Invoice.Status)
	assert.Equal(t, clock, res.Invoice.PaidAt.Time)
	assert.JSONEq(t, string(details), string(res.Invoice.PaymentDetails))

	for _, svcID := range []pgtype.UUID{hosting, mailbox} {
		s := env.repo.service(svcID)
		assert.Equal(t, "active", s.Status)
		assert.Equal(t, clock, s.ActivationDate.Time)
	}
	assert.Equal(t, mailsAfterCreate+1, env.sender.count(), "payment confirmation should be sent once")
	confirmation := env.sender.sent[env.sender.count()-1]
	assert.Contains(t, confirmation.Subject, "Pagamento confirmado")
	assert.Contains(t, confirmation.TextBody, "Alojamento")

	// A second recording later is a no-op for activation and notification.
	later := clock.Add(3 * time.Hour)
	env.svc.now = func() time.Time { return later }

	again, err := env.svc.RecordPayment(ctx, id, nil)
	require.NoError(t, err)
	assert.Empty(t, again.Warnings)
	assert.Equal(t, "paid", again.Invoice.Status)
	assert.Equal(t, clock, again.Invoice.PaidAt.Time)
	assert.JSONEq(t, string(details), string(again.Invoice.PaymentDetails))

	assert.Equal(t, clock, env.repo.service(hosting).ActivationDate.Time)
	assert.Equal(t, clock, env.repo.service(mailbox).ActivationDate.Time)
	assert.Equal(t, mailsAfterCreate+1, env.sender.count())

	assert.Equal(t, []string{domain.EventInvoiceCreated, domain.EventInvoicePaid}, env.publisher.types())
}

func TestRecordPayment_PartialActivationFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	orderID := env.seedOrder("50000", "", "50000")
	ok := env.seedService(orderID, "Alojamento")
	broken := env.seedService(orderID, "Domínio")
	env.repo.activateErr[broken.Bytes] = errors.New("deadlock detected")

	created, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
	require.NoError(t, err)

	res, err := env.svc.RecordPayment(ctx, domain.IDString(created.Invoice.ID), nil)
	require.NoError(t, err)
	assert.Equal(t, "paid", res.Invoice.Status)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, StepActivation, res.Warnings[0].Step)
	assert.Contains(t, res.Warnings[0].Message, domain.IDString(broken))

	assert.Equal(t, "active", env.repo.service(ok).Status)
	assert.Equal(t, "pending", env.repo.service(broken).Status)
}

func TestRecordPayment_ConcurrentCallsConfirmOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	orderID := env.seedOrder("50000", "maria@example.ao", "50000")
	created, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
	require.NoError(t, err)
	id := domain.IDString(created.Invoice.ID)
	env.enableAutoSend()

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.RecordPayment(ctx, id, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, env.sender.count(), "exactly one payment confirmation")

	var paidEvents int
	for _, typ := range env.publisher.types() {
		if typ == domain.EventInvoicePaid {
			paidEvents++
		}
	}
	assert.Equal(t, 1, paidEvents)
}

func TestRecordPayment_Rejections(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	orderID := env.seedOrder("50000", "", "50000")
	created, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
	require.NoError(t, err)
	id := domain.IDString(created.Invoice.ID)

	t.Run("invalid details", func(t *testing.T) {
		_, err := env.svc.RecordPayment(ctx, id, json.RawMessage(`{"broken"`))
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})

	t.Run("unknown invoice", func(t *testing.T) {
		_, err := env.svc.RecordPayment(ctx, domain.IDString(newID()), nil)
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	})

	t.Run("canceled invoice", func(t *testing.T) {
		_, err := env.svc.CancelInvoice(ctx, id)
		require.NoError(t, err)

		_, err = env.svc.RecordPayment(ctx, id, nil)
		require.Error(t, err)
		assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
		assert.ErrorIs(t, err, ErrInvoiceTerminal)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	orderID := env.seedOrder("50000", "", "50000")
	svcID := env.seedService(orderID, "Alojamento")
	created, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
	require.NoError(t, err)
	id := domain.IDString(created.Invoice.ID)

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := env.svc.UpdateStatus(ctx, id, "refunded")
		require.Error(t, err)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		assert.Contains(t, domain.GetValidationFields(err), "status")
	})

	t.Run("issued", func(t *testing.T) {
		res, err := env.svc.UpdateStatus(ctx, id, "issued")
		require.NoError(t, err)
		assert.Equal(t, "issued", res.Invoice.Status)
	})

	t.Run("paid runs the cascade", func(t *testing.T) {
		res, err := env.svc.UpdateStatus(ctx, id, "paid")
		require.NoError(t, err)
		assert.Equal(t, "paid", res.Invoice.Status)
		assert.True(t, res.Invoice.PaidAt.Valid)
		assert.Equal(t, "active", env.repo.service(svcID).Status)
	})

	t.Run("paid again is a no-op", func(t *testing.T) {
		res, err := env.svc.UpdateStatus(ctx, id, "paid")
		require.NoError(t, err)
		assert.Empty(t, res.Warnings)
		assert.Equal(t, clock, env.repo.service(svcID).ActivationDate.Time)
	})

	t.Run("force-correct out of paid", func(t *testing.T) {
		res, err := env.svc.UpdateStatus(ctx, id, "pending")
		require.NoError(t, err)
		assert.Equal(t, "pending", res.Invoice.Status)
	})
}

func TestCancelInvoice(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	orderID := env.seedOrder("50000", "", "50000")
	created, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
	require.NoError(t, err)
	id := domain.IDString(created.Invoice.ID)

	res, err := env.svc.CancelInvoice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "canceled", res.Invoice.Status)

	_, err = env.svc.CancelInvoice(ctx, id)
	assert.ErrorIs(t, err, ErrInvoiceTerminal)

	paidOrder := env.seedOrder("1000", "", "1000")
	paid, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(paidOrder)})
	require.NoError(t, err)
	_, err = env.svc.RecordPayment(ctx, domain.IDString(paid.Invoice.ID), nil)
	require.NoError(t, err)

	_, err = env.svc.CancelInvoice(ctx, domain.IDString(paid.Invoice.ID))
	require.Error(t, err)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
}

func TestDeleteInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("removes documents and row", func(t *testing.T) {
		env := newTestEnv(t)
		orderID := env.seedOrder("50000", "", "50000")
		created, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
		require.NoError(t, err)
		id := domain.IDString(created.Invoice.ID)

		res, err := env.svc.DeleteInvoice(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, res.Warnings)

		objects, err := env.store.List(ctx, reference.PDFPrefix(id))
		require.NoError(t, err)
		assert.Empty(t, objects)
		assert.Equal(t, 0, env.repo.invoiceCount())

		_, err = env.svc.GetInvoice(ctx, id)
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	})

	t.Run("non-canonical id still removes documents", func(t *testing.T) {
		env := newTestEnv(t)
		orderID := env.seedOrder("50000", "", "50000")
		created, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
		require.NoError(t, err)
		id := domain.IDString(created.Invoice.ID)

		objects, err := env.store.List(ctx, reference.PDFPrefix(id))
		require.NoError(t, err)
		require.Len(t, objects, 1)

		res, err := env.svc.DeleteInvoice(ctx, strings.ToUpper(id))
		require.NoError(t, err)
		assert.Empty(t, res.Warnings)

		objects, err = env.store.List(ctx, reference.PDFPrefix(id))
		require.NoError(t, err)
		assert.Empty(t, objects)
		assert.Equal(t, 0, env.repo.invoiceCount())
	})

	t.Run("storage outage still deletes the row", func(t *testing.T) {
		env := newTestEnv(t, withStorage(brokenStorage{}))
		orderID := env.seedOrder("50000", "", "50000")
		created, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
		require.NoError(t, err)

		res, err := env.svc.DeleteInvoice(ctx, domain.IDString(created.Invoice.ID))
		require.NoError(t, err)
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, StepStorage, res.Warnings[0].Step)
		assert.Equal(t, 0, env.repo.invoiceCount())
		assert.Contains(t, env.publisher.types(), domain.EventInvoiceDeleted)
	})

	t.Run("unknown invoice", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.DeleteInvoice(ctx, domain.IDString(newID()))
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	})
}

func TestRegeneratePDF_UpsertsSamePath(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	orderID := env.seedOrder("50000", "", "50000")
	created, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
	require.NoError(t, err)
	id := domain.IDString(created.Invoice.ID)

	first, err := env.svc.RegeneratePDF(ctx, id)
	require.NoError(t, err)
	second, err := env.svc.RegeneratePDF(ctx, id)
	require.NoError(t, err)

	u, err := url.Parse(second)
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, first, second)

	objects, err := env.store.List(ctx, reference.PDFPrefix(id))
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, reference.PDFPath(id, created.Invoice.InvoiceNumber), objects[0].Key)

	inv, err := env.svc.GetInvoice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, second, inv.PdfUrl.String)
}

func TestRegeneratePDF_Errors(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv(t)
	_, err := env.svc.RegeneratePDF(ctx, domain.IDString(newID()))
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	_, err = env.svc.RegeneratePDF(ctx, "nope")
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	broken := newTestEnv(t, withStorage(brokenStorage{}))
	orderID := broken.seedOrder("50000", "", "50000")
	created, err := broken.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
	require.NoError(t, err)
	_, err = broken.svc.RegeneratePDF(ctx, domain.IDString(created.Invoice.ID))
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
}

func TestSendInvoiceEmail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	orderID := env.seedOrder("50000", "maria@example.ao", "50000")
	created, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
	require.NoError(t, err)
	id := domain.IDString(created.Invoice.ID)
	require.Equal(t, 0, env.sender.count(), "auto-send is disabled")

	t.Run("manual send ignores the auto-send setting", func(t *testing.T) {
		res, err := env.svc.SendInvoiceEmail(ctx, id, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"maria@example.ao"}, res.Recipients)
		assert.NotEmpty(t, res.MessageID)

		inv, err := env.svc.GetInvoice(ctx, id)
		require.NoError(t, err)
		assert.True(t, inv.EmailSent)
		assert.Equal(t, "pending", inv.Status)
	})

	t.Run("override address", func(t *testing.T) {
		res, err := env.svc.SendInvoiceEmail(ctx, id, "contabilidade@example.ao")
		require.NoError(t, err)
		assert.Equal(t, []string{"contabilidade@example.ao"}, res.Recipients)
	})

	t.Run("delivery failure", func(t *testing.T) {
		env.sender.err = errors.New("postmark: 500")
		defer func() { env.sender.err = nil }()

		_, err := env.svc.SendInvoiceEmail(ctx, id, "")
		require.Error(t, err)
		assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))
		assert.ErrorIs(t, err, ErrEmailDelivery)
	})
}

func TestSendInvoiceEmail_MissingCustomerEmail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	orderID := env.seedOrder("50000", "", "50000")
	created, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
	require.NoError(t, err)

	_, err = env.svc.SendInvoiceEmail(ctx, domain.IDString(created.Invoice.ID), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCustomerEmail)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestPublicAccess(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	orderID := env.seedOrder("50000", "", "50000")
	created, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
	require.NoError(t, err)
	token := created.Invoice.PublicToken

	_, err = env.svc.GetPublicInvoice(ctx, token)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err), "private invoices are hidden")

	updated, err := env.svc.SetPublic(ctx, domain.IDString(created.Invoice.ID), true)
	require.NoError(t, err)
	assert.True(t, updated.IsPublic)

	inv, err := env.svc.GetPublicInvoice(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, created.Invoice.InvoiceNumber, inv.InvoiceNumber)

	_, err = env.svc.GetPublicInvoice(ctx, "unknown-token")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestListInvoices(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	empty, err := env.svc.ListInvoices(ctx, 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for i := 0; i < 3; i++ {
		orderID := env.seedOrder("1000", "", "1000")
		_, err := env.svc.CreateInvoice(ctx, domain.CreateInvoiceParams{OrderID: domain.IDString(orderID)})
		require.NoError(t, err)
	}

	all, err := env.svc.ListInvoices(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := env.svc.ListInvoices(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestSendOrderConfirmation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	orderID := env.seedOrder("50000", "maria@example.ao", "50000")

	res, err := env.svc.SendOrderConfirmation(ctx, domain.IDString(orderID))
	require.NoError(t, err)
	assert.Equal(t, domain.DispatchSkipped, res.Status)
	assert.Equal(t, 0, env.sender.count())

	env.enableAutoSend()
	res, err = env.svc.SendOrderConfirmation(ctx, domain.IDString(orderID))
	require.NoError(t, err)
	assert.Equal(t, domain.DispatchSent, res.Status)
	require.Equal(t, 1, env.sender.count())
	assert.Contains(t, env.sender.sent[0].Subject, "Encomenda recebida")
	assert.Contains(t, env.sender.sent[0].TextBody, "KZ 50.000,00")

	_, err = env.svc.SendOrderConfirmation(ctx, domain.IDString(newID()))
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}
