package document

import (
	"encoding/json"
	"time"

	"github.com/dukerupert/fatura/internal/domain"
	"github.com/dukerupert/fatura/internal/money"
	"github.com/dukerupert/fatura/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

var issuedAt = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func testID(s string) pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.MustParse(s), Valid: true}
}

func numeric(s string) pgtype.Numeric {
	return money.ToNumeric(decimal.RequireFromString(s))
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: true}
}

var (
	invoiceID = testID("7d7a2c6e-3b1f-4c55-9a0e-1f2d3c4b5a69")
	orderID   = testID("0b8f6f0c-2a7e-4d1b-8c3a-5e9d7f1a2b3c")
	userID    = testID("c3d4e5f6-a7b8-4c9d-8e0f-112233445566")
)

func testCompany() domain.CompanyDetails {
	return domain.CompanyDetails{
		Name:    "Acme Serviços Lda",
		NIF:     "5417000000",
		Address: "Rua Amílcar Cabral 10, Luanda",
		Email:   "faturacao@acme.ao",
		IBAN:    "AO06 0040 0000 1234 5678 1019 2",
	}
}

func testInvoice() repository.Invoice {
	company, _ := json.Marshal(testCompany())
	return repository.Invoice{
		ID:             invoiceID,
		InvoiceNumber:  "INV-M88KQ79K-AB12CD34",
		OrderID:        orderID,
		Status:         string(domain.InvoiceStatusPending),
		DueDate:        pgtype.Date{Time: issuedAt.AddDate(0, 0, 7), Valid: true},
		TotalAmount:    numeric("50000"),
		CompanyDetails: company,
		PublicToken:    "9f0c3b1e-6a55-4c1b-b2c8-0e6f2f7d9a10",
		CreatedAt:      timestamptz(issuedAt),
		UpdatedAt:      timestamptz(issuedAt),
	}
}

func testDocument() *domain.InvoiceDocument {
	return &domain.InvoiceDocument{
		Invoice: testInvoice(),
		Order: &repository.Order{
			ID:          orderID,
			UserID:      userID,
			OrderNumber: text("ORD-2025-0042"),
			Status:      "pending",
			TotalAmount: numeric("50000"),
			CreatedAt:   timestamptz(issuedAt.Add(-time.Hour)),
		},
		Items: []repository.OrderItem{
			{
				OrderID:      orderID,
				Name:         "Alojamento Web Profissional",
				Quantity:     1,
				UnitPrice:    numeric("30000"),
				Duration:     pgtype.Int4{Int32: 12, Valid: true},
				DurationUnit: text("meses"),
			},
			{
				OrderID:   orderID,
				Name:      "Domínio .ao",
				Quantity:  2,
				UnitPrice: numeric("10000"),
			},
		},
		Customer: &repository.Profile{
			ID:       userID,
			FullName: text("Maria João"),
			Email:    text("maria@example.ao"),
			Nif:      text("004512345LA041"),
		},
		PaymentReference: &repository.PaymentReference{
			OrderID:   orderID,
			Entity:    "11223",
			Reference: "987 654 321",
			Amount:    numeric("50000"),
			CreatedAt: timestamptz(issuedAt),
		},
		Company: testCompany(),
	}
}
