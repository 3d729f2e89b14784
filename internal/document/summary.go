package document

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dukerupert/fatura/internal/domain"
	"github.com/dukerupert/fatura/internal/money"
	"github.com/dukerupert/fatura/internal/repository"
	"github.com/shopspring/decimal"
)

const (
	// Placeholder replaces missing payment reference fields.
	Placeholder = "---"

	// NotAvailable replaces missing customer and order fields.
	NotAvailable = "N/A"

	maxDescription = 70

	// paymentValidity is how long a payment reference is honoured after it
	// was generated.
	paymentValidity = 48 * time.Hour
)

// Line is one rendered row of the item table.
type Line struct {
	Description string
	Quantity    int32
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// Payment is the authoritative payment reference as displayed.
type Payment struct {
	Entity     string
	Reference  string
	Amount     decimal.Decimal
	ValidUntil *time.Time
}

// Summary is the computed content shared by the PDF and the emails, so both
// always show the same figures.
type Summary struct {
	Lines   []Line
	Total   decimal.Decimal
	Payment *Payment
}

// Summarize derives lines, the single authoritative total and the payment
// block from an assembled document.
func Summarize(doc *domain.InvoiceDocument) Summary {
	s := Summary{Lines: make([]Line, 0, len(doc.Items))}

	sum := decimal.Zero
	for _, item := range doc.Items {
		unit := money.FromNumeric(item.UnitPrice)
		total := unit.Mul(decimal.NewFromInt32(item.Quantity))
		sum = sum.Add(total)
		s.Lines = append(s.Lines, Line{
			Description: Describe(item),
			Quantity:    item.Quantity,
			UnitPrice:   unit,
			Total:       total,
		})
	}

	switch {
	case doc.Invoice.TotalAmount.Valid:
		s.Total = money.FromNumeric(doc.Invoice.TotalAmount)
	case doc.Order != nil && doc.Order.TotalAmount.Valid:
		s.Total = money.FromNumeric(doc.Order.TotalAmount)
	default:
		s.Total = sum
	}

	if ref := doc.PaymentReference; ref != nil {
		s.Payment = &Payment{
			Entity:     ref.Entity,
			Reference:  ref.Reference,
			Amount:     money.FromNumeric(ref.Amount),
			ValidUntil: ValidUntil(*ref),
		}
	}

	return s
}

// Describe is the item name with its billing period, truncated for the table.
func Describe(item repository.OrderItem) string {
	desc := item.Name
	if item.Duration.Valid && item.Duration.Int32 > 0 {
		unit := item.DurationUnit.String
		if unit == "" {
			unit = "meses"
		}
		desc = fmt.Sprintf("%s (%d %s)", desc, item.Duration.Int32, unit)
	}
	return Truncate(desc, maxDescription)
}

// Truncate shortens s to max runes, ending with "..." when cut.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}

// ValidUntil is the reference creation date plus two days, falling back to
// the stored validity date for references without a creation time.
func ValidUntil(ref repository.PaymentReference) *time.Time {
	if ref.CreatedAt.Valid {
		t := ref.CreatedAt.Time.Add(paymentValidity)
		return &t
	}
	if ref.ValidityDate.Valid {
		t := ref.ValidityDate.Time
		return &t
	}
	return nil
}

// LatestPaymentReference returns the reference with the greatest created_at.
// On equal timestamps the first one wins.
func LatestPaymentReference(refs []repository.PaymentReference) *repository.PaymentReference {
	var latest *repository.PaymentReference
	for i := range refs {
		if latest == nil || refs[i].CreatedAt.Time.After(latest.CreatedAt.Time) {
			latest = &refs[i]
		}
	}
	if latest == nil {
		return nil
	}
	ref := *latest
	return &ref
}
