package email

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmailTemplate is implemented by every message kind.
type EmailTemplate interface {
	Subject() string
	TemplateName() string
}

// PaymentDetails is the bank reference block shown in invoice and order
// emails. Empty fields render as "---".
type PaymentDetails struct {
	Entity     string
	Reference  string
	Amount     *decimal.Decimal
	ValidUntil *time.Time
}

// LineItem is one row of an order summary.
type LineItem struct {
	Description string
	Quantity    int32
	Total       decimal.Decimal
}

// InvoiceIssuedEmail announces a new invoice. The PDF travels as an attachment.
type InvoiceIssuedEmail struct {
	CustomerName  string
	CompanyName   string
	InvoiceNumber string
	IssueDate     time.Time
	DueDate       time.Time
	Total         decimal.Decimal
	Payment       PaymentDetails
	ViewURL       string
}

func (e InvoiceIssuedEmail) Subject() string {
	return "Fatura " + e.InvoiceNumber
}

func (e InvoiceIssuedEmail) TemplateName() string {
	return "invoice_issued.html"
}

// PaymentReceivedEmail confirms a recorded payment.
type PaymentReceivedEmail struct {
	CustomerName      string
	CompanyName       string
	InvoiceNumber     string
	PaidAt            time.Time
	Amount            decimal.Decimal
	ActivatedServices []string
	ViewURL           string
}

func (e PaymentReceivedEmail) Subject() string {
	return "Pagamento confirmado - " + e.InvoiceNumber
}

func (e PaymentReceivedEmail) TemplateName() string {
	return "payment_received.html"
}

// OrderConfirmedEmail acknowledges a placed order.
type OrderConfirmedEmail struct {
	CustomerName string
	CompanyName  string
	OrderNumber  string
	OrderDate    time.Time
	Items        []LineItem
	Total        decimal.Decimal
	Payment      PaymentDetails
	ViewURL      string
}

func (e OrderConfirmedEmail) Subject() string {
	return "Encomenda recebida - " + e.OrderNumber
}

func (e OrderConfirmedEmail) TemplateName() string {
	return "order_confirmed.html"
}
