package service

import (
	"errors"

	"github.com/dukerupert/fatura/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

// Invoice lifecycle errors
var (
	ErrDuplicateInvoice = domain.Errorf(domain.ECONFLICT, "", "An invoice already exists for this order")
	ErrInvoiceTerminal  = domain.Errorf(domain.ECONFLICT, "", "Invoice is paid or canceled and can no longer change")
	ErrInvalidStatus    = domain.Errorf(domain.EINVALID, "", "Status must be one of pending, issued, paid, canceled")
	ErrInvalidDetails   = domain.Errorf(domain.EINVALID, "", "Payment details must be valid JSON")
)

// Notification errors
var (
	ErrMissingCustomerEmail = domain.Errorf(domain.EINVALID, "", "Customer has no email address")
	ErrEmailNotConfigured   = domain.Errorf(domain.EUNAVAILABLE, "", "Email delivery is not configured")
	ErrEmailDelivery        = domain.Errorf(domain.EUNAVAILABLE, "", "Email delivery failed")
)

const (
	// uniqueViolation is the Postgres SQLSTATE for a unique constraint breach.
	uniqueViolation = "23505"

	orderInvoiceConstraint = "invoices_order_id_key"
)

// isDuplicateOrderInvoice reports whether err is a breach of the
// one-invoice-per-order index. Collisions on other unique columns are not.
func isDuplicateOrderInvoice(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == uniqueViolation &&
		pgErr.ConstraintName == orderInvoiceConstraint
}
