package domain

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ParseID converts a textual UUID into the database representation.
// Malformed ids are reported as invalid input for op.
func ParseID(op, field, raw string) (pgtype.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return pgtype.UUID{}, NewValidationError(op, field, "must be a valid UUID")
	}
	return pgtype.UUID{Bytes: id, Valid: true}, nil
}

// IDString formats a database UUID, returning "" when it is NULL.
func IDString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}
