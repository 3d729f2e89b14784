package storage

import "fmt"

// These codes mirror the domain error codes without importing domain.
const (
	codeConflict = "conflict"
	codeInvalid  = "invalid"
)

// StorageError represents a storage-specific error with a code and message.
type StorageError struct {
	Code    string
	Message string
}

func (e *StorageError) Error() string {
	return e.Message
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *StorageError) ErrorCode() string {
	return e.Code
}

func newStorageError(code, message string) *StorageError {
	return &StorageError{Code: code, Message: message}
}

var (
	// ErrObjectExists is returned by a non-upsert Upload over an existing key.
	ErrObjectExists = newStorageError(codeConflict, "object already exists")

	ErrR2AccountIDRequired   = newStorageError(codeInvalid, "R2 account ID is required")
	ErrR2CredentialsRequired = newStorageError(codeInvalid, "R2 credentials are required")
	ErrR2BucketRequired      = newStorageError(codeInvalid, "R2 bucket name is required")
	ErrR2PublicURLRequired   = newStorageError(codeInvalid, "R2 public URL is required")
)

// ErrUnknownProvider creates an error for unknown storage providers.
func ErrUnknownProvider(provider string) error {
	return &StorageError{
		Code:    codeInvalid,
		Message: fmt.Sprintf("unknown storage provider: %s", provider),
	}
}
