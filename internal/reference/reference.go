// Package reference generates invoice numbers, public sharing tokens and the
// storage keys derived from them.
package reference

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	numberPrefix   = "INV-"
	randomSegment  = 8
	segmentCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// InvoiceNumber returns INV-<base36 millis>-<8 random chars>, upper-cased.
// The time segment keeps numbers roughly sortable; the random segment keeps
// numbers issued in the same millisecond apart.
func InvoiceNumber(now time.Time) (string, error) {
	suffix, err := randomString(randomSegment)
	if err != nil {
		return "", fmt.Errorf("failed to generate invoice number: %w", err)
	}
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return numberPrefix + stamp + "-" + suffix, nil
}

// PublicToken returns an unguessable token for unauthenticated read access.
func PublicToken() string {
	return uuid.NewString()
}

// SanitizeFilename replaces every character outside [A-Za-z0-9] with '_'.
func SanitizeFilename(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// PDFPrefix is the storage prefix holding every document of an invoice.
func PDFPrefix(invoiceID string) string {
	return "pdfs/" + invoiceID + "/"
}

// PDFPath is the storage key of the rendered invoice document.
func PDFPath(invoiceID, invoiceNumber string) string {
	return PDFPrefix(invoiceID) + "fatura-" + SanitizeFilename(invoiceNumber) + ".pdf"
}

func randomString(n int) (string, error) {
	max := big.NewInt(int64(len(segmentCharset)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = segmentCharset[idx.Int64()]
	}
	return string(b), nil
}
