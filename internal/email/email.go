package email

import "context"

// Email represents an email message to be sent.
type Email struct {
	To          []string          // Recipient email addresses
	From        string            // Sender, "Name <address>" or bare address
	Subject     string            // Email subject
	TextBody    string            // Plain text body
	HTMLBody    string            // HTML body (optional)
	Attachments []Attachment      // File attachments (optional)
	Headers     map[string]string // Custom headers (optional)
}

// Attachment represents a file attachment for an email.
type Attachment struct {
	Filename    string // Name of the file
	ContentType string // MIME type
	Content     []byte // File content
}

// Sender is the mail transport. Implementations exist for SMTP and Postmark.
//
//go:generate mockgen -source=email.go -destination=mock_sender.go -package=email
type Sender interface {
	// Send delivers the message and returns the transport's message ID.
	// Delivery failures are returned as *DeliveryError.
	Send(ctx context.Context, email *Email) (string, error)
}
