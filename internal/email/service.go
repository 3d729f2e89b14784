package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/dukerupert/fatura/internal/money"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

const placeholder = "---"

// Service composes transactional emails from the embedded templates and
// hands them to a Sender.
type Service struct {
	sender      Sender
	fromAddress string
	fromName    string
	templates   *template.Template
}

// NewService parses the embedded templates. currency prefixes every amount.
func NewService(sender Sender, fromAddress, fromName, currency string) (*Service, error) {
	tmpl, err := template.New("email").Funcs(templateFuncs(currency)).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &Service{
		sender:      sender,
		fromAddress: fromAddress,
		fromName:    fromName,
		templates:   tmpl,
	}, nil
}

// SendInvoiceIssued sends the invoice email with the rendered document attached.
func (s *Service) SendInvoiceIssued(ctx context.Context, to []string, data InvoiceIssuedEmail, attachments ...Attachment) (string, error) {
	return s.send(ctx, to, data, attachments)
}

// SendPaymentReceived sends the payment confirmation.
func (s *Service) SendPaymentReceived(ctx context.Context, to []string, data PaymentReceivedEmail) (string, error) {
	return s.send(ctx, to, data, nil)
}

// SendOrderConfirmed sends the order acknowledgement.
func (s *Service) SendOrderConfirmed(ctx context.Context, to []string, data OrderConfirmedEmail) (string, error) {
	return s.send(ctx, to, data, nil)
}

func (s *Service) send(ctx context.Context, to []string, data EmailTemplate, attachments []Attachment) (string, error) {
	htmlBody, textBody, err := s.renderTemplate(data)
	if err != nil {
		return "", err
	}

	from := s.fromAddress
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}

	return s.sender.Send(ctx, &Email{
		To:          to,
		From:        from,
		Subject:     data.Subject(),
		HTMLBody:    htmlBody,
		TextBody:    textBody,
		Attachments: attachments,
	})
}

func (s *Service) renderTemplate(data EmailTemplate) (string, string, error) {
	name := data.TemplateName()
	if s.templates.Lookup(name) == nil {
		return "", "", ErrTemplateNotFound(name)
	}

	var htmlBuf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&htmlBuf, name, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	htmlBody := htmlBuf.String()
	return htmlBody, generatePlainText(htmlBody), nil
}

func templateFuncs(currency string) template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return money.FormatCurrency(currency, d)
		},
		"optMoney": func(d *decimal.Decimal) string {
			if d == nil {
				return placeholder
			}
			return money.FormatCurrency(currency, *d)
		},
		"date": formatDate,
		"optDate": func(t *time.Time) string {
			if t == nil {
				return placeholder
			}
			return formatDate(*t)
		},
		"orDash": func(s string) string {
			if strings.TrimSpace(s) == "" {
				return placeholder
			}
			return s
		},
		"pair": func(a, b string) []string {
			return []string{a, b}
		},
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return placeholder
	}
	return t.Format("02/01/2006")
}

// generatePlainText creates a simple plain text version from HTML
func generatePlainText(html string) string {
	text := html

	text = strings.ReplaceAll(text, "<br>", "\n")
	text = strings.ReplaceAll(text, "<br/>", "\n")
	text = strings.ReplaceAll(text, "<br />", "\n")
	text = strings.ReplaceAll(text, "</p>", "\n\n")
	text = strings.ReplaceAll(text, "</div>", "\n")
	text = strings.ReplaceAll(text, "</tr>", "\n")
	text = strings.ReplaceAll(text, "</li>", "\n")
	text = strings.ReplaceAll(text, "</h1>", "\n\n")
	text = strings.ReplaceAll(text, "</h2>", "\n\n")
	text = strings.ReplaceAll(text, "</h3>", "\n\n")

	for strings.Contains(text, "<") && strings.Contains(text, ">") {
		start := strings.Index(text, "<")
		end := strings.Index(text, ">")
		if start >= 0 && end > start {
			text = text[:start] + " " + text[end+1:]
		} else {
			break
		}
	}

	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&times;", "x")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	text = strings.ReplaceAll(text, "&#34;", "\"")
	text = strings.ReplaceAll(text, "&#39;", "'")

	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
