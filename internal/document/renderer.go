package document

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/fatura/internal/domain"
	"github.com/dukerupert/fatura/internal/money"
	"github.com/go-pdf/fpdf"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	pageWidth    = 210.0
	marginX      = 15.0
	contentWidth = pageWidth - 2*marginX

	footerText = "Este documento é válido sem assinatura."
)

// Item table column widths; they add up to contentWidth.
var columns = [4]float64{100, 20, 32.5, 32.5}

var statusLabels = map[string]string{
	string(domain.InvoiceStatusPending):  "Pendente",
	string(domain.InvoiceStatusIssued):   "Emitida",
	string(domain.InvoiceStatusPaid):     "Paga",
	string(domain.InvoiceStatusCanceled): "Anulada",
}

// RendererOptions configure the document appearance.
type RendererOptions struct {
	// Currency prefixes every amount, e.g. "KZ".
	Currency string

	// Logo is an optional PNG or JPEG drawn in the identity block.
	Logo     []byte
	LogoType string
}

// Renderer turns an assembled document into PDF bytes. Equal documents give
// equal bytes: document dates are pinned to the invoice creation time and
// nothing depends on the clock.
type Renderer struct {
	opts RendererOptions
}

func NewRenderer(opts RendererOptions) *Renderer {
	if opts.Currency == "" {
		opts.Currency = money.DefaultCurrency
	}
	if opts.LogoType == "" {
		opts.LogoType = "PNG"
	}
	return &Renderer{opts: opts}
}

// Render lays out the fixed regions in order: identity, metadata, customer,
// items, totals, payment, stamp and footer. Missing optional data renders as
// placeholders.
func (r *Renderer) Render(doc *domain.InvoiceDocument) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("render: nil document")
	}

	issued := doc.Invoice.CreatedAt.Time.UTC()
	summary := Summarize(doc)

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetCreationDate(issued)
	pdf.SetModificationDate(issued)
	pdf.SetCatalogSort(true)
	pdf.SetTitle("Fatura "+doc.Invoice.InvoiceNumber, true)
	pdf.SetAuthor(doc.Company.Name, true)
	pdf.SetCreator("fatura", false)
	pdf.SetMargins(marginX, 15, marginX)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AliasNbPages("{nb}")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-18)
		pdf.SetDrawColor(200, 200, 200)
		pdf.Line(marginX, pdf.GetY(), pageWidth-marginX, pdf.GetY())
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(contentWidth, 5, tr(footerText), "", 1, "C", false, 0, "")
		pdf.CellFormat(contentWidth, 4, fmt.Sprintf("%s  |  %d/{nb}", tr(doc.Invoice.InvoiceNumber), pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	r.identity(pdf, tr, doc)
	r.metadata(pdf, tr, doc, issued)
	r.customer(pdf, tr, doc)
	r.items(pdf, tr, summary)
	r.totals(pdf, tr, summary)
	r.payment(pdf, tr, doc, summary)
	r.stamp(pdf, tr, doc, issued)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", doc.Invoice.InvoiceNumber, err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", doc.Invoice.InvoiceNumber, err)
	}
	return buf.Bytes(), nil
}

type translator func(string) string

func (r *Renderer) identity(pdf *fpdf.Fpdf, tr translator, doc *domain.InvoiceDocument) {
	c := doc.Company
	top := pdf.GetY()

	x := marginX
	if len(r.opts.Logo) > 0 {
		opts := fpdf.ImageOptions{ImageType: r.opts.LogoType, ReadDpi: false}
		pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(r.opts.Logo))
		if pdf.Ok() {
			pdf.ImageOptions("logo", marginX, top, 0, 18, false, opts, 0, "")
			x += 32
		} else {
			// An unreadable logo must not prevent the document.
			pdf.ClearError()
		}
	}

	pdf.SetXY(x, top)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(30, 58, 138)
	pdf.CellFormat(110, 7, tr(orNA(c.Name)), "", 2, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8.5)
	pdf.SetTextColor(70, 70, 70)
	for _, line := range []string{
		labelled("NIF", c.NIF),
		c.Address,
		joinNonEmpty(" | ", c.Phone, c.Email),
		c.Website,
	} {
		if line == "" {
			continue
		}
		pdf.CellFormat(110, 4.2, tr(line), "", 2, "L", false, 0, "")
	}
	bottom := pdf.GetY()

	pdf.SetXY(pageWidth-marginX-60, top)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(30, 58, 138)
	pdf.CellFormat(60, 10, "FATURA", "", 2, "R", false, 0, "")

	pdf.SetY(max(bottom, top+20) + 6)
}

func (r *Renderer) metadata(pdf *fpdf.Fpdf, tr translator, doc *domain.InvoiceDocument, issued time.Time) {
	inv := doc.Invoice
	status, ok := statusLabels[inv.Status]
	if !ok {
		status = orNA(inv.Status)
	}

	labels := []string{"Número", "Data de emissão", "Data de vencimento", "Estado"}
	values := []string{orNA(inv.InvoiceNumber), formatDate(issued), formatPgDate(inv.DueDate), status}
	w := contentWidth / float64(len(labels))

	pdf.SetFillColor(243, 244, 246)
	pdf.SetDrawColor(229, 231, 235)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(107, 114, 128)
	for _, l := range labels {
		pdf.CellFormat(w, 6, tr(l), "LTR", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(17, 24, 39)
	for _, v := range values {
		pdf.CellFormat(w, 7, tr(v), "LBR", 0, "L", true, 0, "")
	}
	pdf.Ln(12)
}

func (r *Renderer) customer(pdf *fpdf.Fpdf, tr translator, doc *domain.InvoiceDocument) {
	sectionTitle(pdf, tr, "Cliente")

	var name, nif, email, phone, address string
	if p := doc.Customer; p != nil {
		name, nif, email, phone, address = p.FullName.String, p.Nif.String, p.Email.String, p.Phone.String, p.Address.String
	}
	orderNumber := ""
	if doc.Order != nil {
		orderNumber = doc.Order.OrderNumber.String
	}

	rows := [][2]string{
		{"Nome", name},
		{"NIF", nif},
		{"Email", email},
		{"Telefone", phone},
		{"Morada", address},
		{"Encomenda", orderNumber},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(107, 114, 128)
		pdf.CellFormat(28, 5, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.SetTextColor(17, 24, 39)
		pdf.CellFormat(contentWidth-28, 5, tr(orNA(row[1])), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

func (r *Renderer) items(pdf *fpdf.Fpdf, tr translator, s Summary) {
	headers := [4]string{"Descrição", "Qtd.", "Preço unit.", "Total"}
	aligns := [4]string{"L", "C", "R", "R"}

	pdf.SetFillColor(30, 58, 138)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(columns[i], 7, tr(h), "", 0, aligns[i], true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(17, 24, 39)
	pdf.SetDrawColor(229, 231, 235)

	if len(s.Lines) == 0 {
		pdf.CellFormat(contentWidth, 7, tr("Sem itens"), "B", 1, "L", false, 0, "")
		return
	}

	for i, l := range s.Lines {
		fill := i%2 == 1
		pdf.SetFillColor(249, 250, 251)
		cells := [4]string{
			l.Description,
			fmt.Sprintf("%d", l.Quantity),
			money.FormatCurrency(r.opts.Currency, l.UnitPrice),
			money.FormatCurrency(r.opts.Currency, l.Total),
		}
		for j, c := range cells {
			pdf.CellFormat(columns[j], 7, tr(c), "B", 0, aligns[j], fill, 0, "")
		}
		pdf.Ln(-1)
	}
}

func (r *Renderer) totals(pdf *fpdf.Fpdf, tr translator, s Summary) {
	pdf.Ln(4)
	labelW := columns[2]
	valueW := columns[3] + 10

	pdf.SetX(pageWidth - marginX - labelW - valueW)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(243, 244, 246)
	pdf.SetTextColor(17, 24, 39)
	pdf.CellFormat(labelW, 9, "Total", "", 0, "L", true, 0, "")
	pdf.CellFormat(valueW, 9, tr(money.FormatCurrency(r.opts.Currency, s.Total)), "", 1, "R", true, 0, "")
	pdf.Ln(8)
}

func (r *Renderer) payment(pdf *fpdf.Fpdf, tr translator, doc *domain.InvoiceDocument, s Summary) {
	sectionTitle(pdf, tr, "Pagamento por referência")

	entity, reference, amount, valid := Placeholder, Placeholder, Placeholder, Placeholder
	if p := s.Payment; p != nil {
		entity = orDash(p.Entity)
		reference = orDash(p.Reference)
		amount = money.FormatCurrency(r.opts.Currency, p.Amount)
		if p.ValidUntil != nil {
			valid = formatDate(*p.ValidUntil)
		}
	}

	top := pdf.GetY()
	pdf.SetDrawColor(253, 230, 138)
	pdf.SetFillColor(255, 251, 235)
	pdf.Rect(marginX, top, 110, 26, "FD")
	pdf.SetXY(marginX+3, top+2)
	for _, row := range [][2]string{
		{"Entidade", entity},
		{"Referência", reference},
		{"Montante", amount},
		{"Válido até", valid},
	} {
		pdf.SetX(marginX + 3)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(146, 64, 14)
		pdf.CellFormat(30, 5.5, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(17, 24, 39)
		pdf.CellFormat(74, 5.5, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.SetY(top + 30)

	instructions := strings.TrimSpace(doc.Invoice.PaymentInstructions.String)
	if instructions == "" {
		instructions = strings.TrimSpace(doc.Company.PaymentInstructions)
	}
	bank := joinNonEmpty("  |  ", labelled("Banco", doc.Company.BankName), labelled("IBAN", doc.Company.IBAN))

	pdf.SetFont("Helvetica", "", 8.5)
	pdf.SetTextColor(70, 70, 70)
	if bank != "" {
		pdf.CellFormat(contentWidth, 5, tr(bank), "", 1, "L", false, 0, "")
	}
	if instructions != "" {
		pdf.MultiCell(125, 4.5, tr(instructions), "", "L", false)
	}
}

// stamp draws the authenticity seal next to the payment block.
func (r *Renderer) stamp(pdf *fpdf.Fpdf, tr translator, doc *domain.InvoiceDocument, issued time.Time) {
	const radius = 17.0
	cx := pageWidth - marginX - radius - 4
	cy := pdf.GetY() - 18
	if cy < 60 {
		cy = 60
	}

	pdf.SetDrawColor(30, 58, 138)
	pdf.SetTextColor(30, 58, 138)
	pdf.SetLineWidth(0.8)
	pdf.Circle(cx, cy, radius, "D")
	pdf.SetLineWidth(0.3)
	pdf.Circle(cx, cy, radius-2.5, "D")

	pdf.TransformBegin()
	pdf.TransformRotate(12, cx, cy)
	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetXY(cx-radius, cy-8)
	pdf.CellFormat(2*radius, 4, tr("DOCUMENTO"), "", 2, "C", false, 0, "")
	pdf.CellFormat(2*radius, 4, tr("AUTÊNTICO"), "", 2, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 6)
	pdf.CellFormat(2*radius, 4, tr(Truncate(orNA(doc.Company.Name), 22)), "", 2, "C", false, 0, "")
	pdf.CellFormat(2*radius, 4, formatDate(issued), "", 2, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetLineWidth(0.2)
}

func sectionTitle(pdf *fpdf.Fpdf, tr translator, title string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(30, 58, 138)
	pdf.CellFormat(contentWidth, 7, tr(title), "", 1, "L", false, 0, "")
	pdf.SetDrawColor(30, 58, 138)
	pdf.Line(marginX, pdf.GetY(), marginX+40, pdf.GetY())
	pdf.Ln(2)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.Format("02/01/2006")
}

func formatPgDate(d pgtype.Date) string {
	if !d.Valid {
		return NotAvailable
	}
	return formatDate(d.Time)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

func labelled(label, value string) string {
	if value == "" {
		return ""
	}
	return label + ": " + value
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
