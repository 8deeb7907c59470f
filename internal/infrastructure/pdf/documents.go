package pdf

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// InvoiceLine is one billed line on the invoice document
type InvoiceLine struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// InvoiceDocument carries the data for the invoice template
type InvoiceDocument struct {
	CompanyName      string
	CompanyVATNumber string
	CompanyAddress   string
	Number           string
	Status           string
	IssueDate        time.Time
	DueDate          time.Time
	CustomerName     string
	CustomerEmail    string
	UnitCode         string
	Lines            []InvoiceLine
	Subtotal         decimal.Decimal
	VATRate          decimal.Decimal
	VATAmount        decimal.Decimal
	Total            decimal.Decimal
	BankingDetails   string
	Notes            string
}

// StatementLine is one invoice entry on the customer statement
type StatementLine struct {
	Date        time.Time
	Reference   string
	Description string
	Status      string
	Overdue     bool
	Amount      decimal.Decimal
}

// StatementDocument carries the data for the customer statement template
type StatementDocument struct {
	CompanyName      string
	CustomerName     string
	CustomerEmail    string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	Lines            []StatementLine
	TotalBilled      decimal.Decimal
	TotalPaid        decimal.Decimal
	TotalOverdue     decimal.Decimal
	TotalOutstanding decimal.Decimal
}

// PayslipItem is one earning or deduction line on the payslip
type PayslipItem struct {
	Description string
	Amount      decimal.Decimal
}

// PayslipDocument carries the data for the payslip template
type PayslipDocument struct {
	CompanyName         string
	PAYEReferenceNumber string
	Number              string
	Period              string
	PayDate             time.Time
	EmployeeName        string
	EmployeeNumber      string
	TaxNumber           string
	Earnings            []PayslipItem
	GrossPay            decimal.Decimal
	PAYE                decimal.Decimal
	UIF                 decimal.Decimal
	OtherDeductions     []PayslipItem
	TotalDeductions     decimal.Decimal
	NetPay              decimal.Decimal
}

// DocumentBuilder renders the built-in document templates to HTML
type DocumentBuilder struct {
	templates *template.Template
}

// NewDocumentBuilder parses the built-in templates
func NewDocumentBuilder() (*DocumentBuilder, error) {
	tmpl, err := template.New("documents").Funcs(documentFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "failed to parse built-in templates", err)
	}
	return &DocumentBuilder{templates: tmpl}, nil
}

// BuildInvoiceHTML renders the invoice template
func (b *DocumentBuilder) BuildInvoiceHTML(doc *InvoiceDocument) (string, error) {
	return b.render("invoice_a4.html", doc)
}

// BuildStatementHTML renders the customer statement template
func (b *DocumentBuilder) BuildStatementHTML(doc *StatementDocument) (string, error) {
	return b.render("statement_a4.html", doc)
}

// BuildPayslipHTML renders the payslip template
func (b *DocumentBuilder) BuildPayslipHTML(doc *PayslipDocument) (string, error) {
	return b.render("payslip_a4.html", doc)
}

func (b *DocumentBuilder) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := b.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to render "+name, err)
	}
	return buf.String(), nil
}

// documentFuncs returns the template function map for the built-in documents
func documentFuncs() template.FuncMap {
	return template.FuncMap{
		"formatRand": formatRand,
		"formatDate": formatDate,
	}
}

// formatRand formats a decimal amount in South African rand
// Example: 12345.6 -> "R 12 345.60"
func formatRand(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	parts := strings.Split(d.StringFixed(2), ".")
	intPart := parts[0]
	decPart := "00"
	if len(parts) > 1 {
		decPart = parts[1]
	}

	// SA convention uses a space as the thousands separator
	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(' ')
		}
		result.WriteRune(c)
	}

	return sign + "R " + result.String() + "." + decPart
}

// formatDate formats a date for document display
// Example: 2026-03-01 -> "01 Mar 2026"
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}
