package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/domain/tax"
)

// QuotationStatus represents the lifecycle state of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "DRAFT"
	QuotationStatusSent     QuotationStatus = "SENT"
	QuotationStatusAccepted QuotationStatus = "ACCEPTED"
	QuotationStatusRejected QuotationStatus = "REJECTED"
	QuotationStatusExpired  QuotationStatus = "EXPIRED"
)

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusAccepted,
		QuotationStatusRejected, QuotationStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of QuotationStatus
func (s QuotationStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the quotation can no longer change
func (s QuotationStatus) IsTerminal() bool {
	return s == QuotationStatusAccepted || s == QuotationStatusRejected || s == QuotationStatusExpired
}

// QuotationLine is a quoted line item
type QuotationLine struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Quotation is a priced offer to a customer that can be converted into an
// invoice once accepted.
type Quotation struct {
	shared.TenantAggregateRoot
	QuotationNumber string          `json:"quotation_number"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	Lines           []QuotationLine `json:"lines"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	VATAmount       decimal.Decimal `json:"vat_amount"`
	Total           decimal.Decimal `json:"total"`
	Status          QuotationStatus `json:"status"`
	ValidUntil      *time.Time      `json:"valid_until"`
	SentAt          *time.Time      `json:"sent_at"`
	DecidedAt       *time.Time      `json:"decided_at"`
	RejectionReason string          `json:"rejection_reason"`
	InvoiceID       *uuid.UUID      `json:"invoice_id"` // set once converted
	Remark          string          `json:"remark"`
}

// NewQuotation creates a draft quotation for a customer
func NewQuotation(tenantID uuid.UUID, quotationNumber string, customerID uuid.UUID, customerName, customerEmail string) (*Quotation, error) {
	if quotationNumber == "" {
		return nil, shared.NewDomainError("INVALID_QUOTATION_NUMBER", "Quotation number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}

	return &Quotation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		QuotationNumber:     quotationNumber,
		CustomerID:          customerID,
		CustomerName:        customerName,
		CustomerEmail:       customerEmail,
		Lines:               make([]QuotationLine, 0),
		Subtotal:            decimal.Zero,
		VATAmount:           decimal.Zero,
		Total:               decimal.Zero,
		Status:              QuotationStatusDraft,
	}, nil
}

// AddLine appends a quoted line item; draft only
func (q *Quotation) AddLine(description string, quantity, unitPrice decimal.Decimal) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Can only modify lines on a draft quotation")
	}
	if description == "" {
		return shared.NewDomainError("INVALID_LINE", "Line description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_LINE", "Line quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_LINE", "Line unit price cannot be negative")
	}
	q.Lines = append(q.Lines, QuotationLine{
		ID:          uuid.New(),
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   quantity.Mul(unitPrice).Round(2),
	})
	q.recalculateTotals()
	return nil
}

// RemoveLine deletes a line item; draft only
func (q *Quotation) RemoveLine(lineID uuid.UUID) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Can only modify lines on a draft quotation")
	}
	for idx, line := range q.Lines {
		if line.ID == lineID {
			q.Lines = append(q.Lines[:idx], q.Lines[idx+1:]...)
			q.recalculateTotals()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Quotation line not found")
}

// Send issues the quotation to the customer with a validity deadline
func (q *Quotation) Send(validUntil time.Time) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send quotation in %s status", q.Status))
	}
	if len(q.Lines) == 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot send a quotation without line items")
	}
	now := time.Now()
	if validUntil.Before(now) {
		return shared.NewDomainError("INVALID_VALIDITY", "Validity date cannot be in the past")
	}

	q.Status = QuotationStatusSent
	q.SentAt = &now
	q.ValidUntil = &validUntil
	q.UpdatedAt = now
	q.IncrementVersion()
	return nil
}

// Accept records customer acceptance
func (q *Quotation) Accept() error {
	if q.Status != QuotationStatusSent {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot accept quotation in %s status", q.Status))
	}
	if q.ValidUntil != nil && time.Now().After(*q.ValidUntil) {
		return shared.NewDomainError("INVALID_STATE", "Quotation validity has lapsed")
	}

	now := time.Now()
	q.Status = QuotationStatusAccepted
	q.DecidedAt = &now
	q.UpdatedAt = now
	q.IncrementVersion()
	return nil
}

// Reject records customer rejection
func (q *Quotation) Reject(reason string) error {
	if q.Status != QuotationStatusSent {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject quotation in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuotationStatusRejected
	q.DecidedAt = &now
	q.RejectionReason = reason
	q.UpdatedAt = now
	q.IncrementVersion()
	return nil
}

// Expire lapses a sent quotation whose validity has passed
func (q *Quotation) Expire(asOf time.Time) error {
	if q.Status != QuotationStatusSent {
		return shared.NewDomainError("INVALID_STATE", "Only sent quotations can expire")
	}
	if q.ValidUntil == nil || !asOf.After(*q.ValidUntil) {
		return shared.NewDomainError("INVALID_STATE", "Quotation validity has not lapsed")
	}

	q.Status = QuotationStatusExpired
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
	return nil
}

// MarkConverted links the accepted quotation to the invoice created from it
func (q *Quotation) MarkConverted(invoiceID uuid.UUID) error {
	if q.Status != QuotationStatusAccepted {
		return shared.NewDomainError("INVALID_STATE", "Only accepted quotations can be converted")
	}
	if q.InvoiceID != nil {
		return shared.NewDomainError("ALREADY_EXISTS", "Quotation has already been converted")
	}
	q.InvoiceID = &invoiceID
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
	return nil
}

// SetRemark sets the remark
func (q *Quotation) SetRemark(remark string) {
	q.Remark = remark
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
}

func (q *Quotation) recalculateTotals() {
	subtotal := decimal.Zero
	for _, line := range q.Lines {
		subtotal = subtotal.Add(line.LineTotal)
	}
	q.Subtotal = subtotal
	q.VATAmount = tax.VATOnExclusive(subtotal)
	q.Total = subtotal.Add(q.VATAmount)
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
}
