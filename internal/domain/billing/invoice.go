package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/domain/tax"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the invoice is in a terminal state
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// CanSend returns true if the invoice can be issued to the customer
func (s InvoiceStatus) CanSend() bool {
	return s == InvoiceStatusDraft
}

// CanMarkPaid returns true if the invoice can be settled
func (s InvoiceStatus) CanMarkPaid() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusOverdue
}

// CanCancel returns true if the invoice can be cancelled
func (s InvoiceStatus) CanCancel() bool {
	return s == InvoiceStatusDraft || s == InvoiceStatusSent || s == InvoiceStatusOverdue
}

// PaymentMethod represents how a billing document was settled
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodDebitOrder   PaymentMethod = "DEBIT_ORDER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCard, PaymentMethodCash, PaymentMethodDebitOrder:
		return true
	}
	return false
}

// InvoiceLine is a billable line item on an invoice
type InvoiceLine struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// newInvoiceLine validates and builds a line item
func newInvoiceLine(description string, quantity, unitPrice decimal.Decimal) (InvoiceLine, error) {
	if description == "" {
		return InvoiceLine{}, shared.NewDomainError("INVALID_LINE", "Line description cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return InvoiceLine{}, shared.NewDomainError("INVALID_LINE", "Line quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return InvoiceLine{}, shared.NewDomainError("INVALID_LINE", "Line unit price cannot be negative")
	}
	return InvoiceLine{
		ID:          uuid.New(),
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   quantity.Mul(unitPrice).Round(2),
	}, nil
}

// Invoice is the customer billing document aggregate root. Totals are always
// derived from the line items; VAT is computed at the statutory rate and is
// never supplied by the caller.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Lines         []InvoiceLine   `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	VATAmount     decimal.Decimal `json:"vat_amount"`
	Total         decimal.Decimal `json:"total"`
	Status        InvoiceStatus   `json:"status"`
	IssuedAt      *time.Time      `json:"issued_at"`
	DueDate       *time.Time      `json:"due_date"`
	PaidAt        *time.Time      `json:"paid_at"`
	PaymentMethod *PaymentMethod  `json:"payment_method"`
	Remark        string          `json:"remark"`
	CancelledAt   *time.Time      `json:"cancelled_at"`
	CancelReason  string          `json:"cancel_reason"`
}

// NewInvoice creates a draft invoice for a customer
func NewInvoice(tenantID uuid.UUID, invoiceNumber string, customerID uuid.UUID, customerName, customerEmail string) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}

	invoice := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       invoiceNumber,
		CustomerID:          customerID,
		CustomerName:        customerName,
		CustomerEmail:       customerEmail,
		Lines:               make([]InvoiceLine, 0),
		Subtotal:            decimal.Zero,
		VATAmount:           decimal.Zero,
		Total:               decimal.Zero,
		Status:              InvoiceStatusDraft,
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// AddLine appends a line item; allowed only while the invoice is a draft
func (i *Invoice) AddLine(description string, quantity, unitPrice decimal.Decimal) (*InvoiceLine, error) {
	if i.Status != InvoiceStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Can only modify lines on a draft invoice")
	}
	line, err := newInvoiceLine(description, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	i.Lines = append(i.Lines, line)
	i.recalculateTotals()
	return &i.Lines[len(i.Lines)-1], nil
}

// RemoveLine deletes a line item; allowed only while the invoice is a draft
func (i *Invoice) RemoveLine(lineID uuid.UUID) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Can only modify lines on a draft invoice")
	}
	for idx, line := range i.Lines {
		if line.ID == lineID {
			i.Lines = append(i.Lines[:idx], i.Lines[idx+1:]...)
			i.recalculateTotals()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Invoice line not found")
}

// Send issues the invoice to the customer with a payment due date
func (i *Invoice) Send(dueDate time.Time) error {
	if !i.Status.CanSend() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send invoice in %s status", i.Status))
	}
	if len(i.Lines) == 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot send an invoice without line items")
	}
	now := time.Now()
	if dueDate.Before(now) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be in the past")
	}

	i.Status = InvoiceStatusSent
	i.IssuedAt = &now
	i.DueDate = &dueDate
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceSentEvent(i))

	return nil
}

// MarkPaid settles the invoice
func (i *Invoice) MarkPaid(method PaymentMethod) error {
	if !i.Status.CanMarkPaid() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark invoice paid in %s status", i.Status))
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}

	now := time.Now()
	i.Status = InvoiceStatusPaid
	i.PaidAt = &now
	i.PaymentMethod = &method
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoicePaidEvent(i))

	return nil
}

// MarkOverdue flags a sent invoice whose due date has passed
func (i *Invoice) MarkOverdue(asOf time.Time) error {
	if i.Status != InvoiceStatusSent {
		return shared.NewDomainError("INVALID_STATE", "Only sent invoices can become overdue")
	}
	if i.DueDate == nil || !asOf.After(*i.DueDate) {
		return shared.NewDomainError("INVALID_STATE", "Invoice due date has not passed")
	}

	i.Status = InvoiceStatusOverdue
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceOverdueEvent(i))

	return nil
}

// Cancel voids the invoice
func (i *Invoice) Cancel(reason string) error {
	if !i.Status.CanCancel() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel invoice in %s status", i.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	i.Status = InvoiceStatusCancelled
	i.CancelledAt = &now
	i.CancelReason = reason
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceCancelledEvent(i))

	return nil
}

// SetRemark sets the remark
func (i *Invoice) SetRemark(remark string) {
	i.Remark = remark
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// IsOverdue reports whether a sent invoice has passed its due date
func (i *Invoice) IsOverdue(asOf time.Time) bool {
	return i.Status == InvoiceStatusSent && i.DueDate != nil && asOf.After(*i.DueDate)
}

// recalculateTotals derives subtotal, VAT and total from the line items
func (i *Invoice) recalculateTotals() {
	subtotal := decimal.Zero
	for _, line := range i.Lines {
		subtotal = subtotal.Add(line.LineTotal)
	}
	i.Subtotal = subtotal
	i.VATAmount = tax.VATOnExclusive(subtotal)
	i.Total = subtotal.Add(i.VATAmount)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}
