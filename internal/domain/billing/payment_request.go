package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// PaymentRequestStatus represents the lifecycle state of a payment request
type PaymentRequestStatus string

const (
	PaymentRequestStatusPending  PaymentRequestStatus = "PENDING"
	PaymentRequestStatusApproved PaymentRequestStatus = "APPROVED"
	PaymentRequestStatusDeclined PaymentRequestStatus = "DECLINED"
	PaymentRequestStatusPaid     PaymentRequestStatus = "PAID"
)

// IsValid checks if the status is a valid PaymentRequestStatus
func (s PaymentRequestStatus) IsValid() bool {
	switch s {
	case PaymentRequestStatusPending, PaymentRequestStatusApproved,
		PaymentRequestStatusDeclined, PaymentRequestStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PaymentRequestStatus
func (s PaymentRequestStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the payment request can no longer change
func (s PaymentRequestStatus) IsTerminal() bool {
	return s == PaymentRequestStatusDeclined || s == PaymentRequestStatusPaid
}

// PaymentRequest asks a customer to settle an amount, optionally tied to an
// invoice. Approval is a back-office step before payment capture.
type PaymentRequest struct {
	shared.TenantAggregateRoot
	RequestNumber string               `json:"request_number"`
	CustomerID    uuid.UUID            `json:"customer_id"`
	CustomerName  string               `json:"customer_name"`
	CustomerEmail string               `json:"customer_email"`
	InvoiceID     *uuid.UUID           `json:"invoice_id"`
	Amount        decimal.Decimal      `json:"amount"`
	Description   string               `json:"description"`
	Status        PaymentRequestStatus `json:"status"`
	ApprovedBy    *uuid.UUID           `json:"approved_by"`
	DecidedAt     *time.Time           `json:"decided_at"`
	DeclineReason string               `json:"decline_reason"`
	PaidAt        *time.Time           `json:"paid_at"`
	PaymentMethod *PaymentMethod       `json:"payment_method"`
}

// NewPaymentRequest creates a pending payment request
func NewPaymentRequest(tenantID uuid.UUID, requestNumber string, customerID uuid.UUID, customerName, customerEmail string, amount decimal.Decimal, description string) (*PaymentRequest, error) {
	if requestNumber == "" {
		return nil, shared.NewDomainError("INVALID_REQUEST_NUMBER", "Request number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}

	pr := &PaymentRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RequestNumber:       requestNumber,
		CustomerID:          customerID,
		CustomerName:        customerName,
		CustomerEmail:       customerEmail,
		Amount:              amount.Round(2),
		Description:         description,
		Status:              PaymentRequestStatusPending,
	}

	pr.AddDomainEvent(NewPaymentRequestCreatedEvent(pr))

	return pr, nil
}

// LinkInvoice ties the request to an invoice; pending only
func (p *PaymentRequest) LinkInvoice(invoiceID uuid.UUID) error {
	if p.Status != PaymentRequestStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Can only link an invoice to a pending request")
	}
	if invoiceID == uuid.Nil {
		return shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	p.InvoiceID = &invoiceID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Approve clears the request for payment capture
func (p *PaymentRequest) Approve(approverID uuid.UUID) error {
	if p.Status != PaymentRequestStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve payment request in %s status", p.Status))
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approver ID cannot be empty")
	}

	now := time.Now()
	p.Status = PaymentRequestStatusApproved
	p.ApprovedBy = &approverID
	p.DecidedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentRequestApprovedEvent(p))

	return nil
}

// Decline rejects the request
func (p *PaymentRequest) Decline(approverID uuid.UUID, reason string) error {
	if p.Status != PaymentRequestStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot decline payment request in %s status", p.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Decline reason is required")
	}

	now := time.Now()
	p.Status = PaymentRequestStatusDeclined
	p.ApprovedBy = &approverID
	p.DecidedAt = &now
	p.DeclineReason = reason
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentRequestDeclinedEvent(p))

	return nil
}

// MarkPaid records settlement of an approved request
func (p *PaymentRequest) MarkPaid(method PaymentMethod) error {
	if p.Status != PaymentRequestStatusApproved {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark payment request paid in %s status", p.Status))
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}

	now := time.Now()
	p.Status = PaymentRequestStatusPaid
	p.PaidAt = &now
	p.PaymentMethod = &method
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentRequestPaidEvent(p))

	return nil
}
