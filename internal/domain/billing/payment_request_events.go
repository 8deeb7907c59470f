package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// PaymentRequestCreatedEvent is raised when a payment request is opened
type PaymentRequestCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentRequestID uuid.UUID       `json:"payment_request_id"`
	RequestNumber    string          `json:"request_number"`
	CustomerID       uuid.UUID       `json:"customer_id"`
	Amount           decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *PaymentRequestCreatedEvent) EventType() string {
	return "PaymentRequestCreated"
}

// NewPaymentRequestCreatedEvent creates a new PaymentRequestCreatedEvent
func NewPaymentRequestCreatedEvent(pr *PaymentRequest) *PaymentRequestCreatedEvent {
	return &PaymentRequestCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("PaymentRequestCreated", "PaymentRequest", pr.ID, pr.TenantID),
		PaymentRequestID: pr.ID,
		RequestNumber:    pr.RequestNumber,
		CustomerID:       pr.CustomerID,
		Amount:           pr.Amount,
	}
}

// PaymentRequestApprovedEvent is raised when a request is cleared for capture
type PaymentRequestApprovedEvent struct {
	shared.BaseDomainEvent
	PaymentRequestID uuid.UUID       `json:"payment_request_id"`
	RequestNumber    string          `json:"request_number"`
	Amount           decimal.Decimal `json:"amount"`
	ApprovedBy       uuid.UUID       `json:"approved_by"`
}

// EventType returns the event type name
func (e *PaymentRequestApprovedEvent) EventType() string {
	return "PaymentRequestApproved"
}

// NewPaymentRequestApprovedEvent creates a new PaymentRequestApprovedEvent
func NewPaymentRequestApprovedEvent(pr *PaymentRequest) *PaymentRequestApprovedEvent {
	approvedBy := uuid.Nil
	if pr.ApprovedBy != nil {
		approvedBy = *pr.ApprovedBy
	}
	return &PaymentRequestApprovedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("PaymentRequestApproved", "PaymentRequest", pr.ID, pr.TenantID),
		PaymentRequestID: pr.ID,
		RequestNumber:    pr.RequestNumber,
		Amount:           pr.Amount,
		ApprovedBy:       approvedBy,
	}
}

// PaymentRequestDeclinedEvent is raised when a request is rejected
type PaymentRequestDeclinedEvent struct {
	shared.BaseDomainEvent
	PaymentRequestID uuid.UUID `json:"payment_request_id"`
	RequestNumber    string    `json:"request_number"`
	Reason           string    `json:"reason"`
}

// EventType returns the event type name
func (e *PaymentRequestDeclinedEvent) EventType() string {
	return "PaymentRequestDeclined"
}

// NewPaymentRequestDeclinedEvent creates a new PaymentRequestDeclinedEvent
func NewPaymentRequestDeclinedEvent(pr *PaymentRequest) *PaymentRequestDeclinedEvent {
	return &PaymentRequestDeclinedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("PaymentRequestDeclined", "PaymentRequest", pr.ID, pr.TenantID),
		PaymentRequestID: pr.ID,
		RequestNumber:    pr.RequestNumber,
		Reason:           pr.DeclineReason,
	}
}

// PaymentRequestPaidEvent is raised when a request is settled
type PaymentRequestPaidEvent struct {
	shared.BaseDomainEvent
	PaymentRequestID uuid.UUID       `json:"payment_request_id"`
	RequestNumber    string          `json:"request_number"`
	CustomerID       uuid.UUID       `json:"customer_id"`
	Amount           decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *PaymentRequestPaidEvent) EventType() string {
	return "PaymentRequestPaid"
}

// NewPaymentRequestPaidEvent creates a new PaymentRequestPaidEvent
func NewPaymentRequestPaidEvent(pr *PaymentRequest) *PaymentRequestPaidEvent {
	return &PaymentRequestPaidEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("PaymentRequestPaid", "PaymentRequest", pr.ID, pr.TenantID),
		PaymentRequestID: pr.ID,
		RequestNumber:    pr.RequestNumber,
		CustomerID:       pr.CustomerID,
		Amount:           pr.Amount,
	}
}
