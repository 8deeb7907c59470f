package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// AlternativeRevenueCreatedEvent is raised when a revenue record is created
type AlternativeRevenueCreatedEvent struct {
	shared.BaseDomainEvent
	RevenueID     uuid.UUID       `json:"revenue_id"`
	RevenueNumber string          `json:"revenue_number"`
	Category      RevenueCategory `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *AlternativeRevenueCreatedEvent) EventType() string {
	return "AlternativeRevenueCreated"
}

// NewAlternativeRevenueCreatedEvent creates a new AlternativeRevenueCreatedEvent
func NewAlternativeRevenueCreatedEvent(revenue *AlternativeRevenue) *AlternativeRevenueCreatedEvent {
	return &AlternativeRevenueCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AlternativeRevenueCreated", "AlternativeRevenue", revenue.ID, revenue.TenantID),
		RevenueID:       revenue.ID,
		RevenueNumber:   revenue.RevenueNumber,
		Category:        revenue.Category,
		Amount:          revenue.Amount,
	}
}

// AlternativeRevenueConfirmedEvent is raised when a revenue record is confirmed
type AlternativeRevenueConfirmedEvent struct {
	shared.BaseDomainEvent
	RevenueID     uuid.UUID       `json:"revenue_id"`
	RevenueNumber string          `json:"revenue_number"`
	Amount        decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *AlternativeRevenueConfirmedEvent) EventType() string {
	return "AlternativeRevenueConfirmed"
}

// NewAlternativeRevenueConfirmedEvent creates a new AlternativeRevenueConfirmedEvent
func NewAlternativeRevenueConfirmedEvent(revenue *AlternativeRevenue) *AlternativeRevenueConfirmedEvent {
	return &AlternativeRevenueConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AlternativeRevenueConfirmed", "AlternativeRevenue", revenue.ID, revenue.TenantID),
		RevenueID:       revenue.ID,
		RevenueNumber:   revenue.RevenueNumber,
		Amount:          revenue.Amount,
	}
}

// AlternativeRevenueCancelledEvent is raised when a revenue record is cancelled
type AlternativeRevenueCancelledEvent struct {
	shared.BaseDomainEvent
	RevenueID     uuid.UUID `json:"revenue_id"`
	RevenueNumber string    `json:"revenue_number"`
	Reason        string    `json:"reason"`
}

// EventType returns the event type name
func (e *AlternativeRevenueCancelledEvent) EventType() string {
	return "AlternativeRevenueCancelled"
}

// NewAlternativeRevenueCancelledEvent creates a new AlternativeRevenueCancelledEvent
func NewAlternativeRevenueCancelledEvent(revenue *AlternativeRevenue) *AlternativeRevenueCancelledEvent {
	return &AlternativeRevenueCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AlternativeRevenueCancelled", "AlternativeRevenue", revenue.ID, revenue.TenantID),
		RevenueID:       revenue.ID,
		RevenueNumber:   revenue.RevenueNumber,
		Reason:          revenue.CancelReason,
	}
}

// AlternativeRevenueReceivedEvent is raised when revenue money lands
type AlternativeRevenueReceivedEvent struct {
	shared.BaseDomainEvent
	RevenueID     uuid.UUID       `json:"revenue_id"`
	RevenueNumber string          `json:"revenue_number"`
	Amount        decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *AlternativeRevenueReceivedEvent) EventType() string {
	return "AlternativeRevenueReceived"
}

// NewAlternativeRevenueReceivedEvent creates a new AlternativeRevenueReceivedEvent
func NewAlternativeRevenueReceivedEvent(revenue *AlternativeRevenue) *AlternativeRevenueReceivedEvent {
	return &AlternativeRevenueReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AlternativeRevenueReceived", "AlternativeRevenue", revenue.ID, revenue.TenantID),
		RevenueID:       revenue.ID,
		RevenueNumber:   revenue.RevenueNumber,
		Amount:          revenue.Amount,
	}
}
