package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// RegistrationCreatedEvent is raised when a registration is opened
type RegistrationCreatedEvent struct {
	shared.BaseDomainEvent
	RegistrationID     uuid.UUID `json:"registration_id"`
	RegistrationNumber string    `json:"registration_number"`
	CustomerID         uuid.UUID `json:"customer_id"`
	UnitCode           string    `json:"unit_code"`
}

// EventType returns the event type name
func (e *RegistrationCreatedEvent) EventType() string {
	return "RegistrationCreated"
}

// NewRegistrationCreatedEvent creates a new RegistrationCreatedEvent
func NewRegistrationCreatedEvent(r *Registration) *RegistrationCreatedEvent {
	return &RegistrationCreatedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent("RegistrationCreated", "Registration", r.ID, r.TenantID),
		RegistrationID:     r.ID,
		RegistrationNumber: r.RegistrationNumber,
		CustomerID:         r.CustomerID,
		UnitCode:           r.UnitCode,
	}
}

// RegistrationApprovedEvent is raised when a registration is activated
type RegistrationApprovedEvent struct {
	shared.BaseDomainEvent
	RegistrationID     uuid.UUID       `json:"registration_id"`
	RegistrationNumber string          `json:"registration_number"`
	CustomerID         uuid.UUID       `json:"customer_id"`
	MonthlyAmount      decimal.Decimal `json:"monthly_amount"`
}

// EventType returns the event type name
func (e *RegistrationApprovedEvent) EventType() string {
	return "RegistrationApproved"
}

// NewRegistrationApprovedEvent creates a new RegistrationApprovedEvent
func NewRegistrationApprovedEvent(r *Registration) *RegistrationApprovedEvent {
	return &RegistrationApprovedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent("RegistrationApproved", "Registration", r.ID, r.TenantID),
		RegistrationID:     r.ID,
		RegistrationNumber: r.RegistrationNumber,
		CustomerID:         r.CustomerID,
		MonthlyAmount:      r.MonthlyAmount,
	}
}

// RegistrationDeclinedEvent is raised when a registration is rejected
type RegistrationDeclinedEvent struct {
	shared.BaseDomainEvent
	RegistrationID     uuid.UUID `json:"registration_id"`
	RegistrationNumber string    `json:"registration_number"`
	Reason             string    `json:"reason"`
}

// EventType returns the event type name
func (e *RegistrationDeclinedEvent) EventType() string {
	return "RegistrationDeclined"
}

// NewRegistrationDeclinedEvent creates a new RegistrationDeclinedEvent
func NewRegistrationDeclinedEvent(r *Registration) *RegistrationDeclinedEvent {
	return &RegistrationDeclinedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent("RegistrationDeclined", "Registration", r.ID, r.TenantID),
		RegistrationID:     r.ID,
		RegistrationNumber: r.RegistrationNumber,
		Reason:             r.DeclineReason,
	}
}

// RegistrationTerminatedEvent is raised when a registration ends
type RegistrationTerminatedEvent struct {
	shared.BaseDomainEvent
	RegistrationID     uuid.UUID `json:"registration_id"`
	RegistrationNumber string    `json:"registration_number"`
	Reason             string    `json:"reason"`
	EndDate            time.Time `json:"end_date"`
}

// EventType returns the event type name
func (e *RegistrationTerminatedEvent) EventType() string {
	return "RegistrationTerminated"
}

// NewRegistrationTerminatedEvent creates a new RegistrationTerminatedEvent
func NewRegistrationTerminatedEvent(r *Registration) *RegistrationTerminatedEvent {
	endDate := time.Now()
	if r.EndDate != nil {
		endDate = *r.EndDate
	}
	return &RegistrationTerminatedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent("RegistrationTerminated", "Registration", r.ID, r.TenantID),
		RegistrationID:     r.ID,
		RegistrationNumber: r.RegistrationNumber,
		Reason:             r.TerminationReason,
		EndDate:            endDate,
	}
}

// MaintenanceRequestSubmittedEvent is raised when a repair job is reported
type MaintenanceRequestSubmittedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	CustomerID    uuid.UUID `json:"customer_id"`
	UnitCode      string    `json:"unit_code"`
	Title         string    `json:"title"`
}

// EventType returns the event type name
func (e *MaintenanceRequestSubmittedEvent) EventType() string {
	return "MaintenanceRequestSubmitted"
}

// NewMaintenanceRequestSubmittedEvent creates a new MaintenanceRequestSubmittedEvent
func NewMaintenanceRequestSubmittedEvent(m *MaintenanceRequest) *MaintenanceRequestSubmittedEvent {
	return &MaintenanceRequestSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("MaintenanceRequestSubmitted", "MaintenanceRequest", m.ID, m.TenantID),
		RequestID:       m.ID,
		RequestNumber:   m.RequestNumber,
		CustomerID:      m.CustomerID,
		UnitCode:        m.UnitCode,
		Title:           m.Title,
	}
}

// MaintenanceRequestScheduledEvent is raised when a job is booked
type MaintenanceRequestScheduledEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	AssignedTo    string    `json:"assigned_to"`
	ScheduledFor  time.Time `json:"scheduled_for"`
}

// EventType returns the event type name
func (e *MaintenanceRequestScheduledEvent) EventType() string {
	return "MaintenanceRequestScheduled"
}

// NewMaintenanceRequestScheduledEvent creates a new MaintenanceRequestScheduledEvent
func NewMaintenanceRequestScheduledEvent(m *MaintenanceRequest) *MaintenanceRequestScheduledEvent {
	scheduledFor := time.Now()
	if m.ScheduledFor != nil {
		scheduledFor = *m.ScheduledFor
	}
	return &MaintenanceRequestScheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("MaintenanceRequestScheduled", "MaintenanceRequest", m.ID, m.TenantID),
		RequestID:       m.ID,
		RequestNumber:   m.RequestNumber,
		AssignedTo:      m.AssignedTo,
		ScheduledFor:    scheduledFor,
	}
}

// MaintenanceRequestCompletedEvent is raised when a job closes
type MaintenanceRequestCompletedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID       `json:"request_id"`
	RequestNumber string          `json:"request_number"`
	ActualCost    decimal.Decimal `json:"actual_cost"`
}

// EventType returns the event type name
func (e *MaintenanceRequestCompletedEvent) EventType() string {
	return "MaintenanceRequestCompleted"
}

// NewMaintenanceRequestCompletedEvent creates a new MaintenanceRequestCompletedEvent
func NewMaintenanceRequestCompletedEvent(m *MaintenanceRequest) *MaintenanceRequestCompletedEvent {
	cost := decimal.Zero
	if m.ActualCost != nil {
		cost = *m.ActualCost
	}
	return &MaintenanceRequestCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("MaintenanceRequestCompleted", "MaintenanceRequest", m.ID, m.TenantID),
		RequestID:       m.ID,
		RequestNumber:   m.RequestNumber,
		ActualCost:      cost,
	}
}
