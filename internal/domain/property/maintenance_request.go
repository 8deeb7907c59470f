package property

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// MaintenanceStatus represents the lifecycle state of a maintenance request
type MaintenanceStatus string

const (
	MaintenanceStatusSubmitted  MaintenanceStatus = "SUBMITTED"
	MaintenanceStatusTriaged    MaintenanceStatus = "TRIAGED"
	MaintenanceStatusScheduled  MaintenanceStatus = "SCHEDULED"
	MaintenanceStatusInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceStatusCompleted  MaintenanceStatus = "COMPLETED"
	MaintenanceStatusCancelled  MaintenanceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid MaintenanceStatus
func (s MaintenanceStatus) IsValid() bool {
	switch s {
	case MaintenanceStatusSubmitted, MaintenanceStatusTriaged, MaintenanceStatusScheduled,
		MaintenanceStatusInProgress, MaintenanceStatusCompleted, MaintenanceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of MaintenanceStatus
func (s MaintenanceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the request can no longer change
func (s MaintenanceStatus) IsTerminal() bool {
	return s == MaintenanceStatusCompleted || s == MaintenanceStatusCancelled
}

// MaintenancePriority ranks how urgently a request needs attention
type MaintenancePriority string

const (
	MaintenancePriorityLow      MaintenancePriority = "LOW"
	MaintenancePriorityMedium   MaintenancePriority = "MEDIUM"
	MaintenancePriorityHigh     MaintenancePriority = "HIGH"
	MaintenancePriorityCritical MaintenancePriority = "CRITICAL"
)

// IsValid checks if the priority is valid
func (p MaintenancePriority) IsValid() bool {
	switch p {
	case MaintenancePriorityLow, MaintenancePriorityMedium, MaintenancePriorityHigh, MaintenancePriorityCritical:
		return true
	}
	return false
}

// MaintenanceRequest tracks a repair job from customer report to completion.
// Transitions move strictly forward: submitted, triaged, scheduled,
// in progress, completed. Cancellation is allowed before work starts.
type MaintenanceRequest struct {
	shared.TenantAggregateRoot
	RequestNumber  string              `json:"request_number"`
	CustomerID     uuid.UUID           `json:"customer_id"`
	CustomerName   string              `json:"customer_name"`
	UnitCode       string              `json:"unit_code"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Priority       MaintenancePriority `json:"priority"`
	Status         MaintenanceStatus   `json:"status"`
	AssignedTo     string              `json:"assigned_to"` // contractor or staff name
	ScheduledFor   *time.Time          `json:"scheduled_for"`
	StartedAt      *time.Time          `json:"started_at"`
	CompletedAt    *time.Time          `json:"completed_at"`
	ActualCost     *decimal.Decimal    `json:"actual_cost"`
	CompletionNote string              `json:"completion_note"`
	CancelledAt    *time.Time          `json:"cancelled_at"`
	CancelReason   string              `json:"cancel_reason"`
	AttachmentKeys string              `json:"attachment_keys"` // JSON array of object storage keys
}

// NewMaintenanceRequest submits a repair job
func NewMaintenanceRequest(tenantID uuid.UUID, requestNumber string, customerID uuid.UUID, customerName, unitCode, title, description string) (*MaintenanceRequest, error) {
	if requestNumber == "" {
		return nil, shared.NewDomainError("INVALID_REQUEST_NUMBER", "Request number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if unitCode == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit code cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}

	req := &MaintenanceRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RequestNumber:       requestNumber,
		CustomerID:          customerID,
		CustomerName:        customerName,
		UnitCode:            unitCode,
		Title:               title,
		Description:         description,
		Priority:            MaintenancePriorityMedium,
		Status:              MaintenanceStatusSubmitted,
	}

	req.AddDomainEvent(NewMaintenanceRequestSubmittedEvent(req))

	return req, nil
}

// Triage assigns a priority after assessment
func (m *MaintenanceRequest) Triage(priority MaintenancePriority) error {
	if m.Status != MaintenanceStatusSubmitted {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot triage request in %s status", m.Status))
	}
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Priority is not valid")
	}

	m.Status = MaintenanceStatusTriaged
	m.Priority = priority
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// Schedule books the job with a contractor
func (m *MaintenanceRequest) Schedule(assignedTo string, scheduledFor time.Time) error {
	if m.Status != MaintenanceStatusTriaged {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot schedule request in %s status", m.Status))
	}
	if assignedTo == "" {
		return shared.NewDomainError("INVALID_ASSIGNEE", "Assignee cannot be empty")
	}
	if scheduledFor.Before(time.Now()) {
		return shared.NewDomainError("INVALID_DATE", "Scheduled date cannot be in the past")
	}

	m.Status = MaintenanceStatusScheduled
	m.AssignedTo = assignedTo
	m.ScheduledFor = &scheduledFor
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	m.AddDomainEvent(NewMaintenanceRequestScheduledEvent(m))

	return nil
}

// StartWork records that the contractor is on site
func (m *MaintenanceRequest) StartWork() error {
	if m.Status != MaintenanceStatusScheduled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start request in %s status", m.Status))
	}

	now := time.Now()
	m.Status = MaintenanceStatusInProgress
	m.StartedAt = &now
	m.UpdatedAt = now
	m.IncrementVersion()
	return nil
}

// Complete closes the job with the actual cost
func (m *MaintenanceRequest) Complete(actualCost decimal.Decimal, note string) error {
	if m.Status != MaintenanceStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete request in %s status", m.Status))
	}
	if actualCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Actual cost cannot be negative")
	}

	now := time.Now()
	rounded := actualCost.Round(2)
	m.Status = MaintenanceStatusCompleted
	m.CompletedAt = &now
	m.ActualCost = &rounded
	m.CompletionNote = note
	m.UpdatedAt = now
	m.IncrementVersion()

	m.AddDomainEvent(NewMaintenanceRequestCompletedEvent(m))

	return nil
}

// Cancel voids the request before work starts
func (m *MaintenanceRequest) Cancel(reason string) error {
	switch m.Status {
	case MaintenanceStatusSubmitted, MaintenanceStatusTriaged, MaintenanceStatusScheduled:
	default:
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel request in %s status", m.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	m.Status = MaintenanceStatusCancelled
	m.CancelledAt = &now
	m.CancelReason = reason
	m.UpdatedAt = now
	m.IncrementVersion()
	return nil
}

// SetAttachmentKeys sets the object storage keys of photos and documents
func (m *MaintenanceRequest) SetAttachmentKeys(keys string) {
	m.AttachmentKeys = keys
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}
