package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// OperationalExpenseCreatedEvent is raised when an expense is recorded
type OperationalExpenseCreatedEvent struct {
	shared.BaseDomainEvent
	ExpenseID     uuid.UUID       `json:"expense_id"`
	ExpenseNumber string          `json:"expense_number"`
	Category      ExpenseCategory `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *OperationalExpenseCreatedEvent) EventType() string {
	return "OperationalExpenseCreated"
}

// NewOperationalExpenseCreatedEvent creates a new OperationalExpenseCreatedEvent
func NewOperationalExpenseCreatedEvent(expense *OperationalExpense) *OperationalExpenseCreatedEvent {
	return &OperationalExpenseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("OperationalExpenseCreated", "OperationalExpense", expense.ID, expense.TenantID),
		ExpenseID:       expense.ID,
		ExpenseNumber:   expense.ExpenseNumber,
		Category:        expense.Category,
		Amount:          expense.Amount,
	}
}

// OperationalExpenseSubmittedEvent is raised when an expense enters approval
type OperationalExpenseSubmittedEvent struct {
	shared.BaseDomainEvent
	ExpenseID     uuid.UUID `json:"expense_id"`
	ExpenseNumber string    `json:"expense_number"`
	SubmittedBy   uuid.UUID `json:"submitted_by"`
}

// EventType returns the event type name
func (e *OperationalExpenseSubmittedEvent) EventType() string {
	return "OperationalExpenseSubmitted"
}

// NewOperationalExpenseSubmittedEvent creates a new OperationalExpenseSubmittedEvent
func NewOperationalExpenseSubmittedEvent(expense *OperationalExpense) *OperationalExpenseSubmittedEvent {
	submittedBy := uuid.Nil
	if expense.SubmittedBy != nil {
		submittedBy = *expense.SubmittedBy
	}
	return &OperationalExpenseSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("OperationalExpenseSubmitted", "OperationalExpense", expense.ID, expense.TenantID),
		ExpenseID:       expense.ID,
		ExpenseNumber:   expense.ExpenseNumber,
		SubmittedBy:     submittedBy,
	}
}

// OperationalExpenseApprovedEvent is raised when an expense is approved
type OperationalExpenseApprovedEvent struct {
	shared.BaseDomainEvent
	ExpenseID     uuid.UUID       `json:"expense_id"`
	ExpenseNumber string          `json:"expense_number"`
	Amount        decimal.Decimal `json:"amount"`
	ApprovedBy    uuid.UUID       `json:"approved_by"`
}

// EventType returns the event type name
func (e *OperationalExpenseApprovedEvent) EventType() string {
	return "OperationalExpenseApproved"
}

// NewOperationalExpenseApprovedEvent creates a new OperationalExpenseApprovedEvent
func NewOperationalExpenseApprovedEvent(expense *OperationalExpense) *OperationalExpenseApprovedEvent {
	approvedBy := uuid.Nil
	if expense.ApprovedBy != nil {
		approvedBy = *expense.ApprovedBy
	}
	return &OperationalExpenseApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("OperationalExpenseApproved", "OperationalExpense", expense.ID, expense.TenantID),
		ExpenseID:       expense.ID,
		ExpenseNumber:   expense.ExpenseNumber,
		Amount:          expense.Amount,
		ApprovedBy:      approvedBy,
	}
}

// OperationalExpenseRejectedEvent is raised when an expense is rejected
type OperationalExpenseRejectedEvent struct {
	shared.BaseDomainEvent
	ExpenseID     uuid.UUID `json:"expense_id"`
	ExpenseNumber string    `json:"expense_number"`
	Reason        string    `json:"reason"`
}

// EventType returns the event type name
func (e *OperationalExpenseRejectedEvent) EventType() string {
	return "OperationalExpenseRejected"
}

// NewOperationalExpenseRejectedEvent creates a new OperationalExpenseRejectedEvent
func NewOperationalExpenseRejectedEvent(expense *OperationalExpense) *OperationalExpenseRejectedEvent {
	return &OperationalExpenseRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("OperationalExpenseRejected", "OperationalExpense", expense.ID, expense.TenantID),
		ExpenseID:       expense.ID,
		ExpenseNumber:   expense.ExpenseNumber,
		Reason:          expense.RejectionReason,
	}
}

// OperationalExpenseCancelledEvent is raised when an expense is cancelled
type OperationalExpenseCancelledEvent struct {
	shared.BaseDomainEvent
	ExpenseID     uuid.UUID `json:"expense_id"`
	ExpenseNumber string    `json:"expense_number"`
	Reason        string    `json:"reason"`
}

// EventType returns the event type name
func (e *OperationalExpenseCancelledEvent) EventType() string {
	return "OperationalExpenseCancelled"
}

// NewOperationalExpenseCancelledEvent creates a new OperationalExpenseCancelledEvent
func NewOperationalExpenseCancelledEvent(expense *OperationalExpense) *OperationalExpenseCancelledEvent {
	return &OperationalExpenseCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("OperationalExpenseCancelled", "OperationalExpense", expense.ID, expense.TenantID),
		ExpenseID:       expense.ID,
		ExpenseNumber:   expense.ExpenseNumber,
		Reason:          expense.CancelReason,
	}
}

// OperationalExpensePaidEvent is raised when an expense is settled
type OperationalExpensePaidEvent struct {
	shared.BaseDomainEvent
	ExpenseID     uuid.UUID       `json:"expense_id"`
	ExpenseNumber string          `json:"expense_number"`
	Amount        decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *OperationalExpensePaidEvent) EventType() string {
	return "OperationalExpensePaid"
}

// NewOperationalExpensePaidEvent creates a new OperationalExpensePaidEvent
func NewOperationalExpensePaidEvent(expense *OperationalExpense) *OperationalExpensePaidEvent {
	return &OperationalExpensePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("OperationalExpensePaid", "OperationalExpense", expense.ID, expense.TenantID),
		ExpenseID:       expense.ID,
		ExpenseNumber:   expense.ExpenseNumber,
		Amount:          expense.Amount,
	}
}
