// Package finance holds operational expenses, alternative revenue and the
// derived financial statements.
package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// ExpenseCategory classifies an operational expense on the income statement.
type ExpenseCategory string

const (
	ExpenseCategoryRates       ExpenseCategory = "RATES"       // Municipal rates and taxes
	ExpenseCategoryUtilities   ExpenseCategory = "UTILITIES"   // Water and electricity
	ExpenseCategorySecurity    ExpenseCategory = "SECURITY"    // Guarding and access control
	ExpenseCategoryCleaning    ExpenseCategory = "CLEANING"    // Cleaning services
	ExpenseCategoryMaintenance ExpenseCategory = "MAINTENANCE" // Repairs and maintenance
	ExpenseCategoryInsurance   ExpenseCategory = "INSURANCE"   // Insurance premiums
	ExpenseCategoryMarketing   ExpenseCategory = "MARKETING"   // Campaigns and advertising
	ExpenseCategoryAdmin       ExpenseCategory = "ADMIN"       // Office and admin costs
	ExpenseCategoryLevies      ExpenseCategory = "LEVIES"      // Body corporate levies
	ExpenseCategoryOther       ExpenseCategory = "OTHER"
)

// IsValid checks the category against the known set.
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryRates, ExpenseCategoryUtilities, ExpenseCategorySecurity,
		ExpenseCategoryCleaning, ExpenseCategoryMaintenance, ExpenseCategoryInsurance,
		ExpenseCategoryMarketing, ExpenseCategoryAdmin, ExpenseCategoryLevies,
		ExpenseCategoryOther:
		return true
	}
	return false
}

func (c ExpenseCategory) String() string { return string(c) }

// ExpenseStatus tracks an expense through its approval lifecycle:
// DRAFT to PENDING to APPROVED or REJECTED, with CANCELLED reachable
// while still in DRAFT or PENDING.
type ExpenseStatus string

const (
	ExpenseStatusDraft     ExpenseStatus = "DRAFT"
	ExpenseStatusPending   ExpenseStatus = "PENDING"
	ExpenseStatusApproved  ExpenseStatus = "APPROVED"
	ExpenseStatusRejected  ExpenseStatus = "REJECTED"
	ExpenseStatusCancelled ExpenseStatus = "CANCELLED"
)

// IsValid checks the status against the known set.
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpenseStatusDraft, ExpenseStatusPending,
		ExpenseStatusApproved, ExpenseStatusRejected, ExpenseStatusCancelled:
		return true
	}
	return false
}

func (s ExpenseStatus) String() string { return string(s) }

// IsTerminal reports whether the expense can no longer change status.
func (s ExpenseStatus) IsTerminal() bool {
	switch s {
	case ExpenseStatusApproved, ExpenseStatusRejected, ExpenseStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus records whether an approved expense has been settled.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	PaymentStatusPaid   PaymentStatus = "PAID"
)

// OperationalExpense is the aggregate root for a running cost such as
// rates, utilities or security guarding. Every expense passes through a
// draft, submit, approve cycle before it may be settled.
type OperationalExpense struct {
	shared.TenantAggregateRoot
	ExpenseNumber   string          `json:"expense_number"`
	Category        ExpenseCategory `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	IncurredAt      time.Time       `json:"incurred_at"`
	Status          ExpenseStatus   `json:"status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	PaymentMethod   *PaymentMethod  `json:"payment_method"`
	PaidAt          *time.Time      `json:"paid_at"`
	Remark          string          `json:"remark"`
	AttachmentKeys  string          `json:"attachment_keys"` // JSON array of object storage keys
	SubmittedAt     *time.Time      `json:"submitted_at"`
	SubmittedBy     *uuid.UUID      `json:"submitted_by"`
	ApprovedAt      *time.Time      `json:"approved_at"`
	ApprovedBy      *uuid.UUID      `json:"approved_by"`
	ApprovalRemark  string          `json:"approval_remark"`
	RejectedAt      *time.Time      `json:"rejected_at"`
	RejectedBy      *uuid.UUID      `json:"rejected_by"`
	RejectionReason string          `json:"rejection_reason"`
	CancelledAt     *time.Time      `json:"cancelled_at"`
	CancelledBy     *uuid.UUID      `json:"cancelled_by"`
	CancelReason    string          `json:"cancel_reason"`
}

// NewOperationalExpense creates a draft expense. The number comes from
// the repository's per-tenant sequence.
func NewOperationalExpense(
	tenantID uuid.UUID,
	expenseNumber string,
	category ExpenseCategory,
	amount decimal.Decimal,
	description string,
	incurredAt time.Time,
) (*OperationalExpense, error) {
	switch {
	case expenseNumber == "":
		return nil, shared.NewDomainError("INVALID_EXPENSE_NUMBER", "Expense number is required")
	case len(expenseNumber) > maxNumberLen:
		return nil, shared.NewDomainError("INVALID_EXPENSE_NUMBER",
			fmt.Sprintf("Expense number is limited to %d characters", maxNumberLen))
	case !category.IsValid():
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown expense category")
	}
	if err := checkMoneyDetails(amount, description); err != nil {
		return nil, err
	}

	e := &OperationalExpense{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ExpenseNumber:       expenseNumber,
		Category:            category,
		Amount:              amount.Round(2),
		Description:         description,
		IncurredAt:          incurredAt,
		Status:              ExpenseStatusDraft,
		PaymentStatus:       PaymentStatusUnpaid,
	}
	e.AddDomainEvent(NewOperationalExpenseCreatedEvent(e))
	return e, nil
}

func (e *OperationalExpense) invalidState(verb string) error {
	return shared.NewDomainError("INVALID_STATE",
		fmt.Sprintf("An expense in %s status cannot be %s", e.Status, verb))
}

// touch bumps the optimistic-lock version and the update timestamp.
func (e *OperationalExpense) touch(now time.Time) {
	e.UpdatedAt = now
	e.IncrementVersion()
}

// Submit moves a draft into the approval queue.
func (e *OperationalExpense) Submit(submittedBy uuid.UUID) error {
	if e.Status != ExpenseStatusDraft {
		return e.invalidState("submitted")
	}
	if err := requireActor("Submitter", submittedBy); err != nil {
		return err
	}

	now := time.Now()
	e.Status = ExpenseStatusPending
	e.SubmittedAt = &now
	e.SubmittedBy = &submittedBy
	e.touch(now)

	e.AddDomainEvent(NewOperationalExpenseSubmittedEvent(e))
	return nil
}

// Approve accepts a pending expense, opening it up for settlement.
func (e *OperationalExpense) Approve(approvedBy uuid.UUID, remark string) error {
	if e.Status != ExpenseStatusPending {
		return e.invalidState("approved")
	}
	if err := requireActor("Approver", approvedBy); err != nil {
		return err
	}

	now := time.Now()
	e.Status = ExpenseStatusApproved
	e.ApprovedAt = &now
	e.ApprovedBy = &approvedBy
	e.ApprovalRemark = remark
	e.touch(now)

	e.AddDomainEvent(NewOperationalExpenseApprovedEvent(e))
	return nil
}

// Reject declines a pending expense. A reason is mandatory so the
// submitter knows what to fix.
func (e *OperationalExpense) Reject(rejectedBy uuid.UUID, reason string) error {
	if e.Status != ExpenseStatusPending {
		return e.invalidState("rejected")
	}
	if err := requireActor("Rejector", rejectedBy); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "A rejection reason is required")
	}

	now := time.Now()
	e.Status = ExpenseStatusRejected
	e.RejectedAt = &now
	e.RejectedBy = &rejectedBy
	e.RejectionReason = reason
	e.touch(now)

	e.AddDomainEvent(NewOperationalExpenseRejectedEvent(e))
	return nil
}

// Cancel withdraws an expense before it has been decided on.
func (e *OperationalExpense) Cancel(cancelledBy uuid.UUID, reason string) error {
	if e.Status != ExpenseStatusDraft && e.Status != ExpenseStatusPending {
		return e.invalidState("cancelled")
	}
	if err := requireActor("Canceller", cancelledBy); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "A cancellation reason is required")
	}

	now := time.Now()
	e.Status = ExpenseStatusCancelled
	e.CancelledAt = &now
	e.CancelledBy = &cancelledBy
	e.CancelReason = reason
	e.touch(now)

	e.AddDomainEvent(NewOperationalExpenseCancelledEvent(e))
	return nil
}

// MarkAsPaid settles an approved expense.
func (e *OperationalExpense) MarkAsPaid(paymentMethod PaymentMethod) error {
	if e.Status != ExpenseStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only an approved expense can be settled")
	}
	if e.PaymentStatus == PaymentStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Expense has already been settled")
	}
	if !paymentMethod.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	now := time.Now()
	e.PaymentStatus = PaymentStatusPaid
	e.PaymentMethod = &paymentMethod
	e.PaidAt = &now
	e.touch(now)

	e.AddDomainEvent(NewOperationalExpensePaidEvent(e))
	return nil
}

// Update replaces the editable details. Only drafts may change.
func (e *OperationalExpense) Update(category ExpenseCategory, amount decimal.Decimal, description string, incurredAt time.Time) error {
	if e.Status != ExpenseStatusDraft {
		return e.invalidState("updated")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown expense category")
	}
	if err := checkMoneyDetails(amount, description); err != nil {
		return err
	}

	e.Category = category
	e.Amount = amount.Round(2)
	e.Description = description
	e.IncurredAt = incurredAt
	e.touch(time.Now())
	return nil
}

// SetRemark replaces the free-form note.
func (e *OperationalExpense) SetRemark(remark string) {
	e.Remark = remark
	e.touch(time.Now())
}

// SetAttachmentKeys replaces the object storage keys of the supporting
// documents.
func (e *OperationalExpense) SetAttachmentKeys(keys string) {
	e.AttachmentKeys = keys
	e.touch(time.Now())
}
