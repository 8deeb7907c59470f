package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// RevenueCategory classifies income earned outside customer billing.
type RevenueCategory string

const (
	RevenueCategoryParking       RevenueCategory = "PARKING"        // Parking bay income
	RevenueCategorySignage       RevenueCategory = "SIGNAGE"        // Billboard and signage rental
	RevenueCategoryVending       RevenueCategory = "VENDING"        // Vending machine commissions
	RevenueCategoryInterest      RevenueCategory = "INTEREST"       // Interest earned
	RevenueCategoryAssetDisposal RevenueCategory = "ASSET_DISPOSAL" // Proceeds from asset sales
	RevenueCategoryRecoveries    RevenueCategory = "RECOVERIES"     // Utility and cost recoveries
	RevenueCategoryOther         RevenueCategory = "OTHER"
)

// IsValid checks the category against the known set.
func (c RevenueCategory) IsValid() bool {
	switch c {
	case RevenueCategoryParking, RevenueCategorySignage, RevenueCategoryVending,
		RevenueCategoryInterest, RevenueCategoryAssetDisposal, RevenueCategoryRecoveries,
		RevenueCategoryOther:
		return true
	}
	return false
}

func (c RevenueCategory) String() string { return string(c) }

// RevenueStatus tracks a revenue record from DRAFT to CONFIRMED, with
// CANCELLED reachable only while still a draft.
type RevenueStatus string

const (
	RevenueStatusDraft     RevenueStatus = "DRAFT"
	RevenueStatusConfirmed RevenueStatus = "CONFIRMED"
	RevenueStatusCancelled RevenueStatus = "CANCELLED"
)

// IsValid checks the status against the known set.
func (s RevenueStatus) IsValid() bool {
	switch s {
	case RevenueStatusDraft, RevenueStatusConfirmed, RevenueStatusCancelled:
		return true
	}
	return false
}

func (s RevenueStatus) String() string { return string(s) }

// IsTerminal reports whether the revenue record can no longer change status.
func (s RevenueStatus) IsTerminal() bool {
	return s == RevenueStatusConfirmed || s == RevenueStatusCancelled
}

// ReceiptStatus records whether confirmed revenue has landed in the bank.
type ReceiptStatus string

const (
	ReceiptStatusPending  ReceiptStatus = "PENDING"
	ReceiptStatusReceived ReceiptStatus = "RECEIVED"
)

// AlternativeRevenue is the aggregate root for non-core income such as
// parking, signage and vending commissions.
type AlternativeRevenue struct {
	shared.TenantAggregateRoot
	RevenueNumber string          `json:"revenue_number"`
	Category      RevenueCategory `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	EarnedAt      time.Time       `json:"earned_at"`
	Status        RevenueStatus   `json:"status"`
	ReceiptStatus ReceiptStatus   `json:"receipt_status"`
	PaymentMethod *PaymentMethod  `json:"payment_method"`
	ReceivedAt    *time.Time      `json:"received_at"`
	Remark        string          `json:"remark"`
	ConfirmedAt   *time.Time      `json:"confirmed_at"`
	ConfirmedBy   *uuid.UUID      `json:"confirmed_by"`
	CancelledAt   *time.Time      `json:"cancelled_at"`
	CancelledBy   *uuid.UUID      `json:"cancelled_by"`
	CancelReason  string          `json:"cancel_reason"`
}

// NewAlternativeRevenue creates a draft revenue record. The number comes
// from the repository's per-tenant sequence.
func NewAlternativeRevenue(
	tenantID uuid.UUID,
	revenueNumber string,
	category RevenueCategory,
	amount decimal.Decimal,
	description string,
	earnedAt time.Time,
) (*AlternativeRevenue, error) {
	switch {
	case revenueNumber == "":
		return nil, shared.NewDomainError("INVALID_REVENUE_NUMBER", "Revenue number is required")
	case len(revenueNumber) > maxNumberLen:
		return nil, shared.NewDomainError("INVALID_REVENUE_NUMBER",
			fmt.Sprintf("Revenue number is limited to %d characters", maxNumberLen))
	case !category.IsValid():
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown revenue category")
	}
	if err := checkMoneyDetails(amount, description); err != nil {
		return nil, err
	}

	r := &AlternativeRevenue{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RevenueNumber:       revenueNumber,
		Category:            category,
		Amount:              amount.Round(2),
		Description:         description,
		EarnedAt:            earnedAt,
		Status:              RevenueStatusDraft,
		ReceiptStatus:       ReceiptStatusPending,
	}
	r.AddDomainEvent(NewAlternativeRevenueCreatedEvent(r))
	return r, nil
}

func (r *AlternativeRevenue) invalidState(verb string) error {
	return shared.NewDomainError("INVALID_STATE",
		fmt.Sprintf("A revenue record in %s status cannot be %s", r.Status, verb))
}

// touch bumps the optimistic-lock version and the update timestamp.
func (r *AlternativeRevenue) touch(now time.Time) {
	r.UpdatedAt = now
	r.IncrementVersion()
}

// Confirm fixes the record so it counts towards the income statement.
func (r *AlternativeRevenue) Confirm(confirmedBy uuid.UUID) error {
	if r.Status != RevenueStatusDraft {
		return r.invalidState("confirmed")
	}
	if err := requireActor("Confirmer", confirmedBy); err != nil {
		return err
	}

	now := time.Now()
	r.Status = RevenueStatusConfirmed
	r.ConfirmedAt = &now
	r.ConfirmedBy = &confirmedBy
	r.touch(now)

	r.AddDomainEvent(NewAlternativeRevenueConfirmedEvent(r))
	return nil
}

// Cancel withdraws a draft record.
func (r *AlternativeRevenue) Cancel(cancelledBy uuid.UUID, reason string) error {
	if r.Status != RevenueStatusDraft {
		return r.invalidState("cancelled")
	}
	if err := requireActor("Canceller", cancelledBy); err != nil {
		return err
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "A cancellation reason is required")
	}

	now := time.Now()
	r.Status = RevenueStatusCancelled
	r.CancelledAt = &now
	r.CancelledBy = &cancelledBy
	r.CancelReason = reason
	r.touch(now)

	r.AddDomainEvent(NewAlternativeRevenueCancelledEvent(r))
	return nil
}

// MarkAsReceived records the money landing in the bank.
func (r *AlternativeRevenue) MarkAsReceived(paymentMethod PaymentMethod) error {
	if r.Status != RevenueStatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Only confirmed revenue can be marked as received")
	}
	if r.ReceiptStatus == ReceiptStatusReceived {
		return shared.NewDomainError("ALREADY_RECEIVED", "Revenue has already been received")
	}
	if !paymentMethod.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	now := time.Now()
	r.ReceiptStatus = ReceiptStatusReceived
	r.PaymentMethod = &paymentMethod
	r.ReceivedAt = &now
	r.touch(now)

	r.AddDomainEvent(NewAlternativeRevenueReceivedEvent(r))
	return nil
}

// Update replaces the editable details. Only drafts may change.
func (r *AlternativeRevenue) Update(category RevenueCategory, amount decimal.Decimal, description string, earnedAt time.Time) error {
	if r.Status != RevenueStatusDraft {
		return r.invalidState("updated")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown revenue category")
	}
	if err := checkMoneyDetails(amount, description); err != nil {
		return err
	}

	r.Category = category
	r.Amount = amount.Round(2)
	r.Description = description
	r.EarnedAt = earnedAt
	r.touch(time.Now())
	return nil
}

// SetRemark replaces the free-form note.
func (r *AlternativeRevenue) SetRemark(remark string) {
	r.Remark = remark
	r.touch(time.Now())
}
