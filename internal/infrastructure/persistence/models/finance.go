package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/finance"
	"github.com/square15/backend/internal/domain/shared"
)

// OperationalExpenseModel is the persistence model for the OperationalExpense aggregate root.
type OperationalExpenseModel struct {
	TenantAggregateModel
	ExpenseNumber   string                  `gorm:"type:varchar(50);not null;uniqueIndex:idx_expense_tenant_number,priority:2"`
	Category        finance.ExpenseCategory `gorm:"type:varchar(20);not null;index"`
	Amount          decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Description     string                  `gorm:"type:varchar(500);not null"`
	IncurredAt      time.Time               `gorm:"not null;index"`
	Status          finance.ExpenseStatus   `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	PaymentStatus   finance.PaymentStatus   `gorm:"type:varchar(20);not null;default:'UNPAID'"`
	PaymentMethod   *finance.PaymentMethod  `gorm:"type:varchar(20)"`
	PaidAt          *time.Time              `gorm:"index"`
	Remark          string                  `gorm:"type:text"`
	AttachmentKeys  string                  `gorm:"type:text"`
	SubmittedAt     *time.Time
	SubmittedBy     *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovalRemark  string     `gorm:"type:varchar(500)"`
	RejectedAt      *time.Time
	RejectedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectionReason string     `gorm:"type:varchar(500)"`
	CancelledAt     *time.Time
	CancelledBy     *uuid.UUID `gorm:"type:uuid"`
	CancelReason    string     `gorm:"type:varchar(500)"`
}

func (OperationalExpenseModel) TableName() string {
	return "operational_expenses"
}

// ToDomain rebuilds the OperationalExpense aggregate from the stored row.
func (m *OperationalExpenseModel) ToDomain() *finance.OperationalExpense {
	return &finance.OperationalExpense{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID:  m.TenantID,
			CreatedBy: m.CreatedBy,
		},
		ExpenseNumber:   m.ExpenseNumber,
		Category:        m.Category,
		Amount:          m.Amount,
		Description:     m.Description,
		IncurredAt:      m.IncurredAt,
		Status:          m.Status,
		PaymentStatus:   m.PaymentStatus,
		PaymentMethod:   m.PaymentMethod,
		PaidAt:          m.PaidAt,
		Remark:          m.Remark,
		AttachmentKeys:  m.AttachmentKeys,
		SubmittedAt:     m.SubmittedAt,
		SubmittedBy:     m.SubmittedBy,
		ApprovedAt:      m.ApprovedAt,
		ApprovedBy:      m.ApprovedBy,
		ApprovalRemark:  m.ApprovalRemark,
		RejectedAt:      m.RejectedAt,
		RejectedBy:      m.RejectedBy,
		RejectionReason: m.RejectionReason,
		CancelledAt:     m.CancelledAt,
		CancelledBy:     m.CancelledBy,
		CancelReason:    m.CancelReason,
	}
}

// FromDomain copies the OperationalExpense aggregate into the row for saving.
func (m *OperationalExpenseModel) FromDomain(e *finance.OperationalExpense) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.ExpenseNumber = e.ExpenseNumber
	m.Category = e.Category
	m.Amount = e.Amount
	m.Description = e.Description
	m.IncurredAt = e.IncurredAt
	m.Status = e.Status
	m.PaymentStatus = e.PaymentStatus
	m.PaymentMethod = e.PaymentMethod
	m.PaidAt = e.PaidAt
	m.Remark = e.Remark
	m.AttachmentKeys = e.AttachmentKeys
	m.SubmittedAt = e.SubmittedAt
	m.SubmittedBy = e.SubmittedBy
	m.ApprovedAt = e.ApprovedAt
	m.ApprovedBy = e.ApprovedBy
	m.ApprovalRemark = e.ApprovalRemark
	m.RejectedAt = e.RejectedAt
	m.RejectedBy = e.RejectedBy
	m.RejectionReason = e.RejectionReason
	m.CancelledAt = e.CancelledAt
	m.CancelledBy = e.CancelledBy
	m.CancelReason = e.CancelReason
}

// OperationalExpenseModelFromDomain builds a fresh row from the OperationalExpense aggregate.
func OperationalExpenseModelFromDomain(e *finance.OperationalExpense) *OperationalExpenseModel {
	m := &OperationalExpenseModel{}
	m.FromDomain(e)
	return m
}

// AlternativeRevenueModel is the persistence model for the AlternativeRevenue aggregate root.
type AlternativeRevenueModel struct {
	TenantAggregateModel
	RevenueNumber string                  `gorm:"type:varchar(50);not null;uniqueIndex:idx_revenue_tenant_number,priority:2"`
	Category      finance.RevenueCategory `gorm:"type:varchar(20);not null;index"`
	Amount        decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Description   string                  `gorm:"type:varchar(500);not null"`
	EarnedAt      time.Time               `gorm:"not null;index"`
	Status        finance.RevenueStatus   `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ReceiptStatus finance.ReceiptStatus   `gorm:"type:varchar(20);not null;default:'PENDING'"`
	PaymentMethod *finance.PaymentMethod  `gorm:"type:varchar(20)"`
	ReceivedAt    *time.Time              `gorm:"index"`
	Remark        string                  `gorm:"type:text"`
	ConfirmedAt   *time.Time
	ConfirmedBy   *uuid.UUID `gorm:"type:uuid"`
	CancelledAt   *time.Time
	CancelledBy   *uuid.UUID `gorm:"type:uuid"`
	CancelReason  string     `gorm:"type:varchar(500)"`
}

func (AlternativeRevenueModel) TableName() string {
	return "alternative_revenues"
}

// ToDomain rebuilds the AlternativeRevenue aggregate from the stored row.
func (m *AlternativeRevenueModel) ToDomain() *finance.AlternativeRevenue {
	return &finance.AlternativeRevenue{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID:  m.TenantID,
			CreatedBy: m.CreatedBy,
		},
		RevenueNumber: m.RevenueNumber,
		Category:      m.Category,
		Amount:        m.Amount,
		Description:   m.Description,
		EarnedAt:      m.EarnedAt,
		Status:        m.Status,
		ReceiptStatus: m.ReceiptStatus,
		PaymentMethod: m.PaymentMethod,
		ReceivedAt:    m.ReceivedAt,
		Remark:        m.Remark,
		ConfirmedAt:   m.ConfirmedAt,
		ConfirmedBy:   m.ConfirmedBy,
		CancelledAt:   m.CancelledAt,
		CancelledBy:   m.CancelledBy,
		CancelReason:  m.CancelReason,
	}
}

// FromDomain copies the AlternativeRevenue aggregate into the row for saving.
func (m *AlternativeRevenueModel) FromDomain(r *finance.AlternativeRevenue) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.RevenueNumber = r.RevenueNumber
	m.Category = r.Category
	m.Amount = r.Amount
	m.Description = r.Description
	m.EarnedAt = r.EarnedAt
	m.Status = r.Status
	m.ReceiptStatus = r.ReceiptStatus
	m.PaymentMethod = r.PaymentMethod
	m.ReceivedAt = r.ReceivedAt
	m.Remark = r.Remark
	m.ConfirmedAt = r.ConfirmedAt
	m.ConfirmedBy = r.ConfirmedBy
	m.CancelledAt = r.CancelledAt
	m.CancelledBy = r.CancelledBy
	m.CancelReason = r.CancelReason
}

// AlternativeRevenueModelFromDomain builds a fresh row from the AlternativeRevenue aggregate.
func AlternativeRevenueModelFromDomain(r *finance.AlternativeRevenue) *AlternativeRevenueModel {
	m := &AlternativeRevenueModel{}
	m.FromDomain(r)
	return m
}
