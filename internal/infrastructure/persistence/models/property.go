package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/property"
	"github.com/square15/backend/internal/domain/shared"
)

// RegistrationModel is the persistence model for the Registration aggregate root.
type RegistrationModel struct {
	TenantAggregateModel
	RegistrationNumber string                      `gorm:"type:varchar(50);not null;uniqueIndex:idx_registration_tenant_number,priority:2"`
	CustomerID         uuid.UUID                   `gorm:"type:uuid;not null;index"`
	CustomerName       string                      `gorm:"type:varchar(200);not null"`
	CustomerEmail      string                      `gorm:"type:varchar(255)"`
	UnitCode           string                      `gorm:"type:varchar(50);not null;index"`
	UnitType           property.UnitType           `gorm:"type:varchar(20);not null"`
	MonthlyAmount      decimal.Decimal             `gorm:"type:decimal(18,4);not null"`
	DepositAmount      decimal.Decimal             `gorm:"type:decimal(18,4);not null;default:0"`
	StartDate          time.Time                   `gorm:"not null;index"`
	EndDate            *time.Time                  `gorm:"index"`
	Status             property.RegistrationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ApprovedAt         *time.Time
	ApprovedBy         *uuid.UUID `gorm:"type:uuid"`
	DeclineReason      string     `gorm:"type:varchar(500)"`
	TerminatedAt       *time.Time
	TerminationReason  string `gorm:"type:varchar(500)"`
	Remark             string `gorm:"type:text"`
}

func (RegistrationModel) TableName() string {
	return "registrations"
}

// ToDomain rebuilds the Registration aggregate from the stored row.
func (m *RegistrationModel) ToDomain() *property.Registration {
	return &property.Registration{
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
		RegistrationNumber: m.RegistrationNumber,
		CustomerID:         m.CustomerID,
		CustomerName:       m.CustomerName,
		CustomerEmail:      m.CustomerEmail,
		UnitCode:           m.UnitCode,
		UnitType:           m.UnitType,
		MonthlyAmount:      m.MonthlyAmount,
		DepositAmount:      m.DepositAmount,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		Status:             m.Status,
		ApprovedAt:         m.ApprovedAt,
		ApprovedBy:         m.ApprovedBy,
		DeclineReason:      m.DeclineReason,
		TerminatedAt:       m.TerminatedAt,
		TerminationReason:  m.TerminationReason,
		Remark:             m.Remark,
	}
}

// FromDomain copies the Registration aggregate into the row for saving.
func (m *RegistrationModel) FromDomain(r *property.Registration) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.RegistrationNumber = r.RegistrationNumber
	m.CustomerID = r.CustomerID
	m.CustomerName = r.CustomerName
	m.CustomerEmail = r.CustomerEmail
	m.UnitCode = r.UnitCode
	m.UnitType = r.UnitType
	m.MonthlyAmount = r.MonthlyAmount
	m.DepositAmount = r.DepositAmount
	m.StartDate = r.StartDate
	m.EndDate = r.EndDate
	m.Status = r.Status
	m.ApprovedAt = r.ApprovedAt
	m.ApprovedBy = r.ApprovedBy
	m.DeclineReason = r.DeclineReason
	m.TerminatedAt = r.TerminatedAt
	m.TerminationReason = r.TerminationReason
	m.Remark = r.Remark
}

// RegistrationModelFromDomain builds a fresh row from the Registration aggregate.
func RegistrationModelFromDomain(r *property.Registration) *RegistrationModel {
	m := &RegistrationModel{}
	m.FromDomain(r)
	return m
}

// MaintenanceRequestModel is the persistence model for the MaintenanceRequest aggregate root.
type MaintenanceRequestModel struct {
	TenantAggregateModel
	RequestNumber  string                       `gorm:"type:varchar(50);not null;uniqueIndex:idx_maintenance_tenant_number,priority:2"`
	CustomerID     uuid.UUID                    `gorm:"type:uuid;not null;index"`
	CustomerName   string                       `gorm:"type:varchar(200);not null"`
	UnitCode       string                       `gorm:"type:varchar(50);not null;index"`
	Title          string                       `gorm:"type:varchar(200);not null"`
	Description    string                       `gorm:"type:text"`
	Priority       property.MaintenancePriority `gorm:"type:varchar(20);not null;default:'MEDIUM';index"`
	Status         property.MaintenanceStatus   `gorm:"type:varchar(20);not null;default:'SUBMITTED';index"`
	AssignedTo     string                       `gorm:"type:varchar(200)"`
	ScheduledFor   *time.Time                   `gorm:"index"`
	StartedAt      *time.Time
	CompletedAt    *time.Time       `gorm:"index"`
	ActualCost     *decimal.Decimal `gorm:"type:decimal(18,4)"`
	CompletionNote string           `gorm:"type:varchar(500)"`
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
	AttachmentKeys string `gorm:"type:text"`
}

func (MaintenanceRequestModel) TableName() string {
	return "maintenance_requests"
}

// ToDomain rebuilds the MaintenanceRequest aggregate from the stored row.
func (m *MaintenanceRequestModel) ToDomain() *property.MaintenanceRequest {
	return &property.MaintenanceRequest{
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
		RequestNumber:  m.RequestNumber,
		CustomerID:     m.CustomerID,
		CustomerName:   m.CustomerName,
		UnitCode:       m.UnitCode,
		Title:          m.Title,
		Description:    m.Description,
		Priority:       m.Priority,
		Status:         m.Status,
		AssignedTo:     m.AssignedTo,
		ScheduledFor:   m.ScheduledFor,
		StartedAt:      m.StartedAt,
		CompletedAt:    m.CompletedAt,
		ActualCost:     m.ActualCost,
		CompletionNote: m.CompletionNote,
		CancelledAt:    m.CancelledAt,
		CancelReason:   m.CancelReason,
		AttachmentKeys: m.AttachmentKeys,
	}
}

// FromDomain copies the MaintenanceRequest aggregate into the row for saving.
func (m *MaintenanceRequestModel) FromDomain(r *property.MaintenanceRequest) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.RequestNumber = r.RequestNumber
	m.CustomerID = r.CustomerID
	m.CustomerName = r.CustomerName
	m.UnitCode = r.UnitCode
	m.Title = r.Title
	m.Description = r.Description
	m.Priority = r.Priority
	m.Status = r.Status
	m.AssignedTo = r.AssignedTo
	m.ScheduledFor = r.ScheduledFor
	m.StartedAt = r.StartedAt
	m.CompletedAt = r.CompletedAt
	m.ActualCost = r.ActualCost
	m.CompletionNote = r.CompletionNote
	m.CancelledAt = r.CancelledAt
	m.CancelReason = r.CancelReason
	m.AttachmentKeys = r.AttachmentKeys
}

// MaintenanceRequestModelFromDomain builds a fresh row from the MaintenanceRequest aggregate.
func MaintenanceRequestModelFromDomain(r *property.MaintenanceRequest) *MaintenanceRequestModel {
	m := &MaintenanceRequestModel{}
	m.FromDomain(r)
	return m
}
