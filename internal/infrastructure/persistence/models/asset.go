package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/asset"
	"github.com/square15/backend/internal/domain/shared"
)

// AssetModel is the persistence model for the Asset aggregate root.
type AssetModel struct {
	TenantAggregateModel
	AssetNumber      string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_asset_tenant_number,priority:2"`
	Name             string              `gorm:"type:varchar(200);not null"`
	Category         asset.AssetCategory `gorm:"type:varchar(20);not null;index"`
	Description      string              `gorm:"type:text"`
	AcquisitionCost  decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ResidualValue    decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	AcquiredAt       time.Time           `gorm:"not null;index"`
	UsefulLifeMonths int                 `gorm:"not null"`
	Location         string              `gorm:"type:varchar(200)"`
	SerialNumber     string              `gorm:"type:varchar(100)"`
	Status           asset.AssetStatus   `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	DisposedAt       *time.Time
	DisposalProceeds *decimal.Decimal `gorm:"type:decimal(18,4)"`
	WriteOffReason   string           `gorm:"type:varchar(500)"`
}

func (AssetModel) TableName() string {
	return "assets"
}

// ToDomain rebuilds the Asset aggregate from the stored row.
func (m *AssetModel) ToDomain() *asset.Asset {
	return &asset.Asset{
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
		AssetNumber:      m.AssetNumber,
		Name:             m.Name,
		Category:         m.Category,
		Description:      m.Description,
		AcquisitionCost:  m.AcquisitionCost,
		ResidualValue:    m.ResidualValue,
		AcquiredAt:       m.AcquiredAt,
		UsefulLifeMonths: m.UsefulLifeMonths,
		Location:         m.Location,
		SerialNumber:     m.SerialNumber,
		Status:           m.Status,
		DisposedAt:       m.DisposedAt,
		DisposalProceeds: m.DisposalProceeds,
		WriteOffReason:   m.WriteOffReason,
	}
}

// FromDomain copies the Asset aggregate into the row for saving.
func (m *AssetModel) FromDomain(a *asset.Asset) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.AssetNumber = a.AssetNumber
	m.Name = a.Name
	m.Category = a.Category
	m.Description = a.Description
	m.AcquisitionCost = a.AcquisitionCost
	m.ResidualValue = a.ResidualValue
	m.AcquiredAt = a.AcquiredAt
	m.UsefulLifeMonths = a.UsefulLifeMonths
	m.Location = a.Location
	m.SerialNumber = a.SerialNumber
	m.Status = a.Status
	m.DisposedAt = a.DisposedAt
	m.DisposalProceeds = a.DisposalProceeds
	m.WriteOffReason = a.WriteOffReason
}

// AssetModelFromDomain builds a fresh row from the Asset aggregate.
func AssetModelFromDomain(a *asset.Asset) *AssetModel {
	m := &AssetModel{}
	m.FromDomain(a)
	return m
}

// LiabilityModel is the persistence model for the Liability aggregate root.
type LiabilityModel struct {
	TenantAggregateModel
	LiabilityNumber string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_liability_tenant_number,priority:2"`
	Name            string                `gorm:"type:varchar(200);not null"`
	Type            asset.LiabilityType   `gorm:"type:varchar(20);not null;index"`
	Creditor        string                `gorm:"type:varchar(200)"`
	PrincipalAmount decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Outstanding     decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	InterestRate    decimal.Decimal       `gorm:"type:decimal(8,6);not null;default:0"`
	IncurredAt      time.Time             `gorm:"not null;index"`
	DueDate         *time.Time            `gorm:"index"`
	Status          asset.LiabilityStatus `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	SettledAt       *time.Time
}

func (LiabilityModel) TableName() string {
	return "liabilities"
}

// ToDomain rebuilds the Liability aggregate from the stored row.
func (m *LiabilityModel) ToDomain() *asset.Liability {
	return &asset.Liability{
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
		LiabilityNumber: m.LiabilityNumber,
		Name:            m.Name,
		Type:            m.Type,
		Creditor:        m.Creditor,
		PrincipalAmount: m.PrincipalAmount,
		Outstanding:     m.Outstanding,
		InterestRate:    m.InterestRate,
		IncurredAt:      m.IncurredAt,
		DueDate:         m.DueDate,
		Status:          m.Status,
		SettledAt:       m.SettledAt,
	}
}

// FromDomain copies the Liability aggregate into the row for saving.
func (m *LiabilityModel) FromDomain(l *asset.Liability) {
	m.FromDomainTenantAggregateRoot(l.TenantAggregateRoot)
	m.LiabilityNumber = l.LiabilityNumber
	m.Name = l.Name
	m.Type = l.Type
	m.Creditor = l.Creditor
	m.PrincipalAmount = l.PrincipalAmount
	m.Outstanding = l.Outstanding
	m.InterestRate = l.InterestRate
	m.IncurredAt = l.IncurredAt
	m.DueDate = l.DueDate
	m.Status = l.Status
	m.SettledAt = l.SettledAt
}

// LiabilityModelFromDomain builds a fresh row from the Liability aggregate.
func LiabilityModelFromDomain(l *asset.Liability) *LiabilityModel {
	m := &LiabilityModel{}
	m.FromDomain(l)
	return m
}
