// Package asset holds the fixed asset register and liability book.
package asset

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/domain/tax"
)

// AssetStatus represents the lifecycle state of a fixed asset
type AssetStatus string

const (
	AssetStatusActive     AssetStatus = "ACTIVE"
	AssetStatusDisposed   AssetStatus = "DISPOSED"
	AssetStatusWrittenOff AssetStatus = "WRITTEN_OFF"
)

// IsValid checks if the status is a valid AssetStatus
func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusActive, AssetStatusDisposed, AssetStatusWrittenOff:
		return true
	}
	return false
}

// String returns the string representation of AssetStatus
func (s AssetStatus) String() string {
	return string(s)
}

// AssetCategory classifies assets for reporting
type AssetCategory string

const (
	AssetCategoryProperty  AssetCategory = "PROPERTY"
	AssetCategoryVehicle   AssetCategory = "VEHICLE"
	AssetCategoryEquipment AssetCategory = "EQUIPMENT"
	AssetCategoryFurniture AssetCategory = "FURNITURE"
	AssetCategoryIT        AssetCategory = "IT"
	AssetCategoryOther     AssetCategory = "OTHER"
)

// IsValid checks if the category is valid
func (c AssetCategory) IsValid() bool {
	switch c {
	case AssetCategoryProperty, AssetCategoryVehicle, AssetCategoryEquipment,
		AssetCategoryFurniture, AssetCategoryIT, AssetCategoryOther:
		return true
	}
	return false
}

// Asset is a fixed asset on the register. Book value is derived from the
// acquisition cost on a straight-line schedule, never stored.
type Asset struct {
	shared.TenantAggregateRoot
	AssetNumber      string           `json:"asset_number"`
	Name             string           `json:"name"`
	Category         AssetCategory    `json:"category"`
	Description      string           `json:"description"`
	AcquisitionCost  decimal.Decimal  `json:"acquisition_cost"`
	ResidualValue    decimal.Decimal  `json:"residual_value"`
	AcquiredAt       time.Time        `json:"acquired_at"`
	UsefulLifeMonths int              `json:"useful_life_months"`
	Location         string           `json:"location"`
	SerialNumber     string           `json:"serial_number"`
	Status           AssetStatus      `json:"status"`
	DisposedAt       *time.Time       `json:"disposed_at"`
	DisposalProceeds *decimal.Decimal `json:"disposal_proceeds"`
	WriteOffReason   string           `json:"write_off_reason"`
}

// NewAsset registers a fixed asset
func NewAsset(tenantID uuid.UUID, assetNumber, name string, category AssetCategory, cost, residual decimal.Decimal, acquiredAt time.Time, usefulLifeMonths int) (*Asset, error) {
	if assetNumber == "" {
		return nil, shared.NewDomainError("INVALID_ASSET_NUMBER", "Asset number cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Asset name cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Asset category is not valid")
	}
	if cost.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_COST", "Acquisition cost must be positive")
	}
	if residual.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RESIDUAL", "Residual value cannot be negative")
	}
	if residual.GreaterThan(cost) {
		return nil, shared.NewDomainError("INVALID_RESIDUAL", "Residual value cannot exceed acquisition cost")
	}
	if usefulLifeMonths <= 0 {
		return nil, shared.NewDomainError("INVALID_USEFUL_LIFE", "Useful life must be positive")
	}

	asset := &Asset{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AssetNumber:         assetNumber,
		Name:                name,
		Category:            category,
		AcquisitionCost:     cost.Round(2),
		ResidualValue:       residual.Round(2),
		AcquiredAt:          acquiredAt,
		UsefulLifeMonths:    usefulLifeMonths,
		Status:              AssetStatusActive,
	}

	asset.AddDomainEvent(NewAssetRegisteredEvent(asset))

	return asset, nil
}

// UpdateDetails updates descriptive fields; active assets only
func (a *Asset) UpdateDetails(name, description, location, serialNumber string) error {
	if a.Status != AssetStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Can only update an active asset")
	}
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Asset name cannot be empty")
	}
	a.Name = name
	a.Description = description
	a.Location = location
	a.SerialNumber = serialNumber
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Dispose sells or scraps the asset for proceeds
func (a *Asset) Dispose(proceeds decimal.Decimal, disposedAt time.Time) error {
	if a.Status != AssetStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot dispose asset in %s status", a.Status))
	}
	if proceeds.IsNegative() {
		return shared.NewDomainError("INVALID_PROCEEDS", "Disposal proceeds cannot be negative")
	}
	if disposedAt.Before(a.AcquiredAt) {
		return shared.NewDomainError("INVALID_DATE", "Disposal date cannot precede acquisition")
	}

	rounded := proceeds.Round(2)
	a.Status = AssetStatusDisposed
	a.DisposedAt = &disposedAt
	a.DisposalProceeds = &rounded
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAssetDisposedEvent(a))

	return nil
}

// WriteOff removes the asset from the register without proceeds
func (a *Asset) WriteOff(reason string, writtenOffAt time.Time) error {
	if a.Status != AssetStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot write off asset in %s status", a.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Write-off reason is required")
	}

	a.Status = AssetStatusWrittenOff
	a.DisposedAt = &writtenOffAt
	a.WriteOffReason = reason
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAssetWrittenOffEvent(a))

	return nil
}

// MonthlyDepreciation returns the straight-line monthly charge
func (a *Asset) MonthlyDepreciation() decimal.Decimal {
	return tax.StraightLineMonthlyDepreciation(a.AcquisitionCost, a.ResidualValue, a.UsefulLifeMonths)
}

// AccumulatedDepreciation returns total depreciation up to asOf
func (a *Asset) AccumulatedDepreciation(asOf time.Time) decimal.Decimal {
	end := asOf
	if a.DisposedAt != nil && a.DisposedAt.Before(asOf) {
		end = *a.DisposedAt
	}
	return tax.AccumulatedDepreciation(a.AcquisitionCost, a.ResidualValue, a.AcquiredAt, a.UsefulLifeMonths, end)
}

// BookValue returns the carrying value as of a date
func (a *Asset) BookValue(asOf time.Time) decimal.Decimal {
	return a.AcquisitionCost.Sub(a.AccumulatedDepreciation(asOf))
}
