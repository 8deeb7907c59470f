package asset

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// AssetRegisteredEvent is raised when an asset joins the register
type AssetRegisteredEvent struct {
	shared.BaseDomainEvent
	AssetID     uuid.UUID       `json:"asset_id"`
	AssetNumber string          `json:"asset_number"`
	Category    AssetCategory   `json:"category"`
	Cost        decimal.Decimal `json:"cost"`
}

// EventType returns the event type name
func (e *AssetRegisteredEvent) EventType() string {
	return "AssetRegistered"
}

// NewAssetRegisteredEvent creates a new AssetRegisteredEvent
func NewAssetRegisteredEvent(asset *Asset) *AssetRegisteredEvent {
	return &AssetRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AssetRegistered", "Asset", asset.ID, asset.TenantID),
		AssetID:         asset.ID,
		AssetNumber:     asset.AssetNumber,
		Category:        asset.Category,
		Cost:            asset.AcquisitionCost,
	}
}

// AssetDisposedEvent is raised when an asset is sold or scrapped
type AssetDisposedEvent struct {
	shared.BaseDomainEvent
	AssetID     uuid.UUID       `json:"asset_id"`
	AssetNumber string          `json:"asset_number"`
	Proceeds    decimal.Decimal `json:"proceeds"`
}

// EventType returns the event type name
func (e *AssetDisposedEvent) EventType() string {
	return "AssetDisposed"
}

// NewAssetDisposedEvent creates a new AssetDisposedEvent
func NewAssetDisposedEvent(asset *Asset) *AssetDisposedEvent {
	proceeds := decimal.Zero
	if asset.DisposalProceeds != nil {
		proceeds = *asset.DisposalProceeds
	}
	return &AssetDisposedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AssetDisposed", "Asset", asset.ID, asset.TenantID),
		AssetID:         asset.ID,
		AssetNumber:     asset.AssetNumber,
		Proceeds:        proceeds,
	}
}

// AssetWrittenOffEvent is raised when an asset is written off
type AssetWrittenOffEvent struct {
	shared.BaseDomainEvent
	AssetID     uuid.UUID `json:"asset_id"`
	AssetNumber string    `json:"asset_number"`
	Reason      string    `json:"reason"`
}

// EventType returns the event type name
func (e *AssetWrittenOffEvent) EventType() string {
	return "AssetWrittenOff"
}

// NewAssetWrittenOffEvent creates a new AssetWrittenOffEvent
func NewAssetWrittenOffEvent(asset *Asset) *AssetWrittenOffEvent {
	return &AssetWrittenOffEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("AssetWrittenOff", "Asset", asset.ID, asset.TenantID),
		AssetID:         asset.ID,
		AssetNumber:     asset.AssetNumber,
		Reason:          asset.WriteOffReason,
	}
}
