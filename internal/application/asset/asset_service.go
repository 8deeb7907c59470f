// Package asset contains services for the fixed asset register and the
// liability book.
package asset

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/asset"
	"github.com/square15/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AssetService handles fixed asset register operations
type AssetService struct {
	assetRepo asset.AssetRepository
	logger    *zap.Logger
}

// NewAssetService creates a new asset service
func NewAssetService(assetRepo asset.AssetRepository, logger *zap.Logger) *AssetService {
	return &AssetService{
		assetRepo: assetRepo,
		logger:    logger,
	}
}

// AssetResponse is the asset DTO returned to clients
type AssetResponse struct {
	ID                      uuid.UUID        `json:"id"`
	AssetNumber             string           `json:"asset_number"`
	Name                    string           `json:"name"`
	Category                string           `json:"category"`
	Description             string           `json:"description,omitempty"`
	AcquisitionCost         decimal.Decimal  `json:"acquisition_cost"`
	ResidualValue           decimal.Decimal  `json:"residual_value"`
	AcquiredAt              time.Time        `json:"acquired_at"`
	UsefulLifeMonths        int              `json:"useful_life_months"`
	Location                string           `json:"location,omitempty"`
	SerialNumber            string           `json:"serial_number,omitempty"`
	Status                  string           `json:"status"`
	MonthlyDepreciation     decimal.Decimal  `json:"monthly_depreciation"`
	AccumulatedDepreciation decimal.Decimal  `json:"accumulated_depreciation"`
	BookValue               decimal.Decimal  `json:"book_value"`
	DisposedAt              *time.Time       `json:"disposed_at,omitempty"`
	DisposalProceeds        *decimal.Decimal `json:"disposal_proceeds,omitempty"`
	WriteOffReason          string           `json:"write_off_reason,omitempty"`
	CreatedAt               time.Time        `json:"created_at"`
	Version                 int              `json:"version"`
}

// RegisterAssetRequest contains fields for registering an asset
type RegisterAssetRequest struct {
	Name             string          `json:"name" binding:"required"`
	Category         string          `json:"category" binding:"required"`
	Description      string          `json:"description"`
	AcquisitionCost  decimal.Decimal `json:"acquisition_cost" binding:"required"`
	ResidualValue    decimal.Decimal `json:"residual_value"`
	AcquiredAt       time.Time       `json:"acquired_at" binding:"required"`
	UsefulLifeMonths int             `json:"useful_life_months" binding:"required"`
	Location         string          `json:"location"`
	SerialNumber     string          `json:"serial_number"`
}

// UpdateAssetRequest amends descriptive fields of an active asset
type UpdateAssetRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	SerialNumber string `json:"serial_number"`
}

// DisposeAssetRequest records a disposal for proceeds
type DisposeAssetRequest struct {
	Proceeds   decimal.Decimal `json:"proceeds"`
	DisposedAt time.Time       `json:"disposed_at" binding:"required"`
}

// WriteOffAssetRequest removes the asset without proceeds
type WriteOffAssetRequest struct {
	Reason       string    `json:"reason" binding:"required"`
	WrittenOffAt time.Time `json:"written_off_at" binding:"required"`
}

// AssetListFilter defines filtering options for listing assets
type AssetListFilter struct {
	Category     string `form:"category"`
	Status       string `form:"status"`
	AcquiredFrom string `form:"acquired_from"`
	AcquiredTo   string `form:"acquired_to"`
	Search       string `form:"search"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

// AssetRegisterReport is the asset register with derived values as of a date
type AssetRegisterReport struct {
	AsOf                 time.Time       `json:"as_of"`
	Assets               []AssetResponse `json:"assets"`
	TotalCost            decimal.Decimal `json:"total_cost"`
	TotalAccumulatedDepr decimal.Decimal `json:"total_accumulated_depreciation"`
	TotalBookValue       decimal.Decimal `json:"total_book_value"`
}

// RegisterAsset registers a new fixed asset
func (s *AssetService) RegisterAsset(ctx context.Context, tenantID uuid.UUID, req RegisterAssetRequest) (*AssetResponse, error) {
	number, err := s.assetRepo.GenerateAssetNumber(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to generate asset number", zap.Error(err))
		return nil, err
	}

	a, err := asset.NewAsset(
		tenantID, number, req.Name, asset.AssetCategory(req.Category),
		req.AcquisitionCost, req.ResidualValue, req.AcquiredAt, req.UsefulLifeMonths)
	if err != nil {
		return nil, err
	}
	a.Description = req.Description
	a.Location = req.Location
	a.SerialNumber = req.SerialNumber

	if err := s.assetRepo.Save(ctx, a); err != nil {
		s.logger.Error("Failed to save asset", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Asset registered",
		zap.String("asset_number", a.AssetNumber),
		zap.String("name", a.Name),
		zap.String("cost", a.AcquisitionCost.StringFixed(2)))

	return toAssetResponse(a, time.Now()), nil
}

// GetAsset retrieves an asset by ID with values derived as of now
func (s *AssetService) GetAsset(ctx context.Context, tenantID, assetID uuid.UUID) (*AssetResponse, error) {
	a, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Asset not found")
	}
	return toAssetResponse(a, time.Now()), nil
}

// ListAssets lists assets with filtering and pagination
func (s *AssetService) ListAssets(ctx context.Context, tenantID uuid.UUID, filter AssetListFilter) ([]AssetResponse, int64, error) {
	domainFilter, err := buildAssetFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	assets, err := s.assetRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.assetRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	responses := make([]AssetResponse, 0, len(assets))
	for i := range assets {
		responses = append(responses, *toAssetResponse(&assets[i], now))
	}
	return responses, total, nil
}

// UpdateAsset amends descriptive fields of an active asset
func (s *AssetService) UpdateAsset(ctx context.Context, tenantID, assetID uuid.UUID, req UpdateAssetRequest) (*AssetResponse, error) {
	a, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Asset not found")
	}

	if err := a.UpdateDetails(req.Name, req.Description, req.Location, req.SerialNumber); err != nil {
		return nil, err
	}
	if err := s.assetRepo.SaveWithLock(ctx, a); err != nil {
		return nil, err
	}
	return toAssetResponse(a, time.Now()), nil
}

// DisposeAsset records a disposal for proceeds
func (s *AssetService) DisposeAsset(ctx context.Context, tenantID, assetID uuid.UUID, req DisposeAssetRequest) (*AssetResponse, error) {
	a, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Asset not found")
	}

	if err := a.Dispose(req.Proceeds, req.DisposedAt); err != nil {
		return nil, err
	}
	if err := s.assetRepo.SaveWithLock(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("Asset disposed",
		zap.String("asset_number", a.AssetNumber),
		zap.String("proceeds", req.Proceeds.StringFixed(2)))

	return toAssetResponse(a, time.Now()), nil
}

// WriteOffAsset removes the asset from the register without proceeds
func (s *AssetService) WriteOffAsset(ctx context.Context, tenantID, assetID uuid.UUID, req WriteOffAssetRequest) (*AssetResponse, error) {
	a, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, assetID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Asset not found")
	}

	if err := a.WriteOff(req.Reason, req.WrittenOffAt); err != nil {
		return nil, err
	}
	if err := s.assetRepo.SaveWithLock(ctx, a); err != nil {
		return nil, err
	}
	return toAssetResponse(a, time.Now()), nil
}

// DeleteAsset removes an asset that never entered service. Disposed and
// written-off assets stay on the register for the audit trail.
func (s *AssetService) DeleteAsset(ctx context.Context, tenantID, assetID uuid.UUID) error {
	a, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, assetID)
	if err != nil {
		return err
	}
	if a == nil {
		return shared.NewDomainError("NOT_FOUND", "Asset not found")
	}

	if a.Status != asset.AssetStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Disposed and written-off assets cannot be deleted")
	}

	return s.assetRepo.DeleteForTenant(ctx, tenantID, assetID)
}

// BuildRegisterReport builds the asset register with book values as of a date
func (s *AssetService) BuildRegisterReport(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (*AssetRegisterReport, error) {
	assets, err := s.assetRepo.FindActiveForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	report := &AssetRegisterReport{
		AsOf:                 asOf,
		Assets:               make([]AssetResponse, 0, len(assets)),
		TotalCost:            decimal.Zero,
		TotalAccumulatedDepr: decimal.Zero,
		TotalBookValue:       decimal.Zero,
	}
	for i := range assets {
		resp := toAssetResponse(&assets[i], asOf)
		report.Assets = append(report.Assets, *resp)
		report.TotalCost = report.TotalCost.Add(resp.AcquisitionCost)
		report.TotalAccumulatedDepr = report.TotalAccumulatedDepr.Add(resp.AccumulatedDepreciation)
		report.TotalBookValue = report.TotalBookValue.Add(resp.BookValue)
	}
	return report, nil
}

// buildAssetFilter maps the list filter to the domain filter
func buildAssetFilter(filter AssetListFilter) (asset.AssetFilter, error) {
	domainFilter := asset.AssetFilter{
		Filter: shared.Filter{
			Search:   filter.Search,
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
	}

	if filter.Category != "" {
		category := asset.AssetCategory(filter.Category)
		if !category.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid asset category")
		}
		domainFilter.Category = &category
	}
	if filter.Status != "" {
		status := asset.AssetStatus(filter.Status)
		if !status.IsValid() {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid asset status")
		}
		domainFilter.Status = &status
	}
	if filter.AcquiredFrom != "" {
		from, err := time.Parse("2006-01-02", filter.AcquiredFrom)
		if err != nil {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid acquired_from date, expected YYYY-MM-DD")
		}
		domainFilter.AcquiredFrom = &from
	}
	if filter.AcquiredTo != "" {
		to, err := time.Parse("2006-01-02", filter.AcquiredTo)
		if err != nil {
			return domainFilter, shared.NewDomainError("INVALID_FILTER", "Invalid acquired_to date, expected YYYY-MM-DD")
		}
		bound := to.AddDate(0, 0, 1)
		domainFilter.AcquiredTo = &bound
	}

	return domainFilter, nil
}

// toAssetResponse maps an asset aggregate to the response DTO with
// depreciation derived as of the given date
func toAssetResponse(a *asset.Asset, asOf time.Time) *AssetResponse {
	return &AssetResponse{
		ID:                      a.ID,
		AssetNumber:             a.AssetNumber,
		Name:                    a.Name,
		Category:                string(a.Category),
		Description:             a.Description,
		AcquisitionCost:         a.AcquisitionCost,
		ResidualValue:           a.ResidualValue,
		AcquiredAt:              a.AcquiredAt,
		UsefulLifeMonths:        a.UsefulLifeMonths,
		Location:                a.Location,
		SerialNumber:            a.SerialNumber,
		Status:                  a.Status.String(),
		MonthlyDepreciation:     a.MonthlyDepreciation(),
		AccumulatedDepreciation: a.AccumulatedDepreciation(asOf),
		BookValue:               a.BookValue(asOf),
		DisposedAt:              a.DisposedAt,
		DisposalProceeds:        a.DisposalProceeds,
		WriteOffReason:          a.WriteOffReason,
		CreatedAt:               a.CreatedAt,
		Version:                 a.Version,
	}
}
