package asset

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/asset"
	"github.com/stretchr/testify/mock"
)

// MockAssetRepository is a mock implementation of asset.AssetRepository
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*asset.Asset, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindByAssetNumber(ctx context.Context, tenantID uuid.UUID, assetNumber string) (*asset.Asset, error) {
	args := m.Called(ctx, tenantID, assetNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter asset.AssetFilter) ([]asset.Asset, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]asset.Asset, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindDepreciableForTenant(ctx context.Context, tenantID uuid.UUID, after time.Time) ([]asset.Asset, error) {
	args := m.Called(ctx, tenantID, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) Save(ctx context.Context, a *asset.Asset) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssetRepository) SaveWithLock(ctx context.Context, a *asset.Asset) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssetRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockAssetRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter asset.AssetFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssetRepository) SumAcquisitionCost(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAssetRepository) GenerateAssetNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockLiabilityRepository is a mock implementation of asset.LiabilityRepository
type MockLiabilityRepository struct {
	mock.Mock
}

func (m *MockLiabilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*asset.Liability, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Liability), args.Error(1)
}

func (m *MockLiabilityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*asset.Liability, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Liability), args.Error(1)
}

func (m *MockLiabilityRepository) FindByLiabilityNumber(ctx context.Context, tenantID uuid.UUID, liabilityNumber string) (*asset.Liability, error) {
	args := m.Called(ctx, tenantID, liabilityNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Liability), args.Error(1)
}

func (m *MockLiabilityRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter asset.LiabilityFilter) ([]asset.Liability, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]asset.Liability), args.Error(1)
}

func (m *MockLiabilityRepository) Save(ctx context.Context, liability *asset.Liability) error {
	args := m.Called(ctx, liability)
	return args.Error(0)
}

func (m *MockLiabilityRepository) SaveWithLock(ctx context.Context, liability *asset.Liability) error {
	args := m.Called(ctx, liability)
	return args.Error(0)
}

func (m *MockLiabilityRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockLiabilityRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter asset.LiabilityFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLiabilityRepository) SumOutstanding(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLiabilityRepository) GenerateLiabilityNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}
