package asset

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openLiability(t *testing.T, tenantID uuid.UUID) *asset.Liability {
	t.Helper()
	liability, err := asset.NewLiability(
		tenantID, "LIA-202601-00001", "Fleet vehicle finance", asset.LiabilityTypeLoan,
		"Wesbank", decimal.NewFromInt(500000),
		time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return liability
}

func TestLiabilityService_RecordLiability(t *testing.T) {
	liabilityRepo := new(MockLiabilityRepository)
	service := NewLiabilityService(liabilityRepo, zap.NewNop())
	tenantID := uuid.New()
	dueDate := time.Date(2031, 1, 15, 0, 0, 0, 0, time.UTC)

	liabilityRepo.On("GenerateLiabilityNumber", mock.Anything, tenantID).Return("LIA-202608-00002", nil)
	liabilityRepo.On("Save", mock.Anything, mock.AnythingOfType("*asset.Liability")).Return(nil)

	resp, err := service.RecordLiability(context.Background(), tenantID, RecordLiabilityRequest{
		Name:            "Office bond",
		Type:            "BOND",
		Creditor:        "Standard Bank",
		PrincipalAmount: decimal.NewFromInt(2400000),
		IncurredAt:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		InterestRate:    decimal.NewFromFloat(0.115),
		DueDate:         &dueDate,
	})

	require.NoError(t, err)
	assert.Equal(t, "LIA-202608-00002", resp.LiabilityNumber)
	assert.Equal(t, "OPEN", resp.Status)
	assert.True(t, resp.Outstanding.Equal(decimal.NewFromInt(2400000)))
	assert.True(t, resp.InterestRate.Equal(decimal.NewFromFloat(0.115)))
	require.NotNil(t, resp.DueDate)
}

func TestLiabilityService_RecordLiability_InvalidType(t *testing.T) {
	liabilityRepo := new(MockLiabilityRepository)
	service := NewLiabilityService(liabilityRepo, zap.NewNop())
	tenantID := uuid.New()

	liabilityRepo.On("GenerateLiabilityNumber", mock.Anything, tenantID).Return("LIA-202608-00003", nil)

	_, err := service.RecordLiability(context.Background(), tenantID, RecordLiabilityRequest{
		Name:            "Petty cash float",
		Type:            "FLOAT",
		Creditor:        "Internal",
		PrincipalAmount: decimal.NewFromInt(1000),
		IncurredAt:      time.Now(),
	})
	assertDomainErrorCode(t, err, "INVALID_TYPE")
}

func TestLiabilityService_RecordRepayment_SettlesAtZero(t *testing.T) {
	liabilityRepo := new(MockLiabilityRepository)
	service := NewLiabilityService(liabilityRepo, zap.NewNop())
	tenantID := uuid.New()

	liability := openLiability(t, tenantID)
	liabilityRepo.On("FindByIDForTenant", mock.Anything, tenantID, liability.ID).Return(liability, nil)
	liabilityRepo.On("SaveWithLock", mock.Anything, liability).Return(nil)

	resp, err := service.RecordRepayment(context.Background(), tenantID, liability.ID, RecordRepaymentRequest{
		Amount: decimal.NewFromInt(200000),
	})
	require.NoError(t, err)
	assert.Equal(t, "OPEN", resp.Status)
	assert.True(t, resp.Outstanding.Equal(decimal.NewFromInt(300000)))

	resp, err = service.RecordRepayment(context.Background(), tenantID, liability.ID, RecordRepaymentRequest{
		Amount: decimal.NewFromInt(300000),
	})
	require.NoError(t, err)
	assert.Equal(t, "SETTLED", resp.Status)
	assert.True(t, resp.Outstanding.IsZero())
	require.NotNil(t, resp.SettledAt)
}

func TestLiabilityService_RecordRepayment_ExceedsOutstanding(t *testing.T) {
	liabilityRepo := new(MockLiabilityRepository)
	service := NewLiabilityService(liabilityRepo, zap.NewNop())
	tenantID := uuid.New()

	liability := openLiability(t, tenantID)
	liabilityRepo.On("FindByIDForTenant", mock.Anything, tenantID, liability.ID).Return(liability, nil)

	_, err := service.RecordRepayment(context.Background(), tenantID, liability.ID, RecordRepaymentRequest{
		Amount: decimal.NewFromInt(600000),
	})
	assertDomainErrorCode(t, err, "INVALID_AMOUNT")
}

func TestLiabilityService_AccrueInterest(t *testing.T) {
	liabilityRepo := new(MockLiabilityRepository)
	service := NewLiabilityService(liabilityRepo, zap.NewNop())
	tenantID := uuid.New()

	liability := openLiability(t, tenantID)
	liabilityRepo.On("FindByIDForTenant", mock.Anything, tenantID, liability.ID).Return(liability, nil)
	liabilityRepo.On("SaveWithLock", mock.Anything, liability).Return(nil)

	resp, err := service.AccrueInterest(context.Background(), tenantID, liability.ID, AccrueInterestRequest{
		Amount: decimal.RequireFromString("4791.67"),
	})

	require.NoError(t, err)
	assert.True(t, resp.Outstanding.Equal(decimal.RequireFromString("504791.67")))
}

func TestLiabilityService_AccrueInterest_SettledRejected(t *testing.T) {
	liabilityRepo := new(MockLiabilityRepository)
	service := NewLiabilityService(liabilityRepo, zap.NewNop())
	tenantID := uuid.New()

	liability := openLiability(t, tenantID)
	require.NoError(t, liability.RecordRepayment(decimal.NewFromInt(500000)))
	liabilityRepo.On("FindByIDForTenant", mock.Anything, tenantID, liability.ID).Return(liability, nil)

	_, err := service.AccrueInterest(context.Background(), tenantID, liability.ID, AccrueInterestRequest{
		Amount: decimal.NewFromInt(100),
	})
	assertDomainErrorCode(t, err, "INVALID_STATE")
}

func TestLiabilityService_DeleteLiability_UntouchedOnly(t *testing.T) {
	liabilityRepo := new(MockLiabilityRepository)
	service := NewLiabilityService(liabilityRepo, zap.NewNop())
	tenantID := uuid.New()

	repaid := openLiability(t, tenantID)
	require.NoError(t, repaid.RecordRepayment(decimal.NewFromInt(100000)))
	liabilityRepo.On("FindByIDForTenant", mock.Anything, tenantID, repaid.ID).Return(repaid, nil)

	err := service.DeleteLiability(context.Background(), tenantID, repaid.ID)
	assertDomainErrorCode(t, err, "INVALID_STATE")

	untouched := openLiability(t, tenantID)
	liabilityRepo.On("FindByIDForTenant", mock.Anything, tenantID, untouched.ID).Return(untouched, nil)
	liabilityRepo.On("DeleteForTenant", mock.Anything, tenantID, untouched.ID).Return(nil)

	require.NoError(t, service.DeleteLiability(context.Background(), tenantID, untouched.ID))
}

func TestLiabilityService_ListLiabilities_InvalidType(t *testing.T) {
	liabilityRepo := new(MockLiabilityRepository)
	service := NewLiabilityService(liabilityRepo, zap.NewNop())

	_, _, err := service.ListLiabilities(context.Background(), uuid.New(), LiabilityListFilter{Type: "OVERDRAFT"})
	assertDomainErrorCode(t, err, "INVALID_FILTER")
}
