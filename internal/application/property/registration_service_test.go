package property

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/property"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func pendingRegistration(t *testing.T, tenantID uuid.UUID) *property.Registration {
	t.Helper()
	registration, err := property.NewRegistration(
		tenantID, "REG-202608-00001", uuid.New(),
		"Thandi Nkosi", "thandi@example.com",
		"A-101", property.UnitTypeOffice,
		decimal.NewFromInt(8500), decimal.NewFromInt(17000),
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return registration
}

func approvedRegistration(t *testing.T, tenantID uuid.UUID) *property.Registration {
	t.Helper()
	registration := pendingRegistration(t, tenantID)
	require.NoError(t, registration.Approve(uuid.New()))
	return registration
}

func TestRegistrationService_CreateRegistration(t *testing.T) {
	registrationRepo := new(MockRegistrationRepository)
	service := NewRegistrationService(registrationRepo, zap.NewNop())
	tenantID := uuid.New()

	registrationRepo.On("FindActiveByUnit", mock.Anything, tenantID, "A-101").Return(nil, nil)
	registrationRepo.On("GenerateRegistrationNumber", mock.Anything, tenantID).Return("REG-202608-00004", nil)
	registrationRepo.On("Save", mock.Anything, mock.AnythingOfType("*property.Registration")).Return(nil)

	resp, err := service.CreateRegistration(context.Background(), tenantID, CreateRegistrationRequest{
		CustomerID:    uuid.New(),
		CustomerName:  "Thandi Nkosi",
		CustomerEmail: "thandi@example.com",
		UnitCode:      "A-101",
		UnitType:      "OFFICE",
		MonthlyAmount: decimal.NewFromInt(8500),
		DepositAmount: decimal.NewFromInt(17000),
		StartDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, "REG-202608-00004", resp.RegistrationNumber)
	assert.Equal(t, "PENDING", resp.Status)
	assert.True(t, resp.MonthlyAmount.Equal(decimal.NewFromInt(8500)))
}

func TestRegistrationService_CreateRegistration_UnitOccupied(t *testing.T) {
	registrationRepo := new(MockRegistrationRepository)
	service := NewRegistrationService(registrationRepo, zap.NewNop())
	tenantID := uuid.New()

	existing := approvedRegistration(t, tenantID)
	registrationRepo.On("FindActiveByUnit", mock.Anything, tenantID, "A-101").Return(existing, nil)

	_, err := service.CreateRegistration(context.Background(), tenantID, CreateRegistrationRequest{
		CustomerID:    uuid.New(),
		CustomerName:  "Sipho Dlamini",
		UnitCode:      "A-101",
		UnitType:      "OFFICE",
		MonthlyAmount: decimal.NewFromInt(9000),
		StartDate:     time.Now(),
	})

	assertDomainErrorCode(t, err, "UNIT_OCCUPIED")
	registrationRepo.AssertNotCalled(t, "Save")
}

func TestRegistrationService_CreateRegistration_InvalidUnitType(t *testing.T) {
	registrationRepo := new(MockRegistrationRepository)
	service := NewRegistrationService(registrationRepo, zap.NewNop())

	_, err := service.CreateRegistration(context.Background(), uuid.New(), CreateRegistrationRequest{
		CustomerID:    uuid.New(),
		CustomerName:  "Thandi Nkosi",
		UnitCode:      "A-101",
		UnitType:      "HANGAR",
		MonthlyAmount: decimal.NewFromInt(8500),
		StartDate:     time.Now(),
	})

	assertDomainErrorCode(t, err, "INVALID_UNIT")
}

func TestRegistrationService_ApproveRegistration(t *testing.T) {
	registrationRepo := new(MockRegistrationRepository)
	service := NewRegistrationService(registrationRepo, zap.NewNop())
	tenantID := uuid.New()
	approverID := uuid.New()

	registration := pendingRegistration(t, tenantID)
	registrationRepo.On("FindByIDForTenant", mock.Anything, tenantID, registration.ID).Return(registration, nil)
	registrationRepo.On("SaveWithLock", mock.Anything, registration).Return(nil)

	resp, err := service.ApproveRegistration(context.Background(), tenantID, registration.ID, ApproveRegistrationRequest{
		ApproverID: approverID,
	})

	require.NoError(t, err)
	assert.Equal(t, "APPROVED", resp.Status)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, approverID, *resp.ApprovedBy)
}

func TestRegistrationService_DeclineApproved_Rejected(t *testing.T) {
	registrationRepo := new(MockRegistrationRepository)
	service := NewRegistrationService(registrationRepo, zap.NewNop())
	tenantID := uuid.New()

	registration := approvedRegistration(t, tenantID)
	registrationRepo.On("FindByIDForTenant", mock.Anything, tenantID, registration.ID).Return(registration, nil)

	_, err := service.DeclineRegistration(context.Background(), tenantID, registration.ID, DeclineRegistrationRequest{
		Reason: "Credit check failed",
	})
	assertDomainErrorCode(t, err, "INVALID_STATE")
}

func TestRegistrationService_TerminateRegistration(t *testing.T) {
	registrationRepo := new(MockRegistrationRepository)
	service := NewRegistrationService(registrationRepo, zap.NewNop())
	tenantID := uuid.New()

	registration := approvedRegistration(t, tenantID)
	registrationRepo.On("FindByIDForTenant", mock.Anything, tenantID, registration.ID).Return(registration, nil)
	registrationRepo.On("SaveWithLock", mock.Anything, registration).Return(nil)

	endDate := registration.StartDate.AddDate(1, 0, 0)
	resp, err := service.TerminateRegistration(context.Background(), tenantID, registration.ID, TerminateRegistrationRequest{
		Reason:  "Customer relocated",
		EndDate: endDate,
	})

	require.NoError(t, err)
	assert.Equal(t, "TERMINATED", resp.Status)
	require.NotNil(t, resp.EndDate)
	assert.True(t, resp.EndDate.Equal(endDate))
}

func TestRegistrationService_AmendBilling(t *testing.T) {
	registrationRepo := new(MockRegistrationRepository)
	service := NewRegistrationService(registrationRepo, zap.NewNop())
	tenantID := uuid.New()

	registration := approvedRegistration(t, tenantID)
	registrationRepo.On("FindByIDForTenant", mock.Anything, tenantID, registration.ID).Return(registration, nil)
	registrationRepo.On("SaveWithLock", mock.Anything, registration).Return(nil)

	resp, err := service.AmendRegistrationBilling(context.Background(), tenantID, registration.ID, AmendRegistrationBillingRequest{
		MonthlyAmount: decimal.NewFromInt(9250),
	})

	require.NoError(t, err)
	assert.True(t, resp.MonthlyAmount.Equal(decimal.NewFromInt(9250)))
}

func TestRegistrationService_DeleteRegistration_ApprovedRejected(t *testing.T) {
	registrationRepo := new(MockRegistrationRepository)
	service := NewRegistrationService(registrationRepo, zap.NewNop())
	tenantID := uuid.New()

	registration := approvedRegistration(t, tenantID)
	registrationRepo.On("FindByIDForTenant", mock.Anything, tenantID, registration.ID).Return(registration, nil)

	err := service.DeleteRegistration(context.Background(), tenantID, registration.ID)
	assertDomainErrorCode(t, err, "INVALID_STATE")
	registrationRepo.AssertNotCalled(t, "DeleteForTenant")
}

func TestRegistrationService_ListRegistrations_FilterParsing(t *testing.T) {
	registrationRepo := new(MockRegistrationRepository)
	service := NewRegistrationService(registrationRepo, zap.NewNop())
	tenantID := uuid.New()

	var captured property.RegistrationFilter
	registrationRepo.On("FindAllForTenant", mock.Anything, tenantID, mock.AnythingOfType("property.RegistrationFilter")).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(property.RegistrationFilter)
		}).Return([]property.Registration{}, nil)
	registrationRepo.On("CountForTenant", mock.Anything, tenantID, mock.AnythingOfType("property.RegistrationFilter")).
		Return(int64(0), nil)

	_, _, err := service.ListRegistrations(context.Background(), tenantID, RegistrationListFilter{
		UnitType: "RETAIL",
		Status:   "APPROVED",
		UnitCode: "B-12",
		Page:     2,
		PageSize: 25,
	})

	require.NoError(t, err)
	require.NotNil(t, captured.UnitType)
	assert.Equal(t, property.UnitTypeRetail, *captured.UnitType)
	require.NotNil(t, captured.Status)
	assert.Equal(t, property.RegistrationStatusApproved, *captured.Status)
	assert.Equal(t, "B-12", captured.UnitCode)
	assert.Equal(t, 2, captured.Page)
}

func TestRegistrationService_ListRegistrations_InvalidStatus(t *testing.T) {
	service := NewRegistrationService(new(MockRegistrationRepository), zap.NewNop())

	_, _, err := service.ListRegistrations(context.Background(), uuid.New(), RegistrationListFilter{Status: "LIVE"})
	assertDomainErrorCode(t, err, "INVALID_FILTER")
}
