package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	propertyapp "github.com/square15/backend/internal/application/property"
	"github.com/square15/backend/internal/domain/billing"
	"github.com/square15/backend/internal/domain/property"
	"github.com/square15/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedApprovedRegistration(t *testing.T, repo *persistence.GormRegistrationRepository, tenantID uuid.UUID, unitCode string, monthlyAmount int64, startDate time.Time) *property.Registration {
	t.Helper()
	ctx := context.Background()

	number, err := repo.GenerateRegistrationNumber(ctx, tenantID)
	require.NoError(t, err)

	reg, err := property.NewRegistration(
		tenantID, number, uuid.New(),
		fmt.Sprintf("Tenant of %s", unitCode), fmt.Sprintf("%s@example.com", unitCode),
		unitCode, property.UnitTypeOffice,
		decimal.NewFromInt(monthlyAmount), decimal.NewFromInt(monthlyAmount),
		startDate,
	)
	require.NoError(t, err)
	require.NoError(t, reg.Approve(uuid.New()))
	require.NoError(t, repo.Save(ctx, reg))
	return reg
}

func TestBillingRun_InvoicesActiveRegistrations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	registrationRepo := persistence.NewGormRegistrationRepository(tdb.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(tdb.DB)
	service := propertyapp.NewBillingRunService(registrationRepo, invoiceRepo, zap.NewNop())
	ctx := context.Background()

	tenantID := uuid.New()
	tdb.SeedRandomTenant(tenantID)

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	regA := seedApprovedRegistration(t, registrationRepo, tenantID, "a101", 5000, monthStart.AddDate(0, -3, 0))
	regB := seedApprovedRegistration(t, registrationRepo, tenantID, "b202", 7500, monthStart)

	// Starts next month, so this period must not bill it
	seedApprovedRegistration(t, registrationRepo, tenantID, "c303", 9000, monthStart.AddDate(0, 1, 0))

	result, err := service.RunMonthlyBilling(ctx, tenantID, monthStart)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Invoiced)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Failed)

	for _, reg := range []*property.Registration{regA, regB} {
		invoices, err := invoiceRepo.FindByCustomer(ctx, tenantID, reg.CustomerID, billing.InvoiceFilter{})
		require.NoError(t, err)
		require.Len(t, invoices, 1)
		assert.Equal(t, billing.InvoiceStatusSent, invoices[0].Status)
		assert.True(t, invoices[0].Subtotal.Equal(reg.MonthlyAmount), "got %s", invoices[0].Subtotal)
		assert.Contains(t, invoices[0].Remark, reg.RegistrationNumber)
	}
}

func TestBillingRun_RerunSkipsBilledRegistrations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	registrationRepo := persistence.NewGormRegistrationRepository(tdb.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(tdb.DB)
	service := propertyapp.NewBillingRunService(registrationRepo, invoiceRepo, zap.NewNop())
	ctx := context.Background()

	tenantID := uuid.New()
	tdb.SeedRandomTenant(tenantID)

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	reg := seedApprovedRegistration(t, registrationRepo, tenantID, "a101", 5000, monthStart)

	first, err := service.RunMonthlyBilling(ctx, tenantID, monthStart)
	require.NoError(t, err)
	require.Equal(t, 1, first.Invoiced)

	second, err := service.RunMonthlyBilling(ctx, tenantID, monthStart)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Invoiced)
	assert.Equal(t, 1, second.Skipped)

	invoices, err := invoiceRepo.FindByCustomer(ctx, tenantID, reg.CustomerID, billing.InvoiceFilter{})
	require.NoError(t, err)
	assert.Len(t, invoices, 1)
}

func TestBillingRun_NewRegistrationPicksUpOnRerun(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewSharedTestDB(t)
	registrationRepo := persistence.NewGormRegistrationRepository(tdb.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(tdb.DB)
	service := propertyapp.NewBillingRunService(registrationRepo, invoiceRepo, zap.NewNop())
	ctx := context.Background()

	tenantID := uuid.New()
	tdb.SeedRandomTenant(tenantID)

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	seedApprovedRegistration(t, registrationRepo, tenantID, "a101", 5000, monthStart)

	first, err := service.RunMonthlyBilling(ctx, tenantID, monthStart)
	require.NoError(t, err)
	require.Equal(t, 1, first.Invoiced)

	// A registration approved mid-month gets billed on the next run
	seedApprovedRegistration(t, registrationRepo, tenantID, "b202", 6000, monthStart)

	second, err := service.RunMonthlyBilling(ctx, tenantID, monthStart)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Invoiced)
	assert.Equal(t, 1, second.Skipped)
}
