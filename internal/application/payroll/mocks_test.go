package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/square15/backend/internal/domain/identity"
	"github.com/square15/backend/internal/domain/payroll"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/infrastructure/pdf"
	"github.com/stretchr/testify/mock"
)

// MockPayslipRepository is a mock implementation of payroll.PayslipRepository
type MockPayslipRepository struct {
	mock.Mock
}

func (m *MockPayslipRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Payslip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.Payslip), args.Error(1)
}

func (m *MockPayslipRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payroll.Payslip, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.Payslip), args.Error(1)
}

func (m *MockPayslipRepository) FindByPayslipNumber(ctx context.Context, tenantID uuid.UUID, payslipNumber string) (*payroll.Payslip, error) {
	args := m.Called(ctx, tenantID, payslipNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.Payslip), args.Error(1)
}

func (m *MockPayslipRepository) FindByEmployeeAndPeriod(ctx context.Context, tenantID, employeeID uuid.UUID, year int, month time.Month) (*payroll.Payslip, error) {
	args := m.Called(ctx, tenantID, employeeID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.Payslip), args.Error(1)
}

func (m *MockPayslipRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.PayslipFilter) ([]payroll.Payslip, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payroll.Payslip), args.Error(1)
}

func (m *MockPayslipRepository) Save(ctx context.Context, payslip *payroll.Payslip) error {
	args := m.Called(ctx, payslip)
	return args.Error(0)
}

func (m *MockPayslipRepository) SaveWithLock(ctx context.Context, payslip *payroll.Payslip) error {
	args := m.Called(ctx, payslip)
	return args.Error(0)
}

func (m *MockPayslipRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockPayslipRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter payroll.PayslipFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayslipRepository) SumPeriodTotals(ctx context.Context, tenantID uuid.UUID, year int, month time.Month) (payroll.PeriodTotals, error) {
	args := m.Called(ctx, tenantID, year, month)
	return args.Get(0).(payroll.PeriodTotals), args.Error(1)
}

func (m *MockPayslipRepository) GeneratePayslipNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockTenantRepository is a mock implementation of identity.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Tenant, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) SaveWithLock(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTenantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// fakeRenderer returns canned PDF bytes without launching a browser
type fakeRenderer struct {
	lastRequest *pdf.RenderRequest
	err         error
}

func (r *fakeRenderer) Render(_ context.Context, req *pdf.RenderRequest) (*pdf.RenderResult, error) {
	r.lastRequest = req
	if r.err != nil {
		return nil, r.err
	}
	return &pdf.RenderResult{PDFData: []byte("%PDF-1.4 fake"), PageCount: 1}, nil
}

func (r *fakeRenderer) Close() error { return nil }
