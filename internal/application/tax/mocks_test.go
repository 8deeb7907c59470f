package tax

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/asset"
	"github.com/square15/backend/internal/domain/billing"
	"github.com/square15/backend/internal/domain/finance"
	"github.com/square15/backend/internal/domain/payroll"
	"github.com/stretchr/testify/mock"
)

// MockOperationalExpenseRepository is a mock implementation of finance.OperationalExpenseRepository
type MockOperationalExpenseRepository struct {
	mock.Mock
}

func (m *MockOperationalExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.OperationalExpense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.OperationalExpense), args.Error(1)
}

func (m *MockOperationalExpenseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.OperationalExpense, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.OperationalExpense), args.Error(1)
}

func (m *MockOperationalExpenseRepository) FindByExpenseNumber(ctx context.Context, tenantID uuid.UUID, expenseNumber string) (*finance.OperationalExpense, error) {
	args := m.Called(ctx, tenantID, expenseNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.OperationalExpense), args.Error(1)
}

func (m *MockOperationalExpenseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.OperationalExpenseFilter) ([]finance.OperationalExpense, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.OperationalExpense), args.Error(1)
}

func (m *MockOperationalExpenseRepository) Save(ctx context.Context, expense *finance.OperationalExpense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockOperationalExpenseRepository) SaveWithLock(ctx context.Context, expense *finance.OperationalExpense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockOperationalExpenseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockOperationalExpenseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.OperationalExpenseFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOperationalExpenseRepository) SumApprovedByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOperationalExpenseRepository) SumApprovedByCategory(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]finance.CategoryTotal, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.CategoryTotal), args.Error(1)
}

func (m *MockOperationalExpenseRepository) SumPaidByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOperationalExpenseRepository) GenerateExpenseNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockAlternativeRevenueRepository is a mock implementation of finance.AlternativeRevenueRepository
type MockAlternativeRevenueRepository struct {
	mock.Mock
}

func (m *MockAlternativeRevenueRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.AlternativeRevenue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AlternativeRevenue), args.Error(1)
}

func (m *MockAlternativeRevenueRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.AlternativeRevenue, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AlternativeRevenue), args.Error(1)
}

func (m *MockAlternativeRevenueRepository) FindByRevenueNumber(ctx context.Context, tenantID uuid.UUID, revenueNumber string) (*finance.AlternativeRevenue, error) {
	args := m.Called(ctx, tenantID, revenueNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AlternativeRevenue), args.Error(1)
}

func (m *MockAlternativeRevenueRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.AlternativeRevenueFilter) ([]finance.AlternativeRevenue, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.AlternativeRevenue), args.Error(1)
}

func (m *MockAlternativeRevenueRepository) Save(ctx context.Context, revenue *finance.AlternativeRevenue) error {
	args := m.Called(ctx, revenue)
	return args.Error(0)
}

func (m *MockAlternativeRevenueRepository) SaveWithLock(ctx context.Context, revenue *finance.AlternativeRevenue) error {
	args := m.Called(ctx, revenue)
	return args.Error(0)
}

func (m *MockAlternativeRevenueRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockAlternativeRevenueRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.AlternativeRevenueFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAlternativeRevenueRepository) SumConfirmedByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAlternativeRevenueRepository) SumConfirmedByCategory(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]finance.CategoryTotal, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.CategoryTotal), args.Error(1)
}

func (m *MockAlternativeRevenueRepository) SumReceivedByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAlternativeRevenueRepository) GenerateRevenueNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByInvoiceNumber(ctx context.Context, tenantID uuid.UUID, invoiceNumber string) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	args := m.Called(ctx, tenantID, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindDueForOverdueSweep(ctx context.Context, asOf time.Time, limit int) ([]billing.Invoice, error) {
	args := m.Called(ctx, asOf, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter billing.InvoiceFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) SumTotalsByStatus(ctx context.Context, tenantID uuid.UUID, status billing.InvoiceStatus, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, status, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockInvoiceRepository) SumPaidTotals(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockInvoiceRepository) GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

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
