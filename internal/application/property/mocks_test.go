package property

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/billing"
	"github.com/square15/backend/internal/domain/property"
	"github.com/square15/backend/internal/infrastructure/mailer"
	"github.com/stretchr/testify/mock"
)

// MockRegistrationRepository is a mock implementation of property.RegistrationRepository
type MockRegistrationRepository struct {
	mock.Mock
}

func (m *MockRegistrationRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*property.Registration, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) FindByRegistrationNumber(ctx context.Context, tenantID uuid.UUID, registrationNumber string) (*property.Registration, error) {
	args := m.Called(ctx, tenantID, registrationNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter property.RegistrationFilter) ([]property.Registration, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) FindActiveByUnit(ctx context.Context, tenantID uuid.UUID, unitCode string) (*property.Registration, error) {
	args := m.Called(ctx, tenantID, unitCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) FindActiveForBilling(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]property.Registration, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) Save(ctx context.Context, registration *property.Registration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

func (m *MockRegistrationRepository) SaveWithLock(ctx context.Context, registration *property.Registration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

func (m *MockRegistrationRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockRegistrationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter property.RegistrationFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRegistrationRepository) SumActiveMonthlyAmount(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRegistrationRepository) GenerateRegistrationNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// MockMaintenanceRequestRepository is a mock implementation of property.MaintenanceRequestRepository
type MockMaintenanceRequestRepository struct {
	mock.Mock
}

func (m *MockMaintenanceRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.MaintenanceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*property.MaintenanceRequest, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceRequestRepository) FindByRequestNumber(ctx context.Context, tenantID uuid.UUID, requestNumber string) (*property.MaintenanceRequest, error) {
	args := m.Called(ctx, tenantID, requestNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceRequestRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter property.MaintenanceRequestFilter) ([]property.MaintenanceRequest, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceRequestRepository) FindOpenByPriority(ctx context.Context, tenantID uuid.UUID, priority property.MaintenancePriority) ([]property.MaintenanceRequest, error) {
	args := m.Called(ctx, tenantID, priority)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.MaintenanceRequest), args.Error(1)
}

func (m *MockMaintenanceRequestRepository) Save(ctx context.Context, request *property.MaintenanceRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockMaintenanceRequestRepository) SaveWithLock(ctx context.Context, request *property.MaintenanceRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockMaintenanceRequestRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockMaintenanceRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter property.MaintenanceRequestFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMaintenanceRequestRepository) SumCompletedCostByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockMaintenanceRequestRepository) GenerateRequestNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
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

// fakeMailer records sent messages
type fakeMailer struct {
	sent []*mailer.Message
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg *mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}
