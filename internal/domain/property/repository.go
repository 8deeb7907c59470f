package property

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/square15/backend/internal/domain/shared"
)

// RegistrationFilter defines filtering options for registration queries
type RegistrationFilter struct {
	shared.Filter
	CustomerID *uuid.UUID          // Filter by customer
	UnitType   *UnitType           // Filter by unit type
	Status     *RegistrationStatus // Filter by status
	UnitCode   string              // Filter by unit code
}

// RegistrationRepository defines the interface for registration persistence
type RegistrationRepository interface {
	// FindByID finds a registration by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Registration, error)

	// FindByIDForTenant finds a registration by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Registration, error)

	// FindByRegistrationNumber finds by registration number for a tenant
	FindByRegistrationNumber(ctx context.Context, tenantID uuid.UUID, registrationNumber string) (*Registration, error)

	// FindAllForTenant finds all registrations for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter RegistrationFilter) ([]Registration, error)

	// FindActiveByUnit finds the active registration occupying a unit
	FindActiveByUnit(ctx context.Context, tenantID uuid.UUID, unitCode string) (*Registration, error)

	// FindActiveForBilling finds approved registrations billable on a date
	FindActiveForBilling(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]Registration, error)

	// Save creates or updates a registration
	Save(ctx context.Context, registration *Registration) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, registration *Registration) error

	// DeleteForTenant soft deletes a registration for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts registrations for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter RegistrationFilter) (int64, error)

	// SumActiveMonthlyAmount sums monthly amounts of approved registrations
	SumActiveMonthlyAmount(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error)

	// GenerateRegistrationNumber generates the next registration number for a tenant
	GenerateRegistrationNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// MaintenanceRequestFilter defines filtering options for maintenance queries
type MaintenanceRequestFilter struct {
	shared.Filter
	CustomerID *uuid.UUID           // Filter by customer
	Status     *MaintenanceStatus   // Filter by status
	Priority   *MaintenancePriority // Filter by priority
	UnitCode   string               // Filter by unit code
	FromDate   *time.Time           // Filter by creation date range start
	ToDate     *time.Time           // Filter by creation date range end
}

// MaintenanceRequestRepository defines the interface for maintenance persistence
type MaintenanceRequestRepository interface {
	// FindByID finds a maintenance request by ID
	FindByID(ctx context.Context, id uuid.UUID) (*MaintenanceRequest, error)

	// FindByIDForTenant finds a maintenance request by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*MaintenanceRequest, error)

	// FindByRequestNumber finds by request number for a tenant
	FindByRequestNumber(ctx context.Context, tenantID uuid.UUID, requestNumber string) (*MaintenanceRequest, error)

	// FindAllForTenant finds all maintenance requests for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter MaintenanceRequestFilter) ([]MaintenanceRequest, error)

	// FindOpenByPriority finds non-terminal requests at a priority
	FindOpenByPriority(ctx context.Context, tenantID uuid.UUID, priority MaintenancePriority) ([]MaintenanceRequest, error)

	// Save creates or updates a maintenance request
	Save(ctx context.Context, request *MaintenanceRequest) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, request *MaintenanceRequest) error

	// DeleteForTenant soft deletes a maintenance request for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts maintenance requests for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter MaintenanceRequestFilter) (int64, error)

	// SumCompletedCostByPeriod sums actual costs of completed jobs within a period
	SumCompletedCostByPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error)

	// GenerateRequestNumber generates the next maintenance request number for a tenant
	GenerateRequestNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
