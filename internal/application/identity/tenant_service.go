package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/square15/backend/internal/domain/identity"
	"github.com/square15/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TenantService handles tenant management operations
type TenantService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	logger     *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// TaxProfileDTO mirrors the tenant's revenue service references
type TaxProfileDTO struct {
	VATNumber          string `json:"vat_number"`
	PAYEReference      string `json:"paye_reference"`
	UIFReference       string `json:"uif_reference"`
	SDLReference       string `json:"sdl_reference"`
	IncomeTaxReference string `json:"income_tax_reference"`
}

// TenantResponse is the tenant DTO returned to clients
type TenantResponse struct {
	ID           uuid.UUID     `json:"id"`
	Code         string        `json:"code"`
	Name         string        `json:"name"`
	TradingName  string        `json:"trading_name"`
	Status       string        `json:"status"`
	ContactName  string        `json:"contact_name"`
	ContactPhone string        `json:"contact_phone"`
	ContactEmail string        `json:"contact_email"`
	Address      string        `json:"address"`
	TaxProfile   TaxProfileDTO `json:"tax_profile"`
	Currency     string        `json:"currency"`
	Timezone     string        `json:"timezone"`
	Version      int           `json:"version"`
}

// CreateTenantRequest contains fields for onboarding a tenant
type CreateTenantRequest struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	TradingName  string `json:"trading_name"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
	Address      string `json:"address"`
	// AdminUsername/AdminPassword bootstrap the first admin account
	AdminUsername string `json:"admin_username" binding:"required"`
	AdminPassword string `json:"admin_password" binding:"required"`
}

// UpdateTenantRequest contains fields for updating a tenant
type UpdateTenantRequest struct {
	Name         *string `json:"name"`
	TradingName  *string `json:"trading_name"`
	ContactName  *string `json:"contact_name"`
	ContactPhone *string `json:"contact_phone"`
	ContactEmail *string `json:"contact_email"`
	Address      *string `json:"address"`
}

// SetTaxProfileRequest contains the revenue service registration references
type SetTaxProfileRequest struct {
	VATNumber          string `json:"vat_number"`
	PAYEReference      string `json:"paye_reference"`
	UIFReference       string `json:"uif_reference"`
	SDLReference       string `json:"sdl_reference"`
	IncomeTaxReference string `json:"income_tax_reference"`
}

// SuspendTenantRequest carries the suspension reason
type SuspendTenantRequest struct {
	Reason string `json:"reason"`
}

// CreateTenant onboards a new tenant with its first admin user
func (s *TenantService) CreateTenant(ctx context.Context, req CreateTenantRequest) (*TenantResponse, error) {
	taken, err := s.tenantRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("TENANT_CODE_TAKEN", "Tenant code is already in use")
	}

	tenant, err := identity.NewTenant(req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	if req.TradingName != "" {
		if err := tenant.Update(req.Name, req.TradingName); err != nil {
			return nil, err
		}
	}
	if req.ContactName != "" || req.ContactPhone != "" || req.ContactEmail != "" {
		if err := tenant.SetContact(req.ContactName, req.ContactPhone, req.ContactEmail); err != nil {
			return nil, err
		}
	}
	if req.Address != "" {
		tenant.SetAddress(req.Address)
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to save tenant", zap.Error(err))
		return nil, err
	}

	admin, err := identity.NewActiveUser(tenant.ID, req.AdminUsername, req.AdminPassword, identity.UserRoleAdmin)
	if err != nil {
		return nil, err
	}
	if req.ContactEmail != "" {
		if err := admin.SetEmail(req.ContactEmail); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		s.logger.Error("Failed to save tenant admin user", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Tenant created",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("code", tenant.Code),
		zap.String("admin_user_id", admin.ID.String()))

	return toTenantResponse(tenant), nil
}

// GetTenant retrieves a tenant by ID
func (s *TenantService) GetTenant(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Tenant not found")
	}
	return toTenantResponse(tenant), nil
}

// ListTenants lists all tenants
func (s *TenantService) ListTenants(ctx context.Context, filter shared.Filter) ([]TenantResponse, error) {
	tenants, err := s.tenantRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]TenantResponse, 0, len(tenants))
	for i := range tenants {
		responses = append(responses, *toTenantResponse(&tenants[i]))
	}
	return responses, nil
}

// UpdateTenant updates a tenant's details
func (s *TenantService) UpdateTenant(ctx context.Context, tenantID uuid.UUID, req UpdateTenantRequest) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Tenant not found")
	}

	if req.Name != nil || req.TradingName != nil {
		name := tenant.Name
		tradingName := tenant.TradingName
		if req.Name != nil {
			name = *req.Name
		}
		if req.TradingName != nil {
			tradingName = *req.TradingName
		}
		if err := tenant.Update(name, tradingName); err != nil {
			return nil, err
		}
	}

	if req.ContactName != nil || req.ContactPhone != nil || req.ContactEmail != nil {
		contactName := tenant.ContactName
		contactPhone := tenant.ContactPhone
		contactEmail := tenant.ContactEmail
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.ContactPhone != nil {
			contactPhone = *req.ContactPhone
		}
		if req.ContactEmail != nil {
			contactEmail = *req.ContactEmail
		}
		if err := tenant.SetContact(contactName, contactPhone, contactEmail); err != nil {
			return nil, err
		}
	}

	if req.Address != nil {
		tenant.SetAddress(*req.Address)
	}

	if err := s.tenantRepo.SaveWithLock(ctx, tenant); err != nil {
		return nil, err
	}

	return toTenantResponse(tenant), nil
}

// SetTaxProfile sets the tenant's revenue service references
func (s *TenantService) SetTaxProfile(ctx context.Context, tenantID uuid.UUID, req SetTaxProfileRequest) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Tenant not found")
	}

	profile := identity.TaxProfile{
		VATNumber:          req.VATNumber,
		PAYEReference:      req.PAYEReference,
		UIFReference:       req.UIFReference,
		SDLReference:       req.SDLReference,
		IncomeTaxReference: req.IncomeTaxReference,
	}
	if err := tenant.SetTaxProfile(profile); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.SaveWithLock(ctx, tenant); err != nil {
		return nil, err
	}

	s.logger.Info("Tenant tax profile updated", zap.String("tenant_id", tenant.ID.String()))

	return toTenantResponse(tenant), nil
}

// SuspendTenant suspends a tenant
func (s *TenantService) SuspendTenant(ctx context.Context, tenantID uuid.UUID, req SuspendTenantRequest) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Tenant not found")
	}

	if err := tenant.Suspend(req.Reason); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.SaveWithLock(ctx, tenant); err != nil {
		return nil, err
	}

	s.logger.Warn("Tenant suspended",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("reason", req.Reason))

	return toTenantResponse(tenant), nil
}

// ReactivateTenant reactivates a suspended tenant
func (s *TenantService) ReactivateTenant(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Tenant not found")
	}

	if err := tenant.Reactivate(); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.SaveWithLock(ctx, tenant); err != nil {
		return nil, err
	}
	return toTenantResponse(tenant), nil
}

// CloseTenant permanently closes a tenant
func (s *TenantService) CloseTenant(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Tenant not found")
	}

	if err := tenant.Close(); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.SaveWithLock(ctx, tenant); err != nil {
		return nil, err
	}

	s.logger.Warn("Tenant closed", zap.String("tenant_id", tenant.ID.String()))

	return toTenantResponse(tenant), nil
}

// toTenantResponse maps a tenant aggregate to the response DTO
func toTenantResponse(tenant *identity.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:           tenant.ID,
		Code:         tenant.Code,
		Name:         tenant.Name,
		TradingName:  tenant.TradingName,
		Status:       string(tenant.Status),
		ContactName:  tenant.ContactName,
		ContactPhone: tenant.ContactPhone,
		ContactEmail: tenant.ContactEmail,
		Address:      tenant.Address,
		TaxProfile: TaxProfileDTO{
			VATNumber:          tenant.TaxProfile.VATNumber,
			PAYEReference:      tenant.TaxProfile.PAYEReference,
			UIFReference:       tenant.TaxProfile.UIFReference,
			SDLReference:       tenant.TaxProfile.SDLReference,
			IncomeTaxReference: tenant.TaxProfile.IncomeTaxReference,
		},
		Currency: tenant.Currency,
		Timezone: tenant.Timezone,
		Version:  tenant.Version,
	}
}
