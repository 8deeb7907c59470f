package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/square15/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended" // Suspended due to payment/violation issues
	TenantStatusClosed    TenantStatus = "closed"
)

// TaxProfile holds the tenant's revenue service registration references.
// The references appear on VAT201 and EMP201 submissions.
type TaxProfile struct {
	VATNumber          string `json:"vat_number"`           // VAT vendor number
	PAYEReference      string `json:"paye_reference"`       // Employer PAYE reference
	UIFReference       string `json:"uif_reference"`        // UIF reference
	SDLReference       string `json:"sdl_reference"`        // Skills development levy reference
	IncomeTaxReference string `json:"income_tax_reference"` // Company income tax reference
}

// Tenant represents an organization in the multi-tenant system.
// It is the aggregate root for tenant-related operations.
type Tenant struct {
	shared.BaseAggregateRoot
	Code         string       `json:"code"`
	Name         string       `json:"name"`
	TradingName  string       `json:"trading_name"`
	Status       TenantStatus `json:"status"`
	ContactName  string       `json:"contact_name"`
	ContactPhone string       `json:"contact_phone"`
	ContactEmail string       `json:"contact_email"`
	Address      string       `json:"address"`
	TaxProfile   TaxProfile   `json:"tax_profile"`
	Currency     string       `json:"currency"`
	Timezone     string       `json:"timezone"`
	Notes        string       `json:"notes"`
}

// NewTenant creates a new tenant with required fields
func NewTenant(code, name string) (*Tenant, error) {
	if err := validateTenantCode(code); err != nil {
		return nil, err
	}
	if err := validateTenantName(name); err != nil {
		return nil, err
	}

	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            TenantStatusActive,
		Currency:          "ZAR",
		Timezone:          "Africa/Johannesburg",
	}

	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))

	return tenant, nil
}

// Update updates the tenant's basic information
func (t *Tenant) Update(name, tradingName string) error {
	if err := validateTenantName(name); err != nil {
		return err
	}
	if tradingName != "" && len(tradingName) > 200 {
		return shared.NewDomainError("INVALID_TRADING_NAME", "Trading name cannot exceed 200 characters")
	}

	t.Name = name
	t.TradingName = tradingName
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetContact sets the tenant's contact details
func (t *Tenant) SetContact(name, phone, email string) error {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	t.ContactName = name
	t.ContactPhone = phone
	t.ContactEmail = strings.ToLower(strings.TrimSpace(email))
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetAddress sets the tenant's physical address
func (t *Tenant) SetAddress(address string) {
	t.Address = address
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// SetTaxProfile sets the revenue service registration references
func (t *Tenant) SetTaxProfile(profile TaxProfile) error {
	if profile.VATNumber != "" && !vatNumberRegex.MatchString(profile.VATNumber) {
		return shared.NewDomainError("INVALID_VAT_NUMBER", "VAT number must be 10 digits starting with 4")
	}
	if profile.PAYEReference != "" && !payeRefRegex.MatchString(profile.PAYEReference) {
		return shared.NewDomainError("INVALID_PAYE_REFERENCE", "PAYE reference must be 10 digits starting with 7")
	}

	t.TaxProfile = profile
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// IsVATRegistered reports whether the tenant is a registered VAT vendor
func (t *Tenant) IsVATRegistered() bool {
	return t.TaxProfile.VATNumber != ""
}

// Suspend suspends the tenant
func (t *Tenant) Suspend(reason string) error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Tenant is already suspended")
	}
	if t.Status == TenantStatusClosed {
		return shared.NewDomainError("TENANT_CLOSED", "Cannot suspend a closed tenant")
	}

	t.Status = TenantStatusSuspended
	if reason != "" {
		t.Notes = reason
	}
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantSuspendedEvent(t, reason))

	return nil
}

// Reactivate reactivates a suspended tenant
func (t *Tenant) Reactivate() error {
	if t.Status != TenantStatusSuspended {
		return shared.NewDomainError("NOT_SUSPENDED", "Tenant is not suspended")
	}

	t.Status = TenantStatusActive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Close permanently closes the tenant
func (t *Tenant) Close() error {
	if t.Status == TenantStatusClosed {
		return shared.NewDomainError("ALREADY_CLOSED", "Tenant is already closed")
	}

	t.Status = TenantStatusClosed
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// IsActive returns true if the tenant is active
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

var (
	tenantCodeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	vatNumberRegex  = regexp.MustCompile(`^4\d{9}$`)
	payeRefRegex    = regexp.MustCompile(`^7\d{9}$`)
)

func validateTenantCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code cannot be empty")
	}
	if len(code) < 2 || len(code) > 50 {
		return shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code must be between 2 and 50 characters")
	}
	if !tenantCodeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

func validateTenantName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}
