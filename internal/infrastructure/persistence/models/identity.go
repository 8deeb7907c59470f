package models

import (
	"time"

	"github.com/square15/backend/internal/domain/identity"
	"github.com/square15/backend/internal/domain/shared"
)

// UserModel is the persistence model for the User aggregate root.
type UserModel struct {
	TenantAggregateModel
	Username           string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_tenant_username,priority:2"`
	Email              string              `gorm:"type:varchar(255);index"`
	Phone              string              `gorm:"type:varchar(20)"`
	PasswordHash       string              `gorm:"type:varchar(255);not null"`
	DisplayName        string              `gorm:"type:varchar(100)"`
	Role               identity.UserRole   `gorm:"type:varchar(20);not null;default:'staff';index"`
	Status             identity.UserStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	LastLoginAt        *time.Time
	LastLoginIP        string `gorm:"type:varchar(45)"`
	FailedAttempts     int    `gorm:"not null;default:0"`
	LockedUntil        *time.Time
	PasswordChangedAt  *time.Time
	MustChangePassword bool   `gorm:"not null;default:false"`
	Notes              string `gorm:"type:text"`
}

func (UserModel) TableName() string {
	return "users"
}

// ToDomain rebuilds the User aggregate from the stored row.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID:  m.TenantID,
			CreatedBy: m.CreatedBy,
		},
		Username:           m.Username,
		Email:              m.Email,
		Phone:              m.Phone,
		PasswordHash:       m.PasswordHash,
		DisplayName:        m.DisplayName,
		Role:               m.Role,
		Status:             m.Status,
		LastLoginAt:        m.LastLoginAt,
		LastLoginIP:        m.LastLoginIP,
		FailedAttempts:     m.FailedAttempts,
		LockedUntil:        m.LockedUntil,
		PasswordChangedAt:  m.PasswordChangedAt,
		MustChangePassword: m.MustChangePassword,
		Notes:              m.Notes,
	}
}

// FromDomain copies the User aggregate into the row for saving.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.Phone = u.Phone
	m.PasswordHash = u.PasswordHash
	m.DisplayName = u.DisplayName
	m.Role = u.Role
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
	m.PasswordChangedAt = u.PasswordChangedAt
	m.MustChangePassword = u.MustChangePassword
	m.Notes = u.Notes
}

// UserModelFromDomain builds a fresh row from the User aggregate.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// TenantModel is the persistence model for the Tenant aggregate root.
// Tax registration references are stored as flat columns.
type TenantModel struct {
	AggregateModel
	Code               string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name               string                `gorm:"type:varchar(200);not null"`
	TradingName        string                `gorm:"type:varchar(200)"`
	Status             identity.TenantStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	ContactName        string                `gorm:"type:varchar(100)"`
	ContactPhone       string                `gorm:"type:varchar(20)"`
	ContactEmail       string                `gorm:"type:varchar(255)"`
	Address            string                `gorm:"type:varchar(500)"`
	VATNumber          string                `gorm:"type:varchar(20)"`
	PAYEReference      string                `gorm:"type:varchar(20)"`
	UIFReference       string                `gorm:"type:varchar(20)"`
	SDLReference       string                `gorm:"type:varchar(20)"`
	IncomeTaxReference string                `gorm:"type:varchar(20)"`
	Currency           string                `gorm:"type:varchar(3);not null;default:'ZAR'"`
	Timezone           string                `gorm:"type:varchar(50);not null;default:'Africa/Johannesburg'"`
	Notes              string                `gorm:"type:text"`
}

func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain rebuilds the Tenant aggregate from the stored row.
func (m *TenantModel) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Code:         m.Code,
		Name:         m.Name,
		TradingName:  m.TradingName,
		Status:       m.Status,
		ContactName:  m.ContactName,
		ContactPhone: m.ContactPhone,
		ContactEmail: m.ContactEmail,
		Address:      m.Address,
		TaxProfile: identity.TaxProfile{
			VATNumber:          m.VATNumber,
			PAYEReference:      m.PAYEReference,
			UIFReference:       m.UIFReference,
			SDLReference:       m.SDLReference,
			IncomeTaxReference: m.IncomeTaxReference,
		},
		Currency: m.Currency,
		Timezone: m.Timezone,
		Notes:    m.Notes,
	}
}

// FromDomain copies the Tenant aggregate into the row for saving.
func (m *TenantModel) FromDomain(t *identity.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Code = t.Code
	m.Name = t.Name
	m.TradingName = t.TradingName
	m.Status = t.Status
	m.ContactName = t.ContactName
	m.ContactPhone = t.ContactPhone
	m.ContactEmail = t.ContactEmail
	m.Address = t.Address
	m.VATNumber = t.TaxProfile.VATNumber
	m.PAYEReference = t.TaxProfile.PAYEReference
	m.UIFReference = t.TaxProfile.UIFReference
	m.SDLReference = t.TaxProfile.SDLReference
	m.IncomeTaxReference = t.TaxProfile.IncomeTaxReference
	m.Currency = t.Currency
	m.Timezone = t.Timezone
	m.Notes = t.Notes
}

// TenantModelFromDomain builds a fresh row from the Tenant aggregate.
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}
