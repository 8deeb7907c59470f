package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/square15/backend/internal/domain/identity"
	"github.com/square15/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles user management operations
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// UserResponse is the user DTO returned to clients
type UserResponse struct {
	ID                 uuid.UUID `json:"id"`
	TenantID           uuid.UUID `json:"tenant_id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	DisplayName        string    `json:"display_name"`
	Role               string    `json:"role"`
	Status             string    `json:"status"`
	MustChangePassword bool      `json:"must_change_password"`
	LastLoginAt        *string   `json:"last_login_at,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	Version            int       `json:"version"`
}

// CreateUserRequest contains fields for creating a user
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Role        string `json:"role" binding:"required"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DisplayName string `json:"display_name"`
	Notes       string `json:"notes"`
	// Active creates the user without the pending activation step
	Active bool `json:"active"`
}

// UpdateUserRequest contains fields for updating a user profile
type UpdateUserRequest struct {
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	DisplayName *string `json:"display_name"`
	Notes       *string `json:"notes"`
}

// ChangeUserRoleRequest contains the new role for a user
type ChangeUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ResetPasswordRequest contains the new password set by an administrator
type ResetPasswordRequest struct {
	NewPassword        string `json:"new_password" binding:"required"`
	ForceChangeOnLogin bool   `json:"force_change_on_login"`
}

// UserListFilter defines filtering options for listing users
type UserListFilter struct {
	Role     string `form:"role"`
	Status   string `form:"status"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CreateUser creates a new user in the tenant
func (s *UserService) CreateUser(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	role := identity.UserRole(req.Role)
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role is not valid")
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, tenantID, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already in use")
	}

	var user *identity.User
	if req.Active {
		user, err = identity.NewActiveUser(tenantID, req.Username, req.Password, role)
	} else {
		user, err = identity.NewUser(tenantID, req.Username, req.Password, role)
	}
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.Phone != "" {
		if err := user.SetPhone(req.Phone); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		user.SetNotes(req.Notes)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", user.Role.String()))

	return toUserResponse(user), nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}
	return toUserResponse(user), nil
}

// ListUsers lists users in the tenant with filtering
func (s *UserService) ListUsers(ctx context.Context, tenantID uuid.UUID, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := identity.UserFilter{
		Filter: shared.Filter{
			Search:   filter.Search,
			Page:     filter.Page,
			PageSize: filter.PageSize,
		},
	}
	if filter.Role != "" {
		role := identity.UserRole(filter.Role)
		domainFilter.Role = &role
	}
	if filter.Status != "" {
		status := identity.UserStatus(filter.Status)
		domainFilter.Status = &status
	}

	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.userRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *toUserResponse(&users[i]))
	}
	return responses, total, nil
}

// UpdateUser updates a user's profile fields
func (s *UserService) UpdateUser(ctx context.Context, tenantID, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}

	if req.Email != nil {
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		if err := user.SetPhone(*req.Phone); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		user.SetNotes(*req.Notes)
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

// ChangeUserRole changes a user's role
func (s *UserService) ChangeUserRole(ctx context.Context, tenantID, userID uuid.UUID, req ChangeUserRoleRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}

	if err := user.ChangeRole(identity.UserRole(req.Role)); err != nil {
		return nil, err
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User role changed",
		zap.String("user_id", user.ID.String()),
		zap.String("role", req.Role))

	return toUserResponse(user), nil
}

// ActivateUser activates a pending or deactivated user
func (s *UserService) ActivateUser(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}

	if err := user.Activate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// DeactivateUser deactivates a user
func (s *UserService) DeactivateUser(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}

	if err := user.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User deactivated", zap.String("user_id", user.ID.String()))

	return toUserResponse(user), nil
}

// UnlockUser clears a login lockout
func (s *UserService) UnlockUser(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}

	if err := user.Unlock(); err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// ResetPassword sets a new password without the old one (admin action)
func (s *UserService) ResetPassword(ctx context.Context, tenantID, userID uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return shared.NewDomainError("NOT_FOUND", "User not found")
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if req.ForceChangeOnLogin {
		user.ForcePasswordChange()
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User password reset", zap.String("user_id", user.ID.String()))

	return nil
}

// DeleteUser removes a user from the tenant
func (s *UserService) DeleteUser(ctx context.Context, tenantID, userID uuid.UUID) error {
	if err := s.userRepo.DeleteForTenant(ctx, tenantID, userID); err != nil {
		return err
	}

	s.logger.Info("User deleted", zap.String("user_id", userID.String()))

	return nil
}

// toUserResponse maps a user aggregate to the response DTO
func toUserResponse(user *identity.User) *UserResponse {
	resp := &UserResponse{
		ID:                 user.ID,
		TenantID:           user.TenantID,
		Username:           user.Username,
		Email:              user.Email,
		Phone:              user.Phone,
		DisplayName:        user.DisplayName,
		Role:               user.Role.String(),
		Status:             string(user.Status),
		MustChangePassword: user.MustChangePassword,
		Notes:              user.Notes,
		Version:            user.Version,
	}
	if user.LastLoginAt != nil {
		formatted := user.LastLoginAt.Format("2006-01-02T15:04:05Z07:00")
		resp.LastLoginAt = &formatted
	}
	return resp
}
