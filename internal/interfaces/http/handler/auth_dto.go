package handler

// LoginRequest authenticates a user within one tenant.
type LoginRequest struct {
	TenantCode string `json:"tenant_code" binding:"required" example:"SQ15"`
	Username   string `json:"username" binding:"required,min=3,max=100" example:"thandi.nkosi"`
	Password   string `json:"password" binding:"required,min=8,max=128" example:"correct-horse-battery"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	// AllSessions revokes every session for the user, not just this
	// token.
	AllSessions bool `json:"all_sessions"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

type LogoutResponse struct {
	Message string `json:"message" example:"Logged out"`
}
