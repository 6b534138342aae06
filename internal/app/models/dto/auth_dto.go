package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"deo.cs"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// LoginResponse is returned by both login endpoints.
type LoginResponse struct {
	Refresh  string `json:"refresh"`
	Access   string `json:"access"`
	Username string `json:"username" example:"deo.cs"`
	Role     string `json:"role" example:"deo"`
}

// LogoutRequest carries the refresh token to blacklist. Binding is lenient so
// a missing token can be reported with its own message.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutResponse confirms a successful logout.
type LogoutResponse struct {
	Success string `json:"success" example:"Successfully logged out."`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// AccessTokenResponse carries a newly minted access token.
type AccessTokenResponse struct {
	Access string `json:"access"`
}
