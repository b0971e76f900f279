package dto

import "time"

// LoginRequest holds the form-encoded credentials. Username carries the email address.
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// TokenResponse is returned by a successful login
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NewTokenResponse wraps an issued token as a bearer token
func NewTokenResponse(token string, expiresAt time.Time) TokenResponse {
	return TokenResponse{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt}
}
