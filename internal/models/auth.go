package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims carries the identity encoded in access tokens.
type JWTClaims struct {
	AccountID int64       `json:"uid"`
	Role      AccountRole `json:"role"`
	jwt.RegisteredClaims
}

// RegisterRequest captures the registration payload.
type RegisterRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=50"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	FullName   string `json:"full_name" validate:"required"`
	Role       string `json:"role" validate:"omitempty,accountrole"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

// LoginRequest captures the login payload. Username accepts either the
// username or the registered email address.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token   string   `json:"token"`
	Account *Account `json:"account"`
}
