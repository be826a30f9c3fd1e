package handler

import "github.com/weblarek/commerce-system/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"omitempty,min=2,max=30"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=2,max=30"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// sessionResponse is returned whenever a token pair is issued or rotated.
// The refresh token is never part of the body; it travels in the cookie.
type sessionResponse struct {
	Success     bool              `json:"success"`
	User        domain.PublicUser `json:"user"`
	AccessToken string            `json:"accessToken"`
}

// userResponse is returned on plain profile reads; no access token.
type userResponse struct {
	Success bool              `json:"success"`
	User    domain.PublicUser `json:"user"`
}

type successResponse struct {
	Success bool `json:"success"`
}
