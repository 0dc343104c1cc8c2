package handler

import (
	"time"

	"github.com/teacherpoli/members-api/internal/core/domain"
)

type checkPurchaseRequest struct {
	Email string `json:"email" validate:"required"`
}

type checkPurchaseResponse struct {
	HasPurchase  bool      `json:"hasPurchase"`
	CustomerName string    `json:"customerName"`
	PurchaseDate time.Time `json:"purchaseDate"`
}

type checkCredentialRequest struct {
	Email string `json:"email" validate:"required"`
}

type checkCredentialResponse struct {
	Exists bool `json:"exists"`
}

type createPasswordRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Success bool            `json:"success"`
	Token   string          `json:"token"`
	User    *domain.Profile `json:"user"`
}

type completeOnboardingRequest struct {
	Email string `json:"email" validate:"required"`
}

type successResponse struct {
	Success bool `json:"success"`
}
