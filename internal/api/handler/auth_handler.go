package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teacherpoli/members-api/internal/api/metrics"
	"github.com/teacherpoli/members-api/internal/core/domain"
	"github.com/teacherpoli/members-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CheckPurchase verifies an email against the purchase records.
//
// @Summary      Check whether an email has an active purchase
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      checkPurchaseRequest  true  "Email to check"
// @Success      200   {object}  checkPurchaseResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/auth/check-purchase [post]
func (h *AuthHandler) CheckPurchase(c echo.Context) error {
	var req checkPurchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	check, err := h.authService.CheckPurchase(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, checkPurchaseResponse{
		HasPurchase:  true,
		CustomerName: check.CustomerName,
		PurchaseDate: check.PurchaseDate,
	})
}

// CheckCredential reports whether a password has been set for an email.
//
// @Summary      Check whether a credential record exists for an email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      checkCredentialRequest  true  "Email to check"
// @Success      200   {object}  checkCredentialResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/auth/check-credential [post]
func (h *AuthHandler) CheckCredential(c echo.Context) error {
	var req checkCredentialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	exists, err := h.authService.HasCredential(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, checkCredentialResponse{Exists: exists})
}

// CreatePassword registers the one-time credential for a purchaser.
//
// @Summary      Create the first password for a purchased email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      createPasswordRequest  true  "Registration details"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/create-password [post]
func (h *AuthHandler) CreatePassword(c echo.Context) error {
	var req createPasswordRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, profile, err := h.authService.CreatePassword(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registrationResult(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Success: true, Token: token, User: profile})
}

// Login authenticates an existing credential.
//
// @Summary      Login with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, profile, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Success: true, Token: token, User: profile})
}

// CompleteOnboarding marks the caller's onboarding as done. The bearer token's
// email claim must match the target email; nobody can flip another user's flag.
//
// @Summary      Mark onboarding as completed
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      completeOnboardingRequest  true  "Target email"
// @Success      200   {object}  successResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/auth/complete-onboarding [post]
func (h *AuthHandler) CompleteOnboarding(c echo.Context) error {
	var req completeOnboardingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claimEmail, err := ctxEmail(c)
	if err != nil {
		return err
	}
	if domain.NormalizeEmail(req.Email) != domain.NormalizeEmail(claimEmail) {
		return domain.ErrForbidden
	}

	if err := h.authService.CompleteOnboarding(c.Request().Context(), req.Email); err != nil {
		return err
	}

	metrics.OnboardingCompletionsTotal.Inc()
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

func registrationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return "conflict"
	case errors.Is(err, domain.ErrPurchaseNotFound):
		return "no_purchase"
	case errors.Is(err, domain.ErrCredentialsRequired):
		return "invalid"
	default:
		return "error"
	}
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrWrongPassword):
		return "wrong_password"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrPurchaseInactive):
		return "forbidden"
	case errors.Is(err, domain.ErrCredentialsRequired):
		return "invalid"
	default:
		return "error"
	}
}
