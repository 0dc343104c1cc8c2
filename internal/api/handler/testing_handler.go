package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/teacherpoli/members-api/internal/core/ports"
	"github.com/teacherpoli/members-api/internal/core/service"
)

const (
	simulatedProductID = "teacher-poli-course"
	simulatedBuyerName = "Test User"
)

// TestingHandler exposes the simulate-purchase seam. The route is only
// registered when test routes are enabled in configuration; it must never be
// part of the production surface.
type TestingHandler struct {
	webhookService ports.WebhookService
}

func NewTestingHandler(webhookService ports.WebhookService) *TestingHandler {
	return &TestingHandler{webhookService: webhookService}
}

type simulatePurchaseRequest struct {
	Email string `json:"email" validate:"required"`
	Name  string `json:"name,omitempty"`
}

// SimulatePurchase registers a synthetic approved purchase for an email so
// the login flow can be exercised without the payment platform.
func (h *TestingHandler) SimulatePurchase(c echo.Context) error {
	var req simulatePurchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	name := req.Name
	if name == "" {
		name = simulatedBuyerName
	}

	_, err := h.webhookService.Ingest(c.Request().Context(), ports.PurchaseEventInput{
		Event:         service.EventPurchaseApproved,
		BuyerEmail:    req.Email,
		BuyerName:     name,
		TransactionID: fmt.Sprintf("TEST_%d", time.Now().UnixNano()),
		ProductID:     simulatedProductID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, successResponse{Success: true})
}
