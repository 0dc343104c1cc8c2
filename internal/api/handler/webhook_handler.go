package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teacherpoli/members-api/internal/api/metrics"
	"github.com/teacherpoli/members-api/internal/core/ports"
)

// WebhookHandler ingests purchase events from the payment platform.
type WebhookHandler struct {
	webhookService ports.WebhookService
}

func NewWebhookHandler(webhookService ports.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

type webhookBuyer struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type webhookProduct struct {
	ID string `json:"id"`
}

type webhookPurchase struct {
	Transaction string         `json:"transaction"`
	Product     webhookProduct `json:"product"`
}

type webhookData struct {
	Buyer    webhookBuyer    `json:"buyer"`
	Purchase webhookPurchase `json:"purchase"`
}

type webhookRequest struct {
	Event string      `json:"event"`
	Data  webhookData `json:"data"`
}

// Receive handles POST /webhook/hotmart. Completed-purchase events upsert a
// purchase record; unknown or missing event names are acknowledged and
// dropped. Only a structurally unparseable body fails, and it fails as an
// internal error to match what the platform expects from this endpoint.
//
// @Summary      Ingest a payment-platform webhook event
// @Tags         webhook
// @Accept       json
// @Produce      json
// @Param        X-Hotmart-Signature  header    string          true  "Hex HMAC-SHA256 of the raw body"
// @Param        body                 body      webhookRequest  true  "Webhook event"
// @Success      200  {object}  successResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /webhook/hotmart [post]
func (h *WebhookHandler) Receive(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "error").Inc()
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	var req webhookRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "error").Inc()
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	// Empty event names are labelled "unknown" so the metric never carries an
	// empty label value.
	event := req.Event
	if event == "" {
		event = "unknown"
	}

	processed, err := h.webhookService.Ingest(c.Request().Context(), ports.PurchaseEventInput{
		Event:         req.Event,
		BuyerEmail:    req.Data.Buyer.Email,
		BuyerName:     req.Data.Buyer.Name,
		TransactionID: req.Data.Purchase.Transaction,
		ProductID:     req.Data.Purchase.Product.ID,
		RawPayload:    raw,
	})
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(event, "error").Inc()
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	result := "ignored"
	if processed {
		result = "processed"
	}
	metrics.WebhookEventsTotal.WithLabelValues(event, result).Inc()

	return c.JSON(http.StatusOK, successResponse{Success: true})
}
