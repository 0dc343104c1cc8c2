package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teacherpoli/members-api/internal/api/metrics"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body,
// computed with the webhook secret shared with the payment platform.
const SignatureHeader = "X-Hotmart-Signature"

// WebhookSignature rejects webhook deliveries whose body does not match the
// signature header. The body is restored for downstream handlers.
func WebhookSignature(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			body, err := io.ReadAll(c.Request().Body)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "cannot read body")
			}
			c.Request().Body = io.NopCloser(bytes.NewReader(body))

			sig := c.Request().Header.Get(SignatureHeader)
			if sig == "" || !validSignature(secret, body, sig) {
				// The body is untrusted at this point, so the event label
				// stays "unknown".
				metrics.WebhookEventsTotal.WithLabelValues("unknown", "rejected").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid webhook signature")
			}

			return next(c)
		}
	}
}

// Sign computes the hex HMAC-SHA256 signature for a body. Exported for tests
// and for the simulate-purchase tooling.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func validSignature(secret string, body []byte, got string) bool {
	want, err := hex.DecodeString(got)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), want)
}
