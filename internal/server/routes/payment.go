package routes

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/samber/do"

	"github.com/arwindpianist/showcase/internal/access"
	"github.com/arwindpianist/showcase/internal/entity"
	"github.com/arwindpianist/showcase/internal/usecase"
)

const maxWebhookBody = 1 << 16

func RegisterPayment(injector *do.Injector, e *echo.Echo) {
	api := e.Group("/api")

	api.POST("/create-checkout-session", func(c echo.Context) error {
		type request struct {
			PriceID string `json:"priceId"`
		}
		var req request
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, &errorResponse{Error: "Invalid request body"})
		}

		usecase := do.MustInvoke[usecase.CreateCheckoutSessionUsecase](injector)
		url, err := usecase.Execute(c.Request().Context(), strings.TrimSpace(req.PriceID))
		if err != nil {
			if errors.Is(err, entity.ErrInvalid) {
				return c.JSON(http.StatusBadRequest, &errorResponse{Error: "Price ID is required"})
			}
			zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("failed to create checkout session")
			return c.JSON(http.StatusInternalServerError, &errorResponse{Error: "Failed to create checkout session"})
		}

		type response struct {
			URL string `json:"url"`
		}
		return c.JSON(http.StatusOK, &response{URL: url})
	})

	api.POST("/verify-payment", func(c echo.Context) error {
		type request struct {
			SessionID string `json:"sessionId"`
		}
		var req request
		if err := c.Bind(&req); err != nil || strings.TrimSpace(req.SessionID) == "" {
			return c.JSON(http.StatusBadRequest, &errorResponse{Error: "Session ID is required"})
		}

		gate := do.MustInvoke[*access.Gate](injector)
		paid, hint, err := gate.MarkPaidFromVerifiedSession(c.Request().Context(), c, strings.TrimSpace(req.SessionID))
		if err != nil {
			status := statusOf(err)
			if status == http.StatusInternalServerError {
				zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("failed to verify payment")
			}
			return c.JSON(status, &errorResponse{Error: "Payment verification failed"})
		}

		type response struct {
			Paid bool               `json:"paid"`
			Hint entity.UxHintState `json:"hint"`
		}
		return c.JSON(http.StatusOK, &response{Paid: paid, Hint: hint})
	})

	api.GET("/access-status", func(c echo.Context) error {
		gate := do.MustInvoke[*access.Gate](injector)
		type response struct {
			Paid bool `json:"paid"`
		}
		return c.JSON(http.StatusOK, &response{Paid: gate.IsPaid(c.Request())})
	})

	api.POST("/webhooks/stripe", func(c echo.Context) error {
		signature := c.Request().Header.Get("Stripe-Signature")
		if signature == "" {
			return c.JSON(http.StatusBadRequest, &errorResponse{Error: "No signature provided"})
		}
		payload, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxWebhookBody))
		if err != nil {
			return c.JSON(http.StatusBadRequest, &errorResponse{Error: "Webhook Error: unreadable body"})
		}

		usecase := do.MustInvoke[usecase.HandleWebhookUsecase](injector)
		if _, err := usecase.Execute(c.Request().Context(), payload, signature); err != nil {
			if status := statusOf(err); status == http.StatusBadRequest {
				zerolog.Ctx(c.Request().Context()).Warn().Err(err).Msg("rejected webhook")
				return c.JSON(status, &errorResponse{Error: "Webhook Error: " + err.Error()})
			}
			zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("webhook handler failed")
			return c.JSON(http.StatusInternalServerError, &errorResponse{Error: "Webhook handler failed"})
		}

		type response struct {
			Received bool `json:"received"`
		}
		return c.JSON(http.StatusOK, &response{Received: true})
	})
}
