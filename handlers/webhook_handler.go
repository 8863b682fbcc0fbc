package handlers

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/domain"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/service"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/pkg/logger"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/pkg/response"
)

// instanceTokenResolver is what the handler needs from the instance repository.
type instanceTokenResolver interface {
	GetByWebhookToken(ctx context.Context, token string) (*domain.WhatsAppInstance, error)
}

// WebhookHandler receives WooCommerce order-status webhooks. The URL token
// identifies the owning instance; there is no other auth on this endpoint.
type WebhookHandler struct {
	service   *service.DispatchService
	instances instanceTokenResolver
}

func NewWebhookHandler(svc *service.DispatchService, instances instanceTokenResolver) *WebhookHandler {
	return &WebhookHandler{service: svc, instances: instances}
}

// HandleOrderEvent godoc
// @Summary Receive a WooCommerce order event
// @Description Resolves the instance by webhook token, normalizes the payload and enqueues one message per matching template
// @Tags webhook
// @Accept json
// @Produce json
// @Param token path string true "Instance webhook token"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /webhook/wc/{token} [post]
func (h *WebhookHandler) HandleOrderEvent(c echo.Context) error {
	token := c.Param("token")

	instance, err := h.instances.GetByWebhookToken(c.Request().Context(), token)
	if err != nil {
		return response.InternalServerError(c, err)
	}
	if instance == nil {
		return response.NotFound(c, "unknown webhook token")
	}

	var payload domain.OrderWebhook
	if err := c.Bind(&payload); err != nil {
		return response.BadRequest(c, err)
	}

	if payload.Status == "" {
		return response.BadRequest(c, fmt.Errorf("order status is required"))
	}

	event := payload.Normalize()

	created, err := h.service.EnqueueOrderEvent(c.Request().Context(), instance, event)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	logger.Infof("Webhook for order %s (%s) enqueued %d items on instance %s",
		event.OrderID, event.Status, len(created), instance.Name)

	return response.Ok(c, map[string]any{
		"orderId":  event.OrderID,
		"status":   event.Status,
		"enqueued": len(created),
	})
}
