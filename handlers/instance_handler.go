package handlers

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/domain"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/pkg/logger"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/pkg/response"
)

type instanceGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.WhatsAppInstance, error)
}

type connectionStateClient interface {
	ConnectionState(ctx context.Context, instance string) (*domain.InstanceStatus, error)
}

// InstanceStatusCache is exported so main can pass a nil interface when the
// cache backend is unavailable.
type InstanceStatusCache interface {
	GetInstanceStatus(ctx context.Context, instanceID int64) (*domain.InstanceStatus, error)
	CacheInstanceStatus(ctx context.Context, instanceID int64, status *domain.InstanceStatus) error
}

// InstanceHandler exposes the gateway connection state of registered
// instances. Results are cached briefly; cache is optional.
type InstanceHandler struct {
	instances instanceGetter
	gateway   connectionStateClient
	cache     InstanceStatusCache
}

func NewInstanceHandler(instances instanceGetter, gateway connectionStateClient, cache InstanceStatusCache) *InstanceHandler {
	return &InstanceHandler{
		instances: instances,
		gateway:   gateway,
		cache:     cache,
	}
}

// GetStatus godoc
// @Summary Get instance connection state
// @Description Returns the gateway connection state for an instance, cached for a short TTL
// @Tags instances
// @Accept json
// @Produce json
// @Param x-api-key header string true "Admin API key"
// @Param id path int true "Instance ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/instances/{id}/status [get]
func (h *InstanceHandler) GetStatus(c echo.Context) error {
	id, err := parseItemID(c)
	if err != nil {
		return response.BadRequest(c, fmt.Errorf("invalid instance id"))
	}

	ctx := c.Request().Context()

	instance, err := h.instances.GetByID(ctx, id)
	if err != nil {
		return response.InternalServerError(c, err)
	}
	if instance == nil {
		return response.NotFound(c, "instance not found")
	}

	if h.cache != nil {
		cached, err := h.cache.GetInstanceStatus(ctx, id)
		if err != nil {
			logger.Warnf("Failed to read cached status for instance %d: %v", id, err)
		} else if cached != nil {
			return response.Ok(c, cached)
		}
	}

	status, err := h.gateway.ConnectionState(ctx, instance.Name)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	if h.cache != nil {
		if err := h.cache.CacheInstanceStatus(ctx, id, status); err != nil {
			logger.Warnf("Failed to cache status for instance %d: %v", id, err)
		}
	}

	return response.Ok(c, status)
}
