package handlers

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/domain"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/service"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/pkg/response"
)

type QueueHandler struct {
	service *service.DispatchService
}

func NewQueueHandler(service *service.DispatchService) *QueueHandler {
	return &QueueHandler{service: service}
}

// GetQueue godoc
// @Summary List queue items
// @Description Retrieves a paginated list of queue items with optional status filter, newest first
// @Tags queue
// @Accept json
// @Produce json
// @Param x-api-key header string true "Admin API key"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Param status query string false "Filter by status (pending, sending, sent, failed)"
// @Success 200 {object} response.PaginatedResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/queue [get]
func (h *QueueHandler) GetQueue(c echo.Context) error {
	page, pageSize, err := parsePaginationParams(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	statusStr := c.QueryParam("status")

	// Convert status string to pointer (optional filter).
	var status *domain.QueueStatus
	if statusStr != "" {
		parsedStatus := domain.QueueStatus(statusStr)
		status = &parsedStatus
	}

	items, totalCount, err := h.service.ListQueue(c.Request().Context(), status, page, pageSize)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Paginated(c, items, page, pageSize, totalCount)
}

// GetStats godoc
// @Summary Get queue statistics
// @Description Returns count of queue items by status
// @Tags queue
// @Accept json
// @Produce json
// @Param x-api-key header string true "Admin API key"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/queue/stats [get]
func (h *QueueHandler) GetStats(c echo.Context) error {
	stats, err := h.service.GetStats(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, stats)
}

// ResendItem godoc
// @Summary Resend a queue item
// @Description Puts an item back into pending, due immediately; works from any status
// @Tags queue
// @Accept json
// @Produce json
// @Param x-api-key header string true "Admin API key"
// @Param id path int true "Queue item ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/queue/{id}/resend [post]
func (h *QueueHandler) ResendItem(c echo.Context) error {
	id, err := parseItemID(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	if err := h.service.Resend(c.Request().Context(), id); err != nil {
		return response.BadRequest(c, err)
	}

	return response.OkWithMessage(c, "Queue item scheduled for resend", map[string]any{
		"id": id,
	})
}

// SendItemNow godoc
// @Summary Send a queue item immediately
// @Description Dispatches the item synchronously, bypassing its schedule
// @Tags queue
// @Accept json
// @Produce json
// @Param x-api-key header string true "Admin API key"
// @Param id path int true "Queue item ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/queue/{id}/send [post]
func (h *QueueHandler) SendItemNow(c echo.Context) error {
	id, err := parseItemID(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	result, err := h.service.SendNow(c.Request().Context(), id)
	if err != nil {
		return response.BadRequest(c, err)
	}

	if !result.Success {
		return response.OkWithMessage(c, "Dispatch failed", map[string]any{
			"id":    id,
			"sent":  false,
			"error": result.Error.Error(),
		})
	}

	return response.OkWithMessage(c, "Queue item sent", map[string]any{
		"id":     id,
		"sent":   true,
		"sentAt": result.SentAt,
	})
}

// DeleteItem godoc
// @Summary Delete a queue item
// @Description Removes the item unconditionally, regardless of status
// @Tags queue
// @Accept json
// @Produce json
// @Param x-api-key header string true "Admin API key"
// @Param id path int true "Queue item ID"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/queue/{id} [delete]
func (h *QueueHandler) DeleteItem(c echo.Context) error {
	id, err := parseItemID(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return response.InternalServerError(c, err)
	}

	return response.NoContent(c)
}

func parseItemID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid queue item id")
	}
	return id, nil
}

func parsePaginationParams(c echo.Context) (int, int, error) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)

	pageStr := c.QueryParam("page")
	pageSizeStr := c.QueryParam("pageSize")

	// Page
	page := defaultPage
	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p <= 0 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
		page = p
	}

	// Page size
	pageSize := defaultPageSize
	if pageSizeStr != "" {
		ps, err := strconv.Atoi(pageSizeStr)
		if err != nil || ps <= 0 || ps > maxPageSize {
			return 0, 0, fmt.Errorf("pageSize must be between 1 and %d", maxPageSize)
		}

		pageSize = ps
	}

	return page, pageSize, nil
}
