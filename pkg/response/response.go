// Package response defines the JSON envelope every handler replies with.
// Handlers never call c.JSON directly; going through these helpers keeps the
// success flag and field names uniform across the API.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type PaginatedResponse struct {
	Success    bool  `json:"success"`
	Data       any   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

func succeed(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, ErrorResponse{
		Success: false,
		Error:   message,
	})
}

func Ok(c echo.Context, data any) error {
	return succeed(c, http.StatusOK, "", data)
}

func OkWithMessage(c echo.Context, message string, data any) error {
	return succeed(c, http.StatusOK, message, data)
}

func Created(c echo.Context, message string, data any) error {
	return succeed(c, http.StatusCreated, message, data)
}

func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func BadRequest(c echo.Context, err error) error {
	return fail(c, http.StatusBadRequest, err.Error())
}

func BadRequestWithMessage(c echo.Context, message string) error {
	return fail(c, http.StatusBadRequest, message)
}

func Unauthorized(c echo.Context) error {
	return fail(c, http.StatusUnauthorized, "Invalid or missing API key")
}

func NotFound(c echo.Context, message string) error {
	return fail(c, http.StatusNotFound, message)
}

func InternalServerError(c echo.Context, err error) error {
	return fail(c, http.StatusInternalServerError, err.Error())
}

func UnprocessableEntity(c echo.Context, err error) error {
	return fail(c, http.StatusUnprocessableEntity, err.Error())
}

// Paginated rounds the page count up so a final partial page is reachable.
func Paginated(c echo.Context, data any, page, pageSize int, totalCount int64) error {
	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return c.JSON(http.StatusOK, PaginatedResponse{
		Success:    true,
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	})
}
