package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Detail string `json:"detail"`
}

// writeDetail writes an error body. Statuses that forbid a body get none.
func writeDetail(c echo.Context, status int, detail string) error {
	if status < http.StatusOK || status == http.StatusNoContent || status == http.StatusNotModified {
		return c.NoContent(status)
	}
	return c.JSON(status, ErrorResponse{Detail: detail})
}
