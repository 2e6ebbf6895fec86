package api

import (
	"net/http"

	"github.com/Domenick1991/flightreservation/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps domain failures onto HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case domain.IsNotFoundError(err):
		return http.StatusNotFound, "NOT_FOUND"
	case domain.IsValidationError(err):
		return http.StatusBadRequest, "INVALID_INPUT"
	case domain.IsWindowError(err):
		return http.StatusConflict, "OUTSIDE_WINDOW"
	case domain.IsConflictError(err):
		return http.StatusConflict, "CONFLICT"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	_ = c.Error(err)
	c.JSON(status, errorResponse{Error: err.Error(), Code: code})
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "BAD_REQUEST"})
}
