package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shophub/internal/domain"
	"shophub/internal/payment"
	orderssvc "shophub/internal/service/orders"
)

type errorResponse struct {
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// writeServiceError maps service-layer errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message; details stay in the logs.
func writeServiceError(c *gin.Context, err error) {
	var validation domain.ValidationError
	var transition orderssvc.InvalidTransitionError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid data", Errors: validation.Fields})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, errorResponse{Message: transition.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Message: "Not found"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse{Message: "Already exists"})
	case errors.Is(err, payment.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid amount"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusBadGateway, errorResponse{Message: "Payment provider timed out, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Message: "Internal error"})
	}
}

func writeBadRequest(c *gin.Context, message string, fields ...domain.FieldError) {
	c.JSON(http.StatusBadRequest, errorResponse{Message: message, Errors: fields})
}
