package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"shophub/internal/domain"
	"shophub/internal/payment"
	orderssvc "shophub/internal/service/orders"
)

// OrderService is the slice of the order service the HTTP layer needs.
type OrderService interface {
	Create(ctx context.Context, in orderssvc.CreateInput) (*domain.Order, error)
	FinalizeOrder(ctx context.Context, in orderssvc.CreateInput) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	SetStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error)
}

func listOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		result, err := orders.ListByUser(c.Request.Context(), user.ID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func createOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in orderssvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBadRequest(c, "Invalid request body")
			return
		}
		// The order always belongs to the caller, whatever the body says.
		in.UserID = currentUser(c).ID

		// Finalize keyed by the payment intent: retrying a half-failed
		// confirmation returns the already-recorded order.
		order, err := orders.FinalizeOrder(c.Request.Context(), in)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

func setOrderStatusHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			writeBadRequest(c, "Invalid data", domain.FieldError{Field: "id", Message: "order id must be an integer"})
			return
		}
		var in statusRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBadRequest(c, "Invalid request body")
			return
		}
		order, err := orders.SetStatus(c.Request.Context(), orderID, domain.OrderStatus(in.Status))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

type paymentIntentRequest struct {
	AmountCents int64 `json:"amountCents"`
}

type paymentIntentResponse struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
}

// createPaymentIntentHandler calls the external provider under a bounded
// timeout; an unbounded hang during payment is a real usability defect.
func createPaymentIntentHandler(provider payment.Provider, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in paymentIntentRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBadRequest(c, "Invalid request body")
			return
		}
		if in.AmountCents <= 0 {
			writeBadRequest(c, "Invalid amount", domain.FieldError{Field: "amountCents", Message: "amount must be positive"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		user := currentUser(c)
		intent, err := provider.CreateIntent(ctx, payment.CreateIntentInput{
			AmountCents: in.AmountCents,
			Currency:    "usd",
			Metadata:    map[string]string{"userId": strconv.FormatInt(user.ID, 10)},
		})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, paymentIntentResponse{PaymentIntentID: intent.ID, ClientSecret: intent.ClientSecret})
	}
}
