package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"shophub/internal/payment"
)

// Deps carries the services the router wires into handlers.
type Deps struct {
	Catalog        CatalogService
	Orders         OrderService
	Users          UserService
	Payments       payment.Provider
	PaymentTimeout time.Duration
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, ready readyFunc, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(ready))

	paymentTimeout := deps.PaymentTimeout
	if paymentTimeout <= 0 {
		paymentTimeout = 10 * time.Second
	}

	api := router.Group("/api")

	api.POST("/register", registerHandler(deps.Users))
	api.POST("/login", loginHandler(deps.Users))

	api.GET("/categories", listCategoriesHandler(deps.Catalog))
	api.GET("/products", listProductsHandler(deps.Catalog))
	api.GET("/products/new-arrivals", newArrivalsHandler(deps.Catalog))
	api.GET("/products/featured", featuredProductsHandler(deps.Catalog))
	api.GET("/products/:slug", getProductHandler(deps.Catalog))

	authed := api.Group("", requireAuth(deps.Users))
	authed.POST("/logout", logoutHandler(deps.Users))
	authed.GET("/user", currentUserHandler())
	authed.GET("/orders", listOrdersHandler(deps.Orders))
	authed.POST("/orders", createOrderHandler(deps.Orders))
	authed.POST("/create-payment-intent", createPaymentIntentHandler(deps.Payments, paymentTimeout))

	admin := authed.Group("", requireAdmin())
	admin.POST("/categories", createCategoryHandler(deps.Catalog))
	admin.POST("/products", createProductHandler(deps.Catalog))
	admin.PATCH("/orders/:id/status", setOrderStatusHandler(deps.Orders))

	return router
}
