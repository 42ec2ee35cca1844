package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shophub/internal/domain"
	catalogsvc "shophub/internal/service/catalog"
)

// CatalogService is the slice of the catalog service the HTTP layer needs.
type CatalogService interface {
	ListProducts(ctx context.Context, q catalogsvc.Query) ([]domain.Product, error)
	NewArrivals(ctx context.Context, limit int) ([]domain.Product, error)
	FeaturedProducts(ctx context.Context, limit int) ([]domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	CreateProduct(ctx context.Context, in catalogsvc.CreateProductInput) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, in catalogsvc.CreateCategoryInput) (*domain.Category, error)
}

// parseLimit rejects malformed limits at the boundary so the query layer
// never sees them. Absent means 0, "use the default".
func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		writeBadRequest(c, "Invalid data", domain.FieldError{Field: "limit", Message: "limit must be a non-negative integer"})
		return 0, false
	}
	return limit, true
}

func listProductsHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := parseLimit(c)
		if !ok {
			return
		}
		q := catalogsvc.Query{
			Search:       c.Query("search"),
			CategorySlug: c.Query("category"),
			Featured:     c.Query("featured") == "true",
			Limit:        limit,
		}
		products, err := catalog.ListProducts(c.Request.Context(), q)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func newArrivalsHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := parseLimit(c)
		if !ok {
			return
		}
		products, err := catalog.NewArrivals(c.Request.Context(), limit)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func featuredProductsHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := parseLimit(c)
		if !ok {
			return
		}
		products, err := catalog.FeaturedProducts(c.Request.Context(), limit)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func getProductHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := catalog.GetProductBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func createProductHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalogsvc.CreateProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBadRequest(c, "Invalid request body")
			return
		}
		product, err := catalog.CreateProduct(c.Request.Context(), in)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func listCategoriesHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.ListCategories(c.Request.Context())
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func createCategoryHandler(catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalogsvc.CreateCategoryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBadRequest(c, "Invalid request body")
			return
		}
		category, err := catalog.CreateCategory(c.Request.Context(), in)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}
