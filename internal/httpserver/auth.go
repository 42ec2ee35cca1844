package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shophub/internal/domain"
	userssvc "shophub/internal/service/users"
)

// UserService is the slice of the users service the HTTP layer needs.
type UserService interface {
	Register(ctx context.Context, in userssvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
}

const userCtxKey = "shophub.user"

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// requireAuth resolves the bearer token into a user or aborts with 401.
func requireAuth(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		user, err := users.LookupByToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, userssvc.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: "Not authenticated"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Message: "Internal error"})
			return
		}
		c.Set(userCtxKey, user)
		c.Next()
	}
}

// requireAdmin runs after requireAuth and rejects non-admin callers with 403.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := currentUser(c); user == nil || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{Message: "Admin access required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func registerHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in userssvc.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBadRequest(c, "Invalid request body")
			return
		}
		user, err := users.Register(c.Request.Context(), in)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		// Log the fresh account straight in, as the storefront expects.
		_, token, err := users.Login(c.Request.Context(), in.Username, in.Password)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, authResponse{User: user, Token: token})
	}
}

func loginHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBadRequest(c, "Invalid request body")
			return
		}
		user, token, err := users.Login(c.Request.Context(), in.Username, in.Password)
		if err != nil {
			if errors.Is(err, userssvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, errorResponse{Message: "Invalid username or password"})
				return
			}
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, authResponse{User: user, Token: token})
	}
}

func logoutHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := users.Logout(c.Request.Context(), bearerToken(c)); err != nil {
			writeServiceError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func currentUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, currentUser(c))
	}
}
