package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"talenthub-backend/internal/shared/response"
	"talenthub-backend/pkg/jwt"
)

// UserResolver checks that the user referenced by a token still exists.
// A valid token pointing at a deleted user must not authenticate.
type UserResolver interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// AuthMiddleware validates the Bearer token and puts the caller's
// user ID into the gin context under "userID".
func AuthMiddleware(jwtManager *jwt.Manager, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "invalid user ID in token")
			c.Abort()
			return
		}

		exists, err := users.Exists(c.Request.Context(), userID)
		if err != nil || !exists {
			response.Unauthorized(c, "user not found")
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// GetUserID reads the authenticated user ID set by AuthMiddleware.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}

	userID, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}

	return userID, true
}
