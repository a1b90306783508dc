package middleware

import (
	"net/http"
	"strings"

	"cat_registry/internal/model"
	"cat_registry/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	// AuthIdentityKey holds the caller's model.Identity in the gin context
	AuthIdentityKey = "authIdentity"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header required"})
			return
		}

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		// Set caller identity in context
		c.Set(AuthIdentityKey, claims.Identity())

		c.Next()
	}
}

// OptionalJWTAuthMiddleware sets the caller identity when a valid token is
// present and lets the request continue otherwise. Handlers that require an
// identity decide the status themselves.
func OptionalJWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := jwtUtil.ValidateToken(tokenString); err == nil {
				c.Set(AuthIdentityKey, claims.Identity())
			}
		}
		c.Next()
	}
}

// GetIdentity retrieves the caller identity set by the auth middleware
func GetIdentity(c *gin.Context) (model.Identity, bool) {
	val, exists := c.Get(AuthIdentityKey)
	if !exists {
		return model.Identity{}, false
	}
	ident, ok := val.(model.Identity)
	return ident, ok
}
