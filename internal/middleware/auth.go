package middleware

import (
	"net/http"
	"strings"

	"github.com/whanarchyven/drsarha-conf/internal/models"
	"github.com/whanarchyven/drsarha-conf/internal/services"

	"github.com/gin-gonic/gin"
)

func JWTAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromHeader(c, authService)
		if err != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// OptionalAuth resolves the caller identity when a token is present but does
// not reject anonymous requests. Read endpoints use it to personalize state.
func OptionalAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			if claims, errMsg := claimsFromHeader(c, authService); errMsg == "" {
				c.Set("user_id", claims.UserID)
				c.Set("role", claims.Role)
			}
		}
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func claimsFromHeader(c *gin.Context, authService *services.AuthService) (*services.TokenClaims, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, "authorization header required"
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, "invalid authorization header format"
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		return nil, "invalid or expired token"
	}
	return claims, ""
}
