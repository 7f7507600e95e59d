package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// PrincipalLookup reports whether a user is active and whether it is staff.
type PrincipalLookup func(ctx context.Context, userID string) (active bool, staff bool, err error)

// AuthRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>
// and resolves the caller's current staff flag through lookup. Unknown or
// inactive users are rejected even when their token is still valid.
func AuthRequired(jwtManager *JWTManager, lookup PrincipalLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing Authorization header",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid Authorization header format",
			})
			return
		}

		claims, err := jwtManager.ParseAndValidate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		active, staff, err := lookup(c.Request.Context(), claims.Subject)
		if err != nil || !active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "user not found or inactive",
			})
			return
		}

		SetPrincipal(c, Principal{UserID: claims.Subject, IsStaff: staff})

		c.Next()
	}
}

// RequireStaff ensures the authenticated user is clinic staff.
// It MUST be used after AuthRequired.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsStaff(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: staff access required"})
			return
		}
		c.Next()
	}
}
