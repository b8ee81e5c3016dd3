package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ctfboard/pkg/token"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	AuthUserIDKey  = "auth_user_id"
	AuthIsAdminKey = "auth_is_admin"
)

// AuthMiddleware validates the Bearer token and loads the caller's identity
// into the request context. The admin flag is read from the database rather
// than trusted from the token.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || strings.ToLower(bearerToken[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format. Expected: Bearer <token>"})
			return
		}

		claims, err := token.ValidateJWT(bearerToken[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
			return
		}

		var row struct {
			IsAdmin bool
		}
		res := db.Table("users").Select("is_admin").
			Where("id = ? AND deleted_at IS NULL", claims.UserID).
			Limit(1).Scan(&row)
		if res.Error != nil || res.RowsAffected == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found or inactive"})
			return
		}

		c.Set(AuthUserIDKey, claims.UserID)
		c.Set(AuthIsAdminKey, row.IsAdmin)
		c.Next()
	}
}

// AdminMiddleware gates admin-only routes. It must run after AuthMiddleware.
// The response does not reveal whether the requested resource exists.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdminFromContext(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
			return
		}
		c.Next()
	}
}

// GetUserIDFromContext extracts the authenticated user's ID from the context.
func GetUserIDFromContext(c *gin.Context) (uint, error) {
	userID, exists := c.Get(AuthUserIDKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}

	uid, ok := userID.(uint)
	if !ok {
		return 0, fmt.Errorf("user ID has unexpected type: %T", userID)
	}

	return uid, nil
}

// IsAdminFromContext reports whether the authenticated user is an admin.
func IsAdminFromContext(c *gin.Context) bool {
	isAdmin, exists := c.Get(AuthIsAdminKey)
	if !exists {
		return false
	}
	flag, ok := isAdmin.(bool)
	return ok && flag
}
