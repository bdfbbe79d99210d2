package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const callerIDKey = "callerID"

// Auth returns middleware that verifies the bearer token and attaches
// the caller's user id to the request context. A missing token is
// 401; a token that fails verification is 403.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or unauthorized token", "code": http.StatusUnauthorized})
			return
		}

		parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token", "code": http.StatusForbidden})
			return
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token", "code": http.StatusForbidden})
			return
		}

		userID, _ := claims["id"].(string)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token", "code": http.StatusForbidden})
			return
		}

		c.Set(callerIDKey, userID)
		c.Next()
	}
}

// CallerID returns the authenticated user id set by Auth, or "" when
// the request is unauthenticated.
func CallerID(c *gin.Context) string {
	return c.GetString(callerIDKey)
}
