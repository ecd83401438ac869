package middleware

import (
	"net/http"
	"strings"

	"auth/utils"

	"github.com/gin-gonic/gin"
)

// JWTMiddleware valide le Bearer token et pose user_id / user_email dans
// le contexte. Le cœur métier fait ses propres contrôles d'autorisation
// à partir de cette identité.
func JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromRequest(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}

// OptionalJWTMiddleware pose l'identité si un token valide est présent,
// sans bloquer les requêtes anonymes.
func OptionalJWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := claimsFromRequest(c); ok {
			c.Set("user_id", claims.UserID)
			c.Set("user_email", claims.Email)
		}
		c.Next()
	}
}

func claimsFromRequest(c *gin.Context) (*utils.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, false
	}

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		return nil, false
	}

	return claims, true
}

// GetUserID retourne l'id utilisateur posé par le middleware
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUserEmail retourne l'email utilisateur posé par le middleware
func GetUserEmail(c *gin.Context) (string, bool) {
	userEmail, exists := c.Get("user_email")
	if !exists {
		return "", false
	}
	email, ok := userEmail.(string)
	return email, ok
}
