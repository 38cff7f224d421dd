package middleware

import (
	"log"
	"strings"
	"time"

	"multiblog/config"
	"multiblog/helper"
	"multiblog/repositories"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

var HTTPHelper = helper.NewHTTPHelper()

// Context keys set by AuthMiddleware.
const (
	ContextUserID         = "user_id"
	ContextUsername       = "username"
	ContextRole           = "role"
	ContextTokenID        = "token_id"
	ContextTokenExpiresAt = "token_expires_at"
)

type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func AuthMiddleware(tokenRepo repositories.TokenRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			HTTPHelper.SendUnauthorizedError(c, "Authorization header required", HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			HTTPHelper.SendUnauthorizedError(c, "Bearer token required", HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		claims := &Claims{}

		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return config.JWTSecret, nil
		})

		if err != nil || !token.Valid {
			HTTPHelper.SendUnauthorizedError(c, "Token is not valid", HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		revoked, err := tokenRepo.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			log.Printf("token revocation check failed: %v", err)
			HTTPHelper.SendInternalError(c, "Internal server error", HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}
		if revoked {
			HTTPHelper.SendUnauthorizedError(c, "Token has been revoked", HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		var expiresAt time.Time
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextTokenID, claims.ID)
		c.Set(ContextTokenExpiresAt, expiresAt)

		c.Next()
	}
}

func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleStr := c.GetString(ContextRole)
		if roleStr == "" {
			HTTPHelper.SendUnauthorizedError(c, "User role not found", HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		for _, role := range roles {
			if roleStr == role {
				c.Next()
				return
			}
		}

		HTTPHelper.SendForbiddenError(c, "Insufficient permissions", HTTPHelper.EmptyJsonMap())
		c.Abort()
	}
}
