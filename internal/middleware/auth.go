package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "prodash/internal/errors"
)

// Cookie names carrying the tokens issued at login.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey = "userID"
	EmailKey  = "email"
)

// AuthMiddleware verifies the access token and stores the caller's identity
// in the context. The token is read from the Authorization header, falling
// back to the access token cookie.
func AuthMiddleware(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, appErr := extractToken(c)
		if appErr != nil {
			abortWithError(c, appErr)
			return
		}

		claims, err := issuer.ValidateAccessToken(tokenString)
		if err != nil {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"))
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Next()
	}
}

func extractToken(c *gin.Context) (string, *apperrors.AppError) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format")
		}
		return parts[1], nil
	}

	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie, nil
	}

	return "", apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required")
}

func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	c.Abort()
	writeError(c, appErr)
}
