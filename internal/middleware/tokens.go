package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"prodash/internal/config"
	"prodash/internal/models"
	"prodash/internal/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	tokenIssuer      = "prodash-api"
)

// JWTClaims represents the claims in the JWT
type JWTClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies access and refresh tokens. Access and
// refresh tokens use different keys.
type TokenIssuer struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer builds an issuer from the loaded configuration.
func NewTokenIssuer(cfg *config.Config) *TokenIssuer {
	return &TokenIssuer{
		accessKey:  []byte(cfg.JWTSecret),
		refreshKey: []byte(cfg.RefreshSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		now:        time.Now,
	}
}

// AccessTTL is the lifetime of an access token.
func (ti *TokenIssuer) AccessTTL() time.Duration { return ti.accessTTL }

// RefreshTTL is the lifetime of a refresh token.
func (ti *TokenIssuer) RefreshTTL() time.Duration { return ti.refreshTTL }

// GenerateAccessToken generates a short-lived JWT access token for a user.
func (ti *TokenIssuer) GenerateAccessToken(user *models.User) (string, error) {
	return ti.sign(user, tokenTypeAccess, ti.accessTTL, ti.accessKey)
}

// GenerateRefreshToken generates a long-lived JWT refresh token for a user.
func (ti *TokenIssuer) GenerateRefreshToken(user *models.User) (string, error) {
	return ti.sign(user, tokenTypeRefresh, ti.refreshTTL, ti.refreshKey)
}

func (ti *TokenIssuer) sign(user *models.User, tokenType string, ttl time.Duration, key []byte) (string, error) {
	now := ti.now()
	claims := &JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ID:        uuid.New(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// ValidateAccessToken parses an access token. Refresh tokens are rejected.
func (ti *TokenIssuer) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	claims, err := ti.parse(tokenString, ti.accessKey)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, fmt.Errorf("token is not an access token")
	}
	return claims, nil
}

// ValidateRefreshToken parses and validates a refresh token JWT.
// Returns the claims if valid, or an error if the token is invalid,
// expired, or not a refresh token.
func (ti *TokenIssuer) ValidateRefreshToken(tokenString string) (*JWTClaims, error) {
	claims, err := ti.parse(tokenString, ti.refreshKey)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, fmt.Errorf("token is not a refresh token")
	}
	return claims, nil
}

func (ti *TokenIssuer) parse(tokenString string, key []byte) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	}, jwt.WithTimeFunc(ti.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token not valid")
	}
	return claims, nil
}

// HashToken returns the SHA-256 hex digest of a token string.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
