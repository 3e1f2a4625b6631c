package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hyeonlab/unihub/config"
)

// Token types carried in claims. Access tokens authenticate requests; refresh
// tokens may only be exchanged for a new pair.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Claims defines JWT claims used in the application.
type Claims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair bundles the two tokens issued at signup/signin/refresh.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// GenerateToken issues a JWT of the given type for the specified user identity.
func GenerateToken(userID uint, email, tokenType string, duration time.Duration) (string, error) {
	cfg := config.Get()

	claims := Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// GenerateTokenPair issues an access and a refresh token for the user.
func GenerateTokenPair(userID uint, email string) (TokenPair, error) {
	cfg := config.Get()

	access, err := GenerateToken(userID, email, TokenAccess,
		time.Duration(cfg.AccessTokenMinutes)*time.Minute)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := GenerateToken(userID, email, TokenRefresh,
		time.Duration(cfg.RefreshTokenDays)*24*time.Hour)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// ParseToken validates a JWT and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	cfg := config.Get()
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
