package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hyeonlab/unihub/utils"
)

const (
	// ContextUserIDKey is the key storing the authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextEmailKey stores the authenticated email.
	ContextEmailKey = "email"
	// ContextTokenKey stores the raw bearer token for signout blacklisting.
	ContextTokenKey = "access_token"
)

// AuthRequired ensures the request carries a valid, non-revoked access token.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, claims, code, msg := bearerClaims(ctx)
		if claims == nil {
			utils.Error(ctx, http.StatusUnauthorized, code, msg)
			ctx.Abort()
			return
		}
		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextEmailKey, claims.Email)
		ctx.Set(ContextTokenKey, token)
		ctx.Next()
	}
}

// AuthOptional attaches the user identity when a valid access token is
// present but lets anonymous requests through. Read endpoints use it so
// owners can see their own private objects.
func AuthOptional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token, claims, _, _ := bearerClaims(ctx); claims != nil {
			ctx.Set(ContextUserIDKey, claims.UserID)
			ctx.Set(ContextEmailKey, claims.Email)
			ctx.Set(ContextTokenKey, token)
		}
		ctx.Next()
	}
}

func bearerClaims(ctx *gin.Context) (string, *utils.Claims, int, string) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return "", nil, 40101, "authorization header missing"
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", nil, 40102, "invalid authorization header format"
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", nil, 40103, "empty bearer token"
	}
	if utils.IsTokenBlacklisted(token) {
		return "", nil, 40104, "token revoked"
	}
	claims, err := utils.ParseToken(token)
	if err != nil {
		return "", nil, 40105, "invalid token"
	}
	if claims.TokenType != utils.TokenAccess {
		return "", nil, 40106, "access token required"
	}
	return token, claims, 0, ""
}
