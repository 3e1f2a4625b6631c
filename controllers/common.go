package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hyeonlab/unihub/middleware"
)

// getUserID returns the authenticated user's ID from the Gin context.
// The second return is false for anonymous requests.
func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// currentUserID returns the user ID or 0 for anonymous requests, the shape
// the permission engine expects.
func currentUserID(ctx *gin.Context) uint {
	id, _ := getUserID(ctx)
	return id
}

// pathID parses a numeric :id path parameter.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
