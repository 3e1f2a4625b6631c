package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard 200 response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, 0, "success", data)
}

// Created returns a standard 201 response.
func Created(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusCreated, 0, "success", data)
}

// NoContent returns a 204 response.
func NoContent(ctx *gin.Context) {
	ctx.Status(http.StatusNoContent)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// ValidationError returns a 400 response carrying the offending field name so
// clients can surface the message next to the right input.
func ValidationError(ctx *gin.Context, code int, field, message string) {
	Respond(ctx, http.StatusBadRequest, code, message, gin.H{"field": field})
}
