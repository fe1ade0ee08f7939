package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Constants for context keys
const (
	ContextRequestIDKey = "requestID"
	requestIDHeader     = "X-Request-ID"
)

// RequestIDMiddleware tags every request with an id for log correlation.
// An incoming X-Request-ID is honoured so upstream proxies can thread
// their own ids through.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// RequestLogger emits one structured line per request. Must run after
// RequestIDMiddleware.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		requestID, _ := c.Get(ContextRequestIDKey)
		log.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.Any("requestId", requestID),
		)
	}
}

// abortWithError sends a JSON error response and stops the handler chain.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// internalError reports a store or other unexpected failure. Detail is
// only included in development builds.
func internalError(c *gin.Context, devMode bool, err error) {
	message := "Internal Server Error: An unexpected error occurred"
	if devMode && err != nil {
		message += ": " + err.Error()
	}
	abortWithError(c, http.StatusInternalServerError, message)
}
