package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the context key under which the request id travels.
// Handlers read it back to correlate error responses with log lines.
const RequestIDKey = "request_id"

// RequestID tags each request with an X-Request-ID, minting one when the
// client did not send its own.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger logs one line per request: id, method, path, status, latency and
// body sizes. The request size doubles as the upload size on the multipart
// parse routes, where latency tracks the weight of the statement.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		in := c.Request.ContentLength
		if in < 0 {
			in = 0
		}
		out := c.Writer.Size()
		if out < 0 {
			out = 0
		}
		log.Printf("middleware.Logger: [%s] %s %s %d %s in=%dB out=%dB",
			c.GetString(RequestIDKey),
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
			in,
			out,
		)
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
