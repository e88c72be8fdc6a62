package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fibermade/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects requests whose body exceeds maxBytes. Webhook payloads
// are the largest bodies this service accepts, a product with hundreds of
// variants stays well under a megabyte.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(
					dto.ErrCodePayloadTooLarge,
					"Request body exceeds the allowed size",
					c.GetString("request_id"),
				))
			return
		}

		// Chunked requests carry no Content-Length, cap them while streaming
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
