package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ualberta-rcg/research-qa/internal/logger"
)

// RequestID stamps every request with a correlation id and carries it
// through the request's logging scope, so a single request's log lines
// (across the orchestrator's stages) can be grepped together.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Writer.Header().Set("X-Request-ID", id)
		ctx := logger.WithFields(c.Request.Context(), logrus.Fields{"request_id": id})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
