package http

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foundationpro/inspection-billing/internal/domain/entity"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"

	// Identity headers are set by the authenticating gateway in front of the API
	userIDHeader   = "X-User-ID"
	userRoleHeader = "X-User-Role"
)

// requestIDMiddleware propagates the caller's request ID or assigns a new one
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// actorFromRequest reads the acting user from the identity headers
func actorFromRequest(c *gin.Context) (entity.Actor, bool) {
	actor := entity.Actor{
		UserID: c.GetHeader(userIDHeader),
		Role:   entity.UserRole(c.GetHeader(userRoleHeader)),
	}
	if actor.UserID == "" || actor.Role == "" {
		return entity.Actor{}, false
	}
	return actor, true
}
