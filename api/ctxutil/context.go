// Package ctxutil moves request scoped values from gin into context.Context
package ctxutil

import (
	"context"

	"posimarket/api/response"
	"posimarket/domain/order"
	"posimarket/infrastructure/persistence"
	"posimarket/pkg/errors"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// WithRequestID request context carrying the request id for SQL and service logs
func WithRequestID(c *gin.Context) context.Context {
	return persistence.ContextWithRequestID(c.Request.Context(), response.GetRequestID(c))
}

func RequestIDFromContext(ctx context.Context) string {
	return persistence.RequestIDFromContext(ctx)
}

// SetActor stores the authenticated caller
func SetActor(c *gin.Context, actor order.Actor) {
	c.Set(actorKey, actor)
}

// Actor authenticated caller; ok is false on anonymous requests
func Actor(c *gin.Context) (order.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return order.Actor{}, false
	}
	actor, ok := v.(order.Actor)
	return actor, ok && actor.UserID != ""
}

// RequireActor answers 401 and returns false when the caller is anonymous
func RequireActor(c *gin.Context) (order.Actor, bool) {
	actor, ok := Actor(c)
	if !ok {
		response.HandleAppError(c, errors.Unauthorized("authentication required"))
	}
	return actor, ok
}
