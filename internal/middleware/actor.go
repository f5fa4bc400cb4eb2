package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const actorKey = contextKey("actor")

// ActorHeader carries the identity recorded in audit fields. Authentication
// is out of scope for this service; the caller supplies the actor
// explicitly rather than the core reading ambient user state.
const ActorHeader = "X-Actor-ID"

// ActorMiddleware extracts the acting user from the request header and
// stores it in the Gin context. Mutating endpoints require it.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(ActorHeader)
		if actor != "" {
			c.Set(string(actorKey), actor)
		}
		c.Next()
	}
}

// GetActorFromContext retrieves the actor ID from the Gin context.
func GetActorFromContext(c *gin.Context) (string, bool) {
	actorVal, exists := c.Get(string(actorKey))
	if !exists {
		return "", false
	}
	actor, ok := actorVal.(string)
	if !ok || actor == "" {
		return "", false
	}
	return actor, true
}

// RequireActor aborts the request with 400 when no actor header is present.
// Applied to mutating routes so audit fields are always attributable.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetActorFromContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + ActorHeader + " header"})
			return
		}
		c.Next()
	}
}
