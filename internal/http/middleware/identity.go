// README: Header-based actor identity (placeholder until real auth lands).
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mobiurban/internal/types"
)

const actorKey = "actor"

// Identity reads the acting identity from X-Actor-ID / X-Actor-Role.
// Requests without both headers are rejected.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Actor-ID")
		roleRaw := c.GetHeader("X-Actor-Role")
		if id == "" || roleRaw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": "missing actor identity"})
			return
		}
		role, err := types.ParseRole(roleRaw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": "unknown actor role"})
			return
		}
		c.Set(actorKey, types.Actor{ID: types.ID(id), Role: role})
		c.Next()
	}
}

// Actor returns the identity stored by Identity. The zero Actor means the
// middleware did not run on this route.
func Actor(c *gin.Context) types.Actor {
	v, ok := c.Get(actorKey)
	if !ok {
		return types.Actor{}
	}
	return v.(types.Actor)
}
