package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-discipline-api/internal/models"
	appErrors "github.com/noah-isme/sma-discipline-api/pkg/errors"
	"github.com/noah-isme/sma-discipline-api/pkg/response"
)

// ContextUserKey is the gin context key storing the resolved caller.
const ContextUserKey = "currentUser"

// IdentityHeader names the header carrying the caller's user id. There are
// no session tokens in this system; the client presents the id it received
// at login and the middleware resolves it against the store on every
// request. This is an identification convention, not a security boundary.
const IdentityHeader = "X-User-ID"

type userLookup interface {
	GetUser(id string) (*models.User, error)
}

// Identity resolves the caller from the identity header and stores the user
// in the request context. Requests without a resolvable caller are rejected.
func Identity(users userLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(IdentityHeader)
		if id == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		user, err := users.GetUser(id)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "unknown caller"))
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the resolved caller from the gin context.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
