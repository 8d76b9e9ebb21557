package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/assignment-organizer/internal/models"
	appErrors "github.com/noah-isme/assignment-organizer/pkg/errors"
	"github.com/noah-isme/assignment-organizer/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// FeedTokenParam carries the access token for calendar clients that cannot
// send headers.
const FeedTokenParam = "token"

type authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.JWTClaims, error)
}

// JWT protects routes by requiring a valid access token.
func JWT(auth authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		authenticate(c, auth, parts[1])
	}
}

// FeedJWT behaves like JWT but also accepts the token as a query parameter.
func FeedJWT(auth authenticator) gin.HandlerFunc {
	header := JWT(auth)
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if token := c.Query(FeedTokenParam); token != "" {
				authenticate(c, auth, token)
				return
			}
		}
		header(c)
	}
}

func authenticate(c *gin.Context, auth authenticator, token string) {
	claims, err := auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		c.Abort()
		return
	}

	c.Set(ContextUserKey, claims)
	c.Next()
}
