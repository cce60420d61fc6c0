package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/farmtrack/farmtrack/internal/auth"
	"github.com/farmtrack/farmtrack/pkg/errors"
	"github.com/farmtrack/farmtrack/pkg/response"
)

const (
	CtxClaimsKey  = "authClaims"
	CtxUserUIDKey = "userUID"
)

// Auth enforces JWT authentication using the supplied JWT service.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authz[7:])
		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		// Propagate identity into request context
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserUIDKey, claims.UserUID)

		c.Next()
	}
}

// UserUID extracts the authenticated user id placed by Auth. The empty
// string means the request never passed through the middleware.
func UserUID(c *gin.Context) string {
	return c.GetString(CtxUserUIDKey)
}
