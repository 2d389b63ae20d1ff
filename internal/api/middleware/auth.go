package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/utkandevrim/ac/internal/service"
	"github.com/utkandevrim/ac/pkg/response"
)

// Context keys set by JWTAuth.
const (
	SessionKey = "session"
	UserIDKey  = "user_id"
	IsAdminKey = "is_admin"
)

// JWTAuth resolves Authorization: Bearer <token> into a session. The member
// is re-read on every request so approval and admin changes apply at once.
func JWTAuth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Unauthorized(c, 10002, "malformed authorization header")
			c.Abort()
			return
		}

		session, err := auth.Resolve(c.Request.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				response.Unauthorized(c, 10002, "token expired")
			case errors.Is(err, service.ErrTokenRevoked):
				response.Unauthorized(c, 10002, "token revoked")
			case errors.Is(err, service.ErrNotApproved):
				response.Unauthorized(c, 10002, err.Error())
			case errors.Is(err, service.ErrSessionMemberGone), errors.Is(err, service.ErrTokenInvalid):
				response.Unauthorized(c, 10002, "could not validate credentials")
			default:
				response.InternalError(c)
			}
			c.Abort()
			return
		}

		c.Set(SessionKey, session)
		c.Set(UserIDKey, session.Member.ID)
		c.Set(IsAdminKey, session.Member.IsAdmin)

		c.Next()
	}
}

// AdminOnly rejects callers whose member record is not an admin. Must run
// after JWTAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(IsAdminKey)
		if !exists {
			response.Unauthorized(c, 10002, "not authenticated")
			c.Abort()
			return
		}

		if isAdmin, _ := v.(bool); !isAdmin {
			response.Forbidden(c, 10003, "admin privileges required")
			c.Abort()
			return
		}

		c.Next()
	}
}
