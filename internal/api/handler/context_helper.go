package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/utkandevrim/ac/internal/api/middleware"
	"github.com/utkandevrim/ac/internal/service"
	"github.com/utkandevrim/ac/pkg/response"
)

// MustGetSession extracts the session JWTAuth stored. If it is missing a 401
// is written and ok is false; the caller should return.
func MustGetSession(c *gin.Context) (*service.Session, bool) {
	v, exists := c.Get(middleware.SessionKey)
	if !exists {
		response.Unauthorized(c, codeUnauthorized, "not authenticated")
		return nil, false
	}
	s, ok := v.(*service.Session)
	if !ok || s == nil || s.Member == nil {
		response.Unauthorized(c, codeUnauthorized, "not authenticated")
		return nil, false
	}
	return s, true
}

// MustGetCaller the authorizing identity of the current request.
func MustGetCaller(c *gin.Context) (service.Caller, bool) {
	s, ok := MustGetSession(c)
	if !ok {
		return service.Caller{}, false
	}
	return s.Caller(), true
}
