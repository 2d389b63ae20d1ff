package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets hardening headers. API responses carry member data and
// redemption tokens and are never cached. Files under uploadPrefix are member
// photos and event images: cacheable, and sandboxed so an uploaded file can
// never run as a page of this origin.
func SecurityHeaders(uploadPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		if uploadPrefix != "" && strings.HasPrefix(c.Request.URL.Path, uploadPrefix+"/") {
			h.Set("Content-Security-Policy", "default-src 'none'; img-src 'self'; sandbox")
			h.Set("Cache-Control", "public, max-age=86400")
		} else {
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			h.Set("Cache-Control", "no-store")
		}

		c.Next()
	}
}
