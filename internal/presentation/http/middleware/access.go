package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/journeykit/journeykit-go/internal/application/services"
)

const (
	principalKey   = "accessPrincipal"
	accessLevelKey = "accessLevel"

	// AuthCookieName is the HTTP-only cookie set on login.
	AuthCookieName = "flow_auth"
)

// AccessMiddleware resolves the caller's access level from the Authorization
// header or the auth cookie and stores it in the request context. It never
// rejects: endpoints that need a level use the Require* middlewares.
func AccessMiddleware(accessService *services.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, level := accessService.Resolve(extractToken(c))
		if principal != nil {
			c.Set(principalKey, principal)
		}
		c.Set(accessLevelKey, level)
		c.Next()
	}
}

// RequireAdmin rejects callers below admin access.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetAccessLevel(c) != services.AccessAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// RequirePreviewAccess rejects callers who may enter neither builder nor
// preview surface.
func RequirePreviewAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !services.CanEnterPreview(GetAccessLevel(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}

// GetAccessLevel returns the resolved access level for the request.
func GetAccessLevel(c *gin.Context) services.AccessLevel {
	if level, exists := c.Get(accessLevelKey); exists {
		if l, ok := level.(services.AccessLevel); ok {
			return l
		}
	}
	return services.AccessNoAccess
}

// GetPrincipal returns the resolved principal, or nil for anonymous callers.
func GetPrincipal(c *gin.Context) *services.Principal {
	if principal, exists := c.Get(principalKey); exists {
		if p, ok := principal.(*services.Principal); ok {
			return p
		}
	}
	return nil
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie
	}
	return ""
}
