package httpserver

import (
	"strings"

	"github.com/gin-gonic/gin"

	usersdomain "github.com/minimarket/go-gin-shop-server/internal/domains/users/domain"
	"github.com/minimarket/go-gin-shop-server/internal/platform/auth"
	apierrors "github.com/minimarket/go-gin-shop-server/internal/shared/errors"
)

const principalKey = "httpserver.principal"

// authenticate resolves the bearer token into a principal and stores it on
// the request context. Requests without a valid credential are rejected.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			s.responder.Respond(c, apierrors.ErrUnauthorized.WithDetail("missing bearer token"))
			c.Abort()
			return
		}
		principal, err := s.auth.ResolveCaller(strings.TrimSpace(token))
		if err != nil {
			s.responder.Respond(c, apierrors.ErrUnauthorized.WithDetail("credential is invalid or expired"))
			c.Abort()
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// requireRole gates a route on role membership.
func (s *Server) requireRole(role usersdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := callerOf(c)
		if !ok || !principal.HasRole(role) {
			s.responder.Respond(c, apierrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// requireRefundCapability gates refunds on the dedicated token claim.
func (s *Server) requireRefundCapability() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := callerOf(c)
		if !ok || !principal.CanRefundOrders {
			s.responder.Respond(c, apierrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

func callerOf(c *gin.Context) (auth.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return auth.Principal{}, false
	}
	principal, ok := value.(auth.Principal)
	return principal, ok
}
