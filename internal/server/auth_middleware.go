package server

import (
	"context"
	"strings"

	"inkwell/internal/auth"
	"inkwell/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

const (
	localsUserID    = "userID"
	localsPrincipal = "principal"
)

func bearerToken(c *fiber.Ctx) string {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// storePrincipal exposes p to handlers and to the request-scoped logger.
func storePrincipal(c *fiber.Ctx, p *auth.Principal) {
	c.Locals(localsPrincipal, p)
	ctx := context.WithValue(c.UserContext(), middleware.RoleKey, string(p.Role))
	if p.Role == auth.RoleUser {
		c.Locals(localsUserID, p.ID)
		ctx = context.WithValue(ctx, middleware.UserIDKey, p.ID)
	}
	c.SetUserContext(ctx)
}

func (s *Server) requireRole(role auth.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := s.tokens.Parse(c.UserContext(), bearerToken(c), role)
		if err != nil {
			return respondError(c, err)
		}
		storePrincipal(c, p)
		return c.Next()
	}
}

// AuthRequired accepts only user tokens.
func (s *Server) AuthRequired() fiber.Handler {
	return s.requireRole(auth.RoleUser)
}

// AdminRequired accepts only admin tokens; user tokens get 401.
func (s *Server) AdminRequired() fiber.Handler {
	return s.requireRole(auth.RoleAdmin)
}

// OptionalAuth attaches the user principal when a valid token is present and
// otherwise lets the request through anonymously.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			if p, err := s.tokens.Parse(c.UserContext(), token, auth.RoleUser); err == nil {
				storePrincipal(c, p)
			}
		}
		return c.Next()
	}
}
