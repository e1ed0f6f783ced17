package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lockplane/authfile"
	"github.com/lockplane/authfile/ratelimit"
)

const claimsKey = "auth_claims"

// RequireAccessToken validates the bearer token and rejects anything
// that is not a live access token. Refresh tokens are never accepted
// here, they only move through the refresh endpoint.
func RequireAccessToken(tokens authfile.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}

		claims, err := tokens.Validate(raw, authfile.KindAccess)
		if err != nil {
			return fail(c, err)
		}

		c.Locals(claimsKey, claims)
		c.SetUserContext(authfile.WithClaimsContext(c.UserContext(), claims))
		return c.Next()
	}
}

// RequireRole gates a route on the role claim; higher roles pass lower
// gates. Must run after RequireAccessToken.
func RequireRole(role authfile.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFromCtx(c)
		if claims == nil || !authfile.RoleAtLeast(claims.Role(), role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient permissions",
			})
		}
		return c.Next()
	}
}

// RateLimit throttles by client IP, keyed per route path so a burst
// against one endpoint does not starve the others.
func RateLimit(limiter *ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP() + ":" + c.Path()
		ok, err := limiter.Allow(c.Context(), key)
		if err == nil && !ok {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests",
			})
		}
		return c.Next()
	}
}

// ClaimsFromCtx returns the validated claims set by RequireAccessToken,
// or nil when the middleware did not run.
func ClaimsFromCtx(c *fiber.Ctx) authfile.AuthClaims {
	claims, _ := c.Locals(claimsKey).(authfile.AuthClaims)
	return claims
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
