package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lockplane/authfile"
	"github.com/lockplane/authfile/ratelimit"
)

// RegisterRoutes mounts the auth and file endpoints on the app.
func RegisterRoutes(app *fiber.App, h *Handler, files *FileHandler, tokens authfile.TokenService, limiter *ratelimit.Limiter) {
	api := app.Group("/api/v1")

	throttled := api.Group("", RateLimit(limiter))
	throttled.Post("/register", h.Register)
	throttled.Post("/login", h.Login)
	throttled.Post("/refresh", h.Refresh)
	throttled.Post("/forgot-password", h.ForgotPassword)
	throttled.Post("/resend-verification", h.ResendVerification)

	api.Get("/verify-email/:token", h.VerifyEmail)
	api.Post("/reset-password", h.ResetPassword)

	protected := api.Group("", RequireAccessToken(tokens))
	protected.Get("/me", h.Me)
	protected.Post("/change-password", h.ChangePassword)
	protected.Post("/logout-all", h.LogoutAll)

	fileRoutes := protected.Group("/files")
	fileRoutes.Post("/", files.Upload)
	fileRoutes.Get("/:id", files.Download)
	fileRoutes.Get("/:id/url", files.Presign)
	fileRoutes.Delete("/:id", files.Delete)
}
