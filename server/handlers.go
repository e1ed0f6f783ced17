package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lockplane/authfile"
)

// Handler wires the auth domain into the HTTP surface.
type Handler struct {
	sessions *authfile.SessionManager
	flows    *authfile.Flows
	register *authfile.RegisterUserHandler
	logger   authfile.Logger
}

func NewHandler(sessions *authfile.SessionManager, flows *authfile.Flows, register *authfile.RegisterUserHandler, logger authfile.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		flows:    flows,
		register: register,
		logger:   logger,
	}
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := input.Validate(); err != nil {
		return fail(c, err)
	}

	var created *authfile.User
	msg := authfile.RegisterUserMessage{
		FullName: input.FullName,
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		OnResponse: func(u *authfile.User) {
			created = u
		},
	}

	if err := h.register.Execute(c.Context(), msg); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       created.ID,
		"email":    created.Email,
		"username": created.Username,
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := input.Validate(); err != nil {
		return fail(c, err)
	}

	pair, err := h.sessions.Login(c.Context(), input.Identifier, input.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(pair)
}

func (h *Handler) Refresh(c *fiber.Ctx) error {
	var input RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := input.Validate(); err != nil {
		return fail(c, err)
	}

	pair, err := h.sessions.Refresh(c.Context(), input.RefreshToken)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(pair)
}

func (h *Handler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Params("token")
	ok, err := h.flows.CompleteEmailVerification(c.Context(), token)
	if err != nil {
		return fail(c, err)
	}
	if !ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "verification link is invalid or expired",
		})
	}
	return c.JSON(fiber.Map{"verified": true})
}

func (h *Handler) ResendVerification(c *fiber.Ctx) error {
	var input EmailInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := input.Validate(); err != nil {
		return fail(c, err)
	}

	if err := h.flows.ResendVerification(c.Context(), input.Email); err != nil {
		return fail(c, err)
	}

	// Always accepted so the endpoint cannot be used to probe accounts.
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted"})
}

func (h *Handler) ForgotPassword(c *fiber.Ctx) error {
	var input EmailInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := input.Validate(); err != nil {
		return fail(c, err)
	}

	if err := h.flows.StartPasswordReset(c.Context(), input.Email); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted"})
}

func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var input ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := input.Validate(); err != nil {
		return fail(c, err)
	}

	ok, err := h.flows.CompletePasswordReset(c.Context(), input.Token, input.NewPassword)
	if err != nil {
		return fail(c, err)
	}
	if !ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "reset link is invalid or expired",
		})
	}
	return c.JSON(fiber.Map{"status": "password updated"})
}

func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	claims := ClaimsFromCtx(c)
	userID, err := uuid.Parse(claims.Subject())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid subject"})
	}

	var input ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := input.Validate(); err != nil {
		return fail(c, err)
	}

	if err := h.flows.ChangePassword(c.Context(), userID, input.CurrentPassword, input.NewPassword); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"status": "password updated"})
}

func (h *Handler) LogoutAll(c *fiber.Ctx) error {
	claims := ClaimsFromCtx(c)
	if err := h.sessions.RevokeAll(c.Context(), claims.Subject()); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "sessions revoked"})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	claims := ClaimsFromCtx(c)
	return c.JSON(fiber.Map{
		"id":   claims.Subject(),
		"role": claims.Role(),
	})
}
