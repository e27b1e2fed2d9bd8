package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stylashop-pos/internal/application/authz"
	"github.com/jhoicas/stylashop-pos/internal/application/dto"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

// SessionService operaciones de sesión que expone la consola. Lo implementa
// *session.Manager.
type SessionService interface {
	SessionChecker
	Login(ctx context.Context, token string) error
	LoginWithCredentials(ctx context.Context, username, password string) error
	Logout(ctx context.Context)
}

// AuthHandler login, logout y las páginas de entrada de la consola.
type AuthHandler struct {
	session SessionService
	log     zerolog.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(session SessionService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{session: session, log: log}
}

// LoginPage GET /login. Con sesión vigente manda al dashboard.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	if s, err := h.session.Check(c.UserContext()); err == nil && s.Authenticated() {
		return c.Redirect(authz.DashboardPath, fiber.StatusFound)
	}
	return c.JSON(fiber.Map{"vista": "login", "sesion": dto.SesionDTO{}})
}

// Login POST /api/auth/login con username/password o con un token ya emitido.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.ConsoleLoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Token = strings.TrimSpace(in.Token)

	var err error
	switch {
	case in.Token != "":
		err = h.session.Login(c.UserContext(), in.Token)
	case in.Username != "" && in.Password != "":
		err = h.session.LoginWithCredentials(c.UserContext(), in.Username, in.Password)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username y password (o token) son requeridos"})
	}
	if err != nil {
		return respondError(c, h.log, err)
	}
	s, err := h.session.Check(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(sessionBody(s))
}

// Logout POST /api/auth/logout. Siempre responde 204.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.session.Logout(c.UserContext())
	return c.SendStatus(fiber.StatusNoContent)
}

// Dashboard GET /dashboard (requiere sesión).
func (h *AuthHandler) Dashboard(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"vista": "dashboard", "sesion": sessionBody(GetSession(c))})
}

// Ventas GET /ventas: vistas de ventas que corresponden al rol.
func (h *AuthHandler) Ventas(c *fiber.Ctx) error {
	views := authz.SalesViews(GetRole(c))
	if views == nil {
		views = []string{}
	}
	return c.JSON(fiber.Map{"vista": "ventas", "vistas": views})
}

func sessionBody(s entity.Session) dto.SesionDTO {
	return dto.FromSession(s, authz.SalesViews(s.Identity.Role))
}
