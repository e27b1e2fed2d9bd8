package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stylashop-pos/internal/application/authz"
	"github.com/jhoicas/stylashop-pos/internal/domain/entity"
)

// LocalSession key de c.Locals con la entity.Session vigente.
const LocalSession = "session"

// SessionChecker lo que necesitan los middlewares del gate. Check hace la
// verificación pasiva de expiración.
type SessionChecker interface {
	Check(ctx context.Context) (entity.Session, error)
}

// RequireSession deja pasar solo con sesión vigente; si no, 302 a /login sin
// ejecutar el handler protegido.
func RequireSession(s SessionChecker) fiber.Handler {
	return RequireRole(s)
}

// RequireRole exige sesión y uno de los roles. Sin sesión redirige a /login;
// con un rol no permitido, a /dashboard. Sin roles equivale a RequireSession.
func RequireRole(s SessionChecker, allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := s.Check(c.UserContext())
		if err != nil {
			sess = entity.Session{}
		}
		d := authz.Decide(sess, allowedRoles...)
		if !d.Allowed {
			return c.Redirect(d.RedirectTo, fiber.StatusFound)
		}
		c.Locals(LocalSession, sess)
		return c.Next()
	}
}

// GetSession devuelve la sesión cargada por el gate (vacía si no pasó por él).
func GetSession(c *fiber.Ctx) entity.Session {
	s, _ := c.Locals(LocalSession).(entity.Session)
	return s
}

// GetRole rol de la sesión del request.
func GetRole(c *fiber.Ctx) string {
	return GetSession(c).Identity.Role
}
