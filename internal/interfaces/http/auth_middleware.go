package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restaurante-cliente/internal/application/dto"
	"github.com/jhoicas/restaurante-cliente/internal/application/gate"
	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
	"github.com/jhoicas/restaurante-cliente/pkg/logger"
)

// sessionReader lo implementa *auth.SessionService.
type sessionReader interface {
	Session(ctx context.Context, deviceID string) (*entity.Session, error)
}

// GateMiddleware aplica el control de acceso por árbol de rutas con la sesión persistida del
// dispositivo. Debe usarse DESPUÉS de DeviceMiddleware.
//   - Sin permiso o sin sesión → 302 a /login.
//   - Ruta o sección inexistente → 404.
func GateMiddleware(sessions sessionReader, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessions.Session(c.UserContext(), GetDeviceID(c))
		if err != nil {
			return respondError(c, log, err)
		}

		d := gate.Decide(c.Path(), sess)
		switch d.Outcome {
		case gate.Redirect:
			log.Debug().Str("ruta", c.Path()).Str("tipo", sess.Role().String()).Msg("acceso denegado, redirigiendo a login")
			return c.Redirect(d.Redirect, fiber.StatusFound)
		case gate.NotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: dto.CodeNotFound, Message: "página no encontrada"})
		}

		c.Locals(LocalSession, sess)
		c.Locals(LocalDecision, d)
		return c.Next()
	}
}

// GetSession sesión cargada por GateMiddleware (nil en rutas públicas).
func GetSession(c *fiber.Ctx) *entity.Session {
	s, _ := c.Locals(LocalSession).(*entity.Session)
	return s
}

// GetDecision decisión del gate para la petición actual.
func GetDecision(c *fiber.Ctx) gate.Decision {
	d, _ := c.Locals(LocalDecision).(gate.Decision)
	return d
}
