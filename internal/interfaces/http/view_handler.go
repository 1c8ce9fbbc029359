package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restaurante-cliente/internal/application/dto"
	"github.com/jhoicas/restaurante-cliente/internal/application/ports"
	"github.com/jhoicas/restaurante-cliente/internal/domain"
	"github.com/jhoicas/restaurante-cliente/internal/domain/route"
	"github.com/jhoicas/restaurante-cliente/pkg/logger"
)

const sectionPerfil = "perfil"

type sessionClearer interface {
	ClearSession(ctx context.Context, deviceID string) error
}

// ViewHandler vistas de las secciones protegidas. Se monta DESPUÉS de GateMiddleware.
type ViewHandler struct {
	profiles ports.ProfileBackend
	sessions sessionClearer
	log      *logger.Logger
}

// NewViewHandler construye el handler de vistas.
func NewViewHandler(profiles ports.ProfileBackend, sessions sessionClearer, log *logger.Logger) *ViewHandler {
	return &ViewHandler{profiles: profiles, sessions: sessions, log: log}
}

// Section vista de la sección admitida por el gate. "perfil" consulta el backend con el token
// de la sesión; un 401 borra la sesión y redirige a login.
func (h *ViewHandler) Section(c *fiber.Ctx) error {
	d := GetDecision(c)
	sess := GetSession(c)
	view := dto.ViewResponse{Arbol: d.Tree.Prefix, Seccion: d.Section, Tipo: sess.Role().String()}

	if d.Section != sectionPerfil {
		return c.JSON(view)
	}
	if sess.UserID == "" {
		view.Mensaje = "la sesión no tiene id de usuario"
		return c.JSON(view)
	}

	perfil, err := h.profiles.GetProfile(c.UserContext(), sess.Token, d.Tree.Profile, sess.UserID)
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		h.log.Device(GetDeviceID(c)).Info().Msg("token rechazado por el backend; cerrando sesión")
		if cerr := h.sessions.ClearSession(c.UserContext(), GetDeviceID(c)); cerr != nil {
			return respondError(c, h.log, cerr)
		}
		return c.Redirect(route.Login, fiber.StatusFound)
	case errors.Is(err, domain.ErrNotFound):
		view.Mensaje = "perfil no encontrado"
		return c.Status(fiber.StatusNotFound).JSON(view)
	case err != nil:
		h.log.Warn().Err(err).Str("recurso", d.Tree.Profile).Msg("no se pudo cargar el perfil")
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: dto.CodeBackendUnavailable, Message: "no se pudo cargar el perfil"})
	}
	view.Perfil = perfil
	return c.JSON(view)
}
