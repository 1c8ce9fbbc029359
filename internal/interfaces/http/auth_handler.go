package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restaurante-cliente/internal/application/auth"
	"github.com/jhoicas/restaurante-cliente/internal/application/dto"
	"github.com/jhoicas/restaurante-cliente/internal/domain/route"
	"github.com/jhoicas/restaurante-cliente/pkg/logger"
)

// AuthHandler maneja login, registro, logout y las vistas públicas.
type AuthHandler struct {
	svc *auth.SessionService
	log *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(svc *auth.SessionService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

// Home vista anónima de inicio.
func (h *AuthHandler) Home(c *fiber.Ctx) error {
	sess, err := h.svc.Session(c.UserContext(), GetDeviceID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ViewResponse{Arbol: "publico", Seccion: "inicio", Tipo: sess.Role().String()})
}

// LoginView si ya hay una sesión con rol concreto informa a dónde ir.
func (h *AuthHandler) LoginView(c *fiber.Ctx) error {
	sess, err := h.svc.Session(c.UserContext(), GetDeviceID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	view := dto.ViewResponse{Arbol: "publico", Seccion: "login"}
	if sess.Authenticated() && sess.Role().IsConcrete() {
		view.Tipo = sess.Role().String()
		view.Redireccion = route.LandingFor(sess.Role())
		view.Mensaje = "ya tienes una sesión activa"
	}
	return c.JSON(view)
}

// RegisterView formulario de registro.
func (h *AuthHandler) RegisterView(c *fiber.Ctx) error {
	return c.JSON(dto.ViewResponse{Arbol: "publico", Seccion: "registro"})
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "correo, contrasena"
// @Success      200   {object}  dto.LoginResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: dto.CodeValidation, Message: "cuerpo inválido"})
	}
	out, err := h.svc.Login(c.UserContext(), GetDeviceID(c), strings.TrimSpace(in.Correo), in.Contrasena)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Register godoc
// @Summary      Registrar cliente
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "nombre, apellidos, telefono, correo, contrasena, confirmarContrasena"
// @Success      201   {object}  dto.RegisterResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /registro [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: dto.CodeValidation, Message: "cuerpo inválido"})
	}
	out, err := h.svc.Register(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Logout borra la sesión y redirige a login (303). Con Accept: application/json responde el sobre.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	target, err := h.svc.Logout(c.UserContext(), GetDeviceID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON) {
		return c.JSON(dto.LogoutResponse{Success: true, Redireccion: target})
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

// Session estado de la sesión del dispositivo.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	out, err := h.svc.Describe(c.UserContext(), GetDeviceID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
