package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/restaurante-cliente/internal/application/auth"
	"github.com/jhoicas/restaurante-cliente/internal/application/ports"
	"github.com/jhoicas/restaurante-cliente/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName  string
	Sessions     *auth.SessionService
	Profiles     ports.ProfileBackend
	LoginLimiter *LoginRateLimiter
	CookieName   string
	SecureCookie bool
	Log          *logger.Logger
}

// Router registra las rutas del cliente web.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	web := app.Group("/", DeviceMiddleware(deps.CookieName, deps.SecureCookie))

	// Públicas
	authHandler := NewAuthHandler(deps.Sessions, log)
	web.Get("/", authHandler.Home)
	web.Get("/login", authHandler.LoginView)
	web.Post("/login", deps.LoginLimiter.Middleware(), authHandler.Login)
	web.Get("/registro", authHandler.RegisterView)
	web.Post("/registro", authHandler.Register)
	web.Post("/logout", authHandler.Logout)
	web.Get("/sesion", authHandler.Session)

	// Árboles protegidos: /cliente, /administrador, /empleado, /empleado-cajero
	viewHandler := NewViewHandler(deps.Profiles, deps.Sessions, log)
	web.Get("/*", GateMiddleware(deps.Sessions, log), viewHandler.Section)
}
