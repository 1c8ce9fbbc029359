package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys usados por los middlewares.
const (
	LocalDeviceID = "dispositivo"
	LocalSession  = "sesion"
	LocalDecision = "decision"
)

const deviceCookieMaxAge = 365 * 24 * 60 * 60

// DeviceMiddleware asegura que cada navegador tenga un id de dispositivo (cookie UUID v4).
// Una cookie ausente o que no sea UUID se reemplaza.
func DeviceMiddleware(cookieName string, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(cookieName)
		if _, err := uuid.Parse(id); err != nil || id == "" {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     cookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   deviceCookieMaxAge,
				HTTPOnly: true,
				Secure:   secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(LocalDeviceID, id)
		return c.Next()
	}
}

// GetDeviceID devuelve el id de dispositivo (después de DeviceMiddleware).
func GetDeviceID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalDeviceID).(string)
	return s
}
