package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrRoleResolutionExhausted = errors.New("no se pudo determinar el rol del empleado")
	ErrLoginSuperseded         = errors.New("el intento de login fue reemplazado por uno más reciente")
	ErrTooManyAttempts         = errors.New("demasiados intentos, espera un momento")
)

// Mensajes por defecto cuando el backend no envía uno.
const (
	DefaultLoginMessage        = "Credenciales incorrectas"
	DefaultRegistrationMessage = "Error al registrarse"
	MissingFieldsMessage       = "Por favor completa todos los campos"
)

// AuthenticationError el backend rechazó las credenciales. No modifica la sesión.
type AuthenticationError struct {
	Message string
	Cause   error
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return DefaultLoginMessage
	}
	return e.Message
}

func (e *AuthenticationError) Unwrap() error { return e.Cause }

// ValidationError datos de entrada inválidos, detectados antes de cualquier llamada de red.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// RegistrationError el backend rechazó el registro.
type RegistrationError struct {
	Message string
	Status  int
	Cause   error
}

func (e *RegistrationError) Error() string {
	if e.Message == "" {
		return DefaultRegistrationMessage
	}
	return e.Message
}

func (e *RegistrationError) Unwrap() error { return e.Cause }
