package ports

import (
	"context"
	"encoding/json"

	"github.com/jhoicas/restaurante-cliente/internal/application/dto"
	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
)

// AuthBackend define el puerto de salida hacia los endpoints de autenticación del backend.
// Los rechazos del backend se devuelven como error con el mensaje que envió (si envió alguno).
type AuthBackend interface {
	Login(ctx context.Context, correo, contrasena string) (*entity.Principal, error)
	Register(ctx context.Context, req dto.RegisterRequest) (json.RawMessage, error)
}

// EmployeeDirectory consultas de empleados y roles usadas por la resolución de rol.
// Toda llamada lleva el token bearer de la sesión recién emitida.
type EmployeeDirectory interface {
	// GetEmployee devuelve el registro del empleado. domain.ErrNotFound si el backend responde 404.
	GetEmployee(ctx context.Context, token, id string) (map[string]any, error)
	// ListEmployees devuelve el listado completo de empleados.
	ListEmployees(ctx context.Context, token string) ([]any, error)
	// Fetch hace GET sobre una ruta relativa al backend y devuelve el JSON decodificado.
	Fetch(ctx context.Context, token, path string) (any, error)
}

// ProfileBackend lectura del perfil del usuario autenticado (clientes/{id} o empleados/{id}).
// Un 401 del backend satisface errors.Is(err, domain.ErrUnauthorized).
type ProfileBackend interface {
	GetProfile(ctx context.Context, token, resource, id string) (map[string]any, error)
}

// BackendError error HTTP del backend con el mensaje que envió (si envió alguno).
// Se inspecciona con errors.As.
type BackendError interface {
	error
	StatusCode() int
	BackendMessage() string
}
