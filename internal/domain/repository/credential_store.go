package repository

import (
	"context"

	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
)

// CredentialStore define el puerto de persistencia de la sesión por dispositivo (DIP).
// Load devuelve (nil, nil) cuando el dispositivo no tiene sesión.
// Clear es idempotente.
type CredentialStore interface {
	Load(ctx context.Context, deviceID string) (*entity.Session, error)
	Save(ctx context.Context, deviceID string, s *entity.Session) error
	Clear(ctx context.Context, deviceID string) error
}
