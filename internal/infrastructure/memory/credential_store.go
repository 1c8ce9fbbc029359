// Package memory implementa el almacén de credenciales en memoria del proceso.
package memory

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
	"github.com/jhoicas/restaurante-cliente/internal/domain/repository"
)

var _ repository.CredentialStore = (*CredentialStore)(nil)

type entry struct {
	sess    entity.Session
	expires time.Time
}

// CredentialStore sesiones por dispositivo en un mapa protegido por mutex.
// ttl <= 0 significa sin expiración.
type CredentialStore struct {
	mu   sync.RWMutex
	data map[string]entry
	ttl  time.Duration
	now  func() time.Time
}

// NewCredentialStore crea el almacén.
func NewCredentialStore(ttl time.Duration) *CredentialStore {
	return &CredentialStore{data: make(map[string]entry), ttl: ttl, now: time.Now}
}

// Load devuelve una copia de la sesión o nil si no existe o expiró.
func (s *CredentialStore) Load(_ context.Context, deviceID string) (*entity.Session, error) {
	s.mu.RLock()
	e, ok := s.data[deviceID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !e.expires.IsZero() && s.now().After(e.expires) {
		s.mu.Lock()
		delete(s.data, deviceID)
		s.mu.Unlock()
		return nil, nil
	}
	out := e.sess
	out.RawUser = bytes.Clone(e.sess.RawUser)
	return &out, nil
}

// Save reemplaza la sesión del dispositivo.
func (s *CredentialStore) Save(_ context.Context, deviceID string, sess *entity.Session) error {
	if sess == nil {
		return nil
	}
	cp := *sess
	cp.RawUser = bytes.Clone(sess.RawUser)
	e := entry{sess: cp}
	if s.ttl > 0 {
		e.expires = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.data[deviceID] = e
	s.mu.Unlock()
	return nil
}

// Clear borra la sesión. Idempotente.
func (s *CredentialStore) Clear(_ context.Context, deviceID string) error {
	s.mu.Lock()
	delete(s.data, deviceID)
	s.mu.Unlock()
	return nil
}
