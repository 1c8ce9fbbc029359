// Package filestore persiste sesiones en un archivo JSON local (uso desde la CLI).
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
	"github.com/jhoicas/restaurante-cliente/internal/domain/repository"
)

var _ repository.CredentialStore = (*CredentialStore)(nil)

type record struct {
	Token       string          `json:"token"`
	Usuario     json.RawMessage `json:"usuario,omitempty"`
	UserID      string          `json:"userId,omitempty"`
	Tipo        string          `json:"tipo,omitempty"`
	Actualizado time.Time       `json:"actualizado"`
}

// CredentialStore un archivo con un objeto por dispositivo. El archivo se reescribe completo en cada cambio.
type CredentialStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewCredentialStore usa path como archivo de sesión; el directorio se crea al guardar.
func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path, now: time.Now}
}

// DefaultPath $XDG_CONFIG_HOME/restaurantectl/sesion.json (o su equivalente del SO).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("directorio de configuración: %w", err)
	}
	return filepath.Join(dir, "restaurantectl", "sesion.json"), nil
}

// Path ruta del archivo.
func (s *CredentialStore) Path() string { return s.path }

func (s *CredentialStore) Load(_ context.Context, deviceID string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return nil, err
	}
	r, ok := all[deviceID]
	if !ok || r.Token == "" {
		return nil, nil
	}
	return &entity.Session{
		Token:     r.Token,
		UserID:    r.UserID,
		RawUser:   bytes.Clone(r.Usuario),
		RoleTag:   entity.RoleTag(r.Tipo),
		UpdatedAt: r.Actualizado,
	}, nil
}

func (s *CredentialStore) Save(_ context.Context, deviceID string, sess *entity.Session) error {
	if sess == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	all[deviceID] = record{
		Token:       sess.Token,
		Usuario:     bytes.Clone(sess.RawUser),
		UserID:      sess.UserID,
		Tipo:        string(sess.RoleTag),
		Actualizado: s.now().UTC(),
	}
	return s.write(all)
}

func (s *CredentialStore) Clear(_ context.Context, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := all[deviceID]; !ok {
		return nil
	}
	delete(all, deviceID)
	return s.write(all)
}

func (s *CredentialStore) read() (map[string]record, error) {
	all := make(map[string]record)
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return all, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer sesión %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, fmt.Errorf("archivo de sesión corrupto %s: %w", s.path, err)
	}
	return all, nil
}

// write escribe a un temporal y renombra para no dejar el archivo a medias.
func (s *CredentialStore) write(all map[string]record) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("crear directorio de sesión: %w", err)
	}
	b, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar sesión: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".sesion-*.json")
	if err != nil {
		return fmt.Errorf("crear temporal: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("escribir sesión: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("permisos de sesión: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cerrar temporal: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("reemplazar archivo de sesión: %w", err)
	}
	return nil
}
