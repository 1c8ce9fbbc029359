// Package sealing cifra token y usuario antes de delegar en otro CredentialStore.
package sealing

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
	"github.com/jhoicas/restaurante-cliente/internal/domain/repository"
)

var _ repository.CredentialStore = (*SealedStore)(nil)

const prefix = "xc1."

// ErrOpen el valor cifrado no se pudo abrir (clave distinta o dato alterado).
var ErrOpen = errors.New("sealing: no se pudo descifrar la sesión")

// SealedStore XChaCha20-Poly1305 con el id de dispositivo como dato asociado,
// así una sesión copiada a otro dispositivo no descifra.
type SealedStore struct {
	inner repository.CredentialStore
	key   []byte
}

// New key debe tener 32 bytes.
func New(inner repository.CredentialStore, key []byte) (*SealedStore, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("sealing: la clave debe tener %d bytes, tiene %d", chacha20poly1305.KeySize, len(key))
	}
	return &SealedStore{inner: inner, key: bytes.Clone(key)}, nil
}

func (s *SealedStore) Load(ctx context.Context, deviceID string) (*entity.Session, error) {
	sess, err := s.inner.Load(ctx, deviceID)
	if err != nil || sess == nil {
		return sess, err
	}
	tok, err := s.open(deviceID, sess.Token)
	if err != nil {
		return nil, err
	}
	sess.Token = tok

	if len(sess.RawUser) > 0 {
		var sealed string
		if json.Unmarshal(sess.RawUser, &sealed) == nil && strings.HasPrefix(sealed, prefix) {
			user, err := s.open(deviceID, sealed)
			if err != nil {
				return nil, err
			}
			sess.RawUser = json.RawMessage(user)
		}
	}
	return sess, nil
}

func (s *SealedStore) Save(ctx context.Context, deviceID string, sess *entity.Session) error {
	if sess == nil {
		return nil
	}
	out := *sess
	tok, err := s.seal(deviceID, sess.Token)
	if err != nil {
		return err
	}
	out.Token = tok
	if len(sess.RawUser) > 0 {
		sealed, err := s.seal(deviceID, string(sess.RawUser))
		if err != nil {
			return err
		}
		// se guarda como string JSON para que los almacenes con columna JSON lo acepten
		b, err := json.Marshal(sealed)
		if err != nil {
			return fmt.Errorf("sealing: %w", err)
		}
		out.RawUser = b
	}
	return s.inner.Save(ctx, deviceID, &out)
}

func (s *SealedStore) Clear(ctx context.Context, deviceID string) error {
	return s.inner.Clear(ctx, deviceID)
}

func (s *SealedStore) seal(deviceID, plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", fmt.Errorf("sealing: %w", err)
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("sealing: nonce: %w", err)
	}
	ct := aead.Seal(nonce, nonce, []byte(plain), []byte(deviceID))
	return prefix + base64.RawURLEncoding.EncodeToString(ct), nil
}

// open valores sin prefijo se devuelven tal cual (sesiones guardadas antes de activar el cifrado).
func (s *SealedStore) open(deviceID, value string) (string, error) {
	if !strings.HasPrefix(value, prefix) {
		return value, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(value, prefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOpen, err)
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", fmt.Errorf("sealing: %w", err)
	}
	if len(raw) < aead.NonceSize() {
		return "", ErrOpen
	}
	plain, err := aead.Open(nil, raw[:aead.NonceSize()], raw[aead.NonceSize():], []byte(deviceID))
	if err != nil {
		return "", ErrOpen
	}
	return string(plain), nil
}
