// Package redis implementa el almacén de credenciales compartido sobre Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
	"github.com/jhoicas/restaurante-cliente/internal/domain/repository"
)

var _ repository.CredentialStore = (*CredentialStore)(nil)

// Campos del hash por dispositivo (mismas claves que la sesión persistida del navegador).
const (
	fieldToken   = "token"
	fieldUsuario = "usuario"
	fieldUserID  = "userId"
	fieldTipo    = "tipo"
	fieldUpdated = "actualizado"
)

// CredentialStore guarda cada sesión como un hash en <prefix>:<deviceID> con expiración.
type CredentialStore struct {
	client goredis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewCredentialStore crea el almacén. ttl <= 0 deja las claves sin expiración.
func NewCredentialStore(client goredis.Cmdable, prefix string, ttl time.Duration) *CredentialStore {
	if prefix == "" {
		prefix = "restaurante:sesion"
	}
	return &CredentialStore{client: client, prefix: prefix, ttl: ttl}
}

// NewClient abre un cliente a partir de REDIS_URL y verifica la conexión.
func NewClient(ctx context.Context, rawURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

func (s *CredentialStore) key(deviceID string) string {
	return s.prefix + ":" + deviceID
}

// Load devuelve nil si el dispositivo no tiene sesión.
func (s *CredentialStore) Load(ctx context.Context, deviceID string) (*entity.Session, error) {
	vals, err := s.client.HGetAll(ctx, s.key(deviceID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: leer sesión: %w", err)
	}
	if len(vals) == 0 {
		return nil, nil
	}
	sess := &entity.Session{
		Token:   vals[fieldToken],
		UserID:  vals[fieldUserID],
		RoleTag: entity.RoleTag(vals[fieldTipo]),
	}
	if u := vals[fieldUsuario]; u != "" {
		sess.RawUser = json.RawMessage(u)
	}
	if ts := vals[fieldUpdated]; ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			sess.UpdatedAt = t
		}
	}
	return sess, nil
}

// Save reemplaza el hash completo del dispositivo en una transacción.
func (s *CredentialStore) Save(ctx context.Context, deviceID string, sess *entity.Session) error {
	if sess == nil {
		return nil
	}
	key := s.key(deviceID)
	updated := sess.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			fieldToken, sess.Token,
			fieldUsuario, string(sess.RawUser),
			fieldUserID, sess.UserID,
			fieldTipo, string(sess.RoleTag),
			fieldUpdated, updated.UTC().Format(time.RFC3339Nano),
		)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: guardar sesión: %w", err)
	}
	return nil
}

// Clear borra la sesión. Idempotente.
func (s *CredentialStore) Clear(ctx context.Context, deviceID string) error {
	if err := s.client.Del(ctx, s.key(deviceID)).Err(); err != nil {
		return fmt.Errorf("redis: borrar sesión: %w", err)
	}
	return nil
}
