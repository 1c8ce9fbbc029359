package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
	"github.com/jhoicas/restaurante-cliente/internal/domain/repository"
)

var _ repository.CredentialStore = (*CredentialStore)(nil)

// DB subconjunto de pgxpool.Pool que usa el almacén (permite pgxmock en tests).
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Schema DDL de la tabla de sesiones por dispositivo.
const Schema = `
CREATE TABLE IF NOT EXISTS sesiones_dispositivo (
	dispositivo_id TEXT PRIMARY KEY,
	token          TEXT NOT NULL,
	usuario        JSONB,
	user_id        TEXT,
	tipo           TEXT,
	actualizado_en TIMESTAMPTZ NOT NULL DEFAULT now(),
	expira_en      TIMESTAMPTZ
)`

// CredentialStore implementación del puerto CredentialStore sobre PostgreSQL.
type CredentialStore struct {
	db  DB
	ttl time.Duration
	now func() time.Time
}

// NewCredentialStore construye el adaptador. ttl <= 0 = sin expiración.
func NewCredentialStore(db DB, ttl time.Duration) *CredentialStore {
	return &CredentialStore{db: db, ttl: ttl, now: time.Now}
}

// EnsureSchema crea la tabla si no existe.
func (r *CredentialStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("crear tabla sesiones_dispositivo: %w", err)
	}
	return nil
}

// Load devuelve nil si el dispositivo no tiene sesión vigente.
func (r *CredentialStore) Load(ctx context.Context, deviceID string) (*entity.Session, error) {
	query := `
		SELECT token, COALESCE(usuario::text, ''), COALESCE(user_id, ''), COALESCE(tipo, ''), actualizado_en
		FROM sesiones_dispositivo
		WHERE dispositivo_id = $1 AND (expira_en IS NULL OR expira_en > $2)`
	var (
		sess    entity.Session
		usuario string
		tipo    string
	)
	err := r.db.QueryRow(ctx, query, deviceID, r.now()).Scan(&sess.Token, &usuario, &sess.UserID, &tipo, &sess.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isUndefinedTable(err) {
			return nil, fmt.Errorf("select sesión: tabla sesiones_dispositivo inexistente: %w", err)
		}
		return nil, fmt.Errorf("select sesión: %w", err)
	}
	sess.RoleTag = entity.RoleTag(tipo)
	if usuario != "" {
		sess.RawUser = json.RawMessage(usuario)
	}
	return &sess, nil
}

// Save inserta o reemplaza la sesión del dispositivo.
func (r *CredentialStore) Save(ctx context.Context, deviceID string, sess *entity.Session) error {
	if sess == nil {
		return nil
	}
	query := `
		INSERT INTO sesiones_dispositivo (dispositivo_id, token, usuario, user_id, tipo, actualizado_en, expira_en)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (dispositivo_id) DO UPDATE SET
			token = EXCLUDED.token,
			usuario = EXCLUDED.usuario,
			user_id = EXCLUDED.user_id,
			tipo = EXCLUDED.tipo,
			actualizado_en = EXCLUDED.actualizado_en,
			expira_en = EXCLUDED.expira_en`

	now := r.now()
	var expira *time.Time
	if r.ttl > 0 {
		t := now.Add(r.ttl)
		expira = &t
	}
	var usuario *string
	if len(sess.RawUser) > 0 {
		u := string(sess.RawUser)
		usuario = &u
	}

	_, err := r.db.Exec(ctx, query, deviceID, sess.Token, usuario, sess.UserID, string(sess.RoleTag), now, expira)
	if err != nil {
		return fmt.Errorf("upsert sesión: %w", err)
	}
	return nil
}

// Clear borra la sesión. Idempotente.
func (r *CredentialStore) Clear(ctx context.Context, deviceID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sesiones_dispositivo WHERE dispositivo_id = $1`, deviceID); err != nil {
		return fmt.Errorf("delete sesión: %w", err)
	}
	return nil
}

// PurgeExpired borra las sesiones vencidas y devuelve cuántas eliminó.
func (r *CredentialStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sesiones_dispositivo WHERE expira_en IS NOT NULL AND expira_en <= $1`, r.now())
	if err != nil {
		return 0, fmt.Errorf("purgar sesiones: %w", err)
	}
	return tag.RowsAffected(), nil
}
