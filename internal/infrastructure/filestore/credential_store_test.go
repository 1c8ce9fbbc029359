package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
)

func TestCredentialStore_CicloCompleto(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "anidado", "sesion.json")
	s := NewCredentialStore(path)

	got, err := s.Load(ctx, "cli")
	require.NoError(t, err)
	assert.Nil(t, got, "sin archivo no hay sesión")

	require.NoError(t, s.Save(ctx, "cli", &entity.Session{
		Token: "t", UserID: "5", RawUser: json.RawMessage(`{"id":5}`), RoleTag: entity.RoleAdmin,
	}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// otra instancia sobre el mismo archivo ve la sesión
	got, err = NewCredentialStore(path).Load(ctx, "cli")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t", got.Token)
	assert.Equal(t, entity.RoleAdmin, got.RoleTag)
	assert.JSONEq(t, `{"id":5}`, string(got.RawUser))
	assert.False(t, got.UpdatedAt.IsZero())

	require.NoError(t, s.Clear(ctx, "cli"))
	require.NoError(t, s.Clear(ctx, "cli"))
	got, err = s.Load(ctx, "cli")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCredentialStore_ArchivoCorrupto(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sesion.json")
	require.NoError(t, os.WriteFile(path, []byte("{no json"), 0o600))

	_, err := NewCredentialStore(path).Load(context.Background(), "cli")
	assert.ErrorContains(t, err, "corrupto")
}

func TestCredentialStore_ArchivoVacio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sesion.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	got, err := NewCredentialStore(path).Load(context.Background(), "cli")
	require.NoError(t, err)
	assert.Nil(t, got)
}
