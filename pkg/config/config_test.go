package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:2003", cfg.Backend.UsuarioURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, 15*time.Second, cfg.Backend.RoleTimeout())
	assert.Empty(t, cfg.HTTP.ProxyHeader)
	assert.Equal(t, SessionDriverMemory, cfg.Session.Driver)
	assert.Equal(t, "dispositivo", cfg.Session.CookieName)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL())
	assert.True(t, cfg.Session.EmailFallback)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_Entorno(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BACKEND_USUARIO_URL", "http://usuarios:2003/")
	t.Setenv("SESSION_DRIVER", "REDIS")
	t.Setenv("ROLE_EMAIL_FALLBACK", "false")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ROLE_RESOLUTION_TIMEOUT_SECONDS", "0")
	t.Setenv("HTTP_PROXY_HEADER", "X-Forwarded-For")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://usuarios:2003", cfg.Backend.UsuarioURL)
	assert.Equal(t, SessionDriverRedis, cfg.Session.Driver)
	assert.False(t, cfg.Session.EmailFallback)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Zero(t, cfg.Backend.RoleTimeout())
	assert.Equal(t, "X-Forwarded-For", cfg.HTTP.ProxyHeader)
}

func TestLoad_Invalida(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"driver desconocido", map[string]string{"SESSION_DRIVER": "mongo"}},
		{"ttl cero", map[string]string{"SESSION_TTL_MINUTES": "0"}},
		{"llave no hex", map[string]string{"SESSION_ENCRYPTION_KEY": "zz"}},
		{"llave corta", map[string]string{"SESSION_ENCRYPTION_KEY": "abcd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestSessionConfig_Key(t *testing.T) {
	key, err := SessionConfig{}.Key()
	require.NoError(t, err)
	assert.Nil(t, key)

	key, err = SessionConfig{EncryptionKey: strings.Repeat("ab", 32)}.Key()
	require.NoError(t, err)
	assert.Len(t, key, 32)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "restaurante", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/restaurante?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
