package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers admitidos para el almacén de credenciales.
const (
	SessionDriverMemory   = "memory"
	SessionDriverRedis    = "redis"
	SessionDriverPostgres = "postgres"
)

// Config agrupa la configuración del cliente web (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Backend   BackendConfig
	Session   SessionConfig
	Redis     RedisConfig
	DB        DBConfig
	RateLimit RateLimitConfig
	Docs      DocsConfig
	Log       LogConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	ProxyHeader string // p.ej. X-Forwarded-For detrás de un proxy confiable; vacío = IP del socket
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BackendConfig ubicación del API de usuarios (auth, empleados, roles, clientes).
type BackendConfig struct {
	UsuarioURL         string
	TimeoutSeconds     int
	RoleTimeoutSeconds int // tope de la cascada completa de resolución de rol
}

// Timeout devuelve el timeout de red por petición al backend.
func (c BackendConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RoleTimeout devuelve el tope total de la resolución de rol. 0 = sin tope propio.
func (c BackendConfig) RoleTimeout() time.Duration {
	if c.RoleTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.RoleTimeoutSeconds) * time.Second
}

// SessionConfig configuración del almacén de credenciales por dispositivo.
type SessionConfig struct {
	Driver        string // memory | redis | postgres
	CookieName    string // cookie que identifica al dispositivo
	TTLMinutes    int
	EncryptionKey string // hex de 32 bytes; vacío = sin sellado
	EmailFallback bool   // heurística de último recurso por correo
}

// TTL duración de la sesión persistida.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// Key decodifica la llave de sellado. Devuelve nil si no está configurada.
func (c SessionConfig) Key() ([]byte, error) {
	if c.EncryptionKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("SESSION_ENCRYPTION_KEY no es hex válido: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("SESSION_ENCRYPTION_KEY debe tener 32 bytes, tiene %d", len(key))
	}
	return key, nil
}

// RedisConfig conexión a Redis para el driver "redis".
type RedisConfig struct {
	URL    string
	Prefix string
}

// DBConfig configuración de PostgreSQL para el driver "postgres".
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// RateLimitConfig límite de intentos de login por IP y por dispositivo.
type RateLimitConfig struct {
	LoginPerMinute int
	Burst          int
}

// DocsConfig Swagger UI.
type DocsConfig struct {
	Enabled  bool
	FilePath string
}

// LogConfig nivel de log: trace, debug, info, warn, error.
type LogConfig struct {
	Level string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, BACKEND_USUARIO_URL, SESSION_DRIVER, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "restaurante-cliente"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			ProxyHeader: getString(v, "HTTP_PROXY_HEADER", ""),
		},
		Backend: BackendConfig{
			UsuarioURL:         strings.TrimRight(getString(v, "BACKEND_USUARIO_URL", "http://localhost:2003"), "/"),
			TimeoutSeconds:     getInt(v, "BACKEND_TIMEOUT_SECONDS", 10),
			RoleTimeoutSeconds: getInt(v, "ROLE_RESOLUTION_TIMEOUT_SECONDS", 15),
		},
		Session: SessionConfig{
			Driver:        strings.ToLower(getString(v, "SESSION_DRIVER", SessionDriverMemory)),
			CookieName:    getString(v, "SESSION_COOKIE", "dispositivo"),
			TTLMinutes:    getInt(v, "SESSION_TTL_MINUTES", 720),
			EncryptionKey: getString(v, "SESSION_ENCRYPTION_KEY", ""),
			EmailFallback: getBool(v, "ROLE_EMAIL_FALLBACK", true),
		},
		Redis: RedisConfig{
			URL:    getString(v, "REDIS_URL", "redis://localhost:6379/0"),
			Prefix: getString(v, "REDIS_PREFIX", "restaurante:sesion"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "restaurante"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute: getInt(v, "LOGIN_RATE_PER_MINUTE", 10),
			Burst:          getInt(v, "LOGIN_RATE_BURST", 5),
		},
		Docs: DocsConfig{
			Enabled:  getBool(v, "DOCS_ENABLED", true),
			FilePath: getString(v, "DOCS_FILE", "./docs/swagger.json"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Driver {
	case SessionDriverMemory, SessionDriverRedis, SessionDriverPostgres:
	default:
		return fmt.Errorf("SESSION_DRIVER desconocido: %q", c.Session.Driver)
	}
	if c.Session.TTLMinutes <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES debe ser positivo")
	}
	if _, err := c.Session.Key(); err != nil {
		return err
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
