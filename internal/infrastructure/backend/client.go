// Package backend es el adaptador HTTP hacia el API de usuarios del restaurante
// (auth, empleados, roles y clientes).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/restaurante-cliente/internal/application/dto"
	"github.com/jhoicas/restaurante-cliente/internal/application/ports"
	"github.com/jhoicas/restaurante-cliente/internal/domain"
	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
	"github.com/jhoicas/restaurante-cliente/internal/metrics"
	"github.com/jhoicas/restaurante-cliente/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa los puertos.
var (
	_ ports.AuthBackend       = (*Client)(nil)
	_ ports.EmployeeDirectory = (*Client)(nil)
	_ ports.ProfileBackend    = (*Client)(nil)
	_ ports.BackendError      = (*HTTPError)(nil)
)

const maxBody = 1 << 20

// Client adaptador net/http del backend. Toda petición con token lleva "Authorization: Bearer".
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el adaptador. timeout <= 0 usa 10 s.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Component("backend"),
	}
}

// HTTPError respuesta no 2xx del backend.
type HTTPError struct {
	Op      string
	Status  int
	Message string
	Body    []byte
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s HTTP %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("backend: %s HTTP %d", e.Op, e.Status)
}

// Is 401 equivale a domain.ErrUnauthorized y 404 a domain.ErrNotFound.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

func (e *HTTPError) StatusCode() int        { return e.Status }
func (e *HTTPError) BackendMessage() string { return e.Message }

// ── Auth ──────────────────────────────────────────────────────────────────────

type loginPayload struct {
	Correo     string `json:"correo"`
	Contrasena string `json:"contrasena"`
}

// Login POST /api/auth/login.
func (c *Client) Login(ctx context.Context, correo, contrasena string) (*entity.Principal, error) {
	raw, err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", "", loginPayload{Correo: correo, Contrasena: contrasena})
	if err != nil {
		return nil, err
	}
	v, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("backend: login: %w", err)
	}
	fields, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("backend: login: respuesta no es un objeto JSON")
	}
	return entity.NewPrincipal(fields, raw), nil
}

// Register POST /api/auth/registro. La confirmación de contraseña no viaja.
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (json.RawMessage, error) {
	raw, err := c.do(ctx, "registro", http.MethodPost, "/api/auth/registro", "", req)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	return raw, nil
}

// ── Empleados y roles ─────────────────────────────────────────────────────────

// GetEmployee GET /api/empleados/{id}.
func (c *Client) GetEmployee(ctx context.Context, token, id string) (map[string]any, error) {
	return c.getObject(ctx, "empleado", token, "/api/empleados/"+url.PathEscape(id))
}

// ListEmployees GET /api/empleados.
func (c *Client) ListEmployees(ctx context.Context, token string) ([]any, error) {
	v, err := c.Fetch(ctx, token, "/api/empleados")
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("backend: listado de empleados no es un arreglo")
	}
	return list, nil
}

// Fetch GET genérico sobre una ruta relativa (puede incluir query).
func (c *Client) Fetch(ctx context.Context, token, path string) (any, error) {
	raw, err := c.do(ctx, "consulta", http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	v, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("backend: %s: %w", path, err)
	}
	return v, nil
}

// GetProfile GET /api/{resource}/{id} (clientes o empleados).
func (c *Client) GetProfile(ctx context.Context, token, resource, id string) (map[string]any, error) {
	return c.getObject(ctx, "perfil", token, "/api/"+resource+"/"+url.PathEscape(id))
}

func (c *Client) getObject(ctx context.Context, op, token, path string) (map[string]any, error) {
	raw, err := c.do(ctx, op, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	v, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("backend: %s: %w", op, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("backend: %s: respuesta no es un objeto JSON", op)
	}
	return obj, nil
}

// ── Transporte ────────────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, op, method, path, token string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("backend: %s: serializar request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("backend: %s: crear HTTP request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(op, "error").Inc()
		if ctx.Err() != nil {
			return nil, fmt.Errorf("backend: %s: timeout o cancelación: %w", op, ctx.Err())
		}
		return nil, fmt.Errorf("backend: %s: llamada HTTP fallida: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("backend: %s: leer respuesta: %w", op, err)
	}
	metrics.BackendRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode/100)+"xx").Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug().Str("op", op).Str("ruta", path).Int("status", resp.StatusCode).Msg("backend respondió con error")
		return nil, &HTTPError{Op: op, Status: resp.StatusCode, Message: errorMessage(raw), Body: raw}
	}
	return raw, nil
}

// decode JSON con números como json.Number para no perder ids.
func decode(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("respuesta vacía")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("deserializar respuesta: %w", err)
	}
	return v, nil
}

// errorMessage busca el mensaje del backend en message, mensaje o error.
func errorMessage(raw []byte) string {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return ""
	}
	for _, k := range []string{"message", "mensaje", "error"} {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
