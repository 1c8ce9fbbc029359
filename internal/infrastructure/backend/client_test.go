package backend_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurante-cliente/internal/application/dto"
	"github.com/jhoicas/restaurante-cliente/internal/domain"
	"github.com/jhoicas/restaurante-cliente/internal/infrastructure/backend"
)

func newServer(t *testing.T, h http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return backend.NewClient(srv.URL+"/", time.Second, nil)
}

func TestLogin_EnviaCredencialesYDevuelvePrincipal(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"correo": "cajero1@x.com", "contrasena": "secreto"}, body)
		_, _ = io.WriteString(w, `{"token":"t","id":5,"correo":"cajero1@x.com","tipo":"EMPLEADO"}`)
	})

	p, err := c.Login(context.Background(), "cajero1@x.com", "secreto")

	require.NoError(t, err)
	assert.Equal(t, "t", p.Token)
	assert.Equal(t, "5", p.ID)
	assert.Equal(t, "EMPLEADO", p.Tipo)
	assert.JSONEq(t, `{"token":"t","id":5,"correo":"cajero1@x.com","tipo":"EMPLEADO"}`, string(p.Raw))
}

func TestLogin_RechazoConMensaje(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Contraseña incorrecta"}`)
	})

	_, err := c.Login(context.Background(), "a@b.co", "x")

	var herr *backend.HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, 401, herr.StatusCode())
	assert.Equal(t, "Contraseña incorrecta", herr.BackendMessage())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegister_NoEnviaLaConfirmacion(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/registro", r.URL.Path)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ana", body["nombre"])
		assert.NotContains(t, body, "confirmarContrasena")
		assert.NotContains(t, body, "ConfirmarContrasena")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":10}`)
	})

	data, err := c.Register(context.Background(), dto.RegisterRequest{
		Nombre: "Ana", Apellidos: "Pérez", Telefono: "3001234567", Correo: "ana@x.com",
		Contrasena: "secreto", ConfirmarContrasena: "secreto",
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":10}`, string(data))
}

func TestRegister_MensajeAlternativo(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"mensaje":"El correo ya existe"}`)
	})

	_, err := c.Register(context.Background(), dto.RegisterRequest{})

	var herr *backend.HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, "El correo ya existe", herr.Message)
}

func TestGetEmployee_LlevaBearerYNumerosComoJSONNumber(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/empleados/5", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":5,"roles":[{"nombre":"r_cajero"}]}`)
	})

	rec, err := c.GetEmployee(context.Background(), "tok", "5")

	require.NoError(t, err)
	assert.Equal(t, json.Number("5"), rec["id"])
	assert.Len(t, rec["roles"], 1)
}

func TestGetEmployee_404EsNotFound(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetEmployee(context.Background(), "tok", "5")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetEmployee_FormaInesperada(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[1,2,3]`)
	})

	_, err := c.GetEmployee(context.Background(), "tok", "5")
	assert.Error(t, err)
}

func TestListEmployees(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/empleados", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":1},{"id":2}]`)
	})

	list, err := c.ListEmployees(context.Background(), "tok")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestFetch_ConQuery(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/empleadorol", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("empleado"))
		_, _ = io.WriteString(w, `{"rol":{"nombre":"r_admin"}}`)
	})

	v, err := c.Fetch(context.Background(), "tok", "/api/empleadorol?empleado=5")
	require.NoError(t, err)
	assert.IsType(t, map[string]any{}, v)
}

func TestFetch_CuerpoVacioEsError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := c.Fetch(context.Background(), "tok", "/api/roles/empleado/5")
	assert.Error(t, err)
}

func TestGetProfile_RutaPorRecurso(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/clientes/7", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":7,"nombre":"Ana"}`)
	})

	p, err := c.GetProfile(context.Background(), "tok", "clientes", "7")
	require.NoError(t, err)
	assert.Equal(t, "Ana", p["nombre"])
}

func TestTransporte_ServidorCaido(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c := backend.NewClient(url, time.Second, nil)

	_, err := c.Login(context.Background(), "a", "b")

	require.Error(t, err)
	var herr *backend.HTTPError
	assert.NotErrorAs(t, err, &herr)
}
