package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["contrasena"] != "secreto" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Contraseña incorrecta"}`)
			return
		}
		_, _ = io.WriteString(w, `{"token":"t","id":5,"correo":"cajero1@x.com","tipo":"EMPLEADO"}`)
	})
	mux.HandleFunc("POST /api/auth/registro", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":10}`)
	})
	mux.HandleFunc("/", http.NotFound)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, sessionPath string, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--no-color", "--backend", srv.URL, "--sesion", sessionPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCLI_LoginSesionRutaLogout(t *testing.T) {
	srv := fakeAPI(t)
	path := filepath.Join(t.TempDir(), "sesion.json")

	out, err := run(t, srv, path, "login", "--correo", "cajero1@x.com", "--contrasena", "secreto")
	require.NoError(t, err)
	assert.Contains(t, out, "CAJERO")
	assert.Contains(t, out, "/empleado-cajero/venta")
	_, err = os.Stat(path)
	require.NoError(t, err, "la sesión queda en el archivo")

	out, err = run(t, srv, path, "sesion")
	require.NoError(t, err)
	assert.Contains(t, out, "userId")
	assert.Contains(t, out, "5")

	out, err = run(t, srv, path, "ruta", "/empleado-cajero/venta")
	require.NoError(t, err)
	assert.Contains(t, out, "admitida")

	out, err = run(t, srv, path, "ruta", "/administrador/empleados")
	require.NoError(t, err)
	assert.Contains(t, out, "redirigida")
	assert.Contains(t, out, "/login")

	out, err = run(t, srv, path, "destino")
	require.NoError(t, err)
	assert.Equal(t, "/empleado-cajero/venta\n", out)

	out, err = run(t, srv, path, "destino", "EMPLEADO")
	require.NoError(t, err)
	assert.Equal(t, "/empleado-cajero/venta\n", out, "el empleado genérico usa el rol guardado")

	_, err = run(t, srv, path, "logout")
	require.NoError(t, err)

	out, err = run(t, srv, path, "sesion")
	require.NoError(t, err)
	assert.Contains(t, out, "sin sesión")
}

func TestCLI_LoginRechazado(t *testing.T) {
	srv := fakeAPI(t)
	path := filepath.Join(t.TempDir(), "sesion.json")

	_, err := run(t, srv, path, "login", "--correo", "cajero1@x.com", "--contrasena", "mala")
	require.Error(t, err)
	assert.Equal(t, "Contraseña incorrecta", err.Error())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "un login fallido no crea el archivo")
}

func TestCLI_Destino(t *testing.T) {
	srv := fakeAPI(t)
	path := filepath.Join(t.TempDir(), "sesion.json")

	for tipo, want := range map[string]string{
		"ADMINISTRADOR": "/administrador/empleados",
		"gerente":       "/empleado/menu",
		"CLIENTE":       "/cliente/menu",
		"EMPLEADO":      "/login",
		"otro":          "/login",
	} {
		out, err := run(t, srv, path, "destino", tipo)
		require.NoError(t, err)
		assert.Equal(t, want+"\n", out, tipo)
	}
}

func TestCLI_RegistroValidaAntesDeLlamar(t *testing.T) {
	srv := fakeAPI(t)
	path := filepath.Join(t.TempDir(), "sesion.json")

	_, err := run(t, srv, path, "registro",
		"--nombre", "Ana", "--apellidos", "Pérez", "--telefono", "3001234567",
		"--correo", "ana@x.com", "--contrasena", "secreto", "--confirmar", "otra")
	require.Error(t, err)

	out, err := run(t, srv, path, "registro",
		"--nombre", "Ana", "--apellidos", "Pérez", "--telefono", "3001234567",
		"--correo", "ana@x.com", "--contrasena", "secreto", "--confirmar", "secreto")
	require.NoError(t, err)
	assert.Contains(t, out, "Registro exitoso")
}
