package route_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
	"github.com/jhoicas/restaurante-cliente/internal/domain/route"
)

func TestMatch_PrefijoPorSegmentoCompleto(t *testing.T) {
	tree, section, ok := route.Match("/empleado-cajero/venta")
	require.True(t, ok)
	assert.Equal(t, "/empleado-cajero", tree.Prefix)
	assert.Equal(t, "venta", section)

	tree, section, ok = route.Match("/empleado/productos/")
	require.True(t, ok)
	assert.Equal(t, "/empleado", tree.Prefix)
	assert.Equal(t, "productos", section)

	_, _, ok = route.Match("/empleados")
	assert.False(t, ok)

	_, _, ok = route.Match("/clientes/menu")
	assert.False(t, ok)
}

func TestMatch_RaizDelArbol(t *testing.T) {
	tree, section, ok := route.Match("/administrador")
	require.True(t, ok)
	assert.Equal(t, "", section)
	assert.True(t, tree.HasSection(section))

	tree, section, ok = route.Match("/cliente/")
	require.True(t, ok)
	assert.False(t, tree.HasSection(section))
}

func TestIsPublic(t *testing.T) {
	for _, p := range []string{"/", "/login", "/login/", "/registro", ""} {
		assert.True(t, route.IsPublic(p), p)
	}
	for _, p := range []string{"/cliente/menu", "/logout", "/loginx"} {
		assert.False(t, route.IsPublic(p), p)
	}
}

func TestLandingFor(t *testing.T) {
	assert.Equal(t, "/administrador/empleados", route.LandingFor(entity.RoleAdmin))
	assert.Equal(t, "/empleado/menu", route.LandingFor(entity.RoleGerente))
	assert.Equal(t, "/empleado-cajero/venta", route.LandingFor(entity.RoleCajero))
	assert.Equal(t, "/cliente/menu", route.LandingFor(entity.RoleCliente))
	assert.Equal(t, "/login", route.LandingFor(entity.RoleNone))
}

func TestLandingsSonSeccionesAdmitidas(t *testing.T) {
	for _, tag := range []entity.RoleTag{entity.RoleAdmin, entity.RoleGerente, entity.RoleCajero, entity.RoleCliente} {
		tree, section, ok := route.Match(route.LandingFor(tag))
		require.True(t, ok, tag)
		assert.True(t, tree.Admits(tag), tag)
		assert.True(t, tree.HasSection(section), tag)
	}
}
