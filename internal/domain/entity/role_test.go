package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
)

func TestParseRoleTag(t *testing.T) {
	cases := map[string]entity.RoleTag{
		"CLIENTE":       entity.RoleCliente,
		"cliente":       entity.RoleCliente,
		"Cajero":        entity.RoleCajero,
		"gerente":       entity.RoleGerente,
		"ADMIN":         entity.RoleAdmin,
		"administrador": entity.RoleAdmin,
		"EMPLEADO":      entity.RoleNone,
		"EMPLOYEE":      entity.RoleNone,
		"":              entity.RoleNone,
		"SUPERVISOR":    entity.RoleNone,
	}
	for in, want := range cases {
		assert.Equal(t, want, entity.ParseRoleTag(in), "tipo %q", in)
	}
}

func TestIsGenericStaff(t *testing.T) {
	assert.True(t, entity.IsGenericStaff("EMPLEADO"))
	assert.True(t, entity.IsGenericStaff("employee"))
	assert.False(t, entity.IsGenericStaff("CAJERO"))
	assert.False(t, entity.IsGenericStaff(""))
}

func TestNormalizeRoleName_SubcadenaSinMayusculas(t *testing.T) {
	cases := map[string]entity.RoleTag{
		"r_cajero":         entity.RoleCajero,
		"R_GERENTE":        entity.RoleGerente,
		"cajero principal": entity.RoleCajero,
		"Administrador":    entity.RoleAdmin,
		"r_admin":          entity.RoleAdmin,
		"mesero":           entity.RoleNone,
		"r_":               entity.RoleNone,
		"":                 entity.RoleNone,
	}
	for in, want := range cases {
		assert.Equal(t, want, entity.NormalizeRoleName(in), "nombre %q", in)
	}
}

func TestMatchExactRoleName_SoloLiterales(t *testing.T) {
	assert.Equal(t, entity.RoleCajero, entity.MatchExactRoleName("r_cajero"))
	assert.Equal(t, entity.RoleGerente, entity.MatchExactRoleName("r_gerente"))
	assert.Equal(t, entity.RoleAdmin, entity.MatchExactRoleName("r_admin"))
	assert.Equal(t, entity.RoleNone, entity.MatchExactRoleName("R_CAJERO"))
	assert.Equal(t, entity.RoleNone, entity.MatchExactRoleName("cajero"))
}

func TestNewPrincipal_IdNumerico(t *testing.T) {
	raw := json.RawMessage(`{"token":"t","id":5,"correo":"cajero1@x.com","tipo":"EMPLEADO"}`)
	fields := map[string]any{"token": "t", "id": json.Number("5"), "correo": "cajero1@x.com", "tipo": "EMPLEADO"}

	p := entity.NewPrincipal(fields, raw)
	assert.Equal(t, "t", p.Token)
	assert.Equal(t, "5", p.ID)
	assert.Equal(t, "cajero1@x.com", p.Correo)
	assert.Equal(t, "EMPLEADO", p.Tipo)
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "7", entity.IDString(float64(7)))
	assert.Equal(t, "7", entity.IDString(json.Number("7")))
	assert.Equal(t, "abc", entity.IDString(" abc "))
	assert.Equal(t, "", entity.IDString(nil))
	assert.Equal(t, "", entity.IDString(map[string]any{}))
}

func TestSession_NilSeguro(t *testing.T) {
	var s *entity.Session
	assert.False(t, s.Authenticated())
	assert.Equal(t, entity.RoleNone, s.Role())
	assert.Nil(t, s.User())

	s = &entity.Session{Token: "t", RawUser: json.RawMessage(`{"id":1}`)}
	assert.True(t, s.Authenticated())
	assert.NotNil(t, s.User())
}
