package entity

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RoleTag rol efectivo persistido en la sesión. RoleNone = sin rol resuelto.
type RoleTag string

// Roles concretos que entiende el cliente.
const (
	RoleNone    RoleTag = ""
	RoleCliente RoleTag = "CLIENTE"
	RoleCajero  RoleTag = "CAJERO"
	RoleGerente RoleTag = "GERENTE"
	RoleAdmin   RoleTag = "ADMIN"
)

// Categorías que reporta el backend y que no son un rol concreto.
const (
	TipoEmpleado      = "EMPLEADO"
	TipoEmployee      = "EMPLOYEE"
	TipoAdministrador = "ADMINISTRADOR"
)

// Nombres de rol del backend (tabla roles).
const (
	RoleNameCajero  = "r_cajero"
	RoleNameGerente = "r_gerente"
	RoleNameAdmin   = "r_admin"
)

// StaffRoles roles concretos de personal, en orden de coincidencia.
var StaffRoles = []RoleTag{RoleCajero, RoleGerente, RoleAdmin}

// IsStaff indica si el rol es de personal (cajero, gerente o admin).
func (r RoleTag) IsStaff() bool {
	return r == RoleCajero || r == RoleGerente || r == RoleAdmin
}

// IsConcrete indica si el rol es uno de los cuatro roles persistibles.
func (r RoleTag) IsConcrete() bool {
	return r == RoleCliente || r.IsStaff()
}

func (r RoleTag) String() string { return string(r) }

// upper y fold crean un Caser por llamada: los Caser no son seguros para uso concurrente.
func upper(s string) string { return cases.Upper(language.Und).String(strings.TrimSpace(s)) }
func fold(s string) string  { return cases.Fold().String(strings.TrimSpace(s)) }

// ParseRoleTag interpreta el "tipo" del backend sin distinguir mayúsculas.
// ADMINISTRADOR equivale a ADMIN. La categoría genérica y los valores desconocidos devuelven RoleNone.
func ParseRoleTag(tipo string) RoleTag {
	switch u := upper(tipo); u {
	case string(RoleCliente), string(RoleCajero), string(RoleGerente), string(RoleAdmin):
		return RoleTag(u)
	case TipoAdministrador:
		return RoleAdmin
	default:
		return RoleNone
	}
}

// MatchStaffTag reconoce exactamente CAJERO, GERENTE o ADMIN sin distinguir mayúsculas.
func MatchStaffTag(s string) RoleTag {
	tag := RoleTag(upper(s))
	if tag.IsStaff() {
		return tag
	}
	return RoleNone
}

// IsGenericStaff indica si el tipo es la categoría genérica de empleado (EMPLEADO / EMPLOYEE).
func IsGenericStaff(tipo string) bool {
	u := upper(tipo)
	return u == TipoEmpleado || u == TipoEmployee
}

// NormalizeRoleName normaliza un nombre de rol libre: case-fold, quita el prefijo "r_" y busca
// "cajero", "gerente" o "admin" como subcadena, en ese orden.
func NormalizeRoleName(name string) RoleTag {
	f := strings.TrimPrefix(fold(name), "r_")
	if f == "" {
		return RoleNone
	}
	for _, tag := range StaffRoles {
		if strings.Contains(f, fold(string(tag))) {
			return tag
		}
	}
	return RoleNone
}

// MatchExactRoleName solo reconoce los nombres literales r_cajero, r_gerente y r_admin.
func MatchExactRoleName(name string) RoleTag {
	switch name {
	case RoleNameCajero:
		return RoleCajero
	case RoleNameGerente:
		return RoleGerente
	case RoleNameAdmin:
		return RoleAdmin
	default:
		return RoleNone
	}
}
