// Package route contiene la tabla de árboles de rutas protegidas y sus roles permitidos.
package route

import (
	"strings"

	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
)

// Rutas públicas y de aterrizaje.
const (
	Home     = "/"
	Login    = "/login"
	Registro = "/registro"

	LandingAdmin   = "/administrador/empleados"
	LandingGerente = "/empleado/menu"
	LandingCajero  = "/empleado-cajero/venta"
	LandingCliente = "/cliente/menu"
)

// Recursos del backend usados por la vista de perfil.
const (
	ProfileClientes  = "clientes"
	ProfileEmpleados = "empleados"
)

// Tree árbol de rutas protegido por un conjunto de roles.
type Tree struct {
	Prefix   string
	Allowed  []entity.RoleTag
	Sections []string // "" = raíz del árbol
	Profile  string   // recurso del backend para la sección "perfil"
}

// Admits indica si el rol puede entrar al árbol.
func (t Tree) Admits(tag entity.RoleTag) bool {
	for _, r := range t.Allowed {
		if r == tag {
			return true
		}
	}
	return false
}

// HasSection indica si la sección existe en el árbol.
func (t Tree) HasSection(section string) bool {
	for _, s := range t.Sections {
		if s == section {
			return true
		}
	}
	return false
}

// Trees tabla de árboles protegidos. El orden no importa: el prefijo se compara por segmento completo.
var Trees = []Tree{
	{
		Prefix:   "/cliente",
		Allowed:  []entity.RoleTag{entity.RoleCliente},
		Sections: []string{"menu", "seguimiento-pedido", "historial", "perfil"},
		Profile:  ProfileClientes,
	},
	{
		Prefix:   "/administrador",
		Allowed:  []entity.RoleTag{entity.RoleAdmin},
		Sections: []string{"", "perfil", "empleados", "ingresos", "reportes"},
		Profile:  ProfileEmpleados,
	},
	{
		Prefix:   "/empleado",
		Allowed:  []entity.RoleTag{entity.RoleGerente, entity.RoleAdmin},
		Sections: []string{"menu", "dias-laborables", "categorias", "productos", "proveedores", "perfil"},
		Profile:  ProfileEmpleados,
	},
	{
		Prefix:   "/empleado-cajero",
		Allowed:  []entity.RoleTag{entity.RoleGerente, entity.RoleCajero, entity.RoleAdmin},
		Sections: []string{"perfil", "menu", "venta", "seguimiento-pedidos"},
		Profile:  ProfileEmpleados,
	},
}

// Clean quita la barra final (salvo en "/").
func Clean(path string) string {
	if path == "" {
		return Home
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return Home
		}
	}
	return path
}

// IsPublic indica si la ruta nunca pasa por el control de acceso.
func IsPublic(path string) bool {
	switch Clean(path) {
	case Home, Login, Registro:
		return true
	}
	return false
}

// Match busca el árbol que contiene la ruta y devuelve la sección relativa.
// "/empleado-cajero/venta" pertenece a "/empleado-cajero", no a "/empleado".
func Match(path string) (Tree, string, bool) {
	p := Clean(path)
	for _, t := range Trees {
		if p == t.Prefix {
			return t, "", true
		}
		if strings.HasPrefix(p, t.Prefix+"/") {
			return t, strings.TrimPrefix(p, t.Prefix+"/"), true
		}
	}
	return Tree{}, "", false
}

// LandingFor ruta de aterrizaje para un rol concreto. RoleNone y desconocidos van a login.
func LandingFor(tag entity.RoleTag) string {
	switch tag {
	case entity.RoleAdmin:
		return LandingAdmin
	case entity.RoleGerente:
		return LandingGerente
	case entity.RoleCajero:
		return LandingCajero
	case entity.RoleCliente:
		return LandingCliente
	default:
		return Login
	}
}
