package roles

import (
	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
)

// signal rol encontrado en un registro: valor original y rol normalizado.
type signal struct {
	raw string
	tag entity.RoleTag
}

func (s *signal) claim(source string) *entity.RoleClaim {
	if s == nil || s.tag == entity.RoleNone {
		return nil
	}
	return &entity.RoleClaim{Source: source, Raw: s.raw, Tag: s.tag}
}

// roleName extrae el nombre de rol de una entrada: texto, {nombre}, {rol: "..."} o {rol: {nombre}}.
func roleName(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if n, ok := t["nombre"].(string); ok && n != "" {
			return n
		}
		switch r := t["rol"].(type) {
		case string:
			return r
		case map[string]any:
			n, _ := r["nombre"].(string)
			return n
		}
	}
	return ""
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// listSignal prefiere una entrada literal r_cajero/r_gerente/r_admin; si no hay, normaliza la primera.
func listSignal(list []any) *signal {
	if len(list) == 0 {
		return nil
	}
	if s := exactListSignal(list); s != nil {
		return s
	}
	first := roleName(list[0])
	if tag := entity.NormalizeRoleName(first); tag != entity.RoleNone {
		return &signal{raw: first, tag: tag}
	}
	return nil
}

// exactListSignal solo acepta nombres literales.
func exactListSignal(list []any) *signal {
	for _, e := range list {
		name := roleName(e)
		if tag := entity.MatchExactRoleName(name); tag != entity.RoleNone {
			return &signal{raw: name, tag: tag}
		}
	}
	return nil
}

// scalarSignal normaliza un rol escalar (texto u objeto con nombre).
func scalarSignal(v any) *signal {
	name := roleName(v)
	if tag := entity.NormalizeRoleName(name); tag != entity.RoleNone {
		return &signal{raw: name, tag: tag}
	}
	return nil
}

// directSignal busca rol/roles en la respuesta del login y en su objeto empleado.
func directSignal(fields map[string]any) *signal {
	for _, obj := range []map[string]any{fields, asObject(fields["empleado"])} {
		if obj == nil {
			continue
		}
		if s := scalarSignal(obj["rol"]); s != nil {
			return s
		}
		if s := listSignal(asList(obj["roles"])); s != nil {
			return s
		}
	}
	return nil
}

// recordSignal inspecciona un registro de empleado en orden:
// roles, rol, empleadoRoles, rolesEmpleado y usuario.roles.
func recordSignal(rec map[string]any) *signal {
	if rec == nil {
		return nil
	}
	if s := listSignal(asList(rec["roles"])); s != nil {
		return s
	}
	if s := scalarSignal(rec["rol"]); s != nil {
		return s
	}
	if s := exactListSignal(asList(rec["empleadoRoles"])); s != nil {
		return s
	}
	if s := exactListSignal(asList(rec["rolesEmpleado"])); s != nil {
		return s
	}
	if usuario := asObject(rec["usuario"]); usuario != nil {
		if s := exactListSignal(asList(usuario["roles"])); s != nil {
			return s
		}
	}
	return nil
}

// responseSignal interpreta la respuesta de un endpoint de roles: arreglo u objeto único.
func responseSignal(body any) *signal {
	if body == nil {
		return nil
	}
	list, ok := body.([]any)
	if !ok {
		list = []any{body}
	}
	return exactListSignal(list)
}
