package entity

import (
	"encoding/json"
	"time"
)

// Session estado persistido por dispositivo. La presencia de Token implica "autenticado".
// Claves persistidas: token, usuario (RawUser), userId, tipo (RoleTag).
type Session struct {
	Token     string
	UserID    string
	RawUser   json.RawMessage // registro del backend, tal cual
	RoleTag   RoleTag
	UpdatedAt time.Time
}

// Authenticated es seguro con receptor nil.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Role devuelve el rol persistido o RoleNone.
func (s *Session) Role() RoleTag {
	if s == nil {
		return RoleNone
	}
	return s.RoleTag
}

// User decodifica el registro crudo. Devuelve nil si no hay registro o no es un objeto JSON.
func (s *Session) User() map[string]any {
	if s == nil || len(s.RawUser) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(s.RawUser, &m); err != nil {
		return nil
	}
	return m
}

// RoleClaim resultado transitorio de una estrategia de resolución de rol.
type RoleClaim struct {
	Source string  // estrategia que produjo el rol
	Raw    string  // valor original encontrado
	Tag    RoleTag // rol normalizado
}
