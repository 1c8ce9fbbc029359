package entity

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Principal respuesta del backend al login: {token, id, correo, tipo, rol?, roles?, empleado?}.
type Principal struct {
	Token  string
	ID     string
	Correo string
	Tipo   string
	Fields map[string]any  // cuerpo decodificado (números como json.Number)
	Raw    json.RawMessage // cuerpo tal cual, se persiste como "usuario"
}

// NewPrincipal arma el principal a partir del cuerpo decodificado y su forma cruda.
func NewPrincipal(fields map[string]any, raw json.RawMessage) *Principal {
	p := &Principal{Fields: fields, Raw: raw}
	if fields == nil {
		return p
	}
	p.Token, _ = fields["token"].(string)
	p.ID = IDString(fields["id"])
	p.Correo, _ = fields["correo"].(string)
	p.Tipo, _ = fields["tipo"].(string)
	return p
}

// IDString representa un id del backend (número o texto) como string. Devuelve "" si no aplica.
func IDString(v any) string {
	switch t := v.(type) {
	case json.Number:
		return t.String()
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}
