package jwt

import (
	"encoding/json"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// decoder acepta segmentos con o sin relleno "=".
var decoder = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeUnverified extrae los claims del segmento central de un token bearer SIN verificar la firma.
// Devuelve (nil, false) si el token tiene menos de dos segmentos, el segmento central no es base64url
// válido o su contenido no es un objeto JSON. Nunca entra en pánico.
//
// El resultado es solo una pista: no debe usarse para autorizar.
func DecodeUnverified(token string) (jwt.MapClaims, bool) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) < 2 || parts[1] == "" {
		return nil, false
	}
	// Aceptamos también el alfabeto base64 estándar.
	seg := strings.NewReplacer("+", "-", "/", "_").Replace(parts[1])

	raw, err := decoder.DecodeSegment(seg)
	if err != nil {
		return nil, false
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(raw, &claims); err != nil || claims == nil {
		return nil, false
	}
	return claims, true
}

// ClaimString devuelve el claim como texto si existe y es string.
func ClaimString(claims jwt.MapClaims, key string) string {
	if claims == nil {
		return ""
	}
	s, _ := claims[key].(string)
	return s
}
