package auth

import (
	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
)

// EmailFallback política de último recurso cuando la cascada de roles no encuentra nada.
type EmailFallback func(correo string) entity.RoleTag

// EmailRoleHeuristic deduce el rol por subcadena del correo: "cajero", "gerente" o "admin", en ese orden.
//
// Punto débil conocido: el correo no es una fuente confiable de rol. Solo se aplica cuando el
// backend no entregó ninguna señal y puede desactivarse con ROLE_EMAIL_FALLBACK=false.
func EmailRoleHeuristic(correo string) entity.RoleTag {
	return entity.NormalizeRoleName(correo)
}
