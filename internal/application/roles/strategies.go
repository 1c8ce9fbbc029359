package roles

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
	"github.com/jhoicas/restaurante-cliente/pkg/jwt"
)

// Nombres de estrategia (etiqueta de métricas y logs).
const (
	StrategyDirectField   = "campo_directo"
	StrategyTokenClaim    = "claim_token"
	StrategyProfileLookup = "perfil"
	StrategyRoleEndpoints = "endpoints_rol"
	StrategyRosterScan    = "listado"
)

// RoleEndpointPaths rutas de consulta de roles por id de empleado, en orden.
func RoleEndpointPaths(id string) []string {
	p := url.PathEscape(id)
	return []string{
		fmt.Sprintf("/api/empleados/%s/roles", p),
		fmt.Sprintf("/api/roles/empleado/%s", p),
		fmt.Sprintf("/api/empleadorol/empleado/%s", p),
		fmt.Sprintf("/api/empleadorol/empleado/%s/roles", p),
		"/api/empleadorol?empleado=" + url.QueryEscape(id),
	}
}

// DirectField rol explícito en la respuesta del login: rol, roles, empleado.rol, empleado.roles.
type DirectField struct{}

func (DirectField) Name() string { return StrategyDirectField }

func (DirectField) TryResolve(_ context.Context, r *Resolution) *entity.RoleClaim {
	return directSignal(r.Principal.Fields).claim(StrategyDirectField)
}

// TokenClaim claim "tipo" del token sin verificar firma. Solo acepta CAJERO, GERENTE o ADMIN.
type TokenClaim struct{}

func (TokenClaim) Name() string { return StrategyTokenClaim }

func (TokenClaim) TryResolve(_ context.Context, r *Resolution) *entity.RoleClaim {
	claims, ok := jwt.DecodeUnverified(r.Principal.Token)
	if !ok {
		return nil
	}
	raw := jwt.ClaimString(claims, "tipo")
	tag := entity.MatchStaffTag(raw)
	if tag == entity.RoleNone {
		return nil
	}
	return &entity.RoleClaim{Source: StrategyTokenClaim, Raw: raw, Tag: tag}
}

// ProfileLookup GET /api/empleados/{id} e inspección del registro.
type ProfileLookup struct{}

func (ProfileLookup) Name() string { return StrategyProfileLookup }

func (ProfileLookup) TryResolve(ctx context.Context, r *Resolution) *entity.RoleClaim {
	rec, err := r.Profile(ctx)
	if err != nil {
		return nil
	}
	return recordSignal(rec).claim(StrategyProfileLookup)
}

// RoleEndpoints solo si el perfil se encontró sin señal de rol: prueba los endpoints de roles por id.
type RoleEndpoints struct{}

func (RoleEndpoints) Name() string { return StrategyRoleEndpoints }

func (RoleEndpoints) TryResolve(ctx context.Context, r *Resolution) *entity.RoleClaim {
	rec, err := r.Profile(ctx)
	if err != nil {
		return nil
	}
	id := entity.IDString(rec["id"])
	if id == "" {
		id = r.Principal.ID
	}
	return queryRoleEndpoints(ctx, r, id).claim(StrategyRoleEndpoints)
}

// RosterScan solo si la consulta del perfil falló: busca el id en el listado de empleados.
type RosterScan struct{}

func (RosterScan) Name() string { return StrategyRosterScan }

func (RosterScan) TryResolve(ctx context.Context, r *Resolution) *entity.RoleClaim {
	if r.Principal.ID == "" {
		return nil
	}
	if _, err := r.Profile(ctx); err == nil {
		return nil
	}
	list, err := r.Directory.ListEmployees(ctx, r.Principal.Token)
	if err != nil {
		return nil
	}
	for _, e := range list {
		emp := asObject(e)
		if emp == nil || entity.IDString(emp["id"]) != r.Principal.ID {
			continue
		}
		if s := recordSignal(emp); s != nil {
			return s.claim(StrategyRosterScan)
		}
		return queryRoleEndpoints(ctx, r, entity.IDString(emp["id"])).claim(StrategyRosterScan)
	}
	return nil
}

func queryRoleEndpoints(ctx context.Context, r *Resolution, id string) *signal {
	if id == "" {
		return nil
	}
	for _, path := range RoleEndpointPaths(id) {
		if ctx.Err() != nil {
			return nil
		}
		body, err := r.Directory.Fetch(ctx, r.Principal.Token, path)
		if err != nil {
			continue
		}
		if s := responseSignal(body); s != nil {
			return s
		}
	}
	return nil
}
