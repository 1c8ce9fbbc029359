// Package roles resuelve el rol concreto (CAJERO, GERENTE o ADMIN) de un principal que el
// backend reporta como empleado genérico, mediante una lista ordenada de estrategias.
package roles

import (
	"context"
	"errors"

	"github.com/jhoicas/restaurante-cliente/internal/application/ports"
	"github.com/jhoicas/restaurante-cliente/internal/domain"
	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
	"github.com/jhoicas/restaurante-cliente/internal/metrics"
	"github.com/jhoicas/restaurante-cliente/pkg/logger"
)

// Strategy una fuente de rol. TryResolve devuelve nil si la fuente no aporta señal;
// los errores de red o de forma se absorben dentro de la estrategia.
type Strategy interface {
	Name() string
	TryResolve(ctx context.Context, r *Resolution) *entity.RoleClaim
}

// Resolution estado compartido por las estrategias durante una resolución.
type Resolution struct {
	Principal *entity.Principal
	Directory ports.EmployeeDirectory

	profile struct {
		attempted bool
		record    map[string]any
		err       error
	}
}

// Profile consulta /api/empleados/{id} una sola vez por resolución.
func (r *Resolution) Profile(ctx context.Context) (map[string]any, error) {
	if r.profile.attempted {
		return r.profile.record, r.profile.err
	}
	r.profile.attempted = true
	if r.Principal.ID == "" {
		r.profile.err = errors.New("principal sin id")
		return nil, r.profile.err
	}
	rec, err := r.Directory.GetEmployee(ctx, r.Principal.Token, r.Principal.ID)
	if err == nil && rec == nil {
		err = domain.ErrNotFound
	}
	r.profile.record, r.profile.err = rec, err
	return rec, err
}

// Resolver ejecuta las estrategias en orden y se detiene en la primera que produce rol.
type Resolver struct {
	directory  ports.EmployeeDirectory
	strategies []Strategy
	log        *logger.Logger
}

// DefaultStrategies cascada estándar: campo directo, claim del token, perfil, endpoints de rol y listado.
func DefaultStrategies() []Strategy {
	return []Strategy{
		DirectField{},
		TokenClaim{},
		ProfileLookup{},
		RoleEndpoints{},
		RosterScan{},
	}
}

// NewResolver construye el resolver. Sin estrategias usa DefaultStrategies.
func NewResolver(directory ports.EmployeeDirectory, log *logger.Logger, strategies ...Strategy) *Resolver {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{directory: directory, strategies: strategies, log: log.Component("roles")}
}

// Resolve devuelve el primer RoleClaim con rol concreto de personal o domain.ErrRoleResolutionExhausted.
func (s *Resolver) Resolve(ctx context.Context, p *entity.Principal) (*entity.RoleClaim, error) {
	if p == nil {
		return nil, domain.ErrRoleResolutionExhausted
	}
	res := &Resolution{Principal: p, Directory: s.directory}

	for _, st := range s.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		claim := st.TryResolve(ctx, res)
		if claim == nil || !claim.Tag.IsStaff() {
			metrics.RoleResolutionTotal.WithLabelValues(st.Name(), "sin_senal").Inc()
			s.log.Debug().Str("estrategia", st.Name()).Str("user_id", p.ID).Msg("estrategia sin señal de rol")
			continue
		}
		claim.Source = st.Name()
		metrics.RoleResolutionTotal.WithLabelValues(st.Name(), "ok").Inc()
		s.log.Info().
			Str("estrategia", st.Name()).
			Str("valor", claim.Raw).
			Str("rol", claim.Tag.String()).
			Str("user_id", p.ID).
			Msg("rol de empleado resuelto")
		return claim, nil
	}
	return nil, domain.ErrRoleResolutionExhausted
}
