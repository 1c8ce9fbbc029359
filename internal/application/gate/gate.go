// Package gate decide, a partir de la sesión persistida, si una navegación entra o se redirige.
// Nunca hace llamadas de red.
package gate

import (
	"github.com/jhoicas/restaurante-cliente/internal/domain/entity"
	"github.com/jhoicas/restaurante-cliente/internal/domain/route"
	"github.com/jhoicas/restaurante-cliente/internal/metrics"
)

// Outcome resultado de una decisión.
type Outcome int

const (
	Public Outcome = iota
	Admit
	Redirect
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Public:
		return "publica"
	case Admit:
		return "admitida"
	case Redirect:
		return "redirigida"
	default:
		return "no_encontrada"
	}
}

// Decision resultado de Decide. Redirect solo tiene valor cuando Outcome == Redirect.
type Decision struct {
	Outcome  Outcome
	Redirect string
	Tree     route.Tree
	Section  string
}

// Decide evalúa path contra la sesión (nil = sin sesión).
// Rutas fuera de los árboles protegidos y no públicas son NotFound.
func Decide(path string, sess *entity.Session) Decision {
	if route.IsPublic(path) {
		metrics.GateDecisionsTotal.WithLabelValues("publico", Public.String()).Inc()
		return Decision{Outcome: Public}
	}

	tree, section, ok := route.Match(path)
	if !ok {
		metrics.GateDecisionsTotal.WithLabelValues("ninguno", NotFound.String()).Inc()
		return Decision{Outcome: NotFound}
	}

	d := Decision{Tree: tree, Section: section}
	switch {
	case !sess.Authenticated(), !tree.Admits(sess.Role()):
		d.Outcome = Redirect
		d.Redirect = route.Login
	case !tree.HasSection(section):
		d.Outcome = NotFound
	default:
		d.Outcome = Admit
	}
	metrics.GateDecisionsTotal.WithLabelValues(tree.Prefix, d.Outcome.String()).Inc()
	return d
}
