// Package metrics expone las métricas Prometheus del cliente web.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "restaurante"

var (
	// LoginTotal intentos de login por resultado (ok, credenciales, validacion, reemplazado, error).
	LoginTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_total",
			Help:      "Total de intentos de login por resultado",
		},
		[]string{"resultado"},
	)

	// RoleResolutionTotal resultado de cada estrategia de resolución de rol.
	RoleResolutionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "role_resolution_total",
			Help:      "Resultados de las estrategias de resolución de rol",
		},
		[]string{"estrategia", "resultado"},
	)

	// GateDecisionsTotal decisiones del control de acceso por árbol.
	GateDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_decisions_total",
			Help:      "Decisiones del control de acceso a rutas",
		},
		[]string{"arbol", "resultado"},
	)

	// BackendRequestsTotal peticiones al backend por operación y clase de estado.
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Peticiones al backend por operación y estado",
		},
		[]string{"operacion", "estado"},
	)

	// BackendRequestDuration duración de las peticiones al backend.
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Duración de las peticiones al backend en segundos",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operacion"},
	)
)
