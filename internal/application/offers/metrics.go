package offers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// sweepRuns cuenta los barridos de expiración ejecutados.
	sweepRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offer_sweep_runs_total",
		Help: "Total de barridos de expiración de ofertas ejecutados",
	})

	// sweepOffersExpired cuenta las ofertas expiradas y restauradas por el barrido.
	sweepOffersExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offer_sweep_expired_total",
		Help: "Total de ofertas expiradas y restauradas por el barrido",
	})

	// sweepFailures cuenta fallas por oferta durante el barrido (no abortan el barrido).
	sweepFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "offer_sweep_failures_total",
		Help: "Total de ofertas cuya expiración falló dentro de un barrido",
	})

	// sweepDuration duración de cada barrido completo.
	sweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "offer_sweep_duration_seconds",
		Help:    "Duración de cada barrido de expiración",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	})
)
