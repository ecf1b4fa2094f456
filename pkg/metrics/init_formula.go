package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initFormulaMetrics() {
	r.FormulaClauses = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteroute_formula_clauses_total",
			Help: "Clauses in connection formulas, before (raw) and after (optimized) optimization",
		},
		[]string{"stage"},
	)

	r.FormulaLiterals = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "siteroute_formula_literals_total",
			Help: "Literals in connection formulas, before (raw) and after (optimized) optimization",
		},
		[]string{"stage"},
	)
}
