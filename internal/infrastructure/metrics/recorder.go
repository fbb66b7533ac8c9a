// Package metrics expone los movimientos de stock como métricas Prometheus.
package metrics

import (
	"github.com/jhoicas/socks-api/internal/application/inventory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var _ inventory.MovementRecorder = (*Recorder)(nil)

// Recorder implementa inventory.MovementRecorder con contadores Prometheus.
type Recorder struct {
	movements *prometheus.CounterVec
	quantity  *prometheus.CounterVec
}

// NewRecorder registra los contadores en reg (prometheus.DefaultRegisterer en producción).
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		movements: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "socks_movements_total",
			Help: "Movimientos de stock por operación y resultado",
		}, []string{"operation", "result"}),
		quantity: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "socks_quantity_moved_total",
			Help: "Pares de calcetines movidos por operación (solo movimientos exitosos)",
		}, []string{"operation"}),
	}
}

// RecordMovement cuenta el movimiento y, si fue exitoso, la cantidad movida.
func (r *Recorder) RecordMovement(operation, result string, quantity int) {
	r.movements.WithLabelValues(operation, result).Inc()
	if result == inventory.ResultOK && quantity > 0 {
		r.quantity.WithLabelValues(operation).Add(float64(quantity))
	}
}
