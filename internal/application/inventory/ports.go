package inventory

import (
	"context"

	"github.com/jhoicas/socks-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el repositorio atado a esa tx.
// Garantiza que cada lectura-modificación-escritura de una fila sea atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(repo repository.SockRepository) error) error
}

// Operaciones reportadas al MovementRecorder.
const (
	OpIncome  = "income"
	OpOutcome = "outcome"
	OpUpdate  = "update"
	OpBatch   = "batch"
)

// Resultados reportados al MovementRecorder.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// MovementRecorder recibe cada movimiento de stock (métricas).
type MovementRecorder interface {
	RecordMovement(operation, result string, quantity int)
}

type nopRecorder struct{}

func (nopRecorder) RecordMovement(string, string, int) {}
