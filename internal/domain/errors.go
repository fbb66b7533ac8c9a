package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrMalformedInput    = errors.New("formato CSV inválido")
)

// InsufficientStockError detalla una salida que excede la cantidad disponible.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	Color      string
	CottonPart int
	Requested  int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("calcetines color '%s' con %d%% de algodón insuficientes: cantidad solicitada %d, cantidad disponible %d",
		e.Color, e.CottonPart, e.Requested, e.Available)
}

// Unwrap permite comparar con ErrInsufficientStock.
func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
