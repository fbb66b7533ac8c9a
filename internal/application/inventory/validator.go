package inventory

import (
	"fmt"
	"math"

	"github.com/jhoicas/socks-api/internal/application/dto"
	"github.com/jhoicas/socks-api/internal/domain"
)

// Límites del porcentaje de algodón y de la cantidad por lote (columna INTEGER).
const (
	MinCottonPart = 0
	MaxCottonPart = 100
	MaxQuantity   = math.MaxInt32
)

// ValidateSockRequest valida la petición de un lote. No modifica la entrada.
func ValidateSockRequest(in *dto.SockRequest) error {
	if in == nil {
		return fmt.Errorf("%w: la petición no puede ser nula", domain.ErrInvalidInput)
	}
	if in.CottonPart < MinCottonPart || in.CottonPart > MaxCottonPart {
		return fmt.Errorf("%w: el porcentaje de algodón debe estar entre %d y %d", domain.ErrInvalidInput, MinCottonPart, MaxCottonPart)
	}
	if in.Quantity < 0 {
		return fmt.Errorf("%w: la cantidad de calcetines no puede ser negativa", domain.ErrInvalidInput)
	}
	if in.Quantity > MaxQuantity {
		return fmt.Errorf("%w: la cantidad de calcetines no puede superar %d", domain.ErrInvalidInput, MaxQuantity)
	}
	return nil
}
