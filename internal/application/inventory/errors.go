package inventory

import (
	"errors"

	"github.com/jhoicas/socks-api/internal/domain"
)

func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrMalformedInput)
}
