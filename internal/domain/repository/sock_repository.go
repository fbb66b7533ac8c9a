package repository

import (
	"context"

	"github.com/jhoicas/socks-api/internal/domain/entity"
)

// SockRepository define el puerto de persistencia para Sock (DIP).
// Los Get devuelven nil, nil cuando no existe la fila.
type SockRepository interface {
	// LockKey serializa a los escritores de (color, cottonPart) hasta el fin de la transacción.
	LockKey(ctx context.Context, color string, cottonPart int) error
	GetByColorAndCottonPart(ctx context.Context, color string, cottonPart int) (*entity.Sock, error)
	// GetByColorAndCottonPartForUpdate además bloquea la fila hasta el fin de la transacción.
	GetByColorAndCottonPartForUpdate(ctx context.Context, color string, cottonPart int) (*entity.Sock, error)
	GetByID(ctx context.Context, id int64) (*entity.Sock, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Sock, error)
	// ListByCottonPartRange lista las filas con minCottonPart <= cottonPart <= maxCottonPart en orden de id.
	ListByCottonPartRange(ctx context.Context, minCottonPart, maxCottonPart int) ([]*entity.Sock, error)
	// Save inserta si ID == 0 (asigna ID y timestamps) o actualiza la fila existente.
	Save(ctx context.Context, sock *entity.Sock) error
	SumQuantity(ctx context.Context, filter entity.SockFilter) (int, error)
}
