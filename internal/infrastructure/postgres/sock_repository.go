package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/socks-api/internal/domain"
	"github.com/jhoicas/socks-api/internal/domain/entity"
	"github.com/jhoicas/socks-api/internal/domain/repository"
)

var _ repository.SockRepository = (*SockRepo)(nil)

const sockColumns = `id, color, cotton_part, quantity, created_at, updated_at`

// sumQuantityQuery replica entity.SockFilter.Matches: comparación desconocida con cotton_part => ninguna fila.
const sumQuantityQuery = `
	SELECT COALESCE(SUM(quantity), 0)
	FROM socks
	WHERE ($1::text IS NULL OR color = $1::text)
	  AND ($3::int IS NULL OR CASE
		WHEN $2::text = 'moreThan' THEN cotton_part > $3::int
		WHEN $2::text = 'lessThan' THEN cotton_part < $3::int
		WHEN $2::text = 'equal'    THEN cotton_part = $3::int
		ELSE FALSE
	  END)`

// SockRepo implementación de SockRepository sobre PostgreSQL (usable con pool o tx).
type SockRepo struct {
	q Querier
}

// NewSockRepository construye el adaptador de persistencia para calcetines. Pasar pool o tx (Querier).
func NewSockRepository(q Querier) *SockRepo {
	return &SockRepo{q: q}
}

// LockKey toma un advisory lock de transacción sobre (color, cottonPart).
// Fuera de una transacción se libera al terminar la sentencia.
func (r *SockRepo) LockKey(ctx context.Context, color string, cottonPart int) error {
	_, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1), $2)`, color, cottonPart)
	if err != nil {
		return fmt.Errorf("lock sock key: %w", err)
	}
	return nil
}

// GetByColorAndCottonPart obtiene el lote por clave natural (el de menor id si hay duplicados).
func (r *SockRepo) GetByColorAndCottonPart(ctx context.Context, color string, cottonPart int) (*entity.Sock, error) {
	query := `SELECT ` + sockColumns + ` FROM socks WHERE color = $1 AND cotton_part = $2 ORDER BY id LIMIT 1`
	s, err := scanSock(r.q.QueryRow(ctx, query, color, cottonPart))
	if err != nil {
		return nil, fmt.Errorf("get sock by color and cotton part: %w", err)
	}
	return s, nil
}

// GetByColorAndCottonPartForUpdate igual que GetByColorAndCottonPart con SELECT FOR UPDATE.
func (r *SockRepo) GetByColorAndCottonPartForUpdate(ctx context.Context, color string, cottonPart int) (*entity.Sock, error) {
	query := `SELECT ` + sockColumns + ` FROM socks WHERE color = $1 AND cotton_part = $2 ORDER BY id LIMIT 1 FOR UPDATE`
	s, err := scanSock(r.q.QueryRow(ctx, query, color, cottonPart))
	if err != nil {
		return nil, fmt.Errorf("get sock by color and cotton part for update: %w", err)
	}
	return s, nil
}

// GetByID obtiene un lote por ID.
func (r *SockRepo) GetByID(ctx context.Context, id int64) (*entity.Sock, error) {
	s, err := scanSock(r.q.QueryRow(ctx, `SELECT `+sockColumns+` FROM socks WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get sock: %w", err)
	}
	return s, nil
}

// GetByIDForUpdate obtiene el lote y bloquea la fila para update (SELECT FOR UPDATE).
func (r *SockRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Sock, error) {
	s, err := scanSock(r.q.QueryRow(ctx, `SELECT `+sockColumns+` FROM socks WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("get sock for update: %w", err)
	}
	return s, nil
}

// ListByCottonPartRange lista los lotes con cotton_part entre min y max (inclusive), por id.
func (r *SockRepo) ListByCottonPartRange(ctx context.Context, minCottonPart, maxCottonPart int) ([]*entity.Sock, error) {
	query := `SELECT ` + sockColumns + ` FROM socks WHERE cotton_part BETWEEN $1 AND $2 ORDER BY id`
	rows, err := r.q.Query(ctx, query, minCottonPart, maxCottonPart)
	if err != nil {
		return nil, fmt.Errorf("list socks by cotton part: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Sock, 0)
	for rows.Next() {
		var s entity.Sock
		if err := rows.Scan(&s.ID, &s.Color, &s.CottonPart, &s.Quantity, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Save inserta el lote si ID == 0 o actualiza todos sus campos.
func (r *SockRepo) Save(ctx context.Context, sock *entity.Sock) error {
	if sock.ID == 0 {
		return r.insert(ctx, sock)
	}
	return r.update(ctx, sock)
}

func (r *SockRepo) insert(ctx context.Context, sock *entity.Sock) error {
	query := `
		INSERT INTO socks (color, cotton_part, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, sock.Color, sock.CottonPart, sock.Quantity).
		Scan(&sock.ID, &sock.CreatedAt, &sock.UpdatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert sock: %w", err)
	}
	return nil
}

func (r *SockRepo) update(ctx context.Context, sock *entity.Sock) error {
	query := `
		UPDATE socks SET color = $2, cotton_part = $3, quantity = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query, sock.ID, sock.Color, sock.CottonPart, sock.Quantity).Scan(&sock.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: calcetines con id %d no encontrados", domain.ErrNotFound, sock.ID)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update sock: %w", err)
	}
	return nil
}

// SumQuantity suma quantity de las filas que cumplen el filtro.
func (r *SockRepo) SumQuantity(ctx context.Context, filter entity.SockFilter) (int, error) {
	var comparison *string
	if filter.Comparison != "" {
		c := string(filter.Comparison)
		comparison = &c
	}
	var total int64
	if err := r.q.QueryRow(ctx, sumQuantityQuery, filter.Color, comparison, filter.CottonPart).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum sock quantity: %w", err)
	}
	return int(total), nil
}

// scanSock devuelve nil, nil si no hay fila.
func scanSock(row pgx.Row) (*entity.Sock, error) {
	var s entity.Sock
	err := row.Scan(&s.ID, &s.Color, &s.CottonPart, &s.Quantity, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
