// Package memory implementa el repositorio de calcetines en memoria (STORE_DRIVER=memory y tests).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/socks-api/internal/application/inventory"
	"github.com/jhoicas/socks-api/internal/domain/entity"
	"github.com/jhoicas/socks-api/internal/domain/repository"
)

var (
	_ repository.SockRepository = (*Store)(nil)
	_ inventory.TxRunner        = (*Store)(nil)
)

// Store guarda los lotes en un mapa protegido por mutex. Run serializa las transacciones
// y restaura el estado previo si fn devuelve error.
type Store struct {
	mu     sync.RWMutex
	socks  map[int64]*entity.Sock
	nextID int64
	now    func() time.Time
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		socks:  make(map[int64]*entity.Sock),
		nextID: 1,
		now:    time.Now,
	}
}

// Run ejecuta fn con acceso exclusivo al store. Si fn falla se descartan sus cambios.
func (s *Store) Run(ctx context.Context, fn func(repo repository.SockRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, nextID := s.cloneLocked(), s.nextID
	if err := fn(txRepo{s: s}); err != nil {
		s.socks, s.nextID = snapshot, nextID
		return err
	}
	return nil
}

// LockKey no hace nada fuera de Run: cada llamada ya es atómica.
func (s *Store) LockKey(ctx context.Context, color string, cottonPart int) error {
	return ctx.Err()
}

func (s *Store) GetByColorAndCottonPart(ctx context.Context, color string, cottonPart int) (*entity.Sock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getByKeyLocked(color, cottonPart), nil
}

func (s *Store) GetByColorAndCottonPartForUpdate(ctx context.Context, color string, cottonPart int) (*entity.Sock, error) {
	return s.GetByColorAndCottonPart(ctx, color, cottonPart)
}

func (s *Store) GetByID(ctx context.Context, id int64) (*entity.Sock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getByIDLocked(id), nil
}

func (s *Store) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Sock, error) {
	return s.GetByID(ctx, id)
}

func (s *Store) ListByCottonPartRange(ctx context.Context, minCottonPart, maxCottonPart int) ([]*entity.Sock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listByRangeLocked(minCottonPart, maxCottonPart), nil
}

func (s *Store) Save(ctx context.Context, sock *entity.Sock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(sock)
}

func (s *Store) SumQuantity(ctx context.Context, filter entity.SockFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sumLocked(filter), nil
}

// Len cantidad de filas.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.socks)
}

func (s *Store) cloneLocked() map[int64]*entity.Sock {
	out := make(map[int64]*entity.Sock, len(s.socks))
	for id, sock := range s.socks {
		c := *sock
		out[id] = &c
	}
	return out
}

// sortedLocked devuelve las filas en orden de id (orden nativo del store).
func (s *Store) sortedLocked() []*entity.Sock {
	list := make([]*entity.Sock, 0, len(s.socks))
	for _, sock := range s.socks {
		list = append(list, sock)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (s *Store) getByKeyLocked(color string, cottonPart int) *entity.Sock {
	for _, sock := range s.sortedLocked() {
		if sock.Color == color && sock.CottonPart == cottonPart {
			c := *sock
			return &c
		}
	}
	return nil
}

func (s *Store) getByIDLocked(id int64) *entity.Sock {
	sock, ok := s.socks[id]
	if !ok {
		return nil
	}
	c := *sock
	return &c
}

func (s *Store) listByRangeLocked(minCottonPart, maxCottonPart int) []*entity.Sock {
	list := make([]*entity.Sock, 0)
	for _, sock := range s.sortedLocked() {
		if sock.CottonPart >= minCottonPart && sock.CottonPart <= maxCottonPart {
			c := *sock
			list = append(list, &c)
		}
	}
	return list
}

func (s *Store) saveLocked(sock *entity.Sock) error {
	now := s.now()
	if sock.ID == 0 {
		sock.ID = s.nextID
		s.nextID++
		sock.CreatedAt = now
	} else if existing, ok := s.socks[sock.ID]; ok {
		sock.CreatedAt = existing.CreatedAt
	}
	sock.UpdatedAt = now
	c := *sock
	s.socks[sock.ID] = &c
	return nil
}

func (s *Store) sumLocked(filter entity.SockFilter) int {
	total := 0
	for _, sock := range s.socks {
		if filter.Matches(sock) {
			total += sock.Quantity
		}
	}
	return total
}

// txRepo opera sobre el store con el mutex ya tomado por Run.
type txRepo struct {
	s *Store
}

func (r txRepo) LockKey(ctx context.Context, color string, cottonPart int) error {
	return ctx.Err()
}

func (r txRepo) GetByColorAndCottonPart(ctx context.Context, color string, cottonPart int) (*entity.Sock, error) {
	return r.s.getByKeyLocked(color, cottonPart), nil
}

func (r txRepo) GetByColorAndCottonPartForUpdate(ctx context.Context, color string, cottonPart int) (*entity.Sock, error) {
	return r.s.getByKeyLocked(color, cottonPart), nil
}

func (r txRepo) GetByID(ctx context.Context, id int64) (*entity.Sock, error) {
	return r.s.getByIDLocked(id), nil
}

func (r txRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Sock, error) {
	return r.s.getByIDLocked(id), nil
}

func (r txRepo) ListByCottonPartRange(ctx context.Context, minCottonPart, maxCottonPart int) ([]*entity.Sock, error) {
	return r.s.listByRangeLocked(minCottonPart, maxCottonPart), nil
}

func (r txRepo) Save(ctx context.Context, sock *entity.Sock) error {
	return r.s.saveLocked(sock)
}

func (r txRepo) SumQuantity(ctx context.Context, filter entity.SockFilter) (int, error) {
	return r.s.sumLocked(filter), nil
}
