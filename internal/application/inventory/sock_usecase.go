package inventory

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jhoicas/socks-api/internal/application/dto"
	"github.com/jhoicas/socks-api/internal/domain"
	"github.com/jhoicas/socks-api/internal/domain/entity"
	"github.com/jhoicas/socks-api/internal/domain/repository"
)

// Criterios de orden de FilterByRange.
const (
	SortByColor      = "color"
	SortByCottonPart = "cottonPart"
)

// BatchResult resultado de una carga CSV completa.
type BatchResult struct {
	Message string
	Lines   int // filas aplicadas
}

// SockUseCase casos de uso de inventario de calcetines: entradas, salidas, conteo, carga CSV,
// actualización y listado por rango. Cada escritura es una transacción de una sola fila.
type SockUseCase struct {
	txRunner TxRunner
	repo     repository.SockRepository
	recorder MovementRecorder
}

// NewSockUseCase construye el caso de uso. recorder puede ser nil.
func NewSockUseCase(txRunner TxRunner, repo repository.SockRepository, recorder MovementRecorder) *SockUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &SockUseCase{txRunner: txRunner, repo: repo, recorder: recorder}
}

// Income suma la cantidad al lote (color, cottonPart) o lo crea si no existe.
func (uc *SockUseCase) Income(ctx context.Context, in *dto.SockRequest) (string, error) {
	if err := ValidateSockRequest(in); err != nil {
		uc.recorder.RecordMovement(OpIncome, ResultRejected, 0)
		return "", err
	}
	created, err := uc.merge(ctx, in)
	if err != nil {
		uc.recorder.RecordMovement(OpIncome, resultOf(err), 0)
		return "", err
	}
	uc.recorder.RecordMovement(OpIncome, ResultOK, in.Quantity)
	if created {
		return fmt.Sprintf("Se agregó un nuevo lote de calcetines color '%s' con %d%% de algodón.", in.Color, in.CottonPart), nil
	}
	return fmt.Sprintf("Los calcetines color '%s' con %d%% de algodón se actualizaron correctamente.", in.Color, in.CottonPart), nil
}

// merge bloquea la clave natural y suma (o crea) dentro de una transacción. Devuelve true si creó la fila.
func (uc *SockUseCase) merge(ctx context.Context, in *dto.SockRequest) (bool, error) {
	created := false
	err := uc.txRunner.Run(ctx, func(repo repository.SockRepository) error {
		if err := repo.LockKey(ctx, in.Color, in.CottonPart); err != nil {
			return err
		}
		sock, err := repo.GetByColorAndCottonPartForUpdate(ctx, in.Color, in.CottonPart)
		if err != nil {
			return err
		}
		if sock == nil {
			created = true
			return repo.Save(ctx, &entity.Sock{
				Color:      in.Color,
				CottonPart: in.CottonPart,
				Quantity:   in.Quantity,
			})
		}
		if sock.Quantity > MaxQuantity-in.Quantity {
			return fmt.Errorf("%w: el lote color '%s' con %d%% de algodón superaría %d calcetines",
				domain.ErrInvalidInput, in.Color, in.CottonPart, MaxQuantity)
		}
		sock.Quantity += in.Quantity
		return repo.Save(ctx, sock)
	})
	return created, err
}

// Outcome descuenta la cantidad del lote. Falla sin modificar nada si el lote no existe
// o si la cantidad disponible no alcanza.
func (uc *SockUseCase) Outcome(ctx context.Context, in *dto.SockRequest) (string, error) {
	if err := ValidateSockRequest(in); err != nil {
		uc.recorder.RecordMovement(OpOutcome, ResultRejected, 0)
		return "", err
	}
	err := uc.txRunner.Run(ctx, func(repo repository.SockRepository) error {
		if err := repo.LockKey(ctx, in.Color, in.CottonPart); err != nil {
			return err
		}
		sock, err := repo.GetByColorAndCottonPartForUpdate(ctx, in.Color, in.CottonPart)
		if err != nil {
			return err
		}
		if sock == nil {
			return fmt.Errorf("%w: no hay calcetines color '%s' con %d%% de algodón en bodega", domain.ErrNotFound, in.Color, in.CottonPart)
		}
		if sock.Quantity < in.Quantity {
			return &domain.InsufficientStockError{
				Color:      sock.Color,
				CottonPart: sock.CottonPart,
				Requested:  in.Quantity,
				Available:  sock.Quantity,
			}
		}
		sock.Quantity -= in.Quantity
		return repo.Save(ctx, sock)
	})
	if err != nil {
		uc.recorder.RecordMovement(OpOutcome, resultOf(err), 0)
		return "", err
	}
	uc.recorder.RecordMovement(OpOutcome, ResultOK, in.Quantity)
	return fmt.Sprintf("Los calcetines color '%s' con %d%% de algodón se despacharon correctamente.", in.Color, in.CottonPart), nil
}

// CountByFilter suma las cantidades de los lotes que cumplen el filtro (0 si ninguno).
func (uc *SockUseCase) CountByFilter(ctx context.Context, filter entity.SockFilter) (int, error) {
	return uc.repo.SumQuantity(ctx, filter)
}

// UploadBatch procesa un CSV (cabecera + "color,cottonPart,quantity" por línea). Cada fila se aplica
// en su propia transacción; ante el primer error se detiene y las filas previas quedan aplicadas.
func (uc *SockUseCase) UploadBatch(ctx context.Context, r io.Reader) (*BatchResult, error) {
	lines, err := scanCSV(ctx, r, func(req *dto.SockRequest) error {
		if _, err := uc.merge(ctx, req); err != nil {
			return err
		}
		uc.recorder.RecordMovement(OpBatch, ResultOK, req.Quantity)
		return nil
	})
	if err != nil {
		uc.recorder.RecordMovement(OpBatch, resultOf(err), 0)
		return nil, err
	}
	return &BatchResult{Message: "Lotes de calcetines procesados correctamente.", Lines: lines}, nil
}

// UpdateSock reemplaza color, cottonPart y quantity del lote con el id dado.
func (uc *SockUseCase) UpdateSock(ctx context.Context, id int64, in *dto.SockRequest) (string, error) {
	if err := ValidateSockRequest(in); err != nil {
		uc.recorder.RecordMovement(OpUpdate, ResultRejected, 0)
		return "", err
	}
	err := uc.txRunner.Run(ctx, func(repo repository.SockRepository) error {
		sock, err := uc.lockForUpdate(ctx, repo, id, in)
		if err != nil {
			return err
		}
		sock.Color = in.Color
		sock.CottonPart = in.CottonPart
		sock.Quantity = in.Quantity
		return repo.Save(ctx, sock)
	})
	if err != nil {
		uc.recorder.RecordMovement(OpUpdate, resultOf(err), 0)
		return "", err
	}
	uc.recorder.RecordMovement(OpUpdate, ResultOK, in.Quantity)
	return "Parámetros de los calcetines actualizados correctamente.", nil
}

// maxRekeyAttempts reintentos de lockForUpdate cuando otra actualización cambia la clave de la fila.
const maxRekeyAttempts = 3

// lockForUpdate bloquea la clave actual y la nueva de la fila (en orden fijo) y después la fila.
// Los locks de clave siempre preceden al de fila, igual que en merge y Outcome.
func (uc *SockUseCase) lockForUpdate(ctx context.Context, repo repository.SockRepository, id int64, in *dto.SockRequest) (*entity.Sock, error) {
	for attempt := 0; attempt < maxRekeyAttempts; attempt++ {
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, fmt.Errorf("%w: calcetines con id %d no encontrados", domain.ErrNotFound, id)
		}
		if err := lockKeys(ctx, repo, current.Color, current.CottonPart, in.Color, in.CottonPart); err != nil {
			return nil, err
		}
		sock, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if sock == nil {
			return nil, fmt.Errorf("%w: calcetines con id %d no encontrados", domain.ErrNotFound, id)
		}
		if sock.Color == current.Color && sock.CottonPart == current.CottonPart {
			return sock, nil
		}
	}
	return nil, fmt.Errorf("calcetines con id %d modificados concurrentemente", id)
}

// lockKeys toma los locks de dos claves en orden (color, cottonPart) para evitar deadlocks.
func lockKeys(ctx context.Context, repo repository.SockRepository, colorA string, cottonA int, colorB string, cottonB int) error {
	if colorA == colorB && cottonA == cottonB {
		return repo.LockKey(ctx, colorA, cottonA)
	}
	if c := cmp.Or(cmp.Compare(colorA, colorB), cmp.Compare(cottonA, cottonB)); c > 0 {
		colorA, cottonA, colorB, cottonB = colorB, cottonB, colorA, cottonA
	}
	if err := repo.LockKey(ctx, colorA, cottonA); err != nil {
		return err
	}
	return repo.LockKey(ctx, colorB, cottonB)
}

// GetByID obtiene un lote por id.
func (uc *SockUseCase) GetByID(ctx context.Context, id int64) (*entity.Sock, error) {
	sock, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sock == nil {
		return nil, fmt.Errorf("%w: calcetines con id %d no encontrados", domain.ErrNotFound, id)
	}
	return sock, nil
}

// FilterByRange lista los lotes con cottonPart en [min, max]. sortBy "color" o "cottonPart"
// (sin distinguir mayúsculas) ordena ascendente; cualquier otro valor conserva el orden del repositorio.
func (uc *SockUseCase) FilterByRange(ctx context.Context, minCottonPart, maxCottonPart int, sortBy string) ([]*entity.Sock, error) {
	if minCottonPart > maxCottonPart {
		return []*entity.Sock{}, nil
	}
	list, err := uc.repo.ListByCottonPartRange(ctx, minCottonPart, maxCottonPart)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.EqualFold(sortBy, SortByColor):
		slices.SortStableFunc(list, func(a, b *entity.Sock) int { return cmp.Compare(a.Color, b.Color) })
	case strings.EqualFold(sortBy, SortByCottonPart):
		slices.SortStableFunc(list, func(a, b *entity.Sock) int { return cmp.Compare(a.CottonPart, b.CottonPart) })
	}
	return list, nil
}

func resultOf(err error) string {
	if isDomainError(err) {
		return ResultRejected
	}
	return ResultError
}
