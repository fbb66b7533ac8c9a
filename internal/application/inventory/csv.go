package inventory

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jhoicas/socks-api/internal/application/dto"
	"github.com/jhoicas/socks-api/internal/domain"
)

const maxCSVLineBytes = 1024 * 1024

// ParseSockLine convierte "color,cottonPart,quantity" en una petición. Los campos se recortan.
func ParseSockLine(line string) (*dto.SockRequest, error) {
	parts := strings.Split(line, ",")
	// Los campos vacíos finales no cuentan ("azul,25," tiene dos campos).
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: se esperan tres campos", domain.ErrMalformedInput)
	}
	cottonPart, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: error al convertir número %q", domain.ErrMalformedInput, strings.TrimSpace(parts[1]))
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return nil, fmt.Errorf("%w: error al convertir número %q", domain.ErrMalformedInput, strings.TrimSpace(parts[2]))
	}
	return &dto.SockRequest{
		Color:      strings.TrimSpace(parts[0]),
		CottonPart: cottonPart,
		Quantity:   quantity,
	}, nil
}

// scanCSV recorre r línea a línea: descarta la cabecera y las líneas vacías y llama fn con cada fila
// validada. Se detiene en el primer error, prefijado con el número de línea (base 1).
func scanCSV(ctx context.Context, r io.Reader, fn func(req *dto.SockRequest) error) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxCSVLineBytes)

	lineNo, applied := 0, 0
	for sc.Scan() {
		lineNo++
		if lineNo == 1 {
			continue
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		req, err := ParseSockLine(line)
		if err == nil {
			err = ValidateSockRequest(req)
		}
		if err == nil {
			err = fn(req)
		}
		if err != nil {
			return applied, fmt.Errorf("línea %d: %w", lineNo, err)
		}
		applied++
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return applied, fmt.Errorf("línea %d: %w: línea demasiado larga", lineNo+1, domain.ErrMalformedInput)
		}
		return applied, fmt.Errorf("leer CSV: %w", err)
	}
	return applied, nil
}
