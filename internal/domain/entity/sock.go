package entity

import "time"

// Sock representa un lote de calcetines: cantidad en bodega para un color y porcentaje de algodón.
// (Color, CottonPart) es la clave natural de búsqueda; no hay constraint de unicidad.
type Sock struct {
	ID         int64
	Color      string
	CottonPart int // porcentaje de algodón, 0..100
	Quantity   int // nunca negativo
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
