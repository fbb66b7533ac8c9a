package entity

// Comparison operador de comparación sobre CottonPart para el conteo filtrado.
type Comparison string

const (
	ComparisonMoreThan Comparison = "moreThan"
	ComparisonLessThan Comparison = "lessThan"
	ComparisonEqual    Comparison = "equal"
)

// Valid indica si c es uno de los operadores reconocidos.
func (c Comparison) Valid() bool {
	switch c {
	case ComparisonMoreThan, ComparisonLessThan, ComparisonEqual:
		return true
	}
	return false
}

// SockFilter criterio del conteo agregado. Los campos nil no filtran.
// Con CottonPart definido y Comparison vacío o desconocido no coincide ninguna fila.
type SockFilter struct {
	Color      *string
	Comparison Comparison
	CottonPart *int
}

// Matches evalúa el filtro en memoria. La consulta SQL del repositorio PostgreSQL replica esta lógica.
func (f SockFilter) Matches(s *Sock) bool {
	if s == nil {
		return false
	}
	if f.Color != nil && s.Color != *f.Color {
		return false
	}
	if f.CottonPart == nil {
		return true
	}
	switch f.Comparison {
	case ComparisonMoreThan:
		return s.CottonPart > *f.CottonPart
	case ComparisonLessThan:
		return s.CottonPart < *f.CottonPart
	case ComparisonEqual:
		return s.CottonPart == *f.CottonPart
	default:
		return false
	}
}
