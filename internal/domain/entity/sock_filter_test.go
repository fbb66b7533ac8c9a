package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/socks-api/internal/domain/entity"
)

func ptr[T any](v T) *T { return &v }

func TestSockFilter_Matches(t *testing.T) {
	sock := &entity.Sock{Color: "azul", CottonPart: 50, Quantity: 10}

	tests := []struct {
		name   string
		filter entity.SockFilter
		want   bool
	}{
		{"sin filtros", entity.SockFilter{}, true},
		{"color igual", entity.SockFilter{Color: ptr("azul")}, true},
		{"color distinto", entity.SockFilter{Color: ptr("Azul")}, false},
		{"moreThan cumple", entity.SockFilter{Comparison: entity.ComparisonMoreThan, CottonPart: ptr(40)}, true},
		{"moreThan estricto", entity.SockFilter{Comparison: entity.ComparisonMoreThan, CottonPart: ptr(50)}, false},
		{"lessThan cumple", entity.SockFilter{Comparison: entity.ComparisonLessThan, CottonPart: ptr(51)}, true},
		{"lessThan estricto", entity.SockFilter{Comparison: entity.ComparisonLessThan, CottonPart: ptr(50)}, false},
		{"equal", entity.SockFilter{Comparison: entity.ComparisonEqual, CottonPart: ptr(50)}, true},
		{"comparación desconocida", entity.SockFilter{Comparison: "between", CottonPart: ptr(50)}, false},
		{"comparación ausente con cottonPart", entity.SockFilter{CottonPart: ptr(50)}, false},
		{"comparación sin cottonPart se ignora", entity.SockFilter{Comparison: entity.ComparisonEqual}, true},
		{"color y comparación", entity.SockFilter{Color: ptr("azul"), Comparison: entity.ComparisonEqual, CottonPart: ptr(50)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(sock))
		})
	}
	assert.False(t, entity.SockFilter{}.Matches(nil))
}

func TestComparison_Valid(t *testing.T) {
	assert.True(t, entity.ComparisonMoreThan.Valid())
	assert.True(t, entity.ComparisonLessThan.Valid())
	assert.True(t, entity.ComparisonEqual.Valid())
	assert.False(t, entity.Comparison("morethan").Valid())
	assert.False(t, entity.Comparison("").Valid())
}
