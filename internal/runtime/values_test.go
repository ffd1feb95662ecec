package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/decor/internal/models"
	"github.com/toyz/decor/pkg/decor"
)

func TestZeroValue(t *testing.T) {
	assert.Equal(t, false, zeroValue(models.Boolean))
	assert.Equal(t, 0, zeroValue(models.Int))
	assert.Equal(t, int64(0), zeroValue(models.Long))
	assert.Equal(t, float64(0), zeroValue(models.Double))
	assert.Nil(t, zeroValue(models.String))
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name  string
		param *models.Type
		value any
		want  bool
	}{
		{"nil for reference type", models.String, nil, true},
		{"nil for primitive", models.Int, nil, false},
		{"string", models.String, "x", true},
		{"int for string", models.String, 1, false},
		{"int", models.Int, 1, true},
		{"boxed int", models.Integer, 1, true},
		{"widening to long", models.Long, 1, true},
		{"bool", models.Boolean, true, true},
		{"double", models.Double, 1.5, true},
		{"anything as object", models.Object, struct{}{}, true},
		{"closure", models.Closure, decor.NewClosure(nil), true},
		{"closure is not an action", models.Action, decor.NewClosure(nil), false},
		{"action func", models.Action, decor.ActionFunc(func(any) error { return nil }), true},
		{"opaque value for interface", models.File, "/tmp/out", true},
		{"opaque value for primitive", models.Double, "1.5", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matches(tt.param, tt.value))
		})
	}

	assert.True(t, matchesAll([]*models.Type{models.String, models.Int}, []any{"a", 1}))
	assert.False(t, matchesAll([]*models.Type{models.String}, []any{"a", 1}))
}
