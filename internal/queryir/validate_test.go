package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/propsel/internal/model"
)

var (
	tString = model.Builtin("string")
	tInt    = model.Builtin("int")
	aMarker = model.NewTypeID("app", "Marker")
)

func TestValidate_Satisfiable(t *testing.T) {
	result := Validate([]Filter{
		Visibility{},
		ReturnType{Type: tString},
		ReturnType{Type: tInt, Negate: true},
		Decorated{Annotation: aMarker, Inherit: true},
		Decorated{Annotation: aMarker, Negate: true},
		Modifier{Modifier: model.ModifierVirtual},
	})

	assert.True(t, result.Satisfiable)
	assert.Empty(t, result.Warnings)
}

func TestValidate_Empty(t *testing.T) {
	result := Validate(nil)
	assert.True(t, result.Satisfiable)
}

func TestValidate_Contradictions(t *testing.T) {
	tests := []struct {
		name    string
		filters []Filter
		warning string
	}{
		{
			name:    "return type required and excluded",
			filters: []Filter{ReturnType{Type: tString}, ReturnType{Type: tString, Negate: true}},
			warning: "return type string is both required and excluded",
		},
		{
			name:    "two required return types",
			filters: []Filter{ReturnType{Type: tString}, ReturnType{Type: tInt}},
			warning: "conflicting required return types: string, int",
		},
		{
			name:    "visibility",
			filters: []Filter{Visibility{}, Visibility{Negate: true}},
			warning: "public_or_internal is both required and excluded",
		},
		{
			name:    "modifier",
			filters: []Filter{Modifier{Modifier: model.ModifierStatic, Negate: true}, Modifier{Modifier: model.ModifierStatic}},
			warning: "modifier static is both required and excluded",
		},
		{
			name:    "decorated same mode",
			filters: []Filter{Decorated{Annotation: aMarker, Inherit: true}, Decorated{Annotation: aMarker, Inherit: true, Negate: true}},
			warning: "decorated_with_or_inherit(app.Marker) is both required and excluded",
		},
		{
			name:    "own site versus inherited exclusion",
			filters: []Filter{Decorated{Annotation: aMarker}, Decorated{Annotation: aMarker, Inherit: true, Negate: true}},
			warning: "decorated_with(app.Marker) contradicts not decorated_with_or_inherit(app.Marker)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.filters)
			assert.False(t, result.Satisfiable)
			require.Len(t, result.Warnings, 1)
			assert.Equal(t, tt.warning, result.Warnings[0])
		})
	}
}

func TestValidate_RepeatedFilterIsNotAConflict(t *testing.T) {
	result := Validate([]Filter{ReturnType{Type: tString}, ReturnType{Type: tString}})
	assert.True(t, result.Satisfiable)
}
