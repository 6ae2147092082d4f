package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/propsel/internal/model"
)

func TestLoadDir(t *testing.T) {
	spec, files, err := LoadDir("testdata/shop")
	require.NoError(t, err)
	assert.Equal(t, 2, files)

	names := make(map[string]bool)
	for _, m := range spec.Modules {
		names[m.Name] = true
	}
	assert.Equal(t, map[string]bool{"shop": true, "orders": true}, names)

	reg, err := BuildRegistry(spec)
	require.NoError(t, err)

	order, ok := reg.Lookup("orders.Order")
	require.True(t, ok)
	require.Len(t, order.Properties, 2)
	assert.Equal(t, model.NewTypeID("shop", "Product"), order.Properties[1].ReturnType)
	assert.True(t, order.Properties[0].Annotations[0].Inherited)

	entity, ok := reg.Lookup("shop.Entity")
	require.True(t, ok)
	assert.Equal(t, "use Sku", entity.Properties[1].Annotations[0].Value)
}

func TestLoadDirNoFiles(t *testing.T) {
	_, _, err := LoadDir("testdata/empty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no CUE files")
}

func TestLoadDirMissing(t *testing.T) {
	_, _, err := LoadDir("testdata/does-not-exist")
	require.Error(t, err)
}
