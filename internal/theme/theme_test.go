package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/citadel/internal/store"
)

func TestThemeDefaultsAndSync(t *testing.T) {
	backend, err := store.OpenBolt("")
	require.NoError(t, err)
	origin := store.NewOrigin(backend, nil)
	defer origin.Close()

	a := New(origin.Context(), Light, nil)
	b := New(origin.Context(), Light, nil)
	assert.Equal(t, Light, a.Get())

	var seen []Theme
	unsub := b.Subscribe(func(th Theme) { seen = append(seen, th) })
	defer unsub()

	require.NoError(t, a.Toggle())
	assert.Equal(t, Dark, a.Get())
	assert.Equal(t, Dark, b.Get())
	assert.Equal(t, []Theme{Dark}, seen)

	raw, ok, err := backend.Load(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dark", raw)
}

func TestThemeUnknownValues(t *testing.T) {
	backend, err := store.OpenBolt("")
	require.NoError(t, err)
	require.NoError(t, backend.Save(StorageKey, "sepia"))
	origin := store.NewOrigin(backend, nil)
	defer origin.Close()

	assert.Equal(t, Light, New(origin.Context(), Light, nil).Get())
	assert.Equal(t, Dark, New(origin.Context(), "neon", nil).Get())
}
