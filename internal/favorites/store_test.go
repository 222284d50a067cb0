package favorites

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/citadel/internal/store"
)

func newOrigin(t *testing.T) (*store.Origin, *store.BoltBackend) {
	t.Helper()
	backend, err := store.OpenBolt("")
	require.NoError(t, err)
	origin := store.NewOrigin(backend, nil)
	t.Cleanup(func() { origin.Close() })
	return origin, backend
}

func TestToggleTwiceRestoresSet(t *testing.T) {
	origin, _ := newOrigin(t)
	favs := New(origin.Context(), nil)
	require.NoError(t, favs.Toggle(1))

	before := favs.Snapshot()
	assert.False(t, favs.IsFavorite(7))

	require.NoError(t, favs.Toggle(7))
	assert.True(t, favs.IsFavorite(7))
	require.NoError(t, favs.Toggle(7))

	assert.False(t, favs.IsFavorite(7))
	assert.True(t, before.Equal(favs.Snapshot()))
	assert.Equal(t, []int{1}, favs.Snapshot().IDs())
}

func TestSnapshotStableUntilChange(t *testing.T) {
	origin, _ := newOrigin(t)
	favs := New(origin.Context(), nil)

	first := favs.Snapshot()
	assert.Same(t, first, favs.Snapshot())

	require.NoError(t, favs.Toggle(3))
	second := favs.Snapshot()
	assert.NotSame(t, first, second)
	assert.Same(t, second, favs.Snapshot())

	// The previous snapshot is never modified in place
	assert.False(t, first.Has(3))

	// A no-op clear keeps the reference
	require.NoError(t, favs.Toggle(3))
	empty := favs.Snapshot()
	require.NoError(t, favs.ClearAll())
	assert.Same(t, empty, favs.Snapshot())
}

func TestSubscribersNotifiedOnAcceptedChanges(t *testing.T) {
	origin, _ := newOrigin(t)
	favs := New(origin.Context(), nil)

	var got []*Set
	unsub := favs.Subscribe(func(s *Set) { got = append(got, s) })

	require.NoError(t, favs.Toggle(5))
	require.NoError(t, favs.ClearAll())
	require.NoError(t, favs.ClearAll())

	require.Len(t, got, 2)
	assert.True(t, got[0].Has(5))
	assert.Zero(t, got[1].Len())

	unsub()
	require.NoError(t, favs.Toggle(6))
	assert.Len(t, got, 2)
}

func TestPersistsAsJSONArray(t *testing.T) {
	origin, backend := newOrigin(t)
	favs := New(origin.Context(), nil)

	require.NoError(t, favs.Toggle(3))
	require.NoError(t, favs.Toggle(1))

	raw, ok, err := backend.Load(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, "[3,1]", raw)

	require.NoError(t, favs.ClearAll())
	raw, _, _ = backend.Load(StorageKey)
	assert.Equal(t, "[]", raw)

	// A new session reads what was saved
	require.NoError(t, favs.Toggle(9))
	assert.True(t, New(origin.Context(), nil).IsFavorite(9))
}

func TestCorruptStorageGivesEmptySet(t *testing.T) {
	for _, raw := range []string{"{not json", `{"ids":[1]}`, `"42"`} {
		origin, backend := newOrigin(t)
		require.NoError(t, backend.Save(StorageKey, raw))

		favs := New(origin.Context(), nil)
		assert.Zero(t, favs.Count(), raw)
	}
}

// savesCounter wraps a backend to count writes.
type savesCounter struct {
	store.Backend
	saves int
}

func (c *savesCounter) Save(key, value string) error {
	c.saves++
	return c.Backend.Save(key, value)
}

func TestCrossSessionUpdateWithoutPersisting(t *testing.T) {
	bolt, err := store.OpenBolt("")
	require.NoError(t, err)
	backend := &savesCounter{Backend: bolt}
	origin := store.NewOrigin(backend, nil)
	defer origin.Close()

	tab1 := New(origin.Context(), nil)
	tab2 := origin.Context()

	notified := 0
	unsub := tab1.Subscribe(func(*Set) { notified++ })
	defer unsub()

	// Another session writes the durable key directly
	require.NoError(t, tab2.Set(StorageKey, "[42]"))
	assert.Equal(t, 1, backend.saves)

	assert.True(t, tab1.IsFavorite(42))
	assert.Equal(t, 1, notified)
	assert.Equal(t, 1, backend.saves, "tab 1 must not re-persist")

	// A foreign write with the same content is ignored
	before := tab1.Snapshot()
	require.NoError(t, tab2.Set(StorageKey, "[42]"))
	assert.Same(t, before, tab1.Snapshot())
	assert.Equal(t, 1, notified)

	// Removal from another session clears the set
	require.NoError(t, tab2.Remove(StorageKey))
	assert.False(t, tab1.IsFavorite(42))
}

func TestTwoStoresStayConsistent(t *testing.T) {
	origin, _ := newOrigin(t)
	tab1 := New(origin.Context(), nil)
	tab2 := New(origin.Context(), nil)

	unsub1 := tab1.Subscribe(func(*Set) {})
	defer unsub1()
	unsub2 := tab2.Subscribe(func(*Set) {})
	defer unsub2()

	require.NoError(t, tab1.Toggle(42))
	assert.True(t, tab2.IsFavorite(42))

	require.NoError(t, tab2.Toggle(7))
	assert.Equal(t, []int{42, 7}, tab1.Snapshot().IDs())

	require.NoError(t, tab2.ClearAll())
	assert.Zero(t, tab1.Count())
}

func TestSetEqualIgnoresOrder(t *testing.T) {
	assert.True(t, NewSet(1, 2, 3).Equal(NewSet(3, 2, 1)))
	assert.True(t, NewSet().Equal(nil))
	assert.False(t, NewSet(1).Equal(NewSet(2)))
	assert.Equal(t, []int{4, 2}, NewSet(4, 2, 4, 0, -1).IDs())
}
