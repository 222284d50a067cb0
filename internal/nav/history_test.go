package nav

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params(raw string) url.Values {
	v, err := url.ParseQuery(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func TestPushBackForward(t *testing.T) {
	h := NewHistory(params("page=1"))

	var seen []string
	unsub := h.Subscribe(func(v url.Values) { seen = append(seen, v.Encode()) })
	defer unsub()

	h.Push(params("page=2"))
	h.Push(params("page=3"))
	assert.Equal(t, 3, h.Len())

	require.True(t, h.Back())
	assert.Equal(t, "page=2", h.Current().Encode())
	require.True(t, h.Back())
	assert.False(t, h.Back())
	assert.False(t, h.CanGoBack())

	require.True(t, h.Forward())
	assert.Equal(t, "page=2", h.Current().Encode())

	// Pushing drops forward entries
	h.Push(params("page=9"))
	assert.False(t, h.CanGoForward())
	assert.Equal(t, 3, h.Len())

	assert.Equal(t, []string{"page=2", "page=3", "page=2", "page=1", "page=2", "page=9"}, seen)
}

func TestPushSameParamsIsIgnored(t *testing.T) {
	h := NewHistory(params("page=1&q=rick"))
	calls := 0
	unsub := h.Subscribe(func(url.Values) { calls++ })
	defer unsub()

	h.Push(params("q=rick&page=1"))
	h.Replace(params("page=1&q=rick"))

	assert.Equal(t, 1, h.Len())
	assert.Zero(t, calls)
}

func TestReplaceKeepsLength(t *testing.T) {
	h := NewHistory(params("page=1"))
	h.Push(params("page=2"))
	h.Replace(params("page=2&sort=id-desc"))

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "id-desc", h.Current().Get("sort"))

	require.True(t, h.Back())
	assert.Equal(t, "page=1", h.Current().Encode())
}

func TestScrollIsPerEntry(t *testing.T) {
	h := NewHistory(params("page=1"))
	h.SetScroll(14)
	h.Push(params("page=2"))
	assert.Zero(t, h.Scroll())
	h.SetScroll(3)

	h.Back()
	assert.Equal(t, 14, h.Scroll())
	h.Forward()
	assert.Equal(t, 3, h.Scroll())
}

func TestCurrentIsACopy(t *testing.T) {
	h := NewHistory(params("page=1"))
	cur := h.Current()
	cur.Set("page", "5")
	assert.Equal(t, "1", h.Current().Get("page"))
}
