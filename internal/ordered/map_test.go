package ordered

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_SetKeepsPosition(t *testing.T) {
	t.Parallel()

	m := New[string, int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)
	m.Set("a", 10)

	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	assert.Equal(t, []int{10, 2, 3}, m.Values())
	assert.Equal(t, 3, m.Len())

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestMap_Delete(t *testing.T) {
	t.Parallel()

	m := Of(Entry[string, int]{"a", 1}, Entry[string, int]{"b", 2}, Entry[string, int]{"c", 3})
	assert.True(t, m.Delete("b"))
	assert.False(t, m.Delete("missing"))
	assert.Equal(t, []string{"a", "c"}, m.Keys())

	m.Set("b", 4)
	assert.Equal(t, []string{"a", "c", "b"}, m.Keys())
	v, _ := m.Get("c")
	assert.Equal(t, 3, v)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	path := Of(Entry[string, string]{"id", "path-id"}, Entry[string, string]{"trace", "path-trace"})
	op := Of(Entry[string, string]{"limit", "op-limit"}, Entry[string, string]{"id", "op-id"})

	merged := Merge(path, op)

	assert.Equal(t, []string{"id", "trace", "limit"}, merged.Keys())
	assert.Equal(t, []string{"op-id", "path-trace", "op-limit"}, merged.Values())
	// inputs are untouched
	assert.Equal(t, []string{"path-id", "path-trace"}, path.Values())
}

func TestMerge_NilSides(t *testing.T) {
	t.Parallel()

	var empty *Map[string, int]
	right := Of(Entry[string, int]{"x", 1})

	assert.Equal(t, []string{"x"}, Merge(empty, right).Keys())
	assert.Equal(t, []string{"x"}, Merge(right, empty).Keys())
	assert.Equal(t, 0, Merge(empty, empty).Len())
}

func TestNilIfEmpty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NilIfEmpty(New[string, int]()))
	m := Of(Entry[string, int]{"a", 1})
	assert.Same(t, m, NilIfEmpty(m))
}

func TestNilMapReads(t *testing.T) {
	t.Parallel()

	var m *Map[string, int]
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Has("a"))
	assert.Nil(t, m.Keys())
	_, ok := m.First()
	assert.False(t, ok)
	for range m.All() {
		t.Fatal("nil map must not yield")
	}
}

func TestAll_StopsEarly(t *testing.T) {
	t.Parallel()

	m := Of(Entry[string, int]{"a", 1}, Entry[string, int]{"b", 2}, Entry[string, int]{"c", 3})
	var seen []string
	for k := range m.All() {
		seen = append(seen, k)
		if k == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestMarshalJSON_PreservesOrder(t *testing.T) {
	t.Parallel()

	m := New[string, any]()
	m.Set("zeta", 1)
	m.Set("alpha", []string{"x"})
	m.Set("mid", nil)

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":["x"],"mid":null}`, string(b))
}
