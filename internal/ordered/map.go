// Package ordered provides an insertion-ordered map used throughout the
// document model so that generated output iterates deterministically.
package ordered

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
)

// Map is a map that remembers the order in which keys were first inserted.
// Setting an existing key replaces its value without moving it.
//
// A nil *Map is a valid empty map for every read-only method.
type Map[K comparable, V any] struct {
	index map[K]int
	keys  []K
	vals  []V
}

// New creates an empty map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{index: make(map[K]int)}
}

// Of creates a map from entries. A repeated key keeps its first position and
// its last value.
func Of[K comparable, V any](entries ...Entry[K, V]) *Map[K, V] {
	m := New[K, V]()
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Entry is a single key/value pair.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Set inserts or replaces the value for key. A replaced key keeps its position.
func (m *Map[K, V]) Set(key K, value V) {
	if m.index == nil {
		m.index = make(map[K]int)
	}
	if i, ok := m.index[key]; ok {
		m.vals[i] = value
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, value)
}

// Get returns the value for key and whether it was present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	var zero V
	if m == nil {
		return zero, false
	}
	i, ok := m.index[key]
	if !ok {
		return zero, false
	}
	return m.vals[i], true
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[key]
	return ok
}

// Delete removes key, preserving the order of the remaining entries.
func (m *Map[K, V]) Delete(key K) bool {
	if m == nil {
		return false
	}
	i, ok := m.index[key]
	if !ok {
		return false
	}
	delete(m.index, key)
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.vals = append(m.vals[:i], m.vals[i+1:]...)
	for j := i; j < len(m.keys); j++ {
		m.index[m.keys[j]] = j
	}
	return true
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a snapshot of the keys in order.
func (m *Map[K, V]) Keys() []K {
	if m == nil {
		return nil
	}
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns a snapshot of the values in order.
func (m *Map[K, V]) Values() []V {
	if m == nil {
		return nil
	}
	out := make([]V, len(m.vals))
	copy(out, m.vals)
	return out
}

// All iterates over the entries in insertion order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}

// First returns the first value, if any.
func (m *Map[K, V]) First() (V, bool) {
	var zero V
	if m.Len() == 0 {
		return zero, false
	}
	return m.vals[0], true
}

// Clone returns a shallow copy.
func (m *Map[K, V]) Clone() *Map[K, V] {
	out := New[K, V]()
	for k, v := range m.All() {
		out.Set(k, v)
	}
	return out
}

// Merge returns a new map holding a overlaid by b. Keys already in a keep
// their position and take the value from b; keys only in b are appended.
// Either argument may be nil.
func Merge[K comparable, V any](a, b *Map[K, V]) *Map[K, V] {
	out := a.Clone()
	for k, v := range b.All() {
		out.Set(k, v)
	}
	return out
}

// NilIfEmpty returns nil when m has no entries, otherwise m.
func NilIfEmpty[K comparable, V any](m *Map[K, V]) *Map[K, V] {
	if m.Len() == 0 {
		return nil
	}
	return m
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order.
func (m *Map[K, V]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(fmt.Sprint(k))
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.vals[i])
		if err != nil {
			return nil, fmt.Errorf("ordered: marshal value for key %v: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
