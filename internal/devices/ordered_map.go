package devices

// OrderedMap is a map that iterates in insertion order. Overwriting a key
// keeps its position; deleting shifts later entries down.
type OrderedMap[K comparable, V any] struct {
	entries []entry[K, V]
	index   map[K]int
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// NewOrderedMap returns an empty map.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{index: make(map[K]int)}
}

// Set inserts key at the end, or replaces its value in place.
func (m *OrderedMap[K, V]) Set(key K, value V) {
	if i, ok := m.index[key]; ok {
		m.entries[i].value = value
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, entry[K, V]{key: key, value: value})
}

func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.entries[i].value, true
}

func (m *OrderedMap[K, V]) Has(key K) bool {
	_, ok := m.index[key]
	return ok
}

// Delete removes key and returns its value, preserving the order of the
// remaining entries.
func (m *OrderedMap[K, V]) Delete(key K) (V, bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	value := m.entries[i].value

	copy(m.entries[i:], m.entries[i+1:])
	var zero entry[K, V]
	m.entries[len(m.entries)-1] = zero
	m.entries = m.entries[:len(m.entries)-1]

	delete(m.index, key)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].key] = j
	}
	return value, true
}

// At returns the i-th entry in insertion order.
func (m *OrderedMap[K, V]) At(i int) (K, V, bool) {
	if i < 0 || i >= len(m.entries) {
		var (
			k K
			v V
		)
		return k, v, false
	}
	e := m.entries[i]
	return e.key, e.value, true
}

func (m *OrderedMap[K, V]) Len() int {
	return len(m.entries)
}

// Keys returns the keys in order.
func (m *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.key
	}
	return keys
}

// Values returns the values in order.
func (m *OrderedMap[K, V]) Values() []V {
	values := make([]V, len(m.entries))
	for i, e := range m.entries {
		values[i] = e.value
	}
	return values
}

func (m *OrderedMap[K, V]) Clear() {
	m.entries = nil
	m.index = make(map[K]int)
}
