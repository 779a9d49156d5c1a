package gr

// table is a checked enum to native constant translation.
type table[K comparable, V any] struct {
	name    string
	entries map[K]V
}

func newTable[K comparable, V any](name string, entries map[K]V) table[K, V] {
	return table[K, V]{name: name, entries: entries}
}

func (t table[K, V]) lookup(k K) (V, error) {
	v, ok := t.entries[k]
	if !ok {
		var zero V
		return zero, &LookupError{Table: t.name, Value: k}
	}
	return v, nil
}
