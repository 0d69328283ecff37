package tile

// KeyIndex and ValueIndex are the pluggable deduplication strategies a
// LayerBuilder may use so that interning the same key or value twice in one
// layer reuses the existing dictionary entry rather than appending a
// duplicate (spec.md §4.7). Indexes are scoped to a single layer; reusing
// one across layers mixes unrelated dictionaries and is a programmer error.

// KeyIndex maps key bytes to a previously recorded dictionary index.
type KeyIndex interface {
	// Lookup returns the index previously recorded for key, if any.
	Lookup(key []byte) (int, bool)
	// Record notes that key now lives at index.
	Record(key []byte, index int)
}

// ValueIndex maps a typed value to a previously recorded dictionary index.
type ValueIndex interface {
	Lookup(v Value) (int, bool)
	Record(v Value, index int)
}

// NewLinearKeyIndex returns a KeyIndex that scans a small list of
// previously recorded keys. Appropriate for layers with few distinct keys,
// where the overhead of a hash table isn't worth it.
func NewLinearKeyIndex() KeyIndex {
	return &linearKeyIndex{}
}

type linearKeyIndex struct {
	keys [][]byte
}

func (idx *linearKeyIndex) Lookup(key []byte) (int, bool) {
	for i, k := range idx.keys {
		if string(k) == string(key) {
			return i, true
		}
	}
	return 0, false
}

func (idx *linearKeyIndex) Record(key []byte, index int) {
	if index != len(idx.keys) {
		// Indexes are append-only; a caller recording out of order is a
		// programming error in the builder, not a runtime condition.
		panic("mvt: KeyIndex.Record called out of order")
	}
	idx.keys = append(idx.keys, append([]byte(nil), key...))
}

// NewHashedKeyIndex returns a KeyIndex backed by a Go map, one hash table
// per layer. Appropriate for layers with many distinct keys.
func NewHashedKeyIndex() KeyIndex {
	return &hashedKeyIndex{m: make(map[string]int)}
}

type hashedKeyIndex struct {
	m map[string]int
}

func (idx *hashedKeyIndex) Lookup(key []byte) (int, bool) {
	i, ok := idx.m[string(key)]
	return i, ok
}

func (idx *hashedKeyIndex) Record(key []byte, index int) {
	idx.m[string(key)] = index
}

// NewLinearValueIndex returns a ValueIndex that scans a small list of
// previously recorded values.
func NewLinearValueIndex() ValueIndex {
	return &linearValueIndex{}
}

type linearValueIndex struct {
	values []Value
}

func (idx *linearValueIndex) Lookup(v Value) (int, bool) {
	for i, existing := range idx.values {
		if existing.Equal(v) {
			return i, true
		}
	}
	return 0, false
}

func (idx *linearValueIndex) Record(v Value, index int) {
	if index != len(idx.values) {
		panic("mvt: ValueIndex.Record called out of order")
	}
	idx.values = append(idx.values, v)
}

// NewHashedValueIndex returns a ValueIndex backed by a Go map, one hash
// table per layer.
func NewHashedValueIndex() ValueIndex {
	return &hashedValueIndex{m: make(map[valueMapKey]int)}
}

type hashedValueIndex struct {
	m map[valueMapKey]int
}

func (idx *hashedValueIndex) Lookup(v Value) (int, bool) {
	i, ok := idx.m[v.comparableKey()]
	return i, ok
}

func (idx *hashedValueIndex) Record(v Value, index int) {
	idx.m[v.comparableKey()] = index
}
