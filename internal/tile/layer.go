package tile

import (
	"sync"

	"github.com/beetlebugorg/mvt/internal/wire"
)

// field numbers for the layer record, per spec.md §6.
const (
	fieldLayerName     = 1
	fieldLayerFeatures = 2
	fieldLayerKeys     = 3
	fieldLayerValues   = 4
	fieldLayerExtent   = 5
	fieldLayerVersion  = 15
)

const defaultExtent = 4096

// LayerReader iterates features and, lazily, a layer's key/value
// dictionaries. Constructed from a layer record's raw bytes: the header
// fields (version, name, extent) are parsed eagerly; features, keys, and
// values are only counted during construction and decoded on first access
// (spec.md §4.5).
type LayerReader struct {
	raw []byte

	version uint32
	name    []byte
	extent  uint32

	featureSpans [][]byte
	keySpans     [][]byte
	valueSpans   [][]byte

	cursor int

	tablesOnce sync.Once
	tablesErr  error
	keys       [][]byte
	values     []Value
}

// NewLayerReader parses a layer record's header and records the byte
// ranges of its features, keys, and values without decoding them.
func NewLayerReader(data []byte) (*LayerReader, error) {
	l := &LayerReader{raw: data, version: 1, extent: defaultExtent}
	haveName := false

	r := wire.NewReader(data)
	for !r.Done() {
		field, _, ok, err := r.Next()
		if err != nil {
			return nil, wrapWireErr(err)
		}
		if !ok {
			break
		}
		switch field {
		case fieldLayerName:
			b, err := r.Bytes()
			if err != nil {
				return nil, wrapWireErr(err)
			}
			l.name = b
			haveName = true
		case fieldLayerVersion:
			v, err := r.Varint()
			if err != nil {
				return nil, wrapWireErr(err)
			}
			l.version = uint32(v)
		case fieldLayerExtent:
			v, err := r.Varint()
			if err != nil {
				return nil, wrapWireErr(err)
			}
			l.extent = uint32(v)
		case fieldLayerFeatures:
			b, err := r.Bytes()
			if err != nil {
				return nil, wrapWireErr(err)
			}
			l.featureSpans = append(l.featureSpans, b)
		case fieldLayerKeys:
			b, err := r.Bytes()
			if err != nil {
				return nil, wrapWireErr(err)
			}
			l.keySpans = append(l.keySpans, b)
		case fieldLayerValues:
			b, err := r.Bytes()
			if err != nil {
				return nil, wrapWireErr(err)
			}
			l.valueSpans = append(l.valueSpans, b)
		default:
			return nil, &FormatError{Reason: "unknown field in layer record"}
		}
	}

	if !haveName || len(l.name) == 0 {
		return nil, &FormatError{Reason: "layer is missing required name"}
	}
	if l.version != 1 && l.version != 2 {
		return nil, &VersionError{Got: l.version}
	}
	if l.extent == 0 {
		return nil, &FormatError{Reason: "layer extent must be positive"}
	}

	l.keys = make([][]byte, 0, len(l.keySpans))
	l.values = make([]Value, 0, len(l.valueSpans))

	return l, nil
}

// Raw returns the layer's original record bytes, for passing unchanged to
// TileBuilder.AddExistingLayer.
func (l *LayerReader) Raw() []byte { return l.raw }

func (l *LayerReader) Name() []byte     { return l.name }
func (l *LayerReader) Version() uint32  { return l.version }
func (l *LayerReader) Extent() uint32   { return l.extent }
func (l *LayerReader) NumFeatures() int { return len(l.featureSpans) }

// NextFeature returns the next feature in iteration order, or ok=false at
// end of input. Resumable: repeated calls advance a cursor that Reset()
// rewinds.
func (l *LayerReader) NextFeature() (feature *FeatureReader, ok bool) {
	if l.cursor >= len(l.featureSpans) {
		return nil, false
	}
	f := newFeatureReader(l, l.featureSpans[l.cursor])
	l.cursor++
	return f, true
}

// Reset rewinds iteration to the first feature.
func (l *LayerReader) Reset() { l.cursor = 0 }

// FeatureByID performs a linear scan for a feature with the given id.
// Iteration state (cursor) is left untouched by the scan.
func (l *LayerReader) FeatureByID(id uint64) (*FeatureReader, bool, error) {
	for _, span := range l.featureSpans {
		f := newFeatureReader(l, span)
		got, err := f.ID()
		if err != nil {
			return nil, false, err
		}
		if got == id {
			return f, true, nil
		}
	}
	return nil, false, nil
}

// materializeTables performs the one-time full pass over the keys/values
// spans recorded at construction. Safe to call repeatedly, including
// concurrently (e.g. a layer shared across goroutines via pkg/mvt.TileCache):
// only the first call does work (spec.md §4.5, invariant 6).
func (l *LayerReader) materializeTables() error {
	l.tablesOnce.Do(func() {
		keys := make([][]byte, len(l.keySpans))
		copy(keys, l.keySpans)

		values := make([]Value, len(l.valueSpans))
		for i, span := range l.valueSpans {
			v, err := parseValue(span)
			if err != nil {
				l.tablesErr = err
				return
			}
			values[i] = v
		}

		l.keys = keys
		l.values = values
	})
	return l.tablesErr
}

// Key performs a bounds-checked dictionary lookup, materializing the
// dictionaries on first call.
func (l *LayerReader) Key(i int) ([]byte, error) {
	if err := l.materializeTables(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(l.keys) {
		return nil, &OutOfRangeError{Index: i, Len: len(l.keys)}
	}
	return l.keys[i], nil
}

// Value performs a bounds-checked dictionary lookup, materializing the
// dictionaries on first call.
func (l *LayerReader) Value(i int) (Value, error) {
	if err := l.materializeTables(); err != nil {
		return Value{}, err
	}
	if i < 0 || i >= len(l.values) {
		return Value{}, &OutOfRangeError{Index: i, Len: len(l.values)}
	}
	return l.values[i], nil
}

// KeyTable returns the full key dictionary, materializing it if necessary.
func (l *LayerReader) KeyTable() ([][]byte, error) {
	if err := l.materializeTables(); err != nil {
		return nil, err
	}
	return l.keys, nil
}

// ValueTable returns the full value dictionary, materializing it if
// necessary.
func (l *LayerReader) ValueTable() ([]Value, error) {
	if err := l.materializeTables(); err != nil {
		return nil, err
	}
	return l.values, nil
}
