package tile

import "github.com/beetlebugorg/mvt/internal/wire"

// field numbers for the feature record, per spec.md §6.
const (
	fieldFeatureID       = 1
	fieldFeatureTags     = 2
	fieldFeatureType     = 3
	fieldFeatureGeometry = 4
)

// FeatureReader is a lazy accessor for one feature: id, tags, geometry,
// type. Constructed from a (layer, feature bytes) pair; nothing is parsed
// until the caller asks for it.
type FeatureReader struct {
	layer *LayerReader
	data  []byte

	parsed   bool
	id       uint64
	gtype    GeometryType
	geometry []uint32
	tags     []uint64
}

func newFeatureReader(layer *LayerReader, data []byte) *FeatureReader {
	return &FeatureReader{layer: layer, data: data}
}

func (f *FeatureReader) parse() error {
	if f.parsed {
		return nil
	}
	r := wire.NewReader(f.data)
	for !r.Done() {
		field, wt, ok, err := r.Next()
		if err != nil {
			return wrapWireErr(err)
		}
		if !ok {
			break
		}
		switch field {
		case fieldFeatureID:
			v, err := r.Varint()
			if err != nil {
				return wrapWireErr(err)
			}
			f.id = v
		case fieldFeatureTags:
			v, err := r.PackedVarints()
			if err != nil {
				return wrapWireErr(err)
			}
			f.tags = v
		case fieldFeatureType:
			v, err := r.Varint()
			if err != nil {
				return wrapWireErr(err)
			}
			switch v {
			case uint64(GeometryPoint), uint64(GeometryLineString), uint64(GeometryPolygon):
				f.gtype = GeometryType(v)
			default:
				f.gtype = GeometryUnknown
			}
		case fieldFeatureGeometry:
			v, err := r.PackedVarints()
			if err != nil {
				return wrapWireErr(err)
			}
			f.geometry = make([]uint32, len(v))
			for i, u := range v {
				f.geometry[i] = uint32(u)
			}
		default:
			if err := r.Skip(wt); err != nil {
				return wrapWireErr(err)
			}
		}
	}
	if len(f.tags)%2 != 0 {
		return &FormatError{Reason: "feature tags list has odd length"}
	}
	f.parsed = true
	return nil
}

// ID returns the feature's id, or 0 if it is unset.
func (f *FeatureReader) ID() (uint64, error) {
	if err := f.parse(); err != nil {
		return 0, err
	}
	return f.id, nil
}

// Type returns the feature's declared geometry type.
func (f *FeatureReader) Type() (GeometryType, error) {
	if err := f.parse(); err != nil {
		return GeometryUnknown, err
	}
	return f.gtype, nil
}

// Geometry returns the feature's type and its raw, undecoded command
// stream. Pass the stream to DecodePointGeometry/DecodeLineStringGeometry/
// DecodePolygonGeometry as appropriate for Type().
func (f *FeatureReader) Geometry() (GeometryType, []uint32, error) {
	if err := f.parse(); err != nil {
		return GeometryUnknown, nil, err
	}
	return f.gtype, f.geometry, nil
}

// ForEachProperty walks the tags stream, pairing even-indexed key indices
// with odd-indexed value indices and resolving each through the layer's
// dictionaries. Resolving a dictionary entry triggers the layer's one-time
// key/value table materialization (spec.md §4.5).
func (f *FeatureReader) ForEachProperty(fn func(key []byte, val Value) error) error {
	if err := f.parse(); err != nil {
		return err
	}
	for i := 0; i+1 < len(f.tags); i += 2 {
		keyIdx := int(f.tags[i])
		valIdx := int(f.tags[i+1])
		key, err := f.layer.Key(keyIdx)
		if err != nil {
			return err
		}
		val, err := f.layer.Value(valIdx)
		if err != nil {
			return err
		}
		if err := fn(key, val); err != nil {
			return err
		}
	}
	return nil
}
