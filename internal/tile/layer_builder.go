package tile

import "github.com/beetlebugorg/mvt/internal/wire"

// LayerBuilderOptions configures a new layer builder. Keys and Values are
// optional pluggable deduplication indexes (spec.md §4.7); a nil index
// means every interned key/value is appended without dedup.
type LayerBuilderOptions struct {
	Version uint32
	Extent  uint32
	Keys    KeyIndex
	Values  ValueIndex
}

// LayerBuilder accumulates features and owns the evolving key/value
// dictionary for one in-progress layer. Call Finish to serialize the layer
// and append it to the owning TileBuilder.
type LayerBuilder struct {
	tile    *TileBuilder
	name    []byte
	version uint32
	extent  uint32

	keyIndex   KeyIndex
	valueIndex ValueIndex

	keys        [][]byte
	values      []Value
	features    *wire.Writer // concatenated, already-tagged "features" entries
	numFeatures int

	finished bool
}

// NewLayerBuilder constructs a layer builder owned by tb. Version defaults
// to 2 and extent to 4096 when zero.
func NewLayerBuilder(tb *TileBuilder, name []byte, opts LayerBuilderOptions) *LayerBuilder {
	version := opts.Version
	if version == 0 {
		version = 2
	}
	extent := opts.Extent
	if extent == 0 {
		extent = defaultExtent
	}
	return &LayerBuilder{
		tile:       tb,
		name:       append([]byte(nil), name...),
		version:    version,
		extent:     extent,
		keyIndex:   opts.Keys,
		valueIndex: opts.Values,
		features:   wire.NewWriter(),
	}
}

// InternKey returns the dictionary index for key, appending it if it is
// not already present (per the builder's KeyIndex, if any).
func (lb *LayerBuilder) InternKey(key []byte) int {
	if lb.keyIndex != nil {
		if idx, ok := lb.keyIndex.Lookup(key); ok {
			return idx
		}
	}
	idx := len(lb.keys)
	lb.keys = append(lb.keys, append([]byte(nil), key...))
	if lb.keyIndex != nil {
		lb.keyIndex.Record(key, idx)
	}
	return idx
}

// InternValue returns the dictionary index for v, appending it if it is
// not already present (per the builder's ValueIndex, if any).
func (lb *LayerBuilder) InternValue(v Value) int {
	if lb.valueIndex != nil {
		if idx, ok := lb.valueIndex.Lookup(v); ok {
			return idx
		}
	}
	idx := len(lb.values)
	lb.values = append(lb.values, v)
	if lb.valueIndex != nil {
		lb.valueIndex.Record(v, idx)
	}
	return idx
}

// NumKeys and NumValues report the current dictionary sizes, for bounds
// checks against pre-resolved key/value indices supplied to AddPropertyIndex.
func (lb *LayerBuilder) NumKeys() int   { return len(lb.keys) }
func (lb *LayerBuilder) NumValues() int { return len(lb.values) }

// addFeature appends an already-serialized feature record. Called only by
// FeatureBuilder.Commit.
func (lb *LayerBuilder) addFeature(data []byte) {
	lb.features.TaggedBytes(fieldLayerFeatures, data)
	lb.numFeatures++
}

// NewPointFeature starts building a Point/MultiPoint feature in this layer.
func (lb *LayerBuilder) NewPointFeature() *PointFeatureBuilder {
	return &PointFeatureBuilder{core: newFeatureBuilder(lb, GeometryPoint)}
}

// NewLineStringFeature starts building a LineString/MultiLineString feature
// in this layer.
func (lb *LayerBuilder) NewLineStringFeature() *LineStringFeatureBuilder {
	return &LineStringFeatureBuilder{core: newFeatureBuilder(lb, GeometryLineString)}
}

// NewPolygonFeature starts building a Polygon/MultiPolygon feature in this
// layer.
func (lb *LayerBuilder) NewPolygonFeature() *PolygonFeatureBuilder {
	return &PolygonFeatureBuilder{core: newFeatureBuilder(lb, GeometryPolygon)}
}

// Finish serializes the layer (name, features, keys, values, extent,
// version, in that field order) and appends it to the owning TileBuilder.
// Finish may be called only once.
func (lb *LayerBuilder) Finish() ([]byte, error) {
	if lb.finished {
		return nil, &AssertError{Reason: "layer builder already finished"}
	}
	lb.finished = true

	w := wire.NewWriter()
	w.TaggedBytes(fieldLayerName, lb.name)
	w.Raw(lb.features.Bytes())
	for _, k := range lb.keys {
		w.TaggedBytes(fieldLayerKeys, k)
	}
	for _, v := range lb.values {
		w.TaggedBytes(fieldLayerValues, v.marshal())
	}
	w.TaggedVarint(fieldLayerExtent, uint64(lb.extent))
	w.TaggedVarint(fieldLayerVersion, uint64(lb.version))

	out := w.Bytes()
	lb.tile.addLayerBytes(out)
	return out, nil
}
