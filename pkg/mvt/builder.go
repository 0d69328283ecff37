package mvt

import "github.com/beetlebugorg/mvt/internal/tile"

// KeyIndex and ValueIndex select a LayerBuilder's dictionary deduplication
// strategy. Use NewLinearKeyIndex/NewHashedKeyIndex and
// NewLinearValueIndex/NewHashedValueIndex, or pass nil for unconditional
// append (no deduplication).
type KeyIndex = tile.KeyIndex
type ValueIndex = tile.ValueIndex

var (
	NewLinearKeyIndex   = tile.NewLinearKeyIndex
	NewHashedKeyIndex   = tile.NewHashedKeyIndex
	NewLinearValueIndex = tile.NewLinearValueIndex
	NewHashedValueIndex = tile.NewHashedValueIndex
)

// TileBuilder accumulates layers and serializes them into tile bytes.
type TileBuilder struct {
	b *tile.TileBuilder
}

// NewTileBuilder returns an empty tile builder.
func NewTileBuilder() *TileBuilder {
	return &TileBuilder{b: tile.NewTileBuilder()}
}

// NewLayer starts a new layer builder owned by this tile.
func (t *TileBuilder) NewLayer(name string, opts LayerBuilderOptions) *LayerBuilder {
	return &LayerBuilder{b: tile.NewLayerBuilder(t.b, []byte(name), tile.LayerBuilderOptions{
		Version: opts.Version,
		Extent:  opts.Extent,
		Keys:    opts.Keys,
		Values:  opts.Values,
	})}
}

// AddExistingLayer copies a previously decoded layer's raw bytes through
// unchanged.
func (t *TileBuilder) AddExistingLayer(l *Layer) {
	t.b.AddExistingLayer(l.r.Raw())
}

// NumLayers reports how many layers have been added so far.
func (t *TileBuilder) NumLayers() int { return t.b.NumLayers() }

// Serialize concatenates all added layers into the final tile bytes.
func (t *TileBuilder) Serialize() []byte { return t.b.Serialize() }

// LayerBuilderOptions configures a new layer builder.
type LayerBuilderOptions struct {
	Version uint32
	Extent  uint32
	Keys    KeyIndex
	Values  ValueIndex
}

// LayerBuilder accumulates features for one in-progress layer.
type LayerBuilder struct {
	b *tile.LayerBuilder
}

// NewPointFeature starts building a Point/MultiPoint feature.
func (l *LayerBuilder) NewPointFeature() *PointFeatureBuilder {
	return &PointFeatureBuilder{b: l.b.NewPointFeature()}
}

// NewLineStringFeature starts building a LineString/MultiLineString feature.
func (l *LayerBuilder) NewLineStringFeature() *LineStringFeatureBuilder {
	return &LineStringFeatureBuilder{b: l.b.NewLineStringFeature()}
}

// NewPolygonFeature starts building a Polygon/MultiPolygon feature.
func (l *LayerBuilder) NewPolygonFeature() *PolygonFeatureBuilder {
	return &PolygonFeatureBuilder{b: l.b.NewPolygonFeature()}
}

// Finish serializes the layer and appends it to the owning tile builder.
func (l *LayerBuilder) Finish() error {
	_, err := l.b.Finish()
	return err
}

// PointFeatureBuilder builds one Point/MultiPoint feature.
type PointFeatureBuilder struct{ b *tile.PointFeatureBuilder }

func (f *PointFeatureBuilder) SetID(id uint64) error     { return f.b.SetID(id) }
func (f *PointFeatureBuilder) AddPoints(n int) error     { return f.b.AddPoints(n) }
func (f *PointFeatureBuilder) SetPoint(x, y int32) error { return f.b.SetPoint(x, y) }
func (f *PointFeatureBuilder) AddProperty(key string, v Value) error {
	return f.b.AddProperty([]byte(key), v)
}
func (f *PointFeatureBuilder) Commit() error { return f.b.Commit() }

// LineStringFeatureBuilder builds one LineString/MultiLineString feature.
type LineStringFeatureBuilder struct{ b *tile.LineStringFeatureBuilder }

func (f *LineStringFeatureBuilder) SetID(id uint64) error     { return f.b.SetID(id) }
func (f *LineStringFeatureBuilder) AddLineString(n int) error { return f.b.AddLineString(n) }
func (f *LineStringFeatureBuilder) SetPoint(x, y int32) error { return f.b.SetPoint(x, y) }
func (f *LineStringFeatureBuilder) AddProperty(key string, v Value) error {
	return f.b.AddProperty([]byte(key), v)
}
func (f *LineStringFeatureBuilder) Commit() error { return f.b.Commit() }

// PolygonFeatureBuilder builds one Polygon/MultiPolygon feature.
type PolygonFeatureBuilder struct{ b *tile.PolygonFeatureBuilder }

func (f *PolygonFeatureBuilder) SetID(id uint64) error     { return f.b.SetID(id) }
func (f *PolygonFeatureBuilder) AddRing(n int) error       { return f.b.AddRing(n) }
func (f *PolygonFeatureBuilder) SetPoint(x, y int32) error { return f.b.SetPoint(x, y) }
func (f *PolygonFeatureBuilder) CloseRing() error          { return f.b.CloseRing() }
func (f *PolygonFeatureBuilder) AddProperty(key string, v Value) error {
	return f.b.AddProperty([]byte(key), v)
}
func (f *PolygonFeatureBuilder) Commit() error { return f.b.Commit() }
