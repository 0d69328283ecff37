// Package mvt provides a clean public API for decoding and building Mapbox
// Vector Tiles.
package mvt

import (
	"fmt"
	"sync"

	"github.com/beetlebugorg/mvt/internal/tile"
)

// GeometryType identifies a feature's geometry kind.
type GeometryType = tile.GeometryType

const (
	GeometryUnknown    = tile.GeometryUnknown
	GeometryPoint      = tile.GeometryPoint
	GeometryLineString = tile.GeometryLineString
	GeometryPolygon    = tile.GeometryPolygon
)

// Value is a typed property value: exactly one of its accessors applies,
// selected by Kind.
type Value = tile.Value

var (
	StringValue = tile.StringValue
	FloatValue  = tile.FloatValue
	DoubleValue = tile.DoubleValue
	IntValue    = tile.IntValue
	UintValue   = tile.UintValue
	SintValue   = tile.SintValue
	BoolValue   = tile.BoolValue
)

// DecodeOptions configures Decoder.
type DecodeOptions struct {
	// Strict rejects structurally valid but semantically suspect geometry
	// (degenerate rings, repeated consecutive LineString points).
	Strict bool
	// Eager materializes every layer's key/value dictionary during
	// DecodeTile rather than lazily on first property access.
	Eager bool
}

// Decoder decodes tile bytes according to its options.
type Decoder struct {
	opts DecodeOptions
}

// NewDecoder returns a Decoder configured with opts.
func NewDecoder(opts DecodeOptions) *Decoder {
	return &Decoder{opts: opts}
}

// DecodeTile parses data as a sequence of layer records. data is not
// copied; it must outlive the returned Tile and any Layer/Feature/Value it
// produces.
func (d *Decoder) DecodeTile(data []byte) (*Tile, error) {
	tr := tile.NewTileReader(data)
	t := &Tile{}
	for {
		lr, ok, err := tr.NextLayer()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		layer := &Layer{r: lr, strict: d.opts.Strict}
		if d.opts.Eager {
			if _, err := lr.KeyTable(); err != nil {
				return nil, err
			}
			if _, err := lr.ValueTable(); err != nil {
				return nil, err
			}
		}
		t.layers = append(t.layers, layer)
	}
	return t, nil
}

// Tile is a decoded collection of named layers.
type Tile struct {
	layers []*Layer
}

// Layers returns the tile's layers in wire order.
func (t *Tile) Layers() []*Layer { return t.layers }

// LayerByName returns the first layer with the given name.
func (t *Tile) LayerByName(name string) (*Layer, bool) {
	for _, l := range t.layers {
		if string(l.Name()) == name {
			return l, true
		}
	}
	return nil, false
}

// Layer exposes one decoded layer: its metadata and its features.
type Layer struct {
	r      *tile.LayerReader
	strict bool

	indexOnce sync.Once
	index     *FeatureIndex
	indexErr  error
}

func (l *Layer) Name() []byte     { return l.r.Name() }
func (l *Layer) Version() uint32  { return l.r.Version() }
func (l *Layer) Extent() uint32   { return l.r.Extent() }
func (l *Layer) NumFeatures() int { return l.r.NumFeatures() }

// Features decodes and returns every feature in the layer, in wire order.
// Iteration state on the underlying reader is reset before and after.
func (l *Layer) Features() ([]*Feature, error) {
	l.r.Reset()
	defer l.r.Reset()

	out := make([]*Feature, 0, l.r.NumFeatures())
	for {
		fr, ok := l.r.NextFeature()
		if !ok {
			break
		}
		out = append(out, &Feature{r: fr, layer: l})
	}
	return out, nil
}

// FeaturesInExtent returns every feature whose bounding box intersects the
// given tile-local rectangle (0..Extent()). The layer's spatial index is
// built lazily on first call and reused by later calls, including
// concurrent ones from goroutines sharing this Layer via a TileCache.
func (l *Layer) FeaturesInExtent(minX, minY, maxX, maxY int32) ([]*Feature, error) {
	l.indexOnce.Do(func() {
		l.index, l.indexErr = BuildFeatureIndex(l)
	})
	if l.indexErr != nil {
		return nil, l.indexErr
	}
	return l.index.Query(minX, minY, maxX, maxY), nil
}

// FeatureByID performs a linear scan for a feature with the given id.
func (l *Layer) FeatureByID(id uint64) (*Feature, bool, error) {
	fr, ok, err := l.r.FeatureByID(id)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &Feature{r: fr, layer: l}, true, nil
}

// Feature exposes one decoded feature: its id, type, geometry, and
// properties.
type Feature struct {
	r     *tile.FeatureReader
	layer *Layer
}

func (f *Feature) ID() (uint64, error) { return f.r.ID() }

func (f *Feature) Type() (GeometryType, error) { return f.r.Type() }

// Properties resolves every tag pair through the layer's key/value
// dictionaries and returns them as a map. Use ForEachProperty instead to
// avoid the allocation, or to stop early.
func (f *Feature) Properties() (map[string]Value, error) {
	out := make(map[string]Value)
	err := f.ForEachProperty(func(key []byte, val Value) error {
		out[string(key)] = val
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ForEachProperty walks the feature's tags without allocating a map.
func (f *Feature) ForEachProperty(fn func(key []byte, val Value) error) error {
	return f.r.ForEachProperty(fn)
}

// Point is a single decoded coordinate pair, in tile-local units
// (0..extent, origin top-left).
type Point struct{ X, Y int32 }

// PointGeometry is the decoded shape of a Point/MultiPoint feature.
type PointGeometry struct {
	Points []Point
}

// LineStringGeometry is the decoded shape of a LineString/MultiLineString
// feature: each element is one linestring's ordered points.
type LineStringGeometry struct {
	Lines [][]Point
}

// Ring is one ring of a polygon: its points and whether the shoelace sum
// classified it as outer (true) or a hole (false).
type Ring struct {
	Points []Point
	Outer  bool
}

// PolygonGeometry is the decoded shape of a Polygon/MultiPolygon feature.
type PolygonGeometry struct {
	Rings []Ring
}

// DecodeGeometry decodes the feature's geometry according to its declared
// Type, returning a *PointGeometry, *LineStringGeometry, or *PolygonGeometry.
// A feature whose declared type is GeometryUnknown returns an error here;
// its raw command stream is still reachable via the lower-level
// internal/tile package for callers that want to interpret it themselves.
func (f *Feature) DecodeGeometry() (interface{}, error) {
	gtype, cmds, err := f.r.Geometry()
	if err != nil {
		return nil, err
	}
	strict := f.layer.strict
	switch gtype {
	case tile.GeometryPoint:
		sink := &pointCollector{}
		if err := tile.DecodePointGeometry(cmds, strict, sink); err != nil {
			return nil, err
		}
		return &PointGeometry{Points: sink.points}, nil
	case tile.GeometryLineString:
		sink := &lineCollector{}
		if err := tile.DecodeLineStringGeometry(cmds, strict, sink); err != nil {
			return nil, err
		}
		return &LineStringGeometry{Lines: sink.lines}, nil
	case tile.GeometryPolygon:
		sink := &ringCollector{}
		if err := tile.DecodePolygonGeometry(cmds, strict, sink); err != nil {
			return nil, err
		}
		return &PolygonGeometry{Rings: sink.rings}, nil
	default:
		return nil, fmt.Errorf("mvt: feature has unrecognized geometry type %d", gtype)
	}
}

type pointCollector struct{ points []Point }

func (c *pointCollector) PointsBegin(count int)  { c.points = make([]Point, 0, count) }
func (c *pointCollector) PointsPoint(x, y int32) { c.points = append(c.points, Point{x, y}) }
func (c *pointCollector) PointsEnd()             {}

type lineCollector struct {
	lines [][]Point
	cur   []Point
}

func (c *lineCollector) LineStringBegin(count int)  { c.cur = make([]Point, 0, count) }
func (c *lineCollector) LineStringPoint(x, y int32) { c.cur = append(c.cur, Point{x, y}) }
func (c *lineCollector) LineStringEnd()             { c.lines = append(c.lines, c.cur) }

type ringCollector struct {
	rings []Ring
	cur   []Point
}

func (c *ringCollector) RingBegin(count int)  { c.cur = make([]Point, 0, count) }
func (c *ringCollector) RingPoint(x, y int32) { c.cur = append(c.cur, Point{x, y}) }
func (c *ringCollector) RingEnd(outer bool)   { c.rings = append(c.rings, Ring{Points: c.cur, Outer: outer}) }
