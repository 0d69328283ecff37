package mvt

import "github.com/dhconnelly/rtreego"

// FeatureIndex provides O(log n) bounding-box queries over a layer's
// features, addressed in the same tile-local coordinate space the layer's
// geometry is decoded in (0..extent, origin top-left).
type FeatureIndex struct {
	rtree *rtreego.Rtree
}

// indexedFeature wraps a feature and its precomputed bounds for R-tree
// storage.
type indexedFeature struct {
	feature *Feature
	minX    int32
	minY    int32
	maxX    int32
	maxY    int32
}

// Bounds implements rtreego.Spatial.
func (f *indexedFeature) Bounds() rtreego.Rect {
	point := rtreego.Point{float64(f.minX), float64(f.minY)}

	width := float64(f.maxX - f.minX)
	height := float64(f.maxY - f.minY)

	// R-tree requires strictly positive dimensions; point features (zero
	// area) get a minimal footprint instead.
	const epsilon = 1e-6
	if width <= 0 {
		width = epsilon
	}
	if height <= 0 {
		height = epsilon
	}

	rect, _ := rtreego.NewRect(point, []float64{width, height})
	return rect
}

// BuildFeatureIndex decodes every feature's geometry and indexes it by
// bounding box. Geometry is decoded with the DecodeOptions.Strict setting
// the layer was decoded with.
func BuildFeatureIndex(layer *Layer) (*FeatureIndex, error) {
	features, err := layer.Features()
	if err != nil {
		return nil, err
	}

	rtree := rtreego.NewTree(2, 25, 50)
	for _, f := range features {
		geom, err := f.DecodeGeometry()
		if err != nil {
			return nil, err
		}
		minX, minY, maxX, maxY, ok := geometryBounds(geom)
		if !ok {
			continue
		}
		rtree.Insert(&indexedFeature{feature: f, minX: minX, minY: minY, maxX: maxX, maxY: maxY})
	}

	return &FeatureIndex{rtree: rtree}, nil
}

func geometryBounds(geom interface{}) (minX, minY, maxX, maxY int32, ok bool) {
	update := func(x, y int32) {
		if !ok {
			minX, minY, maxX, maxY = x, y, x, y
			ok = true
			return
		}
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
	}

	switch g := geom.(type) {
	case *PointGeometry:
		for _, p := range g.Points {
			update(p.X, p.Y)
		}
	case *LineStringGeometry:
		for _, line := range g.Lines {
			for _, p := range line {
				update(p.X, p.Y)
			}
		}
	case *PolygonGeometry:
		for _, ring := range g.Rings {
			for _, p := range ring.Points {
				update(p.X, p.Y)
			}
		}
	}
	return
}

// Query returns every indexed feature whose bounding box intersects the
// given tile-local rectangle.
func (idx *FeatureIndex) Query(minX, minY, maxX, maxY int32) []*Feature {
	point := rtreego.Point{float64(minX), float64(minY)}
	lengths := []float64{float64(maxX - minX), float64(maxY - minY)}
	rect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return nil
	}

	spatials := idx.rtree.SearchIntersect(rect)
	out := make([]*Feature, 0, len(spatials))
	for _, s := range spatials {
		out = append(out, s.(*indexedFeature).feature)
	}
	return out
}

// Len reports how many features are indexed.
func (idx *FeatureIndex) Len() int { return idx.rtree.Size() }
