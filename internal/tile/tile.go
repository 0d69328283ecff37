package tile

import "github.com/beetlebugorg/mvt/internal/wire"

const fieldTileLayers = 3

// TileReader holds a data view over a tile's bytes and an iteration cursor
// over its layers. A tile has no header: it is simply a sequence of layer
// records (spec.md §3).
type TileReader struct {
	r *wire.Reader
}

// NewTileReader wraps a tile's raw bytes. data is not copied.
func NewTileReader(data []byte) *TileReader {
	return &TileReader{r: wire.NewReader(data)}
}

// NextLayer returns the next layer in the tile, or ok=false at end of
// input. Fields other than the repeated "layers" field 3 are skipped,
// tolerating forward-compatible additions at the tile level (spec.md §4.6
// names only iteration; unlike the layer reader, the tile reader has no
// "reject unknown fields" requirement).
func (t *TileReader) NextLayer() (layer *LayerReader, ok bool, err error) {
	for !t.r.Done() {
		field, wt, ok, err := t.r.Next()
		if err != nil {
			return nil, false, wrapWireErr(err)
		}
		if !ok {
			return nil, false, nil
		}
		if field != fieldTileLayers {
			if err := t.r.Skip(wt); err != nil {
				return nil, false, wrapWireErr(err)
			}
			continue
		}
		b, err := t.r.Bytes()
		if err != nil {
			return nil, false, wrapWireErr(err)
		}
		l, err := NewLayerReader(b)
		if err != nil {
			return nil, false, err
		}
		return l, true, nil
	}
	return nil, false, nil
}
