package tile

import "github.com/beetlebugorg/mvt/internal/wire"

// TileBuilder aggregates finished layer byte slices and concatenates them
// into the final tile bytes on Serialize.
type TileBuilder struct {
	layers [][]byte
}

// NewTileBuilder returns an empty tile builder.
func NewTileBuilder() *TileBuilder {
	return &TileBuilder{}
}

func (tb *TileBuilder) addLayerBytes(b []byte) {
	tb.layers = append(tb.layers, b)
}

// AddExistingLayer copies a decoded layer's raw record bytes through
// unchanged, e.g. from LayerReader.Raw.
func (tb *TileBuilder) AddExistingLayer(layerBytes []byte) {
	tb.addLayerBytes(append([]byte(nil), layerBytes...))
}

// NumLayers reports how many layers have been added so far.
func (tb *TileBuilder) NumLayers() int { return len(tb.layers) }

// Serialize concatenates all added layers into the final tile bytes.
func (tb *TileBuilder) Serialize() []byte {
	w := wire.NewWriter()
	for _, l := range tb.layers {
		w.TaggedBytes(fieldTileLayers, l)
	}
	return w.Bytes()
}
