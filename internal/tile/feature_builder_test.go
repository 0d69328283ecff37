package tile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointFeatureBuilder_HappyPath(t *testing.T) {
	tb := NewTileBuilder()
	lb := NewLayerBuilder(tb, []byte("l"), LayerBuilderOptions{Version: 2, Extent: 4096})

	f := lb.NewPointFeature()
	require.NoError(t, f.SetID(5))
	require.NoError(t, f.AddPoints(2))
	require.NoError(t, f.SetPoint(1, 1))
	require.NoError(t, f.SetPoint(2, 2))
	require.NoError(t, f.Commit())

	_, err := lb.Finish()
	require.NoError(t, err)

	data := tb.Serialize()
	tr := NewTileReader(data)
	layer, ok, err := tr.NextLayer()
	require.NoError(t, err)
	require.True(t, ok)
	feat, ok := layer.NextFeature()
	require.True(t, ok)
	gtype, cmds, err := feat.Geometry()
	require.NoError(t, err)
	assert.Equal(t, GeometryPoint, gtype)
	sink := &recordingPointSink{}
	require.NoError(t, DecodePointGeometry(cmds, false, sink))
	assert.Equal(t, [][2]int32{{1, 1}, {2, 2}}, sink.points)
}

func TestPointFeatureBuilder_SecondAddPointsRejected(t *testing.T) {
	tb := NewTileBuilder()
	lb := NewLayerBuilder(tb, []byte("l"), LayerBuilderOptions{})
	f := lb.NewPointFeature()
	require.NoError(t, f.AddPoints(1))
	require.NoError(t, f.SetPoint(0, 0))
	err := f.AddPoints(1)
	require.Error(t, err)
	assert.IsType(t, &AssertError{}, err)
}

func TestPointFeatureBuilder_SetPointWithoutAddPointsRejected(t *testing.T) {
	tb := NewTileBuilder()
	lb := NewLayerBuilder(tb, []byte("l"), LayerBuilderOptions{})
	f := lb.NewPointFeature()
	err := f.SetPoint(0, 0)
	require.Error(t, err)
	assert.IsType(t, &AssertError{}, err)
}

func TestPointFeatureBuilder_CommitBeforeGeometryRejected(t *testing.T) {
	tb := NewTileBuilder()
	lb := NewLayerBuilder(tb, []byte("l"), LayerBuilderOptions{})
	f := lb.NewPointFeature()
	require.NoError(t, f.SetID(1))
	err := f.Commit()
	require.Error(t, err)
	assert.IsType(t, &AssertError{}, err)
}

func TestPointFeatureBuilder_SetIDAfterGeometryRejected(t *testing.T) {
	tb := NewTileBuilder()
	lb := NewLayerBuilder(tb, []byte("l"), LayerBuilderOptions{})
	f := lb.NewPointFeature()
	require.NoError(t, f.AddPoints(1))
	require.NoError(t, f.SetPoint(0, 0))
	err := f.SetID(1)
	require.Error(t, err)
	assert.IsType(t, &AssertError{}, err)
}

func TestPolygonFeatureBuilder_RingClosureViaDuplicatePoint(t *testing.T) {
	tb := NewTileBuilder()
	lb := NewLayerBuilder(tb, []byte("l"), LayerBuilderOptions{})
	f := lb.NewPolygonFeature()
	require.NoError(t, f.AddRing(4))
	require.NoError(t, f.SetPoint(0, 0))
	require.NoError(t, f.SetPoint(5, 0))
	require.NoError(t, f.SetPoint(5, 5))
	require.NoError(t, f.SetPoint(0, 5))
	// explicit duplicate of the start point, instead of CloseRing().
	require.NoError(t, f.SetPoint(0, 0))
	require.NoError(t, f.Commit())

	_, err := lb.Finish()
	require.NoError(t, err)

	data := tb.Serialize()
	tr := NewTileReader(data)
	layer, ok, err := tr.NextLayer()
	require.NoError(t, err)
	require.True(t, ok)
	feat, ok := layer.NextFeature()
	require.True(t, ok)
	_, cmds, err := feat.Geometry()
	require.NoError(t, err)

	sink := &recordingRingSink{}
	require.NoError(t, DecodePolygonGeometry(cmds, false, sink))
	require.Len(t, sink.rings, 1)
	assert.True(t, sink.outers[0])
}

func TestPolygonFeatureBuilder_DuplicatePointMustMatchStart(t *testing.T) {
	tb := NewTileBuilder()
	lb := NewLayerBuilder(tb, []byte("l"), LayerBuilderOptions{})
	f := lb.NewPolygonFeature()
	require.NoError(t, f.AddRing(4))
	require.NoError(t, f.SetPoint(0, 0))
	require.NoError(t, f.SetPoint(5, 0))
	require.NoError(t, f.SetPoint(5, 5))
	require.NoError(t, f.SetPoint(0, 5))
	err := f.SetPoint(1, 1) // does not match start
	require.Error(t, err)
	assert.IsType(t, &AssertError{}, err)
}

func TestPolygonFeatureBuilder_CloseRingBeforeAllPointsRejected(t *testing.T) {
	tb := NewTileBuilder()
	lb := NewLayerBuilder(tb, []byte("l"), LayerBuilderOptions{})
	f := lb.NewPolygonFeature()
	require.NoError(t, f.AddRing(4))
	require.NoError(t, f.SetPoint(0, 0))
	err := f.CloseRing()
	require.Error(t, err)
	assert.IsType(t, &AssertError{}, err)
}

func TestPolygonFeatureBuilder_AddRingRejectsTooFewPoints(t *testing.T) {
	tb := NewTileBuilder()
	lb := NewLayerBuilder(tb, []byte("l"), LayerBuilderOptions{})
	f := lb.NewPolygonFeature()
	err := f.AddRing(2)
	require.Error(t, err)
	assert.IsType(t, &AssertError{}, err)
}

func TestPolygonFeatureBuilder_AddRingAcceptsTriangle(t *testing.T) {
	tb := NewTileBuilder()
	lb := NewLayerBuilder(tb, []byte("l"), LayerBuilderOptions{})
	f := lb.NewPolygonFeature()
	require.NoError(t, f.AddRing(3))
	require.NoError(t, f.SetPoint(0, 0))
	require.NoError(t, f.SetPoint(5, 0))
	require.NoError(t, f.SetPoint(0, 5))
	require.NoError(t, f.CloseRing())
	require.NoError(t, f.Commit())

	_, err := lb.Finish()
	require.NoError(t, err)

	data := tb.Serialize()
	tr := NewTileReader(data)
	layer, ok, err := tr.NextLayer()
	require.NoError(t, err)
	require.True(t, ok)
	feat, ok := layer.NextFeature()
	require.True(t, ok)
	_, cmds, err := feat.Geometry()
	require.NoError(t, err)

	sink := &recordingRingSink{}
	require.NoError(t, DecodePolygonGeometry(cmds, false, sink))
	require.Len(t, sink.rings, 1)
	// 3 corners plus the start point re-emitted at the end of the ring.
	assert.Len(t, sink.rings[0], 4)
}

func TestLineStringFeatureBuilder_MultiLineString(t *testing.T) {
	tb := NewTileBuilder()
	lb := NewLayerBuilder(tb, []byte("l"), LayerBuilderOptions{})
	f := lb.NewLineStringFeature()
	require.NoError(t, f.AddLineString(2))
	require.NoError(t, f.SetPoint(0, 0))
	require.NoError(t, f.SetPoint(1, 1))
	require.NoError(t, f.AddLineString(2))
	require.NoError(t, f.SetPoint(10, 10))
	require.NoError(t, f.SetPoint(11, 11))
	require.NoError(t, f.Commit())

	_, err := lb.Finish()
	require.NoError(t, err)

	data := tb.Serialize()
	tr := NewTileReader(data)
	layer, ok, err := tr.NextLayer()
	require.NoError(t, err)
	require.True(t, ok)
	feat, ok := layer.NextFeature()
	require.True(t, ok)
	_, cmds, err := feat.Geometry()
	require.NoError(t, err)

	sink := &recordingLineSink{}
	require.NoError(t, DecodeLineStringGeometry(cmds, false, sink))
	require.Len(t, sink.runs, 2)
	assert.Equal(t, [][2]int32{{0, 0}, {1, 1}}, sink.runs[0])
	assert.Equal(t, [][2]int32{{10, 10}, {11, 11}}, sink.runs[1])
}

func TestFeatureBuilder_AddPropertyBeforeGeometryRejected(t *testing.T) {
	tb := NewTileBuilder()
	lb := NewLayerBuilder(tb, []byte("l"), LayerBuilderOptions{})
	f := lb.NewPointFeature()
	err := f.AddProperty([]byte("k"), StringValue("v"))
	require.Error(t, err)
	assert.IsType(t, &AssertError{}, err)
}

func TestFeatureBuilder_AddPropertyIndexOutOfRange(t *testing.T) {
	tb := NewTileBuilder()
	lb := NewLayerBuilder(tb, []byte("l"), LayerBuilderOptions{})
	f := lb.NewPointFeature()
	require.NoError(t, f.AddPoints(1))
	require.NoError(t, f.SetPoint(0, 0))
	err := f.AddPropertyIndex(0, 0)
	require.Error(t, err)
	assert.IsType(t, &OutOfRangeError{}, err)
}

func TestLayerBuilder_InternKeyDedupsViaIndex(t *testing.T) {
	tb := NewTileBuilder()
	lb := NewLayerBuilder(tb, []byte("l"), LayerBuilderOptions{
		Keys:   NewHashedKeyIndex(),
		Values: NewHashedValueIndex(),
	})
	a := lb.InternKey([]byte("name"))
	b := lb.InternKey([]byte("name"))
	c := lb.InternKey([]byte("other"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, 2, lb.NumKeys())
}

func TestLayerBuilder_FinishTwiceRejected(t *testing.T) {
	tb := NewTileBuilder()
	lb := NewLayerBuilder(tb, []byte("l"), LayerBuilderOptions{})
	f := lb.NewPointFeature()
	require.NoError(t, f.AddPoints(1))
	require.NoError(t, f.SetPoint(0, 0))
	require.NoError(t, f.Commit())

	_, err := lb.Finish()
	require.NoError(t, err)
	_, err = lb.Finish()
	require.Error(t, err)
	assert.IsType(t, &AssertError{}, err)
}
