package tile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPointSink struct {
	begun  int
	points [][2]int32
	ended  bool
}

func (s *recordingPointSink) PointsBegin(count int)  { s.begun = count }
func (s *recordingPointSink) PointsPoint(x, y int32) { s.points = append(s.points, [2]int32{x, y}) }
func (s *recordingPointSink) PointsEnd()             { s.ended = true }

func TestDecodePointGeometry_SinglePoint(t *testing.T) {
	// MoveTo(1), dx=25, dy=17
	cmds := []uint32{packCommand(cmdMoveTo, 1), zigzagEncode32(25), zigzagEncode32(17)}
	sink := &recordingPointSink{}
	err := DecodePointGeometry(cmds, false, sink)
	require.NoError(t, err)
	assert.Equal(t, 1, sink.begun)
	assert.True(t, sink.ended)
	assert.Equal(t, [][2]int32{{25, 17}}, sink.points)
}

func TestDecodePointGeometry_WrongCommand(t *testing.T) {
	cmds := []uint32{packCommand(cmdLineTo, 1), 0, 0}
	err := DecodePointGeometry(cmds, false, &recordingPointSink{})
	require.Error(t, err)
	assert.IsType(t, &GeometryError{}, err)
}

func TestDecodePointGeometry_TrailingData(t *testing.T) {
	cmds := []uint32{packCommand(cmdMoveTo, 1), zigzagEncode32(1), zigzagEncode32(1), 99}
	err := DecodePointGeometry(cmds, false, &recordingPointSink{})
	require.Error(t, err)
	assert.IsType(t, &GeometryError{}, err)
}

type recordingLineSink struct {
	runs [][][2]int32
	cur  [][2]int32
}

func (s *recordingLineSink) LineStringBegin(count int)  { s.cur = nil }
func (s *recordingLineSink) LineStringPoint(x, y int32) { s.cur = append(s.cur, [2]int32{x, y}) }
func (s *recordingLineSink) LineStringEnd()             { s.runs = append(s.runs, s.cur) }

func TestDecodeLineStringGeometry_DeltaEncoding(t *testing.T) {
	// MoveTo(1) -> (2,2); LineTo(2) -> (3,3) then back to (2,2) via deltas.
	cmds := []uint32{
		packCommand(cmdMoveTo, 1), zigzagEncode32(2), zigzagEncode32(2),
		packCommand(cmdLineTo, 2),
		zigzagEncode32(1), zigzagEncode32(1), // -> (3,3)
		zigzagEncode32(-1), zigzagEncode32(-1), // -> (2,2)
	}
	sink := &recordingLineSink{}
	err := DecodeLineStringGeometry(cmds, false, sink)
	require.NoError(t, err)
	require.Len(t, sink.runs, 1)
	assert.Equal(t, [][2]int32{{2, 2}, {3, 3}, {2, 2}}, sink.runs[0])
}

func TestDecodeLineStringGeometry_StrictRejectsRepeatedPoint(t *testing.T) {
	cmds := []uint32{
		packCommand(cmdMoveTo, 1), zigzagEncode32(0), zigzagEncode32(0),
		packCommand(cmdLineTo, 1),
		zigzagEncode32(0), zigzagEncode32(0), // repeats (0,0)
	}
	err := DecodeLineStringGeometry(cmds, true, &recordingLineSink{})
	require.Error(t, err)
	assert.IsType(t, &GeometryError{}, err)
}

type recordingRingSink struct {
	rings  [][][2]int32
	outers []bool
	cur    [][2]int32
}

func (s *recordingRingSink) RingBegin(count int)  { s.cur = nil }
func (s *recordingRingSink) RingPoint(x, y int32) { s.cur = append(s.cur, [2]int32{x, y}) }
func (s *recordingRingSink) RingEnd(outer bool) {
	s.rings = append(s.rings, s.cur)
	s.outers = append(s.outers, outer)
}

func squareRingCmds(x0, y0 int32, size int32, clockwise bool) []uint32 {
	var pts [][2]int32
	if clockwise {
		pts = [][2]int32{{x0, y0}, {x0 + size, y0}, {x0 + size, y0 + size}, {x0, y0 + size}}
	} else {
		pts = [][2]int32{{x0, y0}, {x0, y0 + size}, {x0 + size, y0 + size}, {x0 + size, y0}}
	}
	cmds := []uint32{packCommand(cmdMoveTo, 1), zigzagEncode32(pts[0][0]), zigzagEncode32(pts[0][1])}
	cmds = append(cmds, packCommand(cmdLineTo, uint32(len(pts)-1)))
	cx, cy := pts[0][0], pts[0][1]
	for _, p := range pts[1:] {
		cmds = append(cmds, zigzagEncode32(p[0]-cx), zigzagEncode32(p[1]-cy))
		cx, cy = p[0], p[1]
	}
	cmds = append(cmds, packCommand(cmdClosePath, 1))
	return cmds
}

func TestDecodePolygonGeometry_OuterAndHole(t *testing.T) {
	outer := squareRingCmds(0, 0, 10, true)
	hole := squareRingCmds(2, 2, 2, false)
	var cmds []uint32
	cmds = append(cmds, outer...)
	cmds = append(cmds, hole...)

	sink := &recordingRingSink{}
	err := DecodePolygonGeometry(cmds, false, sink)
	require.NoError(t, err)
	require.Len(t, sink.rings, 2)
	assert.True(t, sink.outers[0], "first ring should be classified outer")
	assert.False(t, sink.outers[1], "second ring should be classified a hole")
}

func TestDecodePolygonGeometry_StrictRejectsDegenerateRing(t *testing.T) {
	cmds := []uint32{
		packCommand(cmdMoveTo, 1), zigzagEncode32(0), zigzagEncode32(0),
		packCommand(cmdLineTo, 1), // strict requires > 1
		zigzagEncode32(1), zigzagEncode32(1),
		packCommand(cmdClosePath, 1),
	}
	err := DecodePolygonGeometry(cmds, true, &recordingRingSink{})
	require.Error(t, err)
	assert.IsType(t, &GeometryError{}, err)
}

func TestDecodePolygonGeometry_WrongClosePathCount(t *testing.T) {
	cmds := []uint32{
		packCommand(cmdMoveTo, 1), zigzagEncode32(0), zigzagEncode32(0),
		packCommand(cmdLineTo, 2),
		zigzagEncode32(1), zigzagEncode32(0),
		zigzagEncode32(0), zigzagEncode32(1),
		packCommand(cmdClosePath, 2),
	}
	err := DecodePolygonGeometry(cmds, false, &recordingRingSink{})
	require.Error(t, err)
	assert.IsType(t, &GeometryError{}, err)
}

func TestDecodePolygonGeometry_StrictRejectsRepeatedRingPoint(t *testing.T) {
	cmds := []uint32{
		packCommand(cmdMoveTo, 1), zigzagEncode32(0), zigzagEncode32(0),
		packCommand(cmdLineTo, 2),
		zigzagEncode32(5), zigzagEncode32(0), // (5, 0)
		zigzagEncode32(0), zigzagEncode32(0), // repeats (5, 0)
		packCommand(cmdClosePath, 1),
	}
	err := DecodePolygonGeometry(cmds, true, &recordingRingSink{})
	require.Error(t, err)
	assert.IsType(t, &GeometryError{}, err)

	// The same stream is accepted in non-strict mode.
	err = DecodePolygonGeometry(cmds, false, &recordingRingSink{})
	assert.NoError(t, err)
}

func TestPackUnpackCommand(t *testing.T) {
	cmd := packCommand(cmdLineTo, 12)
	id, count := unpackCommand(cmd)
	assert.Equal(t, cmdLineTo, id)
	assert.Equal(t, uint32(12), count)
}

func TestZigzag32RoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 1000, -1000, 1 << 20, -(1 << 20)} {
		assert.Equal(t, v, zigzagDecode32(zigzagEncode32(v)))
	}
}
