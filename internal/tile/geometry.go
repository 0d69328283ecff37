package tile

import "fmt"

// GeometryType is the type tag carried by a feature record (spec.md §3, §6).
type GeometryType uint8

const (
	GeometryUnknown GeometryType = iota
	GeometryPoint
	GeometryLineString
	GeometryPolygon
)

func (g GeometryType) String() string {
	switch g {
	case GeometryPoint:
		return "Point"
	case GeometryLineString:
		return "LineString"
	case GeometryPolygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// Command integers pack a 3-bit command id and a 29-bit count (spec.md §4.2, §6).
const (
	cmdMoveTo    uint32 = 1
	cmdLineTo    uint32 = 2
	cmdClosePath uint32 = 7
)

func packCommand(id, count uint32) uint32 {
	return (id & 0x7) | (count << 3)
}

func unpackCommand(cmd uint32) (id, count uint32) {
	return cmd & 0x7, cmd >> 3
}

func zigzagEncode32(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

func zigzagDecode32(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

// PointSink receives callbacks from DecodePointGeometry.
type PointSink interface {
	PointsBegin(count int)
	PointsPoint(x, y int32)
	PointsEnd()
}

// LineStringSink receives callbacks from DecodeLineStringGeometry. Begin/End
// bracket each individual linestring in a multilinestring.
type LineStringSink interface {
	LineStringBegin(count int)
	LineStringPoint(x, y int32)
	LineStringEnd()
}

// RingSink receives callbacks from DecodePolygonGeometry. Begin/End bracket
// each ring; RingEnd reports the shoelace sign (true = outer/clockwise in
// screen space, false = inner/hole).
type RingSink interface {
	RingBegin(count int)
	RingPoint(x, y int32)
	RingEnd(outer bool)
}

type cmdStream struct {
	cmds []uint32
	pos  int
	cx   int32
	cy   int32
}

func (s *cmdStream) done() bool { return s.pos >= len(s.cmds) }

func (s *cmdStream) readCommand() (id, count uint32, err error) {
	if s.done() {
		return 0, 0, &GeometryError{Reason: "premature end of command stream"}
	}
	id, count = unpackCommand(s.cmds[s.pos])
	s.pos++
	return id, count, nil
}

func (s *cmdStream) readParam() (int32, error) {
	if s.done() {
		return 0, &GeometryError{Reason: "premature end of command stream: missing parameter"}
	}
	v := zigzagDecode32(s.cmds[s.pos])
	s.pos++
	return v, nil
}

func (s *cmdStream) readPoint() (x, y int32, err error) {
	dx, err := s.readParam()
	if err != nil {
		return 0, 0, err
	}
	dy, err := s.readParam()
	if err != nil {
		return 0, 0, err
	}
	s.cx += dx
	s.cy += dy
	return s.cx, s.cy, nil
}

// DecodePointGeometry decodes a Point/MultiPoint command stream: exactly one
// MoveTo with count >= 1, no trailing data.
func DecodePointGeometry(cmds []uint32, strict bool, sink PointSink) error {
	s := &cmdStream{cmds: cmds}

	id, count, err := s.readCommand()
	if err != nil {
		return err
	}
	if id != cmdMoveTo {
		return &GeometryError{Reason: fmt.Sprintf("expected MoveTo, got command id %d", id)}
	}
	if count < 1 {
		return &GeometryError{Reason: "Point geometry requires MoveTo count >= 1"}
	}

	sink.PointsBegin(int(count))
	for i := uint32(0); i < count; i++ {
		x, y, err := s.readPoint()
		if err != nil {
			return err
		}
		sink.PointsPoint(x, y)
	}
	sink.PointsEnd()

	if !s.done() {
		return &GeometryError{Reason: "trailing data after Point geometry"}
	}
	return nil
}

// DecodeLineStringGeometry decodes a LineString/MultiLineString command
// stream: one or more (MoveTo count=1, LineTo count>=1) pairs.
func DecodeLineStringGeometry(cmds []uint32, strict bool, sink LineStringSink) error {
	s := &cmdStream{cmds: cmds}
	if s.done() {
		return &GeometryError{Reason: "premature end of command stream"}
	}

	for !s.done() {
		id, count, err := s.readCommand()
		if err != nil {
			return err
		}
		if id != cmdMoveTo {
			return &GeometryError{Reason: fmt.Sprintf("expected MoveTo, got command id %d", id)}
		}
		if count != 1 {
			return &GeometryError{Reason: fmt.Sprintf("LineString MoveTo must have count 1, got %d", count)}
		}
		startX, startY, err := s.readPoint()
		if err != nil {
			return err
		}

		id, count, err = s.readCommand()
		if err != nil {
			return err
		}
		if id != cmdLineTo {
			return &GeometryError{Reason: fmt.Sprintf("expected LineTo, got command id %d", id)}
		}
		if count < 1 {
			return &GeometryError{Reason: "LineTo count must be >= 1"}
		}

		sink.LineStringBegin(int(count) + 1)
		sink.LineStringPoint(startX, startY)
		prevX, prevY := startX, startY
		for i := uint32(0); i < count; i++ {
			x, y, err := s.readPoint()
			if err != nil {
				return err
			}
			if strict && x == prevX && y == prevY {
				return &GeometryError{Reason: "strict mode: consecutive identical LineTo points"}
			}
			sink.LineStringPoint(x, y)
			prevX, prevY = x, y
		}
		sink.LineStringEnd()
	}
	return nil
}

// DecodePolygonGeometry decodes a Polygon/MultiPolygon command stream: one or
// more (MoveTo count=1, LineTo count>1 [strict] else count>=1, ClosePath)
// triples. For each ring the shoelace sum (including the implicit closing
// segment) classifies orientation: positive is outer, negative is inner.
func DecodePolygonGeometry(cmds []uint32, strict bool, sink RingSink) error {
	s := &cmdStream{cmds: cmds}
	if s.done() {
		return &GeometryError{Reason: "premature end of command stream"}
	}

	for !s.done() {
		id, count, err := s.readCommand()
		if err != nil {
			return err
		}
		if id != cmdMoveTo {
			return &GeometryError{Reason: fmt.Sprintf("expected MoveTo, got command id %d", id)}
		}
		if count != 1 {
			return &GeometryError{Reason: fmt.Sprintf("Polygon ring MoveTo must have count 1, got %d", count)}
		}
		startX, startY, err := s.readPoint()
		if err != nil {
			return err
		}

		id, count, err = s.readCommand()
		if err != nil {
			return err
		}
		if id != cmdLineTo {
			return &GeometryError{Reason: fmt.Sprintf("expected LineTo, got command id %d", id)}
		}
		if strict && count <= 1 {
			return &GeometryError{Reason: "strict mode: Polygon ring LineTo count must be > 1"}
		}
		if count < 1 {
			return &GeometryError{Reason: "Polygon ring LineTo count must be >= 1"}
		}

		sink.RingBegin(int(count) + 2) // interior points + start + re-emitted closing point
		sink.RingPoint(startX, startY)

		var sum int64
		prevX, prevY := startX, startY
		for i := uint32(0); i < count; i++ {
			x, y, err := s.readPoint()
			if err != nil {
				return err
			}
			if strict && x == prevX && y == prevY {
				return &GeometryError{Reason: "strict mode: consecutive identical LineTo points"}
			}
			sum += int64(prevX)*int64(y) - int64(x)*int64(prevY)
			sink.RingPoint(x, y)
			prevX, prevY = x, y
		}
		// implicit closing segment back to the start point
		sum += int64(prevX)*int64(startY) - int64(startX)*int64(prevY)
		sink.RingPoint(startX, startY)

		id, count, err = s.readCommand()
		if err != nil {
			return err
		}
		if id != cmdClosePath {
			return &GeometryError{Reason: fmt.Sprintf("expected ClosePath, got command id %d", id)}
		}
		if count != 1 {
			return &GeometryError{Reason: fmt.Sprintf("ClosePath count must be 1, got %d", count)}
		}

		sink.RingEnd(sum > 0)
	}
	return nil
}
