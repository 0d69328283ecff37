package tile

import "github.com/beetlebugorg/mvt/internal/wire"

// featurePhase is the feature builder's state, per spec.md §4.8:
//
//	INIT → HAS_ID → GEOMETRY → PROPERTIES → COMMITTED
//	         ↘──────↗
type featurePhase int

const (
	phaseInit featurePhase = iota
	phaseHasID
	phaseGeometry
	phaseProperties
	phaseCommitted
)

// primitiveKind tracks which geometry primitive (if any) is mid-construction.
type primitiveKind int

const (
	primitiveNone primitiveKind = iota
	primitivePoints
	primitiveLineString
	primitiveRing
)

// featureBuilder is the shared state machine behind PointFeatureBuilder,
// LineStringFeatureBuilder, and PolygonFeatureBuilder. Each of those types
// only exposes the geometry-building methods legal for its geometry type,
// giving illegal-primitive-for-type mistakes a compile-time failure while
// the phase/precondition machinery below is checked at runtime and reported
// as AssertError (spec.md §9).
type featureBuilder struct {
	layer    *LayerBuilder
	gtype    GeometryType
	phase    featurePhase
	discarded bool

	id    uint64
	hasID bool

	commands []uint32
	cx, cy   int32

	tags []uint64

	pointDone bool // a Point feature allows exactly one AddPoints call

	pending          primitiveKind
	pendingRemaining int // points still expected via SetPoint
	pendingSeen      int // points already provided
	pendingFirstX    int32
	pendingFirstY    int32
}

func newFeatureBuilder(layer *LayerBuilder, gtype GeometryType) *featureBuilder {
	return &featureBuilder{layer: layer, gtype: gtype}
}

func (fb *featureBuilder) checkAlive() error {
	if fb.discarded {
		return &AssertError{Reason: "feature builder already discarded or committed"}
	}
	return nil
}

// SetID records the feature's id. Permitted only in INIT.
func (fb *featureBuilder) SetID(id uint64) error {
	if err := fb.checkAlive(); err != nil {
		return err
	}
	if fb.phase != phaseInit {
		return &AssertError{Reason: "set_id is only permitted before any geometry or property calls"}
	}
	fb.id = id
	fb.hasID = true
	fb.phase = phaseHasID
	return nil
}

func (fb *featureBuilder) checkStartPrimitive() error {
	if err := fb.checkAlive(); err != nil {
		return err
	}
	if fb.phase != phaseInit && fb.phase != phaseHasID && fb.phase != phaseGeometry {
		return &AssertError{Reason: "geometry operations are not permitted after add_property or commit"}
	}
	if fb.pending != primitiveNone {
		return &AssertError{Reason: "previous geometry primitive is incomplete"}
	}
	return nil
}

// addPoints implements the Point-type add_points(n) operation.
func (fb *featureBuilder) addPoints(n int) error {
	if err := fb.checkStartPrimitive(); err != nil {
		return err
	}
	if n <= 0 {
		return &AssertError{Reason: "add_points requires n > 0"}
	}
	if fb.pointDone {
		return &AssertError{Reason: "add_points may be called only once per Point feature"}
	}
	fb.commands = append(fb.commands, packCommand(cmdMoveTo, uint32(n)))
	fb.pending = primitivePoints
	fb.pendingRemaining = n
	fb.pendingSeen = 0
	fb.pointDone = true
	fb.phase = phaseGeometry
	return nil
}

// addLineString implements the LineString-type add_linestring(n) operation.
func (fb *featureBuilder) addLineString(n int) error {
	if err := fb.checkStartPrimitive(); err != nil {
		return err
	}
	if n < 2 {
		return &AssertError{Reason: "add_linestring requires n >= 2"}
	}
	fb.commands = append(fb.commands, packCommand(cmdMoveTo, 1))
	fb.pending = primitiveLineString
	fb.pendingRemaining = n
	fb.pendingSeen = 0
	fb.phase = phaseGeometry
	return nil
}

// addRing implements the Polygon-type add_ring(n) operation.
func (fb *featureBuilder) addRing(n int) error {
	if err := fb.checkStartPrimitive(); err != nil {
		return err
	}
	if n < 3 {
		return &AssertError{Reason: "add_ring requires n >= 3"}
	}
	fb.commands = append(fb.commands, packCommand(cmdMoveTo, 1))
	fb.pending = primitiveRing
	// n is the number of distinct ring corners: 1 via MoveTo plus n-1 via
	// LineTo. The nth corner's duplicate as an explicit closing point is
	// optional (close_ring covers it implicitly).
	fb.pendingRemaining = n
	fb.pendingSeen = 0
	fb.phase = phaseGeometry
	return nil
}

func (fb *featureBuilder) emitDelta(x, y int32) {
	dx := x - fb.cx
	dy := y - fb.cy
	fb.commands = append(fb.commands, zigzagEncode32(dx), zigzagEncode32(dy))
	fb.cx, fb.cy = x, y
}

// setPoint implements the shared set_point(x, y) operation.
func (fb *featureBuilder) setPoint(x, y int32) error {
	if err := fb.checkAlive(); err != nil {
		return err
	}
	if fb.pending == primitiveNone {
		return &AssertError{Reason: "set_point called with no geometry primitive in progress"}
	}

	switch fb.pending {
	case primitivePoints:
		if fb.pendingSeen >= fb.pendingRemaining {
			return &AssertError{Reason: "set_point called more times than add_points declared"}
		}
		fb.emitDelta(x, y)
		fb.pendingSeen++
		if fb.pendingSeen == fb.pendingRemaining {
			fb.pending = primitiveNone
		}
		return nil

	case primitiveLineString:
		if fb.pendingSeen >= fb.pendingRemaining {
			return &AssertError{Reason: "set_point called more times than add_linestring declared"}
		}
		if fb.pendingSeen == 0 {
			fb.emitDelta(x, y)
			// LineTo count is known upfront: n-1 points remain.
			fb.commands = append(fb.commands, packCommand(cmdLineTo, uint32(fb.pendingRemaining-1)))
		} else {
			fb.emitDelta(x, y)
		}
		fb.pendingSeen++
		if fb.pendingSeen == fb.pendingRemaining {
			fb.pending = primitiveNone
		}
		return nil

	case primitiveRing:
		if fb.pendingSeen > fb.pendingRemaining {
			return &AssertError{Reason: "set_point called more times than add_ring declared"}
		}
		if fb.pendingSeen == 0 {
			fb.emitDelta(x, y)
			fb.pendingFirstX, fb.pendingFirstY = x, y
			// LineTo count is fixed: n-1, one per remaining corner of add_ring(n).
			fb.commands = append(fb.commands, packCommand(cmdLineTo, uint32(fb.pendingRemaining-1)))
			fb.pendingSeen++
			return nil
		}
		if fb.pendingSeen < fb.pendingRemaining {
			fb.emitDelta(x, y)
			fb.pendingSeen++
			return nil
		}
		// pendingSeen == pendingRemaining: this is the optional duplicate
		// of the ring's start point, in lieu of an explicit close_ring().
		if x != fb.pendingFirstX || y != fb.pendingFirstY {
			return &AssertError{Reason: "final set_point of a ring must equal its start point, or call close_ring instead"}
		}
		fb.closeRingCommand()
		fb.pendingSeen++
		return nil

	default:
		return &AssertError{Reason: "set_point called with no geometry primitive in progress"}
	}
}

func (fb *featureBuilder) closeRingCommand() {
	fb.commands = append(fb.commands, packCommand(cmdClosePath, 1))
	fb.pending = primitiveNone
}

// closeRing implements the explicit close_ring() operation.
func (fb *featureBuilder) closeRing() error {
	if err := fb.checkAlive(); err != nil {
		return err
	}
	if fb.pending != primitiveRing {
		return &AssertError{Reason: "close_ring called with no ring in progress"}
	}
	if fb.pendingSeen != fb.pendingRemaining {
		return &AssertError{Reason: "close_ring called before the ring's points were all set"}
	}
	fb.closeRingCommand()
	return nil
}

// AddProperty interns raw key bytes and a raw value through the owning
// layer's indexes (or appends unconditionally if no index was configured)
// and records the tag pair. Permitted in GEOMETRY or PROPERTIES.
func (fb *featureBuilder) AddProperty(key []byte, val Value) error {
	if err := fb.checkPropertyPhase(); err != nil {
		return err
	}
	keyIdx := fb.layer.InternKey(key)
	valIdx := fb.layer.InternValue(val)
	fb.tags = append(fb.tags, uint64(keyIdx), uint64(valIdx))
	fb.phase = phaseProperties
	return nil
}

// AddPropertyIndex records a tag pair using already-resolved dictionary
// indices. Permitted in GEOMETRY or PROPERTIES.
func (fb *featureBuilder) AddPropertyIndex(keyIdx, valIdx int) error {
	if err := fb.checkPropertyPhase(); err != nil {
		return err
	}
	if keyIdx < 0 || keyIdx >= fb.layer.NumKeys() {
		return &OutOfRangeError{Index: keyIdx, Len: fb.layer.NumKeys()}
	}
	if valIdx < 0 || valIdx >= fb.layer.NumValues() {
		return &OutOfRangeError{Index: valIdx, Len: fb.layer.NumValues()}
	}
	fb.tags = append(fb.tags, uint64(keyIdx), uint64(valIdx))
	fb.phase = phaseProperties
	return nil
}

func (fb *featureBuilder) checkPropertyPhase() error {
	if err := fb.checkAlive(); err != nil {
		return err
	}
	if fb.phase != phaseGeometry && fb.phase != phaseProperties {
		return &AssertError{Reason: "add_property is only permitted after at least one geometry call"}
	}
	if fb.pending != primitiveNone {
		return &AssertError{Reason: "add_property called with an incomplete geometry primitive"}
	}
	return nil
}

// Commit finalizes the feature record and appends it to the owning layer
// builder. Permitted in any state >= GEOMETRY.
func (fb *featureBuilder) Commit() error {
	if err := fb.checkAlive(); err != nil {
		return err
	}
	if fb.phase != phaseGeometry && fb.phase != phaseProperties {
		return &AssertError{Reason: "commit requires at least one geometry call"}
	}
	if fb.pending != primitiveNone {
		return &AssertError{Reason: "commit called with an incomplete geometry primitive"}
	}
	if len(fb.tags)%2 != 0 {
		return &AssertError{Reason: "internal error: odd-length tags list"}
	}

	w := wire.NewWriter()
	if fb.hasID {
		w.TaggedVarint(fieldFeatureID, fb.id)
	}
	if len(fb.tags) > 0 {
		w.PackedVarints(fieldFeatureTags, fb.tags)
	}
	w.TaggedVarint(fieldFeatureType, uint64(fb.gtype))
	cmds := make([]uint64, len(fb.commands))
	for i, c := range fb.commands {
		cmds[i] = uint64(c)
	}
	w.PackedVarints(fieldFeatureGeometry, cmds)

	fb.layer.addFeature(w.Bytes())
	fb.phase = phaseCommitted
	fb.discarded = true
	return nil
}

// Discard abandons the feature builder without emitting a record. Since
// nothing is written to the layer builder's shared buffer until Commit,
// discarding simply stops using the builder; this method exists so callers
// (and tests) can make that explicit and guard against reuse afterward.
func (fb *featureBuilder) Discard() {
	fb.discarded = true
}

// PointFeatureBuilder builds one Point/MultiPoint feature.
type PointFeatureBuilder struct{ core *featureBuilder }

func (b *PointFeatureBuilder) SetID(id uint64) error         { return b.core.SetID(id) }
func (b *PointFeatureBuilder) AddPoints(n int) error         { return b.core.addPoints(n) }
func (b *PointFeatureBuilder) SetPoint(x, y int32) error     { return b.core.setPoint(x, y) }
func (b *PointFeatureBuilder) AddProperty(key []byte, v Value) error {
	return b.core.AddProperty(key, v)
}
func (b *PointFeatureBuilder) AddPropertyIndex(k, v int) error { return b.core.AddPropertyIndex(k, v) }
func (b *PointFeatureBuilder) Commit() error                   { return b.core.Commit() }
func (b *PointFeatureBuilder) Discard()                        { b.core.Discard() }

// LineStringFeatureBuilder builds one LineString/MultiLineString feature.
type LineStringFeatureBuilder struct{ core *featureBuilder }

func (b *LineStringFeatureBuilder) SetID(id uint64) error     { return b.core.SetID(id) }
func (b *LineStringFeatureBuilder) AddLineString(n int) error { return b.core.addLineString(n) }
func (b *LineStringFeatureBuilder) SetPoint(x, y int32) error { return b.core.setPoint(x, y) }
func (b *LineStringFeatureBuilder) AddProperty(key []byte, v Value) error {
	return b.core.AddProperty(key, v)
}
func (b *LineStringFeatureBuilder) AddPropertyIndex(k, v int) error {
	return b.core.AddPropertyIndex(k, v)
}
func (b *LineStringFeatureBuilder) Commit() error { return b.core.Commit() }
func (b *LineStringFeatureBuilder) Discard()      { b.core.Discard() }

// PolygonFeatureBuilder builds one Polygon/MultiPolygon feature.
type PolygonFeatureBuilder struct{ core *featureBuilder }

func (b *PolygonFeatureBuilder) SetID(id uint64) error     { return b.core.SetID(id) }
func (b *PolygonFeatureBuilder) AddRing(n int) error       { return b.core.addRing(n) }
func (b *PolygonFeatureBuilder) SetPoint(x, y int32) error { return b.core.setPoint(x, y) }
func (b *PolygonFeatureBuilder) CloseRing() error          { return b.core.closeRing() }
func (b *PolygonFeatureBuilder) AddProperty(key []byte, v Value) error {
	return b.core.AddProperty(key, v)
}
func (b *PolygonFeatureBuilder) AddPropertyIndex(k, v int) error {
	return b.core.AddPropertyIndex(k, v)
}
func (b *PolygonFeatureBuilder) Commit() error { return b.core.Commit() }
func (b *PolygonFeatureBuilder) Discard()      { b.core.Discard() }
