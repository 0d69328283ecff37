package tile

import "fmt"

// FormatError indicates a structural violation of the wire format: an
// unknown field in a layer, a missing required name, a duplicate scalar in
// a value record, a misaligned tag list, or a malformed record payload.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("mvt: format error: %s", e.Reason)
}

// VersionError indicates a layer declared a version outside {1, 2}.
type VersionError struct {
	Got uint32
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("mvt: unsupported layer version %d (want 1 or 2)", e.Got)
}

// GeometryError indicates a command-stream violation: an unexpected
// command, truncated parameters, trailing data, a ClosePath with the wrong
// count, or a strict-mode constraint violation.
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("mvt: geometry error: %s", e.Reason)
}

// TypeError indicates a property value was accessed as the wrong scalar
// type, or a feature's geometry was decoded as the wrong geometry type.
type TypeError struct {
	Reason string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("mvt: type error: %s", e.Reason)
}

// OutOfRangeError indicates a tag index (key or value) beyond the
// dictionary's size.
type OutOfRangeError struct {
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("mvt: index %d out of range (dictionary has %d entries)", e.Index, e.Len)
}

// AssertError indicates a builder precondition violation: a method called
// in the wrong state, a wrong number of set_point calls, add_ring with
// n < 3, or a stray close_ring. These are programmer errors, not runtime
// format errors, but are returned rather than panicked so callers (and
// tests) can catch them.
type AssertError struct {
	Reason string
}

func (e *AssertError) Error() string {
	return fmt.Sprintf("mvt: assertion failed: %s", e.Reason)
}

// wrapWireErr converts a raw internal/wire error (truncated varint,
// truncated fixed32/64, overrunning length-delimited payload) into a
// *FormatError so callers can type-switch on spec.md §7's six kinds
// instead of seeing an opaque error. Errors already typed by this package
// pass through unchanged.
func wrapWireErr(err error) error {
	if err == nil {
		return nil
	}
	switch err.(type) {
	case *FormatError, *VersionError, *GeometryError, *TypeError, *OutOfRangeError, *AssertError:
		return err
	default:
		return &FormatError{Reason: err.Error()}
	}
}
