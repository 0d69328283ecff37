// Package wire implements the binary record primitives MVT is built on:
// field-header iteration plus varint, zigzag-varint, fixed32, fixed64 and
// length-delimited payload access, and the matching writers.
//
// This is the record codec spec.md §4.1 describes as an external
// collaborator whose contract is referenced, not redesigned: a generic
// length-prefixed tag-value reader, not an MVT-specific parser. Nothing in
// this package knows what a Tile, Layer, or Feature is.
package wire

import (
	"encoding/binary"
	"fmt"
)

// WireType is the three-bit type tag attached to every field header.
type WireType uint8

const (
	Varint          WireType = 0
	Fixed64         WireType = 1
	LengthDelimited WireType = 2
	Fixed32         WireType = 5
)

// Reader iterates (field_number, wire_type) headers over a byte slice and
// reads the payload that follows each one. It does not copy the source
// slice; length-delimited reads return sub-slices aliasing it.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for iteration. buf is not copied; callers must keep
// it alive for the Reader's lifetime.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len reports the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.pos }

// Done reports whether the cursor has reached the end of buf.
func (r *Reader) Done() bool { return r.pos >= len(r.buf) }

// Next reads the next field header. It returns io.EOF-equivalent ok=false
// when the cursor is at the end of buf.
func (r *Reader) Next() (field int, wt WireType, ok bool, err error) {
	if r.Done() {
		return 0, 0, false, nil
	}
	tag, n, derr := r.readVarintAt(r.pos)
	if derr != nil {
		return 0, 0, false, derr
	}
	r.pos += n
	field = int(tag >> 3)
	wt = WireType(tag & 0x7)
	return field, wt, true, nil
}

// Skip discards the payload belonging to the wire type just read by Next.
func (r *Reader) Skip(wt WireType) error {
	switch wt {
	case Varint:
		_, err := r.Varint()
		return err
	case Fixed64:
		_, err := r.Fixed64()
		return err
	case Fixed32:
		_, err := r.Fixed32()
		return err
	case LengthDelimited:
		_, err := r.Bytes()
		return err
	default:
		return fmt.Errorf("wire: unknown wire type %d", wt)
	}
}

// Varint reads an unsigned varint payload.
func (r *Reader) Varint() (uint64, error) {
	v, n, err := r.readVarintAt(r.pos)
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

// SVarint reads a zigzag-encoded signed varint payload.
func (r *Reader) SVarint() (int64, error) {
	u, err := r.Varint()
	if err != nil {
		return 0, err
	}
	return ZigZagDecode(u), nil
}

// Fixed32 reads a little-endian 32-bit payload.
func (r *Reader) Fixed32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, fmt.Errorf("wire: truncated fixed32")
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

// Fixed64 reads a little-endian 64-bit payload.
func (r *Reader) Fixed64() (uint64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, fmt.Errorf("wire: truncated fixed64")
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

// Bytes reads a length-delimited payload and returns a sub-slice of the
// source buffer; no copy is made.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.Varint()
	if err != nil {
		return nil, err
	}
	end := r.pos + int(n)
	if n > uint64(len(r.buf)) || end > len(r.buf) || end < r.pos {
		return nil, fmt.Errorf("wire: length-delimited payload of %d bytes exceeds remaining buffer", n)
	}
	v := r.buf[r.pos:end]
	r.pos = end
	return v, nil
}

// PackedVarints reads a length-delimited payload and decodes it as a
// sequence of unsigned varints (the packed-repeated encoding used by the
// geometry and tags fields).
func (r *Reader) PackedVarints() ([]uint64, error) {
	payload, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	sub := NewReader(payload)
	out := make([]uint64, 0, len(payload))
	for !sub.Done() {
		v, n, derr := sub.readVarintAt(sub.pos)
		if derr != nil {
			return nil, derr
		}
		sub.pos += n
		out = append(out, v)
	}
	return out, nil
}

func (r *Reader) readVarintAt(pos int) (uint64, int, error) {
	var v uint64
	var shift uint
	for i := 0; ; i++ {
		if pos+i >= len(r.buf) {
			return 0, 0, fmt.Errorf("wire: truncated varint")
		}
		b := r.buf[pos+i]
		if shift >= 64 {
			return 0, 0, fmt.Errorf("wire: varint too long")
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
		shift += 7
	}
}

// ZigZagEncode maps a signed integer to its zigzag unsigned encoding.
func ZigZagEncode(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// ZigZagDecode maps a zigzag unsigned encoding back to a signed integer.
func ZigZagDecode(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}
