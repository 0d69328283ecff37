package wire

import "encoding/binary"

// Writer appends field headers and payloads to a growing byte buffer.
// It is the symmetric counterpart to Reader; nothing about it is
// MVT-specific.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Len reports the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Bytes returns the accumulated buffer. The caller must not retain it past
// further writes, which may reallocate.
func (w *Writer) Bytes() []byte { return w.buf }

// Raw appends b verbatim, with no length prefix or field header. Used to
// splice in an already-framed sequence of records (e.g. a layer builder's
// pre-tagged "features" entries).
func (w *Writer) Raw(b []byte) {
	w.buf = append(w.buf, b...)
}

// Tag appends a field header.
func (w *Writer) Tag(field int, wt WireType) {
	w.Varint(uint64(field)<<3 | uint64(wt))
}

// Varint appends an unsigned varint.
func (w *Writer) Varint(v uint64) {
	for v >= 0x80 {
		w.buf = append(w.buf, byte(v)|0x80)
		v >>= 7
	}
	w.buf = append(w.buf, byte(v))
}

// SVarint appends a zigzag-encoded signed varint.
func (w *Writer) SVarint(v int64) {
	w.Varint(ZigZagEncode(v))
}

// Fixed32 appends a little-endian 32-bit value.
func (w *Writer) Fixed32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// Fixed64 appends a little-endian 64-bit value.
func (w *Writer) Fixed64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// LengthDelimited appends a length-delimited payload (no field header).
func (w *Writer) LengthDelimited(v []byte) {
	w.Varint(uint64(len(v)))
	w.buf = append(w.buf, v...)
}

// TaggedBytes appends a length-delimited field: header then payload.
func (w *Writer) TaggedBytes(field int, v []byte) {
	w.Tag(field, LengthDelimited)
	w.LengthDelimited(v)
}

// TaggedVarint appends a varint field: header then value.
func (w *Writer) TaggedVarint(field int, v uint64) {
	w.Tag(field, Varint)
	w.Varint(v)
}

// TaggedFixed32 appends a fixed32 field: header then value.
func (w *Writer) TaggedFixed32(field int, v uint32) {
	w.Tag(field, Fixed32)
	w.Fixed32(v)
}

// TaggedFixed64 appends a fixed64 field: header then value.
func (w *Writer) TaggedFixed64(field int, v uint64) {
	w.Tag(field, Fixed64)
	w.Fixed64(v)
}

// PackedVarints appends a length-delimited field holding a sequence of
// unsigned varints (the packed-repeated encoding used for tags and
// geometry).
func (w *Writer) PackedVarints(field int, values []uint64) {
	sub := NewWriter()
	for _, v := range values {
		sub.Varint(v)
	}
	w.TaggedBytes(field, sub.buf)
}
