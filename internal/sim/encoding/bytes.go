// Package encoding provides the little-endian byte codec used by every
// saveable resource. Encoders must be deterministic: the same value always
// produces the same bytes, so save round-trips are byte-stable.
package encoding

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Writer appends little-endian primitives to an internal buffer.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 256)}
}

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) PutU8(v uint8)  { w.buf = append(w.buf, v) }
func (w *Writer) PutBool(v bool) { w.buf = append(w.buf, boolByte(v)) }

func (w *Writer) PutU16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) PutU32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) PutU64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *Writer) PutI32(v int32) { w.PutU32(uint32(v)) }
func (w *Writer) PutI64(v int64) { w.PutU64(uint64(v)) }

func (w *Writer) PutF32(v float32) { w.PutU32(math.Float32bits(v)) }
func (w *Writer) PutF64(v float64) { w.PutU64(math.Float64bits(v)) }

func (w *Writer) PutUvarint(v uint64) {
	w.buf = binary.AppendUvarint(w.buf, v)
}

// PutBytes writes a length-prefixed byte slice.
func (w *Writer) PutBytes(b []byte) {
	w.PutUvarint(uint64(len(b)))
	w.buf = append(w.buf, b...)
}

// PutString writes a length-prefixed UTF-8 string.
func (w *Writer) PutString(s string) {
	w.PutUvarint(uint64(len(s)))
	w.buf = append(w.buf, s...)
}

// PutRaw appends bytes without a length prefix.
func (w *Writer) PutRaw(b []byte) {
	w.buf = append(w.buf, b...)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// Reader consumes little-endian primitives from a byte slice. All reads are
// bounds-checked; a short buffer yields an error, never a panic.
type Reader struct {
	buf []byte
	off int
	err error
}

func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Err returns the first decode error encountered, if any.
func (r *Reader) Err() error { return r.err }

// Remaining reports how many bytes are left unread.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) fail(what string) {
	if r.err == nil {
		r.err = fmt.Errorf("decode %s: truncated at offset %d", what, r.off)
	}
}

func (r *Reader) take(n int, what string) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) || n < 0 {
		r.fail(what)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) U8() uint8 {
	b := r.take(1, "u8")
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) Bool() bool { return r.U8() != 0 }

func (r *Reader) U16() uint16 {
	b := r.take(2, "u16")
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *Reader) U32() uint32 {
	b := r.take(4, "u32")
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) U64() uint64 {
	b := r.take(8, "u64")
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *Reader) I32() int32 { return int32(r.U32()) }
func (r *Reader) I64() int64 { return int64(r.U64()) }

func (r *Reader) F32() float32 { return math.Float32frombits(r.U32()) }
func (r *Reader) F64() float64 { return math.Float64frombits(r.U64()) }

func (r *Reader) Uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.buf[r.off:])
	if n <= 0 {
		r.fail("uvarint")
		return 0
	}
	r.off += n
	return v
}

// Bytes reads a length-prefixed byte slice. The returned slice aliases the
// underlying buffer.
func (r *Reader) Bytes() []byte {
	n := r.Uvarint()
	if r.err != nil {
		return nil
	}
	if n > uint64(r.Remaining()) {
		r.fail("bytes")
		return nil
	}
	return r.take(int(n), "bytes")
}

func (r *Reader) String() string {
	return string(r.Bytes())
}
