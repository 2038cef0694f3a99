package encoding

import (
	"encoding/binary"
	"fmt"
)

// EncodeRLEU8 encodes a byte grid as (value, run_len) uvarint pairs.
// City grids are dominated by long zero runs, so this typically shrinks a
// 64 KiB grid to a few hundred bytes.
func EncodeRLEU8(vals []uint8) []byte {
	var tmp [binary.MaxVarintLen64]byte
	out := make([]byte, 0, 512)

	i := 0
	for i < len(vals) {
		v := vals[i]
		run := 1
		for j := i + 1; j < len(vals) && vals[j] == v; j++ {
			run++
		}
		n := binary.PutUvarint(tmp[:], uint64(v))
		out = append(out, tmp[:n]...)
		n = binary.PutUvarint(tmp[:], uint64(run))
		out = append(out, tmp[:n]...)
		i += run
	}
	return out
}

// DecodeRLEU8 decodes into a slice of exactly want values. A stream that
// decodes to any other length is malformed.
func DecodeRLEU8(raw []byte, want int) ([]uint8, error) {
	out := make([]uint8, 0, want)
	for i := 0; i < len(raw); {
		v, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("rle: bad value varint at %d", i)
		}
		i += n
		run, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("rle: bad run varint at %d", i)
		}
		i += n
		if v > 0xFF {
			return nil, fmt.Errorf("rle: value %d out of byte range", v)
		}
		if run > uint64(want-len(out)) {
			return nil, fmt.Errorf("rle: run overflows grid (%d values, want %d)", uint64(len(out))+run, want)
		}
		for k := uint64(0); k < run; k++ {
			out = append(out, uint8(v))
		}
	}
	if len(out) != want {
		return nil, fmt.Errorf("rle: decoded %d values, want %d", len(out), want)
	}
	return out, nil
}

// EncodeRLEU16 is the 16-bit variant used for packed cell records.
func EncodeRLEU16(vals []uint16) []byte {
	var tmp [binary.MaxVarintLen64]byte
	out := make([]byte, 0, 1024)

	i := 0
	for i < len(vals) {
		v := vals[i]
		run := 1
		for j := i + 1; j < len(vals) && vals[j] == v; j++ {
			run++
		}
		n := binary.PutUvarint(tmp[:], uint64(v))
		out = append(out, tmp[:n]...)
		n = binary.PutUvarint(tmp[:], uint64(run))
		out = append(out, tmp[:n]...)
		i += run
	}
	return out
}

func DecodeRLEU16(raw []byte, want int) ([]uint16, error) {
	out := make([]uint16, 0, want)
	for i := 0; i < len(raw); {
		v, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("rle: bad value varint at %d", i)
		}
		i += n
		run, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("rle: bad run varint at %d", i)
		}
		i += n
		if v > 0xFFFF {
			return nil, fmt.Errorf("rle: value %d out of u16 range", v)
		}
		if run > uint64(want-len(out)) {
			return nil, fmt.Errorf("rle: run overflows grid (%d values, want %d)", uint64(len(out))+run, want)
		}
		for k := uint64(0); k < run; k++ {
			out = append(out, uint16(v))
		}
	}
	if len(out) != want {
		return nil, fmt.Errorf("rle: decoded %d values, want %d", len(out), want)
	}
	return out, nil
}
