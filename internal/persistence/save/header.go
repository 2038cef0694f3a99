// Package save implements the on-disk save format: a fixed 28-byte header
// wrapping an extension-map payload, optionally zstd-compressed.
//
// Layout (little-endian):
//
//	[ Magic:4 | Version:u32 | Flags:u32 | Reserved:u64 | UncompressedSize:u32 | Checksum:u32 ]
//	[ Payload ]
//
// The checksum is CRC-32 (IEEE) over the stored payload bytes, i.e. after
// compression when FlagZstd is set. Files that do not start with the magic
// are treated as legacy saves whose entire body is the payload.
package save

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
)

const (
	HeaderSize = 28
	Version    = 2

	// FlagZstd marks a zstd-compressed payload.
	FlagZstd uint32 = 1 << 0
)

var Magic = [4]byte{'M', 'E', 'G', 'A'}

var (
	ErrTruncated   = errors.New("save: truncated header")
	ErrBadChecksum = errors.New("save: payload checksum mismatch")
	ErrBadVersion  = errors.New("save: unsupported version")
)

type Header struct {
	Version          uint32
	Flags            uint32
	Reserved         uint64 // no defined meaning; preserved verbatim
	UncompressedSize uint32
	Checksum         uint32
}

// WrapHeader prepends a header to the stored payload bytes.
func WrapHeader(h Header, payload []byte) []byte {
	out := make([]byte, 0, HeaderSize+len(payload))
	out = append(out, Magic[:]...)
	out = binary.LittleEndian.AppendUint32(out, h.Version)
	out = binary.LittleEndian.AppendUint32(out, h.Flags)
	out = binary.LittleEndian.AppendUint64(out, h.Reserved)
	out = binary.LittleEndian.AppendUint32(out, h.UncompressedSize)
	out = binary.LittleEndian.AppendUint32(out, crc32.ChecksumIEEE(payload))
	out = append(out, payload...)
	return out
}

// UnwrapResult distinguishes headered saves from legacy bodies.
type UnwrapResult struct {
	Header  Header
	Payload []byte
	Legacy  bool
}

// UnwrapHeader validates the header and checksum and returns the payload.
// A file without the magic is returned whole as a legacy payload. Malformed
// headered files return an error; this function never panics on any input.
func UnwrapHeader(file []byte) (UnwrapResult, error) {
	if len(file) < len(Magic) || [4]byte(file[:4]) != Magic {
		return UnwrapResult{Payload: file, Legacy: true}, nil
	}
	if len(file) < HeaderSize {
		return UnwrapResult{}, ErrTruncated
	}
	h := Header{
		Version:          binary.LittleEndian.Uint32(file[4:8]),
		Flags:            binary.LittleEndian.Uint32(file[8:12]),
		Reserved:         binary.LittleEndian.Uint64(file[12:20]),
		UncompressedSize: binary.LittleEndian.Uint32(file[20:24]),
		Checksum:         binary.LittleEndian.Uint32(file[24:28]),
	}
	if h.Version == 0 || h.Version > Version {
		return UnwrapResult{}, fmt.Errorf("%w: %d", ErrBadVersion, h.Version)
	}
	payload := file[HeaderSize:]
	if crc32.ChecksumIEEE(payload) != h.Checksum {
		return UnwrapResult{}, ErrBadChecksum
	}
	return UnwrapResult{Header: h, Payload: payload}, nil
}
