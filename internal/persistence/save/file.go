package save

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Encode serializes an extension map into a complete headered file image.
// Payloads are zstd-compressed; tiny payloads where compression loses are
// stored raw with the flag cleared.
func Encode(m ExtensionMap) ([]byte, error) {
	raw := EncodeExtensionMap(m)

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	compressed := enc.EncodeAll(raw, nil)
	_ = enc.Close()

	h := Header{Version: Version, UncompressedSize: uint32(len(raw))}
	payload := raw
	if len(compressed) < len(raw) {
		h.Flags |= FlagZstd
		payload = compressed
	}
	return WrapHeader(h, payload), nil
}

// Decode parses a file image produced by Encode, or a legacy body that is a
// bare extension map.
func Decode(file []byte) (ExtensionMap, error) {
	res, err := UnwrapHeader(file)
	if err != nil {
		return nil, err
	}
	payload := res.Payload
	if !res.Legacy && res.Header.Flags&FlagZstd != 0 {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		limit := uint64(res.Header.UncompressedSize) + 1
		raw, err := dec.DecodeAll(payload, make([]byte, 0, min(limit, 1<<26)))
		if err != nil {
			return nil, fmt.Errorf("save: decompress: %w", err)
		}
		if uint32(len(raw)) != res.Header.UncompressedSize {
			return nil, fmt.Errorf("save: uncompressed size mismatch: header %d, got %d",
				res.Header.UncompressedSize, len(raw))
		}
		payload = raw
	}
	return DecodeExtensionMap(payload)
}

// WriteFile atomically writes a save: temp file in the same directory, then
// rename over the destination.
func WriteFile(path string, m ExtensionMap) error {
	img, err := Encode(m)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, img, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func ReadFile(path string) (ExtensionMap, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(b)
}

func min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
