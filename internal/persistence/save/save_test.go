package save

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func sampleMap() ExtensionMap {
	return ExtensionMap{
		"grid":      bytes.Repeat([]byte{0, 0, 0, 7}, 400),
		"clock":     {1, 2, 3, 4, 5, 6, 7, 8},
		"budget":    {9, 9, 9},
		"citizens":  {},
		"ext.crime": {42},
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	m := sampleMap()
	img, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(img)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != len(m) {
		t.Fatalf("key count: got %d want %d", len(got), len(m))
	}
	for k, v := range m {
		if !bytes.Equal(got[k], v) {
			t.Fatalf("key %q mismatch", k)
		}
	}
}

func TestEncode_ByteStable(t *testing.T) {
	m := sampleMap()
	a, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec, err := Decode(a)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b, err := Encode(dec)
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("encode(decode(encode(m))) differs from encode(m)")
	}
}

func TestDecode_FlipAnyPayloadByteFails(t *testing.T) {
	img, err := Encode(sampleMap())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i := HeaderSize; i < len(img); i++ {
		corrupt := make([]byte, len(img))
		copy(corrupt, img)
		corrupt[i] ^= 0xFF
		if _, err := Decode(corrupt); err == nil {
			t.Fatalf("flipping payload byte %d went undetected", i)
		}
	}
}

func TestDecode_TruncatedHeader(t *testing.T) {
	img, err := Encode(sampleMap())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, n := range []int{4, 5, HeaderSize - 1} {
		if _, err := Decode(img[:n]); !errors.Is(err, ErrTruncated) {
			t.Fatalf("truncation at %d: got %v, want ErrTruncated", n, err)
		}
	}
}

func TestDecode_TruncatedPayload(t *testing.T) {
	img, err := Encode(sampleMap())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, n := range []int{HeaderSize, HeaderSize + 1, len(img) / 2, len(img) - 1} {
		if n > len(img) {
			continue
		}
		if _, err := Decode(img[:n]); err == nil {
			t.Fatalf("truncation at %d went undetected", n)
		}
	}
}

func TestDecode_LegacyBodyWithoutHeader(t *testing.T) {
	m := sampleMap()
	legacy := EncodeExtensionMap(m)
	got, err := Decode(legacy)
	if err != nil {
		t.Fatalf("Decode legacy: %v", err)
	}
	if !bytes.Equal(got["clock"], m["clock"]) {
		t.Fatalf("legacy decode mismatch")
	}
}

func TestDecode_RandomBytesNeverPanic(t *testing.T) {
	// xorshift64, same generator the sim uses, inlined to keep the package
	// dependency-free.
	state := uint64(0xDEADBEEFCAFE)
	next := func() uint64 {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		return state
	}
	for trial := 0; trial < 200; trial++ {
		n := int(next() % 512)
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = byte(next())
		}
		if trial%2 == 0 && n >= 4 {
			copy(buf, Magic[:])
		}
		_, _ = Decode(buf) // must not panic
	}
}

func TestDecode_UnsupportedVersion(t *testing.T) {
	img := WrapHeader(Header{Version: Version + 1}, EncodeExtensionMap(ExtensionMap{}))
	if _, err := Decode(img); !errors.Is(err, ErrBadVersion) {
		t.Fatalf("got %v, want ErrBadVersion", err)
	}
}

func TestWriteReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slots", "slot1.mega")
	m := sampleMap()
	if err := WriteFile(path, m); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got["grid"], m["grid"]) {
		t.Fatalf("file round trip mismatch")
	}
}

func TestExtensionMap_EmptyIsValid(t *testing.T) {
	img, err := Encode(ExtensionMap{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(img)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty map, got %d keys", len(got))
	}
}
