package save

import (
	"fmt"
	"sort"

	"github.com/dzautner/megacity-sub002/internal/sim/encoding"
)

// ExtensionMap is the key→bytes table every saveable resource writes into.
// Keys are stable string names; unknown keys are preserved so older clients
// never destroy data written by newer ones.
type ExtensionMap map[string][]byte

// Keys returns the keys in encoding order (sorted ascending).
func (m ExtensionMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EncodeExtensionMap produces the canonical sorted-key encoding. Encoding the
// same map twice yields identical bytes.
func EncodeExtensionMap(m ExtensionMap) []byte {
	w := encoding.NewWriter()
	w.PutUvarint(uint64(len(m)))
	for _, k := range m.Keys() {
		w.PutString(k)
		w.PutBytes(m[k])
	}
	return w.Bytes()
}

// DecodeExtensionMap parses a payload. Malformed input returns an error,
// never a panic. Values are copied out of the input buffer.
func DecodeExtensionMap(payload []byte) (ExtensionMap, error) {
	r := encoding.NewReader(payload)
	n := r.Uvarint()
	if r.Err() != nil {
		return nil, fmt.Errorf("extension map: %w", r.Err())
	}
	if n > uint64(len(payload)) {
		return nil, fmt.Errorf("extension map: entry count %d exceeds payload size", n)
	}
	m := make(ExtensionMap, n)
	for i := uint64(0); i < n; i++ {
		k := r.String()
		v := r.Bytes()
		if r.Err() != nil {
			return nil, fmt.Errorf("extension map entry %d: %w", i, r.Err())
		}
		cp := make([]byte, len(v))
		copy(cp, v)
		m[k] = cp
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("extension map: %d trailing bytes", r.Remaining())
	}
	return m, nil
}
