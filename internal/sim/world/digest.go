package world

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/dzautner/megacity-sub002/internal/persistence/save"
)

// Digest hashes the canonical save encoding of the full world state. Two
// worlds with the same digest are byte-for-byte the same city.
func (w *World) Digest() [32]byte {
	return sha256.Sum256(save.EncodeExtensionMap(w.ExportSave()))
}

// DigestHex is the short form used in logs and journal entries.
func (w *World) DigestHex() string {
	d := w.Digest()
	return hex.EncodeToString(d[:])[:16]
}
