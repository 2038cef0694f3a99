// Package journal records every applied command as one JSONL entry in a
// zstd-compressed stream. Replaying a journal against the same seed and
// save reproduces the world bit for bit; periodic digest entries let the
// replayer verify it stayed on track.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/dzautner/megacity-sub002/internal/protocol"
)

// Entry is one journal line. Command entries carry the envelope and its
// result; digest entries carry only the tick and the state digest.
type Entry struct {
	Tick     uint64            `json:"tick"`
	Cmd      *protocol.Command `json:"cmd,omitempty"`
	Accepted bool              `json:"accepted,omitempty"`
	Code     string            `json:"code,omitempty"`
	Digest   string            `json:"digest,omitempty"`
}

// Writer appends entries to a compressed journal file.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewWriter opens (or creates) a journal for appending.
func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{f: f, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}, nil
}

// Append writes one entry and flushes it through the compressor.
func (w *Writer) Append(e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return errors.New("journal: writer closed")
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

// Command records an applied command.
func (w *Writer) Command(tick uint64, cmd protocol.Command, res protocol.Result) error {
	return w.Append(Entry{Tick: tick, Cmd: &cmd, Accepted: res.Accepted, Code: res.Code})
}

// Digest records a state digest checkpoint.
func (w *Writer) Digest(tick uint64, digest string) error {
	return w.Append(Entry{Tick: tick, Digest: digest})
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return nil
	}
	_ = w.w.Flush()
	err := w.enc.Close()
	cerr := w.f.Close()
	w.w, w.enc, w.f = nil, nil, nil
	if err != nil {
		return err
	}
	return cerr
}

// Reader streams entries back out of a journal file.
type Reader struct {
	f   *os.File
	dec *zstd.Decoder
	sc  *bufio.Scanner
}

func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Reader{f: f, dec: dec, sc: sc}, nil
}

// Next returns the next entry, or io.EOF at the end of the stream.
func (r *Reader) Next() (Entry, error) {
	var e Entry
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return e, err
		}
		return e, io.EOF
	}
	if err := json.Unmarshal(r.sc.Bytes(), &e); err != nil {
		return e, fmt.Errorf("journal: bad entry: %w", err)
	}
	return e, nil
}

func (r *Reader) Close() error {
	r.dec.Close()
	return r.f.Close()
}
