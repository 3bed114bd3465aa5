// Package trace reads and writes recorded call streams: a fixed header
// followed by a snappy-compressed sequence of ops.
package trace

import (
	"io"
	"strings"
	"sync"

	"github.com/golang/snappy"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/lunixbochs/fxshim/go/models"
)

var TRACE_MAGIC = "FXCR"

const TRACE_VERSION = 1

type TraceHeader struct {
	// MAGIC ("FXCR")
	Magic string `struc:"[4]byte" json:"-"`
	// file format version
	Version uint32 `json:"version"`
	// Foreign ABI of the recorded calls. Right-null-padded.
	Arch string `struc:"[32]byte" json:"arch"`
	OS   string `struc:"[32]byte" json:"os"`
	// Native kernel the calls were served by. Right-null-padded.
	Native string `struc:"[32]byte" json:"native"`
}

// TraceWriter is safe for concurrent use, so it can record calls from several threads.
type TraceWriter struct {
	mu    sync.Mutex
	w     io.WriteCloser
	zw    *snappy.Writer
	buf   []byte
	Calls int
}

func NewWriter(w io.WriteCloser, native string) (*TraceWriter, error) {
	header := &TraceHeader{
		Magic:   TRACE_MAGIC,
		Version: TRACE_VERSION,
		Arch:    "x86_64",
		OS:      "linux",
		Native:  native,
	}
	if err := struc.Pack(w, header); err != nil {
		return nil, errors.Wrap(err, "failed to pack header")
	}
	return &TraceWriter{w: w, zw: snappy.NewBufferedWriter(w)}, nil
}

// write a frame at a time
func (t *TraceWriter) Pack(op models.Op) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := op.Sizeof()
	if cap(t.buf) < size {
		t.buf = make([]byte, size)
	}
	p := t.buf[:size]
	op.Pack(p)
	_, err := t.zw.Write(p)
	return errors.Wrap(err, "writing trace op")
}

// Record stores one dispatched call.
func (t *TraceWriter) Record(num int64, args [6]int64, ret int64) error {
	if err := t.Pack(&OpCall{Num: num, Args: args, Ret: ret}); err != nil {
		return err
	}
	t.mu.Lock()
	t.Calls++
	t.mu.Unlock()
	return nil
}

func (t *TraceWriter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.zw.Close(); err != nil {
		t.w.Close()
		return errors.Wrap(err, "flushing trace")
	}
	return t.w.Close()
}

type TraceReader struct {
	r      io.ReadCloser
	zr     *snappy.Reader
	Header TraceHeader
}

func NewReader(r io.ReadCloser) (*TraceReader, error) {
	t := &TraceReader{r: r}
	if err := struc.Unpack(r, &t.Header); err != nil {
		return nil, errors.Wrap(err, "failed to unpack header")
	}
	if t.Header.Magic != TRACE_MAGIC {
		return nil, errors.New("invalid trace file magic")
	}
	if t.Header.Version != TRACE_VERSION {
		return nil, errors.Errorf("unsupported trace version %d", t.Header.Version)
	}
	t.Header.Arch = strings.TrimRight(t.Header.Arch, "\x00")
	t.Header.OS = strings.TrimRight(t.Header.OS, "\x00")
	t.Header.Native = strings.TrimRight(t.Header.Native, "\x00")
	t.zr = snappy.NewReader(r)
	return t, nil
}

// Next returns the next op, or io.EOF at the end of the stream.
func (t *TraceReader) Next() (models.Op, error) {
	op, _, err := Unpack(t.zr)
	return op, err
}

func (t *TraceReader) Close() {
	t.zr.Reset(nil)
	t.r.Close()
}
