package models

import (
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	asyncFlushDelay = 25 * time.Millisecond
	asyncMaxChunks  = 1000
	asyncMaxBytes   = 64000
)

var ErrStreamClosed = errors.New("async stream is closed")

// AsyncStream moves writes to a background goroutine that batches them
// into the underlying writer. The first write error is sticky and is
// returned by later writes and by Close.
type AsyncStream struct {
	w      io.WriteCloser
	queue  chan []byte
	done   chan struct{}
	mu     sync.Mutex
	closed bool

	errMu sync.Mutex
	err   error
}

func NewAsyncStream(w io.WriteCloser) *AsyncStream {
	a := &AsyncStream{
		w:     w,
		queue: make(chan []byte, asyncMaxChunks),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *AsyncStream) setErr(err error) {
	a.errMu.Lock()
	if a.err == nil {
		a.err = err
	}
	a.errMu.Unlock()
}

func (a *AsyncStream) Err() error {
	a.errMu.Lock()
	defer a.errMu.Unlock()
	return a.err
}

func (a *AsyncStream) flush(pending [][]byte) {
	if a.Err() != nil {
		return
	}
	for _, p := range pending {
		if _, err := a.w.Write(p); err != nil {
			a.setErr(errors.Wrap(err, "async write"))
			return
		}
	}
}

func (a *AsyncStream) run() {
	defer close(a.done)
	var pending [][]byte
	size := 0
	t := time.NewTimer(asyncFlushDelay)
	t.Stop()
	for {
		select {
		case p, ok := <-a.queue:
			if !ok {
				t.Stop()
				a.flush(pending)
				return
			}
			if len(pending) == 0 {
				t.Reset(asyncFlushDelay)
			}
			pending = append(pending, p)
			size += len(p)
			if len(pending) >= asyncMaxChunks || size >= asyncMaxBytes {
				a.flush(pending)
				pending, size = pending[:0], 0
			}
		case <-t.C:
			a.flush(pending)
			pending, size = pending[:0], 0
		}
	}
}

func (a *AsyncStream) Write(p []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return 0, ErrStreamClosed
	}
	if err := a.Err(); err != nil {
		return 0, err
	}
	tmp := make([]byte, len(p))
	copy(tmp, p)
	a.queue <- tmp
	return len(p), nil
}

// Close drains queued writes and closes the underlying writer.
func (a *AsyncStream) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrStreamClosed
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()
	<-a.done
	if err := a.w.Close(); err != nil {
		a.setErr(err)
	}
	return a.Err()
}
