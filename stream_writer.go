// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx

import "io"

// syncer is the durability hook of os.File-like destinations.
type syncer interface {
	Sync() error
}

// flusher is the process-level flush hook of bufio-like destinations.
type flusher interface {
	Flush() error
}

// truncater is the shrink hook of os.File-like destinations.
type truncater interface {
	Truncate(size int64) error
}

// StreamWriter writes to an io.Writer through a BufferedWriter staging
// buffer. Optional destination abilities are picked up by interface:
// io.Seeker enables Seek and Size, Truncate(int64) enables Truncate,
// and Sync()/Flush() let Flush levels above FlushFromObject reach the
// destination.
type StreamWriter struct {
	BufferedWriter
	dest  io.Writer
	owned bool
}

// NewStreamWriter returns a StreamWriter over dest.
func NewStreamWriter(dest io.Writer, opts ...Option) *StreamWriter {
	o := makeOptions(opts)
	w := new(StreamWriter)
	w.dest = dest
	w.owned = o.ownedStream
	w.BufferedWriter.Init(w, opts...)
	if o.hasAssumedPos {
		if o.assumedPos < 0 {
			w.failInvalid("negative assumed position")
			return w
		}
		w.SetStartPos(o.assumedPos)
		return w
	}
	if s, ok := dest.(io.Seeker); ok {
		if pos, err := s.Seek(0, io.SeekCurrent); err == nil && pos >= 0 {
			w.SetStartPos(pos)
		}
	}
	return w
}

// WriteInternal implements WriteSink.
func (w *StreamWriter) WriteInternal(src []byte) bool {
	if int64(len(src)) > maxPosition-w.StartPos() {
		return w.failOverflow()
	}
	n, err := w.dest.Write(src)
	if n > 0 {
		w.MoveStartPos(n)
	}
	if err != nil {
		return w.failOperation("write", err)
	}
	if n < len(src) {
		return w.failOperation("write", io.ErrShortWrite)
	}
	return true
}

// FlushBehindBuffer implements SinkFlusher: write out src, then bubble
// the requested durability down to the destination.
func (w *StreamWriter) FlushBehindBuffer(src []byte, mode FlushType) bool {
	if !w.Ok() {
		return false
	}
	if len(src) > 0 && !w.WriteInternal(src) {
		return false
	}
	if mode == FlushFromObject {
		return true
	}
	if f, ok := w.dest.(flusher); ok {
		if err := f.Flush(); err != nil {
			return w.failOperation("flush", err)
		}
	}
	if mode == FlushFromMachine {
		if s, ok := w.dest.(syncer); ok {
			if err := s.Sync(); err != nil {
				return w.failOperation("sync", err)
			}
		}
	}
	return true
}

// SeekBehindBuffer implements SinkSeeker.
func (w *StreamWriter) SeekBehindBuffer(newPos int64) bool {
	if !w.Ok() {
		return false
	}
	s, ok := w.dest.(io.Seeker)
	if !ok {
		return w.failUnsupported("seek")
	}
	if newPos > w.destSize(s) {
		return w.failInvalid("seek past destination size")
	}
	if !w.Ok() {
		return false
	}
	if _, err := s.Seek(newPos, io.SeekStart); err != nil {
		return w.failOperation("seek", err)
	}
	w.SetStartPos(newPos)
	return true
}

// SizeBehindBuffer implements SinkSizer.
func (w *StreamWriter) SizeBehindBuffer() (int64, bool) {
	s, ok := w.dest.(io.Seeker)
	if !ok || !w.Ok() {
		return 0, false
	}
	size := w.destSize(s)
	if !w.Ok() {
		return 0, false
	}
	return size, true
}

// destSize queries the destination end and restores the position.
func (w *StreamWriter) destSize(s io.Seeker) int64 {
	size, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		w.failOperation("seek", err)
		return 0
	}
	if _, err := s.Seek(w.StartPos(), io.SeekStart); err != nil {
		w.failOperation("seek", err)
		return 0
	}
	return size
}

// TruncateBehindBuffer implements SinkTruncater.
func (w *StreamWriter) TruncateBehindBuffer(newSize int64) bool {
	if !w.Ok() {
		return false
	}
	t, ok := w.dest.(truncater)
	if !ok {
		return w.failUnsupported("truncate")
	}
	if err := t.Truncate(newSize); err != nil {
		return w.failOperation("truncate", err)
	}
	if w.StartPos() > newSize {
		if s, ok := w.dest.(io.Seeker); ok {
			if _, err := s.Seek(newSize, io.SeekStart); err != nil {
				return w.failOperation("seek", err)
			}
		}
		w.SetStartPos(newSize)
	}
	return true
}

// SupportsRandomAccess implements RandomAccessSupporter: seeking works
// iff the destination can seek.
func (w *StreamWriter) SupportsRandomAccess() bool {
	_, ok := w.dest.(io.Seeker)
	return ok
}

// DoneBehindBuffer implements SinkDoneHook.
func (w *StreamWriter) DoneBehindBuffer(src []byte) {
	if w.Ok() && len(src) > 0 {
		w.WriteInternal(src)
	}
	if w.owned {
		if c, ok := w.dest.(io.Closer); ok {
			if err := c.Close(); err != nil {
				w.failOperation("close", err)
			}
		}
	}
}
