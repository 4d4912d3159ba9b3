// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx

import "io"

// ReadSomer is an optional source upgrade: read whatever is available
// right now, up to len(p), without blocking for more. n == 0 with a nil
// error means nothing was available in the source's fast path — it does
// not mean end of stream.
type ReadSomer interface {
	ReadSome(p []byte) (n int, err error)
}

// Peeker is an optional source upgrade: report the next byte without
// consuming it, or io.EOF at the end of the stream. StreamReader peeks
// before ReadSome so that an empty fast path can be told apart from the
// end of the stream.
type Peeker interface {
	Peek() (byte, error)
}

// StreamReader reads from a sequential io.Reader that may or may not
// support random access. Whether it does is discovered lazily: the
// first operation that needs an arbitrary seek probes the source (if it
// implements io.Seeker) by seeking to the end, recording the size, and
// seeking back.
//
// With WithAssumedPosition the probe is skipped entirely and the stream
// is treated as sequential-only starting at the given position. With
// WithGrowingSource a discovered size is advisory and never cached.
type StreamReader struct {
	BufferedReader
	src          io.Reader
	randomAccess lazyBool
	streamSize   int64 // -1 while unknown
	growing      bool
	owned        bool
}

// NewStreamReader returns a StreamReader over src.
func NewStreamReader(src io.Reader, opts ...Option) *StreamReader {
	o := makeOptions(opts)
	r := new(StreamReader)
	r.src = src
	r.streamSize = -1
	r.growing = o.growingSource
	r.owned = o.ownedStream
	r.randomAccess = lazyFalse
	r.BufferedReader.Init(r, opts...)
	if o.hasAssumedPos {
		if o.assumedPos < 0 {
			r.failInvalid("negative assumed position")
			return r
		}
		r.SetLimitPos(o.assumedPos)
		return r
	}
	if s, ok := src.(io.Seeker); ok {
		pos, err := s.Seek(0, io.SeekCurrent)
		if err != nil || pos < 0 {
			// Telling the position failed: random access is not
			// supported. Assume 0 as the initial position.
			return r
		}
		r.SetLimitPos(pos)
		// Telling succeeded; whether seeking works is checked later.
		r.randomAccess = lazyUnknown
	}
	return r
}

// SupportsRandomAccess resolves lazily on the first query: seek to the
// end (recording the size), then back to the reading position. A failed
// end-seek only marks random access unsupported; a failed restoring
// seek is terminal because the reading position is lost.
func (r *StreamReader) SupportsRandomAccess() bool {
	switch r.randomAccess {
	case lazyFalse:
		return false
	case lazyTrue:
		return true
	}
	s := r.src.(io.Seeker)
	r.randomAccess = lazyFalse
	size, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return false
	}
	if _, err := s.Seek(r.LimitPos(), io.SeekStart); err != nil {
		r.failOperation("seek", err)
		return false
	}
	r.foundSize(size)
	r.randomAccess = lazyTrue
	return true
}

// foundSize records a discovered stream size. A growing source keeps it
// advisory: only the buffer size hint is updated, so a later query
// probes again instead of surfacing a stale size.
func (r *StreamReader) foundSize(size int64) {
	if !r.growing {
		r.streamSize = size
	}
	r.setSizeHint(size)
}

// ReadInternal implements BufferSource.
func (r *StreamReader) ReadInternal(minLength int, dst []byte) bool {
	if r.streamSize >= 0 && r.LimitPos() >= r.streamSize {
		return false
	}
	if limit := maxPosition - r.LimitPos(); int64(len(dst)) > limit {
		if limit < int64(minLength) {
			return r.failOverflow()
		}
		dst = dst[:limit]
	}
	read := 0
	for {
		var n int
		var err error
		if minLength-read < len(dst)-read && r.readsSome() {
			n, err = r.readSome(dst[read:], minLength-read)
		} else {
			n, err = r.src.Read(dst[read:])
		}
		if n < 0 {
			n = 0
		}
		read += n
		r.MoveLimitPos(n)
		if err != nil {
			if err == io.EOF {
				// End of stream is not a failure.
				r.foundSize(r.LimitPos())
				return read >= minLength
			}
			return r.failOperation("read", err)
		}
		if read >= minLength {
			return true
		}
		if n == 0 {
			// A (0, nil) read means no progress; treat like the end to
			// avoid spinning on a broken source.
			r.foundSize(r.LimitPos())
			return false
		}
	}
}

func (r *StreamReader) readsSome() bool {
	_, ok := r.src.(ReadSomer)
	return ok
}

// readSome drains the source's fast path. Peek first: some sources
// only report data through ReadSome after a peek primed them, and a
// bare zero-byte ReadSome cannot be told apart from the end of the
// stream. If ReadSome still returns zero after a successful peek (the
// peeked byte is buffered outside the fast path's reach), fall back to
// a plain Read of at most the minimum; it may return fewer bytes, and
// ReadInternal's loop keeps reading until the minimum has arrived.
func (r *StreamReader) readSome(dst []byte, minLength int) (int, error) {
	if p, ok := r.src.(Peeker); ok {
		if _, err := p.Peek(); err != nil {
			if err == io.EOF {
				return 0, io.EOF
			}
			return 0, err
		}
	}
	n, err := r.src.(ReadSomer).ReadSome(dst)
	if n != 0 || err != nil {
		return n, err
	}
	return r.src.Read(dst[:minLength])
}

// SeekBehindBuffer implements BufferSeeker. Only called once random
// access resolved true.
func (r *StreamReader) SeekBehindBuffer(newPos int64) bool {
	if !r.Ok() {
		return false
	}
	s := r.src.(io.Seeker)
	if newPos > r.LimitPos() {
		size := r.streamSize
		if size < 0 {
			end, err := s.Seek(0, io.SeekEnd)
			if err != nil {
				return r.failOperation("seek", err)
			}
			r.foundSize(end)
			size = end
		}
		if newPos > size {
			// The stream ends before newPos: position at the end.
			if _, err := s.Seek(size, io.SeekStart); err != nil {
				return r.failOperation("seek", err)
			}
			r.SetLimitPos(size)
			return false
		}
	}
	if _, err := s.Seek(newPos, io.SeekStart); err != nil {
		return r.failOperation("seek", err)
	}
	r.SetLimitPos(newPos)
	return true
}

// SizeBehindBuffer implements BufferSizer. A sequential-only stream has
// no discoverable size; that is not a failure.
func (r *StreamReader) SizeBehindBuffer() (int64, bool) {
	if !r.SupportsRandomAccess() || !r.Ok() {
		return 0, false
	}
	if r.streamSize >= 0 {
		return r.streamSize, true
	}
	s := r.src.(io.Seeker)
	size, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		r.failOperation("seek", err)
		return 0, false
	}
	if _, err := s.Seek(r.LimitPos(), io.SeekStart); err != nil {
		r.failOperation("seek", err)
		return 0, false
	}
	r.foundSize(size)
	return size, true
}

// DoneBehindBuffer implements BufferDoneHook.
func (r *StreamReader) DoneBehindBuffer() {
	// Resolving random access after close would touch a closed stream;
	// the resolution is no longer interesting anyway.
	if r.randomAccess == lazyUnknown {
		r.randomAccess = lazyFalse
	}
	if r.owned {
		if c, ok := r.src.(io.Closer); ok {
			if err := c.Close(); err != nil {
				r.failOperation("close", err)
			}
		}
	}
}
