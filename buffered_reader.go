// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx

// BufferSource is the contract a BufferedReader leaf provides: deliver
// bytes from the actual source into a caller-supplied buffer.
//
// ReadInternal reads at least minLength and at most len(dst) bytes into
// dst (minLength >= 1), calls MoveLimitPos for every fragment read, and
// returns true iff minLength bytes were delivered. A false return with
// Ok() still true means the stream ended first; a false return with a
// recorded failure is terminal.
type BufferSource interface {
	ReadInternal(minLength int, dst []byte) bool
}

// Optional BufferSource upgrades, discovered by type assertion.
type (
	// BufferSeeker repositions the source at newPos. Called with an
	// empty window; the implementation sets LimitPos. Returning false
	// with Ok() still true means newPos is past the end and the source
	// is positioned at the end.
	BufferSeeker interface {
		SeekBehindBuffer(newPos int64) bool
	}

	// BufferSizer reports the total source size if discoverable. Unlike
	// SeekBehindBuffer it may be called with a non-empty window and must
	// leave the reading position untouched.
	BufferSizer interface {
		SizeBehindBuffer() (int64, bool)
	}

	// RandomAccessSupporter overrides the scaffold's notion of whether
	// arbitrary seeks work; the first call may probe the source.
	RandomAccessSupporter interface {
		SupportsRandomAccess() bool
	}

	// RewindSupporter overrides whether backward seeks work; defaults
	// to random access support.
	RewindSupporter interface {
		SupportsRewind() bool
	}

	// BufferDoneHook runs before close, after the scaffold released its
	// buffer; leaves settle lazy state and close owned sources here.
	BufferDoneHook interface {
		DoneBehindBuffer()
	}
)

// BufferedReader is a Reader scaffold for sources that deliver bytes by
// filling a caller-owned buffer. It owns the buffer, sizes it
// adaptively (growth from MinBufferSize to MaxBufferSize, clamped by a
// size hint), and turns the BufferSource contract into the full Reader
// surface.
type BufferedReader struct {
	Reader
	src         BufferSource
	store       []byte
	sizing      growth
	sizeHint    int64 // -1 when absent
	hasSizeHint bool
	// Set while a RandomAccessSupporter / RewindSupporter upgrade runs:
	// a leaf that embeds the scaffold without overriding the method
	// reaches back here through the promoted Reader method.
	inRandomAccessQuery, inRewindQuery bool
}

// Init wires the scaffold to its leaf. Readers embedding BufferedReader
// call it once from their constructor before first use.
func (br *BufferedReader) Init(src BufferSource, opts ...Option) {
	o := makeOptions(opts)
	br.src = src
	br.sizeHint = -1
	if o.hasSizeHint {
		br.sizeHint = o.sizeHint
		br.hasSizeHint = true
	}
	if o.bufferSize > 0 {
		br.sizing.SetBase(o.bufferSize)
		br.sizing.SetMax(o.bufferSize)
	}
	br.initReader(br)
}

// setSizeHint lets a leaf refresh the hint when it discovers the source
// size.
func (br *BufferedReader) setSizeHint(n int64) {
	br.sizeHint = n
	br.hasSizeHint = true
}

// bufferLength decides the next window size. min == 1 pulls may grow
// the buffer opportunistically to the full recommended length; a known
// size hint caps readahead at the remaining bytes.
func (br *BufferedReader) bufferLength(minLength, recommendedLength int) int {
	length := br.sizing.Next()
	if minLength == 1 && recommendedLength > length {
		length = recommendedLength
	}
	if length < minLength {
		length = minLength
	}
	if br.hasSizeHint {
		if remaining := br.sizeHint - br.limitPos; remaining > 0 &&
			remaining < int64(length) && int64(minLength) <= remaining {
			length = int(remaining)
		}
	}
	return length
}

func (br *BufferedReader) pullSlow(minLength, recommendedLength int) bool {
	if !br.Ok() {
		return false
	}
	avail := br.Available()
	length := br.bufferLength(minLength, recommendedLength)
	if cap(br.store) < length {
		next := allocBytes(length, length)
		copy(next, br.window[br.cursor:])
		br.store = next
	} else if avail > 0 && br.cursor > 0 {
		// The window aliases store; sliding the unread tail to the front
		// is an overlapping forward copy, which copy() handles.
		copy(br.store, br.window[br.cursor:])
	}
	br.store = br.store[:cap(br.store)]
	before := br.limitPos
	ok := br.src.ReadInternal(minLength-avail, br.store[avail:length])
	if !br.Ok() {
		// The failure froze the window; do not re-expose the buffer.
		return false
	}
	n := int(br.limitPos - before)
	br.SetWindow(br.store[:avail+n], 0)
	return ok && br.Available() >= minLength
}

func (br *BufferedReader) readSlow(dst []byte) bool {
	if !br.Ok() {
		return false
	}
	n := copy(dst, br.window[br.cursor:])
	br.cursor += n
	dst = dst[n:]
	if len(dst) >= br.sizing.Current() {
		// Large read: skip staging and fill dst from the source
		// directly. The window is drained, so pos() == limitPos and
		// ReadInternal's MoveLimitPos keeps both in step.
		br.SetWindow(nil, 0)
		return br.src.ReadInternal(len(dst), dst)
	}
	for len(dst) > 0 {
		if !br.pullSlow(1, len(dst)) {
			return false
		}
		n = copy(dst, br.window[br.cursor:])
		br.cursor += n
		dst = dst[n:]
	}
	return true
}

func (br *BufferedReader) copySlow(length int64, dst *Writer) bool {
	return br.copyByRead(length, dst)
}

func (br *BufferedReader) seekSlow(newPos int64) bool {
	if !br.Ok() {
		return false
	}
	if s, ok := br.src.(BufferSeeker); ok && br.supportsRandomAccess() {
		br.SetWindow(nil, 0)
		return s.SeekBehindBuffer(newPos)
	}
	if newPos < br.Pos() {
		return br.failUnsupported("seek backwards")
	}
	// Seek forwards by reading and discarding.
	for newPos > br.limitPos {
		br.cursor = len(br.window)
		if !br.pullSlow(1, clampToInt(newPos-br.limitPos)) {
			return false
		}
	}
	br.cursor = len(br.window) - int(br.limitPos-newPos)
	return true
}

func (br *BufferedReader) readHintSlow(minLength, recommendedLength int) {
	if !br.Ok() {
		return
	}
	// Refill toward the hint now; a short refill is the next read's
	// problem, not the hint's.
	br.pullSlow(1, max(minLength, recommendedLength))
}

func (br *BufferedReader) syncImpl(mode SyncType) bool {
	if !br.Ok() {
		return false
	}
	if br.Available() == 0 {
		return true
	}
	s, ok := br.src.(BufferSeeker)
	if !ok || !br.supportsRandomAccess() {
		return true
	}
	pos := br.Pos()
	br.SetWindow(nil, 0)
	return s.SeekBehindBuffer(pos)
}

func (br *BufferedReader) sizeImpl() (int64, bool) {
	if s, ok := br.src.(BufferSizer); ok {
		return s.SizeBehindBuffer()
	}
	return 0, false
}

func (br *BufferedReader) supportsRandomAccess() bool {
	if s, ok := br.src.(RandomAccessSupporter); ok && !br.inRandomAccessQuery {
		br.inRandomAccessQuery = true
		defer func() { br.inRandomAccessQuery = false }()
		return s.SupportsRandomAccess()
	}
	return false
}

func (br *BufferedReader) supportsRewind() bool {
	if s, ok := br.src.(RewindSupporter); ok && !br.inRewindQuery {
		br.inRewindQuery = true
		defer func() { br.inRewindQuery = false }()
		return s.SupportsRewind()
	}
	return br.supportsRandomAccess()
}

func (br *BufferedReader) done() {
	br.SetWindow(nil, 0)
	br.store = nil
	if h, ok := br.src.(BufferDoneHook); ok {
		h.DoneBehindBuffer()
	}
}
