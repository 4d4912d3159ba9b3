// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx

// PullSource is the contract a PullableReader leaf provides: expose the
// next fragment of the source as the reader's window.
//
// PullBehindScratch makes at least one byte available, targeting
// recommendedLength, by setting a new window (SetWindow) and advancing
// LimitPos past it. It is never called while scratch is in use: the
// window it observes and replaces is always the underlying one. It
// returns false at the end of the source (Ok() stays true) or on
// failure.
type PullSource interface {
	PullBehindScratch(recommendedLength int) bool
}

// Optional PullSource upgrades, discovered by type assertion. Each is
// called only while scratch is not in use, and sees the underlying
// window exactly as if nothing had ever been buffered in scratch.
type (
	// ScratchReader reads exactly len(dst) bytes more efficiently than
	// repeated pulls. Precondition: Available() < len(dst).
	ScratchReader interface {
		ReadBehindScratch(dst []byte) bool
	}

	// ScratchCopier transfers length bytes to dst, e.g. by splicing.
	// Precondition: Available() < length.
	ScratchCopier interface {
		CopyBehindScratch(length int64, dst *Writer) bool
	}

	// ScratchSeeker repositions the underlying source.
	// Precondition: newPos outside [StartPos(), LimitPos()].
	ScratchSeeker interface {
		SeekBehindScratch(newPos int64) bool
	}

	// ScratchSyncer propagates a cursor advance to the source.
	ScratchSyncer interface {
		SyncBehindScratch(mode SyncType) bool
	}

	// ScratchHinter receives read-ahead hints.
	ScratchHinter interface {
		ReadHintBehindScratch(minLength, recommendedLength int)
	}

	// ScratchDoneHook runs before close, with scratch already settled.
	// It is not called when scratch is still in use at close and the
	// source lacks random access: scratch is then dropped.
	ScratchDoneHook interface {
		DoneBehindScratch()
	}
)

// scratch holds the synthesized contiguous bytes and the snapshot of
// the underlying window they temporarily replace.
type scratch struct {
	data           []byte
	originalWindow []byte
	originalCursor int
}

// PullableReader is a Reader scaffold for sources whose own buffers may
// be fragmented: when a caller asks for a contiguous view longer than
// the current fragment, the scaffold collects bytes across fragments
// into an owned scratch buffer and substitutes it for the window,
// transparently to both the caller and the leaf's BehindScratch
// methods.
//
// Invariants while scratch is in use:
//   - the window is exactly scratch's bytes;
//   - LimitPos is the reader's logical position at scratch's end;
//   - the underlying window is saved and restorable byte-exactly.
type PullableReader struct {
	Reader
	src     PullSource
	scratch *scratch
	// Set while a RandomAccessSupporter / RewindSupporter upgrade runs:
	// a leaf that embeds the scaffold without overriding the method
	// reaches back here through the promoted Reader method.
	inRandomAccessQuery, inRewindQuery bool
}

// Init wires the scaffold to its leaf. Readers embedding PullableReader
// call it once from their constructor before first use.
func (pr *PullableReader) Init(src PullSource) {
	pr.src = src
	pr.initReader(pr)
}

// scratchUsed reports whether the window currently points into scratch.
func (pr *PullableReader) scratchUsed() bool {
	return pr.scratch != nil && len(pr.scratch.data) > 0
}

// syncScratch pops scratch: the underlying window is restored and
// LimitPos moves past its unread part, as if scratch never existed.
func (pr *PullableReader) syncScratch() {
	s := pr.scratch
	s.data = s.data[:0]
	pr.SetWindow(s.originalWindow, s.originalCursor)
	pr.MoveLimitPos(pr.Available())
}

// scratchEnds pops scratch if the cursor has reached the bytes that
// came from the current underlying window, rewinding the cursor into
// that window so reading continues seamlessly.
func (pr *PullableReader) scratchEnds() bool {
	availableLength := pr.Available()
	if pr.scratch.originalCursor >= availableLength {
		pr.syncScratch()
		pr.cursor -= availableLength
		return true
	}
	return false
}

func (pr *PullableReader) pullSlow(minLength, recommendedLength int) bool {
	if !pr.Ok() {
		return false
	}
	if minLength > 1 {
		return pr.pullToScratch(minLength, recommendedLength)
	}
	if pr.scratchUsed() {
		pr.syncScratch()
		if pr.Available() > 0 {
			return true
		}
	}
	return pr.src.PullBehindScratch(recommendedLength)
}

// pullToScratch serves Pull(min > 1, _) by collecting bytes from
// successive underlying fragments into scratch until minLength are
// contiguous.
func (pr *PullableReader) pullToScratch(minLength, recommendedLength int) bool {
	if pr.scratchUsed() && pr.scratchEnds() && pr.Available() >= minLength {
		return true
	}
	if pr.Available() == 0 {
		// Scratch cannot be in use here: an empty window inside scratch
		// would have ended it above.
		if !pr.src.PullBehindScratch(recommendedLength) {
			return false
		}
		if pr.Available() >= minLength {
			return true
		}
	}
	remainingMin := minLength
	if recommendedLength < minLength {
		recommendedLength = minLength
	}
	maxLength := saturatingAddInt(recommendedLength, recommendedLength)
	next := pr.scratch
	if next == nil {
		next = new(scratch)
	} else {
		pr.scratch = nil
		if len(next.data) > 0 {
			// Scratch is in use and still holds unread bytes after the
			// cursor: keep them as the new view's prefix and resume
			// collecting from the underlying window.
			next.data = next.data[pr.cursor:]
			remainingMin -= len(next.data)
			recommendedLength -= len(next.data)
			maxLength -= len(next.data)
			pr.SetWindow(next.originalWindow, next.originalCursor)
			pr.MoveLimitPos(pr.Available())
		}
	}
	carried := len(next.data)
	extra := recommendedLength
	if extra < remainingMin {
		extra = remainingMin
	}
	if extra > maxLength {
		extra = maxLength
	}
	if cap(next.data) < carried+extra {
		grown := allocBytes(carried, carried+extra)
		copy(grown, next.data)
		next.data = grown
	}
	flat := next.data[carried : carried+extra]
	dest := 0
	for {
		length := pr.Available()
		if length > len(flat)-dest {
			length = len(flat) - dest
		}
		if length > 0 {
			copy(flat[dest:], pr.window[pr.cursor:pr.cursor+length])
			pr.cursor += length
			dest += length
			if dest >= remainingMin {
				break
			}
		}
		if !pr.src.PullBehindScratch(recommendedLength) {
			break
		}
	}
	next.data = next.data[:carried+dest]
	if !pr.Ok() {
		// The failure froze the window; do not substitute scratch.
		return false
	}
	pr.SetLimitPos(pr.Pos())
	next.originalWindow = pr.window
	next.originalCursor = pr.cursor
	pr.scratch = next
	pr.SetWindow(next.data, 0)
	return pr.Available() >= minLength
}

func (pr *PullableReader) readSlow(dst []byte) bool {
	if !pr.Ok() {
		return false
	}
	if pr.scratchUsed() {
		if !pr.scratchEnds() {
			n := copy(dst, pr.window[pr.cursor:])
			pr.cursor += n
			dst = dst[n:]
			pr.syncScratch()
		}
		if pr.Available() >= len(dst) {
			if len(dst) > 0 {
				copy(dst, pr.window[pr.cursor:])
				pr.cursor += len(dst)
			}
			return true
		}
	}
	return pr.readBehindScratch(dst)
}

func (pr *PullableReader) readBehindScratch(dst []byte) bool {
	if r, ok := pr.src.(ScratchReader); ok {
		return r.ReadBehindScratch(dst)
	}
	for {
		n := copy(dst, pr.window[pr.cursor:])
		pr.cursor += n
		dst = dst[n:]
		if len(dst) == 0 {
			return true
		}
		if !pr.src.PullBehindScratch(len(dst)) {
			return false
		}
	}
}

func (pr *PullableReader) copySlow(length int64, dst *Writer) bool {
	if !pr.Ok() {
		return false
	}
	if pr.scratchUsed() {
		if !pr.scratchEnds() {
			n := pr.Available()
			if int64(n) > length {
				n = int(length)
			}
			data := pr.window[pr.cursor : pr.cursor+n]
			pr.cursor += n
			if !dst.Write(data) {
				return false
			}
			length -= int64(n)
			if length == 0 {
				return true
			}
			pr.syncScratch()
		}
		if int64(pr.Available()) >= length {
			data := pr.window[pr.cursor : pr.cursor+int(length)]
			pr.cursor += int(length)
			return dst.Write(data)
		}
	}
	return pr.copyBehindScratch(length, dst)
}

func (pr *PullableReader) copyBehindScratch(length int64, dst *Writer) bool {
	if c, ok := pr.src.(ScratchCopier); ok {
		return c.CopyBehindScratch(length, dst)
	}
	for length > int64(pr.Available()) {
		if avail := pr.Available(); avail > 0 {
			data := pr.window[pr.cursor:]
			pr.cursor += avail
			if !dst.Write(data) {
				return false
			}
			length -= int64(avail)
		}
		if !pr.src.PullBehindScratch(clampToInt(length)) {
			return false
		}
	}
	data := pr.window[pr.cursor : pr.cursor+int(length)]
	pr.cursor += int(length)
	return dst.Write(data)
}

func (pr *PullableReader) seekSlow(newPos int64) bool {
	if !pr.Ok() {
		return false
	}
	if pr.scratchUsed() {
		pr.syncScratch()
		if newPos >= pr.StartPos() && newPos <= pr.limitPos {
			pr.cursor = len(pr.window) - int(pr.limitPos-newPos)
			return true
		}
	}
	return pr.seekBehindScratch(newPos)
}

func (pr *PullableReader) seekBehindScratch(newPos int64) bool {
	if s, ok := pr.src.(ScratchSeeker); ok {
		return s.SeekBehindScratch(newPos)
	}
	if newPos <= pr.limitPos {
		return pr.failUnsupported("seek backwards")
	}
	// Seek forwards by pulling and discarding.
	for {
		pr.cursor = len(pr.window)
		if !pr.src.PullBehindScratch(clampToInt(newPos - pr.limitPos)) {
			return false
		}
		if newPos <= pr.limitPos {
			break
		}
	}
	pr.cursor = len(pr.window) - int(pr.limitPos-newPos)
	return true
}

func (pr *PullableReader) readHintSlow(minLength, recommendedLength int) {
	if !pr.Ok() {
		return
	}
	if pr.scratchUsed() {
		if !pr.scratchEnds() {
			minLength -= pr.Available()
			scope := pr.enterBehindScratch()
			if pr.Available() < minLength {
				pr.readHintBehindScratch(minLength, recommendedLength)
			}
			scope.leave()
			return
		}
		if pr.Available() >= minLength {
			return
		}
	}
	pr.readHintBehindScratch(minLength, recommendedLength)
}

func (pr *PullableReader) readHintBehindScratch(minLength, recommendedLength int) {
	if h, ok := pr.src.(ScratchHinter); ok {
		h.ReadHintBehindScratch(minLength, recommendedLength)
	}
}

func (pr *PullableReader) syncImpl(mode SyncType) bool {
	if !pr.Ok() {
		return false
	}
	if pr.scratchUsed() && !pr.scratchEnds() {
		if !pr.supportsRandomAccess() {
			// Seeking back under scratch is not feasible; the source
			// stays ahead of the logical position.
			return true
		}
		newPos := pr.Pos()
		pr.syncScratch()
		if !pr.Seek(newPos) {
			return false
		}
	}
	if s, ok := pr.src.(ScratchSyncer); ok {
		return s.SyncBehindScratch(mode)
	}
	return true
}

func (pr *PullableReader) sizeImpl() (int64, bool) {
	if s, ok := pr.src.(BufferSizer); ok {
		return s.SizeBehindBuffer()
	}
	return 0, false
}

func (pr *PullableReader) supportsRandomAccess() bool {
	if s, ok := pr.src.(RandomAccessSupporter); ok && !pr.inRandomAccessQuery {
		pr.inRandomAccessQuery = true
		defer func() { pr.inRandomAccessQuery = false }()
		return s.SupportsRandomAccess()
	}
	return false
}

func (pr *PullableReader) supportsRewind() bool {
	if s, ok := pr.src.(RewindSupporter); ok && !pr.inRewindQuery {
		pr.inRewindQuery = true
		defer func() { pr.inRewindQuery = false }()
		return s.SupportsRewind()
	}
	return pr.supportsRandomAccess()
}

func (pr *PullableReader) done() {
	if pr.scratchUsed() && !pr.scratchEnds() {
		if !pr.supportsRandomAccess() {
			// Seeking back is not feasible; drop scratch, the source
			// position is past the logical one.
			pr.scratch = nil
			pr.SetWindow(nil, 0)
			return
		}
		newPos := pr.Pos()
		pr.syncScratch()
		pr.Seek(newPos)
	}
	if h, ok := pr.src.(ScratchDoneHook); ok {
		h.DoneBehindScratch()
	} else if s, ok := pr.src.(ScratchSyncer); ok {
		s.SyncBehindScratch(SyncFromObject)
	}
	pr.scratch = nil
	pr.SetWindow(nil, 0)
}

// behindScratch is a scope that presents the underlying window to a
// leaf hook while scratch is in use, and reinstates scratch — with the
// hook's window changes captured — on leave. Every exit path of the
// enclosing operation must call leave.
type behindScratch struct {
	pr              *PullableReader
	scratch         *scratch
	readFromScratch int
}

func (pr *PullableReader) enterBehindScratch() behindScratch {
	s := pr.scratch
	pr.scratch = nil
	scope := behindScratch{pr: pr, scratch: s, readFromScratch: pr.cursor}
	pr.SetWindow(s.originalWindow, s.originalCursor)
	pr.MoveLimitPos(pr.Available())
	return scope
}

func (scope behindScratch) leave() {
	pr := scope.pr
	pr.SetLimitPos(pr.Pos())
	scope.scratch.originalWindow = pr.window
	scope.scratch.originalCursor = pr.cursor
	pr.SetWindow(scope.scratch.data, scope.readFromScratch)
	pr.scratch = scope.scratch
}
