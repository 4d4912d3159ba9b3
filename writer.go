// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx

// Writer is the base of all bufx writers, the mirror image of Reader:
// a contiguous window of writable space, a cursor, and fast paths that
// succeed while the window has room.
//
// Window invariant: 0 <= cursor <= len(window). StartPos() is the
// stream position of the window's start, so
//
//	Pos()      = StartPos() + cursor
//	LimitPos() = StartPos() + len(window)
//
// Bytes window[:cursor] are written but possibly not yet passed to the
// destination; a slow path, Flush, or Close hands them over in order.
type Writer struct {
	object
	window   []byte
	cursor   int
	startPos int64
	impl     writerImpl
}

// writerImpl is the slow-path dispatch behind Writer's fast paths.
type writerImpl interface {
	// pushSlow makes at least minLength bytes of writable space
	// available, targeting recommendedLength.
	// Precondition: Available() < minLength.
	pushSlow(minLength, recommendedLength int) bool

	// writeSlow writes all of src. Precondition: Available() < len(src).
	writeSlow(src []byte) bool

	// flushImpl pushes buffered bytes toward the destination with the
	// requested durability.
	flushImpl(mode FlushType) bool

	// seekSlow repositions at newPos. Precondition: newPos != Pos().
	seekSlow(newPos int64) bool

	// sizeImpl returns the destination size if known or discoverable.
	sizeImpl() (int64, bool)

	// truncateImpl shrinks the destination to newSize and repositions
	// at most there.
	truncateImpl(newSize int64) bool

	// readModeImpl returns a reader over the already-written bytes
	// positioned at initialPos, or nil if unsupported.
	readModeImpl(initialPos int64) *Reader

	supportsRandomAccess() bool
	supportsReadMode() bool

	// done flushes remaining buffered bytes and settles the destination
	// before close.
	done()
}

// initWriter wires the slow-path implementation. Called once by
// concrete writer constructors before first use.
func (w *Writer) initWriter(impl writerImpl) { w.impl = impl }

// Available returns the writable space left in the window.
func (w *Writer) Available() int { return len(w.window) - w.cursor }

// Pos returns the current stream position of the cursor.
func (w *Writer) Pos() int64 { return w.startPos + int64(w.cursor) }

// StartPos returns the stream position of the window's start.
func (w *Writer) StartPos() int64 { return w.startPos }

// LimitPos returns the stream position of the window's end.
func (w *Writer) LimitPos() int64 { return w.startPos + int64(len(w.window)) }

// Space returns the writable portion of the window. The slice is only
// valid until the next Writer operation; Push(n, _) guarantees
// len(Space()) >= n on success. Bytes written into it count once the
// cursor is advanced with MoveCursor.
//
// Space and the window mutators below are for Writer implementations
// (WriteSink and writers built on BufferedWriter); casual callers never
// need them.
func (w *Writer) Space() []byte { return w.window[w.cursor:] }

// SetWindow replaces the window and cursor. StartPos is unchanged;
// implementations adjust it separately with MoveStartPos or
// SetStartPos.
func (w *Writer) SetWindow(window []byte, cursor int) {
	w.window = window
	w.cursor = cursor
}

// MoveCursor advances the cursor by n bytes, n <= Available().
func (w *Writer) MoveCursor(n int) { w.cursor += n }

// MoveStartPos advances StartPos by n, saturating at the maximum
// position. WriteSink implementations call it for bytes accepted by the
// destination; the window is empty at that point.
func (w *Writer) MoveStartPos(n int) { w.startPos = saturatingAdd64(w.startPos, int64(n)) }

// SetStartPos sets StartPos to pos.
func (w *Writer) SetStartPos(pos int64) { w.startPos = pos }

// Push ensures at least minLength bytes of contiguous writable space,
// growing toward recommendedLength when sensible. Returns false on
// failure.
func (w *Writer) Push(minLength, recommendedLength int) bool {
	if w.Available() >= minLength {
		return true
	}
	return w.impl.pushSlow(minLength, recommendedLength)
}

// Write writes all of src, staging through the window or handing large
// runs directly to the destination. Returns false on failure.
func (w *Writer) Write(src []byte) bool {
	if len(src) <= w.Available() {
		if len(src) > 0 {
			copy(w.window[w.cursor:], src)
			w.cursor += len(src)
		}
		return true
	}
	return w.impl.writeSlow(src)
}

// WriteString writes all of src.
func (w *Writer) WriteString(src string) bool {
	if len(src) <= w.Available() {
		if len(src) > 0 {
			copy(w.window[w.cursor:], src)
			w.cursor += len(src)
		}
		return true
	}
	return w.impl.writeSlow([]byte(src))
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) bool {
	if !w.Push(1, 1) {
		return false
	}
	w.window[w.cursor] = b
	w.cursor++
	return true
}

// WriteZeros writes length zero bytes.
func (w *Writer) WriteZeros(length int64) bool {
	if length < 0 {
		return w.failInvalid("negative zero-fill length")
	}
	for length > 0 {
		if w.Available() == 0 {
			if !w.impl.pushSlow(1, clampToInt(length)) {
				return false
			}
		}
		n := w.Available()
		if int64(n) > length {
			n = int(length)
		}
		region := w.window[w.cursor : w.cursor+n]
		for i := range region {
			region[i] = 0
		}
		w.cursor += n
		length -= int64(n)
	}
	return true
}

// Flush hands buffered bytes to the destination with the requested
// durability. FlushFromMachine does not return true until the
// destination reported durability.
func (w *Writer) Flush(mode FlushType) bool { return w.impl.flushImpl(mode) }

// Seek repositions the writer at newPos. Requires random access support
// from the destination for positions outside the current one.
func (w *Writer) Seek(newPos int64) bool {
	if newPos < 0 {
		return w.failInvalid("negative seek position")
	}
	if newPos == w.Pos() {
		return w.Ok()
	}
	return w.impl.seekSlow(newPos)
}

// Size returns the destination size if known or discoverable; at least
// the bytes ever flushed plus the bytes currently buffered.
func (w *Writer) Size() (int64, bool) { return w.impl.sizeImpl() }

// Truncate shrinks the destination to newSize and positions the writer
// no further than that.
func (w *Writer) Truncate(newSize int64) bool {
	if newSize < 0 {
		return w.failInvalid("negative truncate size")
	}
	return w.impl.truncateImpl(newSize)
}

// ReadMode returns a reader over the bytes already written, positioned
// at initialPos, or nil if the destination does not support it. The
// reader lives as long as the writer; the next Write repositions the
// writer at the reader's position first.
func (w *Writer) ReadMode(initialPos int64) *Reader {
	if initialPos < 0 {
		w.failInvalid("negative read mode position")
		return nil
	}
	return w.impl.readModeImpl(initialPos)
}

// SupportsRandomAccess reports whether Seek to an arbitrary position is
// supported.
func (w *Writer) SupportsRandomAccess() bool { return w.impl.supportsRandomAccess() }

// SupportsReadMode reports whether ReadMode is supported.
func (w *Writer) SupportsReadMode() bool { return w.impl.supportsReadMode() }

// Close flushes buffered bytes, settles the destination, and makes the
// terminal status final. Close is idempotent; it returns the terminal
// status.
func (w *Writer) Close() error {
	if w.closed {
		return w.err
	}
	w.impl.done()
	w.closed = true
	return w.err
}

// onFail freezes the writer at its current position with an empty
// window; buffered bytes never reach the destination after a terminal
// failure.
func (w *Writer) onFail() {
	pos := w.Pos()
	w.SetWindow(nil, 0)
	w.SetStartPos(pos)
}

// The fail helpers below shadow object's: a writer failure empties the
// window first (see onFail).

func (w *Writer) fail(err error) bool {
	w.onFail()
	return w.object.fail(err)
}

func (w *Writer) failOperation(operation string, cause error) bool {
	w.onFail()
	return w.object.failOperation(operation, cause)
}

func (w *Writer) failUnsupported(operation string) bool {
	w.onFail()
	return w.object.failUnsupported(operation)
}

func (w *Writer) failInvalid(detail string) bool {
	w.onFail()
	return w.object.failInvalid(detail)
}

func (w *Writer) failOverflow() bool {
	w.onFail()
	return w.object.failOverflow()
}

// writeByPush is the generic staging loop shared by writeSlow
// implementations that decided against writing directly.
func (w *Writer) writeByPush(src []byte) bool {
	for len(src) > 0 {
		if w.Available() == 0 {
			if !w.impl.pushSlow(1, len(src)) {
				return false
			}
		}
		n := copy(w.window[w.cursor:], src)
		w.cursor += n
		src = src[n:]
	}
	return true
}
