// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx

// WriteSink is the contract a BufferedWriter leaf provides: hand a run
// of bytes to the actual destination.
//
// WriteInternal is called with an empty window. It writes all of src,
// calls MoveStartPos for the bytes the destination accepted, and
// returns true iff everything was written; a false return is terminal.
type WriteSink interface {
	WriteInternal(src []byte) bool
}

// Optional WriteSink upgrades, discovered by type assertion.
type (
	// SinkFlusher flushes src plus destination-level buffers with the
	// requested durability. Called with an empty window; src holds the
	// bytes that were buffered at flush time (possibly none). Without
	// this upgrade, Flush writes src and treats every level as
	// satisfied.
	SinkFlusher interface {
		FlushBehindBuffer(src []byte, mode FlushType) bool
	}

	// SinkSeeker repositions the destination. Called with an empty
	// window; the implementation sets StartPos.
	SinkSeeker interface {
		SeekBehindBuffer(newPos int64) bool
	}

	// SinkSizer reports the destination size. Called with an empty
	// window.
	SinkSizer interface {
		SizeBehindBuffer() (int64, bool)
	}

	// SinkTruncater shrinks the destination. Called with an empty
	// window.
	SinkTruncater interface {
		TruncateBehindBuffer(newSize int64) bool
	}

	// SinkReadModeSupporter returns a reader over the destination's
	// already-written bytes. Called with an empty window.
	SinkReadModeSupporter interface {
		ReadModeBehindBuffer(initialPos int64) *Reader
	}

	// SinkDoneHook runs at close with the remaining buffered bytes;
	// leaves flush them and close owned destinations here. Without it,
	// close flushes with FlushFromObject semantics.
	SinkDoneHook interface {
		DoneBehindBuffer(src []byte)
	}
)

// BufferedWriter is a Writer scaffold for destinations that accept runs
// of bytes. It owns the staging buffer, sizes it adaptively, hands
// buffer-sized (or larger) runs straight to the destination, and turns
// the WriteSink contract into the full Writer surface.
type BufferedWriter struct {
	Writer
	dest        WriteSink
	store       []byte
	sizing      growth
	sizeHint    int64 // -1 when absent
	hasSizeHint bool
}

// Init wires the scaffold to its leaf. Writers embedding BufferedWriter
// call it once from their constructor before first use.
func (bw *BufferedWriter) Init(dest WriteSink, opts ...Option) {
	o := makeOptions(opts)
	bw.dest = dest
	bw.sizeHint = -1
	if o.hasSizeHint {
		bw.sizeHint = o.sizeHint
		bw.hasSizeHint = true
	}
	if o.bufferSize > 0 {
		bw.sizing.SetBase(o.bufferSize)
		bw.sizing.SetMax(o.bufferSize)
	}
	bw.initWriter(bw)
}

// syncBuffer hands the written prefix of the window to the destination
// and empties the window.
func (bw *BufferedWriter) syncBuffer() bool {
	data := bw.window[:bw.cursor]
	bw.SetWindow(nil, 0)
	if len(data) == 0 {
		return true
	}
	if !bw.Ok() {
		return false
	}
	return bw.dest.WriteInternal(data)
}

// lengthToWriteDirectly returns the shortest write worth handing to the
// destination without staging. Writing directly at least a buffer's
// worth keeps at least every other destination write full-sized; below
// the size hint, a direct write is also worth it when it does not
// increase the number of destination writes.
func (bw *BufferedWriter) lengthToWriteDirectly() int {
	size := bw.sizing.Current()
	if bw.hasSizeHint && bw.Pos() < bw.sizeHint &&
		(bw.cursor == 0 || bw.LimitPos() < bw.sizeHint) {
		if remaining := bw.sizeHint - bw.Pos(); remaining < int64(size) {
			return int(remaining)
		}
	}
	return size
}

func (bw *BufferedWriter) pushSlow(minLength, recommendedLength int) bool {
	if !bw.syncBuffer() {
		return false
	}
	if !bw.Ok() {
		return false
	}
	if int64(minLength) > maxPosition-bw.startPos {
		return bw.failOverflow()
	}
	length := bw.sizing.Next()
	if recommendedLength > length && recommendedLength <= bw.sizing.Max() {
		length = recommendedLength
	}
	if bw.hasSizeHint {
		if remaining := bw.sizeHint - bw.startPos; remaining > 0 &&
			remaining < int64(length) && int64(minLength) <= remaining {
			length = int(remaining)
		}
	}
	if length < minLength {
		length = minLength
	}
	if cap(bw.store) < length {
		bw.store = allocBytes(length, length)
	}
	window := bw.store[:cap(bw.store)]
	if limit := maxPosition - bw.startPos; int64(len(window)) > limit {
		window = window[:limit]
	}
	bw.SetWindow(window, 0)
	return true
}

func (bw *BufferedWriter) writeSlow(src []byte) bool {
	if len(src) >= bw.lengthToWriteDirectly() {
		if !bw.syncBuffer() {
			return false
		}
		if !bw.Ok() {
			return false
		}
		if int64(len(src)) > maxPosition-bw.startPos {
			return bw.failOverflow()
		}
		return bw.dest.WriteInternal(src)
	}
	return bw.writeByPush(src)
}

func (bw *BufferedWriter) flushImpl(mode FlushType) bool {
	data := bw.window[:bw.cursor]
	bw.SetWindow(nil, 0)
	if f, ok := bw.dest.(SinkFlusher); ok {
		return f.FlushBehindBuffer(data, mode)
	}
	if !bw.Ok() {
		return false
	}
	if len(data) == 0 {
		return true
	}
	return bw.dest.WriteInternal(data)
}

func (bw *BufferedWriter) seekSlow(newPos int64) bool {
	if !bw.syncBuffer() {
		return false
	}
	if s, ok := bw.dest.(SinkSeeker); ok {
		return s.SeekBehindBuffer(newPos)
	}
	return bw.failUnsupported("seek")
}

func (bw *BufferedWriter) sizeImpl() (int64, bool) {
	if !bw.syncBuffer() {
		return 0, false
	}
	if s, ok := bw.dest.(SinkSizer); ok {
		return s.SizeBehindBuffer()
	}
	return 0, false
}

func (bw *BufferedWriter) truncateImpl(newSize int64) bool {
	if !bw.syncBuffer() {
		return false
	}
	if t, ok := bw.dest.(SinkTruncater); ok {
		return t.TruncateBehindBuffer(newSize)
	}
	return bw.failUnsupported("truncate")
}

func (bw *BufferedWriter) readModeImpl(initialPos int64) *Reader {
	if !bw.syncBuffer() {
		return nil
	}
	if r, ok := bw.dest.(SinkReadModeSupporter); ok {
		return r.ReadModeBehindBuffer(initialPos)
	}
	bw.failUnsupported("read mode")
	return nil
}

func (bw *BufferedWriter) supportsRandomAccess() bool {
	if s, ok := bw.dest.(RandomAccessSupporter); ok {
		return s.SupportsRandomAccess()
	}
	_, ok := bw.dest.(SinkSeeker)
	return ok
}

func (bw *BufferedWriter) supportsReadMode() bool {
	_, ok := bw.dest.(SinkReadModeSupporter)
	return ok
}

func (bw *BufferedWriter) done() {
	data := bw.window[:bw.cursor]
	bw.SetWindow(nil, 0)
	if h, ok := bw.dest.(SinkDoneHook); ok {
		h.DoneBehindBuffer(data)
	} else if bw.Ok() && len(data) > 0 {
		bw.dest.WriteInternal(data)
	}
	bw.store = nil
}
