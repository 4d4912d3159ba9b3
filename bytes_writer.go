// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx

// BytesWriter writes to an in-memory byte slice that grows as needed.
// It supports Seek anywhere within the written bytes (later writes
// overwrite in place), Truncate, Size, and ReadMode.
//
// The window is carved directly out of the destination slice: appending
// writes land in spare capacity, and writes after a backward Seek land
// over the existing bytes, so no separate staging buffer exists.
type BytesWriter struct {
	Writer
	dest       []byte
	reader     BytesReader
	inReadMode bool
}

// NewBytesWriter returns an empty BytesWriter. A size hint preallocates
// the destination.
func NewBytesWriter(opts ...Option) *BytesWriter {
	o := makeOptions(opts)
	w := new(BytesWriter)
	capacity := MinBufferSize
	if o.hasSizeHint && o.sizeHint > 0 {
		capacity = clampToInt(o.sizeHint)
	}
	w.dest = allocBytes(0, capacity)
	w.initWriter(w)
	w.setAppendWindow()
	return w
}

// Bytes returns the written contents. While the writer is open the
// slice stays owned by it and is only valid until the next operation.
func (w *BytesWriter) Bytes() []byte {
	if !w.closed {
		w.syncDest()
	}
	return w.dest
}

// syncDest materializes window writes into the destination length.
// Overwrite-window bytes are already in place; append-window bytes
// become part of the contents by extending the length.
func (w *BytesWriter) syncDest() {
	if end := int(w.startPos) + w.cursor; end > len(w.dest) {
		w.dest = w.dest[:end]
	}
}

// setAppendWindow exposes the spare capacity after the contents as the
// window.
func (w *BytesWriter) setAppendWindow() {
	w.SetStartPos(int64(len(w.dest)))
	w.SetWindow(w.dest[len(w.dest):cap(w.dest)], 0)
}

// setWindowAt exposes dest[pos:len] (overwrite region) as the window,
// or the append region when pos is at the end.
func (w *BytesWriter) setWindowAt(pos int) {
	if pos == len(w.dest) {
		w.setAppendWindow()
		return
	}
	w.SetStartPos(int64(pos))
	w.SetWindow(w.dest[pos:len(w.dest)], 0)
}

// leaveReadMode repositions the writer at the read view's position
// before the next mutation, per the ReadMode contract.
func (w *BytesWriter) leaveReadMode() {
	if !w.inReadMode {
		return
	}
	w.inReadMode = false
	pos := w.reader.Pos()
	if pos > int64(len(w.dest)) {
		pos = int64(len(w.dest))
	}
	w.setWindowAt(int(pos))
}

func (w *BytesWriter) pushSlow(minLength, recommendedLength int) bool {
	if !w.Ok() {
		return false
	}
	w.leaveReadMode()
	w.syncDest()
	pos := int(w.startPos) + w.cursor
	if minLength > maxInt-pos {
		return w.failOverflow()
	}
	if need := pos + minLength; need > cap(w.dest) {
		capacity := saturatingAddInt(cap(w.dest), cap(w.dest))
		if capacity < need {
			capacity = need
		}
		if want := saturatingAddInt(pos, recommendedLength); capacity < want && want <= saturatingAddInt(capacity, capacity) {
			capacity = want
		}
		grown := allocBytes(len(w.dest), capacity)
		copy(grown, w.dest)
		w.dest = grown
	}
	w.setWindowAt(pos)
	return true
}

func (w *BytesWriter) writeSlow(src []byte) bool {
	return w.writeByPush(src)
}

func (w *BytesWriter) flushImpl(mode FlushType) bool {
	if !w.Ok() {
		return false
	}
	// Process memory is as durable as this destination gets; every
	// level is satisfied once the contents are materialized.
	w.syncDest()
	return true
}

func (w *BytesWriter) seekSlow(newPos int64) bool {
	if !w.Ok() {
		return false
	}
	w.leaveReadMode()
	w.syncDest()
	if newPos > int64(len(w.dest)) {
		return w.failInvalid("seek past writer size")
	}
	w.setWindowAt(int(newPos))
	return true
}

func (w *BytesWriter) sizeImpl() (int64, bool) {
	if !w.Ok() {
		return 0, false
	}
	w.syncDest()
	return int64(len(w.dest)), true
}

func (w *BytesWriter) truncateImpl(newSize int64) bool {
	if !w.Ok() {
		return false
	}
	w.leaveReadMode()
	w.syncDest()
	if newSize > int64(len(w.dest)) {
		return w.failInvalid("truncate past writer size")
	}
	w.dest = w.dest[:newSize]
	w.setAppendWindow()
	return true
}

func (w *BytesWriter) readModeImpl(initialPos int64) *Reader {
	if !w.Ok() {
		return nil
	}
	w.syncDest()
	// Drop the window so the next write takes a slow path and can
	// reposition at the read view's position first.
	w.SetStartPos(int64(len(w.dest)))
	w.SetWindow(nil, 0)
	w.reader.initReader(&w.reader)
	w.reader.resetBytes(w.dest)
	if initialPos > int64(len(w.dest)) {
		initialPos = int64(len(w.dest))
	}
	w.reader.Seek(initialPos)
	w.inReadMode = true
	return &w.reader.Reader
}

func (w *BytesWriter) supportsRandomAccess() bool { return true }

func (w *BytesWriter) supportsReadMode() bool { return true }

func (w *BytesWriter) done() {
	w.syncDest()
	w.SetStartPos(int64(len(w.dest)))
	w.SetWindow(nil, 0)
}
