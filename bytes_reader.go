// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx

// BytesReader reads from a byte slice. It supports random access, its
// size is always known, and the whole source is the window, so every
// operation completes on the fast path.
//
// The slice must not be modified until the reader is closed or no
// longer used.
type BytesReader struct {
	Reader
	src []byte
}

// NewBytesReader returns a BytesReader over src.
func NewBytesReader(src []byte) *BytesReader {
	r := new(BytesReader)
	r.initReader(r)
	r.resetBytes(src)
	return r
}

// resetBytes rebinds the reader to src at position 0, clearing any
// prior state. Used at construction and by writers handing out a read
// mode view.
func (r *BytesReader) resetBytes(src []byte) {
	r.err = nil
	r.closed = false
	r.src = src
	r.SetWindow(src, 0)
	r.SetLimitPos(int64(len(src)))
}

func (r *BytesReader) pullSlow(minLength, recommendedLength int) bool {
	// The whole source is already in the window.
	return false
}

func (r *BytesReader) readSlow(dst []byte) bool {
	if !r.Ok() {
		return false
	}
	n := copy(dst, r.window[r.cursor:])
	r.cursor += n
	return n == len(dst)
}

func (r *BytesReader) copySlow(length int64, dst *Writer) bool {
	if !r.Ok() {
		return false
	}
	data := r.window[r.cursor:]
	r.cursor += len(data)
	if !dst.Write(data) {
		return false
	}
	return int64(len(data)) == length
}

func (r *BytesReader) seekSlow(newPos int64) bool {
	if !r.Ok() {
		return false
	}
	// The window spans the whole source, so only positions past the end
	// reach here: position at the end and report the short seek.
	r.cursor = len(r.window)
	return false
}

func (r *BytesReader) readHintSlow(minLength, recommendedLength int) {}

func (r *BytesReader) syncImpl(mode SyncType) bool { return r.Ok() }

func (r *BytesReader) sizeImpl() (int64, bool) {
	return int64(len(r.src)), true
}

func (r *BytesReader) supportsRandomAccess() bool { return true }

func (r *BytesReader) supportsRewind() bool { return true }

func (r *BytesReader) done() {
	pos := r.Pos()
	r.SetWindow(nil, 0)
	r.SetLimitPos(pos)
}
