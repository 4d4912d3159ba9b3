// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx

// Reader is the base of all bufx readers. It holds a contiguous window
// of buffered bytes and a cursor into it; operations have inline fast
// paths that succeed when the window already holds enough unread bytes,
// and otherwise delegate to the slow paths of the concrete
// implementation wired at construction.
//
// Window invariant: 0 <= cursor <= len(window). LimitPos() is the
// stream position of the window's end, so
//
//	Pos()      = LimitPos() - Available()
//	StartPos() = LimitPos() - len(window)
//
// Pos() never decreases across successful reads, including reads that
// stop short at end of stream.
//
// Reader is not usable directly; construct a concrete reader such as
// BytesReader or StreamReader, or build one on the BufferedReader or
// PullableReader scaffolds.
type Reader struct {
	object
	window   []byte
	cursor   int
	limitPos int64
	impl     readerImpl
}

// readerImpl is the slow-path dispatch behind Reader's fast paths.
// Preconditions mirror the fast paths: a slow path is only entered when
// the fast path could not complete.
type readerImpl interface {
	// pullSlow makes at least minLength bytes available, targeting
	// recommendedLength. Precondition: Available() < minLength.
	pullSlow(minLength, recommendedLength int) bool

	// readSlow reads exactly len(dst) bytes to dst.
	// Precondition: Available() < len(dst).
	readSlow(dst []byte) bool

	// copySlow transfers length bytes to dst.
	// Precondition: Available() < length.
	copySlow(length int64, dst *Writer) bool

	// seekSlow repositions at newPos.
	// Precondition: newPos outside [StartPos(), LimitPos()].
	seekSlow(newPos int64) bool

	// readHintSlow notes that at least minLength contiguous bytes will
	// be needed soon. Precondition: Available() < minLength.
	readHintSlow(minLength, recommendedLength int)

	// syncImpl propagates a buffered cursor advance to the source.
	syncImpl(mode SyncType) bool

	// sizeImpl returns the total stream size if known or discoverable.
	sizeImpl() (int64, bool)

	supportsRandomAccess() bool
	supportsRewind() bool

	// done releases buffers and settles the source before close.
	done()
}

// initReader wires the slow-path implementation. Called once by
// concrete reader constructors before first use.
func (r *Reader) initReader(impl readerImpl) { r.impl = impl }

// Available returns the number of unread bytes in the window.
func (r *Reader) Available() int { return len(r.window) - r.cursor }

// Pos returns the current stream position of the cursor.
func (r *Reader) Pos() int64 { return r.limitPos - int64(r.Available()) }

// StartPos returns the stream position of the window's start.
func (r *Reader) StartPos() int64 { return r.limitPos - int64(len(r.window)) }

// LimitPos returns the stream position of the window's end.
//
// LimitPos and the window mutators below are for Reader implementations
// (BufferSource, PullSource and readers built on the scaffolds); casual
// callers never need them.
func (r *Reader) LimitPos() int64 { return r.limitPos }

// Unread returns the unread portion of the window. The slice is only
// valid until the next Reader operation; Pull(n, _) guarantees
// len(Unread()) >= n on success.
func (r *Reader) Unread() []byte { return r.window[r.cursor:] }

// SetWindow replaces the buffered window and cursor. LimitPos is
// unchanged; implementations adjust it separately with MoveLimitPos or
// SetLimitPos.
func (r *Reader) SetWindow(window []byte, cursor int) {
	r.window = window
	r.cursor = cursor
}

// MoveCursor advances the cursor by n bytes, n <= Available().
func (r *Reader) MoveCursor(n int) { r.cursor += n }

// MoveLimitPos advances LimitPos by n, saturating at the maximum
// position.
func (r *Reader) MoveLimitPos(n int) { r.limitPos = saturatingAdd64(r.limitPos, int64(n)) }

// SetLimitPos sets LimitPos to pos.
func (r *Reader) SetLimitPos(pos int64) { r.limitPos = pos }

// Pull ensures at least minLength contiguous unread bytes are available
// in the window, reading ahead toward recommendedLength when the source
// cooperates. It returns false if the stream ends before minLength
// bytes (Ok() stays true) or on failure (Err() reports it).
func (r *Reader) Pull(minLength, recommendedLength int) bool {
	if r.Available() >= minLength {
		return true
	}
	return r.impl.pullSlow(minLength, recommendedLength)
}

// Read reads exactly len(dst) bytes into dst, advancing the cursor.
// On a short read it returns false with the bytes up to the end of the
// stream already delivered and the cursor advanced past them.
func (r *Reader) Read(dst []byte) bool {
	if len(dst) <= r.Available() {
		// copy(_, nil) is fine; the guard keeps the zero-length case off
		// the cursor bookkeeping.
		if len(dst) > 0 {
			copy(dst, r.window[r.cursor:])
			r.cursor += len(dst)
		}
		return true
	}
	return r.impl.readSlow(dst)
}

// ReadByte reads and returns the next byte.
func (r *Reader) ReadByte() (byte, bool) {
	if !r.Pull(1, 1) {
		return 0, false
	}
	b := r.window[r.cursor]
	r.cursor++
	return b, true
}

// Skip advances the cursor by length bytes, reading and discarding as
// needed. It returns false if the stream ends first (Ok() stays true)
// or on failure.
func (r *Reader) Skip(length int64) bool {
	if length < 0 {
		return r.failInvalid("negative skip length")
	}
	if length <= int64(r.Available()) {
		r.cursor += int(length)
		return true
	}
	return r.impl.seekSlow(saturatingAdd64(r.Pos(), length))
}

// Copy transfers length bytes to dst without intermediate copying where
// the window allows. A short transfer is reported by a false return;
// dst's position delta tells how much arrived.
func (r *Reader) Copy(length int64, dst *Writer) bool {
	if length < 0 {
		return r.failInvalid("negative copy length")
	}
	if length <= int64(r.Available()) {
		data := r.window[r.cursor : r.cursor+int(length)]
		r.cursor += int(length)
		if len(data) == 0 {
			return true
		}
		return dst.Write(data)
	}
	return r.impl.copySlow(length, dst)
}

// Seek repositions the cursor at newPos. Seeking backwards requires
// SupportsRewind; seeking to an arbitrary position requires
// SupportsRandomAccess. Seeking past the end positions at the end and
// returns false with Ok() still true.
func (r *Reader) Seek(newPos int64) bool {
	if newPos >= r.StartPos() && newPos <= r.limitPos {
		r.cursor = len(r.window) - int(r.limitPos-newPos)
		return r.Ok()
	}
	if newPos < 0 {
		return r.failInvalid("negative seek position")
	}
	return r.impl.seekSlow(newPos)
}

// ReadHint hints that at least minLength contiguous bytes will be
// needed soon, targeting recommendedLength. Implementations may use it
// to size the next refill; it never fails.
func (r *Reader) ReadHint(minLength, recommendedLength int) {
	if r.Available() >= minLength {
		return
	}
	r.impl.readHintSlow(minLength, recommendedLength)
}

// Sync propagates a buffered cursor advance back to the source, so that
// an external reader of the same source observes the logical position.
// A source without random access cannot be moved back and stays ahead
// of the logical position.
func (r *Reader) Sync(mode SyncType) bool { return r.impl.syncImpl(mode) }

// Size returns the total stream size if known or discoverable. A
// source that cannot tell reports (0, false) without failing the
// reader.
func (r *Reader) Size() (int64, bool) { return r.impl.sizeImpl() }

// SupportsRandomAccess reports whether Seek to an arbitrary position is
// supported. The first query may probe the source.
func (r *Reader) SupportsRandomAccess() bool { return r.impl.supportsRandomAccess() }

// SupportsRewind reports whether seeking backwards is supported.
func (r *Reader) SupportsRewind() bool { return r.impl.supportsRewind() }

// Close releases buffers, settles the source, and makes the terminal
// status final. Close is idempotent; it returns the terminal status.
func (r *Reader) Close() error {
	if r.closed {
		return r.err
	}
	r.impl.done()
	r.closed = true
	return r.err
}

// onFail freezes the reader at its current position with an empty
// window, so that after a terminal failure every fast path falls
// through to a slow path, which short-circuits on the recorded status.
func (r *Reader) onFail() {
	pos := r.Pos()
	r.SetWindow(nil, 0)
	r.SetLimitPos(pos)
}

// The fail helpers below shadow object's: a reader failure empties the
// window first (see onFail).

func (r *Reader) fail(err error) bool {
	r.onFail()
	return r.object.fail(err)
}

func (r *Reader) failOperation(operation string, cause error) bool {
	r.onFail()
	return r.object.failOperation(operation, cause)
}

func (r *Reader) failUnsupported(operation string) bool {
	r.onFail()
	return r.object.failUnsupported(operation)
}

func (r *Reader) failInvalid(detail string) bool {
	r.onFail()
	return r.object.failInvalid(detail)
}

func (r *Reader) failOverflow() bool {
	r.onFail()
	return r.object.failOverflow()
}

// copyByRead is the generic window-at-a-time transfer engine shared by
// the scaffolds' copySlow implementations.
func (r *Reader) copyByRead(length int64, dst *Writer) bool {
	for {
		if avail := int64(r.Available()); avail >= length {
			data := r.window[r.cursor : r.cursor+int(length)]
			r.cursor += int(length)
			return dst.Write(data)
		}
		if avail := r.Available(); avail > 0 {
			data := r.window[r.cursor:]
			r.cursor += avail
			if !dst.Write(data) {
				return false
			}
			length -= int64(avail)
		}
		if !r.Pull(1, clampToInt(length)) {
			return false
		}
	}
}

// ReadAll reads r to the end of the stream and returns the bytes read.
// A nil error with a short result cannot happen: the result covers
// everything up to the end of the stream, or err reports the terminal
// failure alongside what was read before it.
func ReadAll(r *Reader) ([]byte, error) {
	var out []byte
	for r.Pull(1, MaxBufferSize) {
		out = append(out, r.Unread()...)
		r.MoveCursor(r.Available())
	}
	return out, r.Err()
}
