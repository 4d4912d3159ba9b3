// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx

import (
	"io"

	"github.com/pkg/errors"
)

// Adapters between bufx objects and the standard io interfaces, for
// handing a Reader or Writer to code that speaks io. Status kinds map
// onto returned errors: a terminal status is returned as-is, an
// unsupported seek reports ErrUnsupported, and the natural end of a
// stream is io.EOF.

// NewReadSeekCloser exposes r as an io.ReadSeekCloser. Seek support
// follows the reader's: seeking fails with ErrUnsupported where the
// reader cannot rewind, and io.SeekEnd requires a discoverable size.
// Closing closes r.
func NewReadSeekCloser(r *Reader) io.ReadSeekCloser {
	return &readerAdapter{r: r}
}

type readerAdapter struct {
	r *Reader
}

func (a *readerAdapter) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if a.r.Closed() {
		return 0, ErrClosed
	}
	if !a.r.Pull(1, len(p)) {
		if err := a.r.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	n := copy(p, a.r.Unread())
	a.r.MoveCursor(n)
	return n, nil
}

func (a *readerAdapter) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = a.r.Pos()
	case io.SeekEnd:
		size, ok := a.r.Size()
		if !ok {
			if err := a.r.Err(); err != nil {
				return 0, err
			}
			return 0, errors.WithMessage(ErrUnsupported, "seek from end")
		}
		base = size
	default:
		return 0, errors.WithMessage(ErrInvalidArgument, "seek whence")
	}
	newPos := base + offset
	if newPos < 0 {
		return 0, errors.WithMessage(ErrInvalidArgument, "negative position")
	}
	// A short seek (past the end) leaves the reader positioned at the
	// end; report where it landed, like lseek on a sparse-less file.
	a.r.Seek(newPos)
	if err := a.r.Err(); err != nil {
		return 0, err
	}
	return a.r.Pos(), nil
}

func (a *readerAdapter) Close() error { return a.r.Close() }

// NewWriteSeekCloser exposes w as an io.Writer + io.Seeker + io.Closer
// plus a Sync method mapping to Flush(FlushFromProcess). Closing
// closes w.
func NewWriteSeekCloser(w *Writer) interface {
	io.Writer
	io.Seeker
	io.Closer
	Sync() error
} {
	return &writerAdapter{w: w}
}

type writerAdapter struct {
	w *Writer
}

func (a *writerAdapter) Write(p []byte) (int, error) {
	if a.w.Closed() {
		return 0, ErrClosed
	}
	before := a.w.Pos()
	if a.w.Write(p) {
		return len(p), nil
	}
	// Partial progress is reported by the position delta.
	n := int(a.w.Pos() - before)
	err := a.w.Err()
	if err == nil {
		err = io.ErrShortWrite
	}
	return n, err
}

func (a *writerAdapter) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = a.w.Pos()
	case io.SeekEnd:
		size, ok := a.w.Size()
		if !ok {
			if err := a.w.Err(); err != nil {
				return 0, err
			}
			return 0, errors.WithMessage(ErrUnsupported, "seek from end")
		}
		base = size
	default:
		return 0, errors.WithMessage(ErrInvalidArgument, "seek whence")
	}
	newPos := base + offset
	if newPos < 0 {
		return 0, errors.WithMessage(ErrInvalidArgument, "negative position")
	}
	if !a.w.Seek(newPos) {
		if err := a.w.Err(); err != nil {
			return 0, err
		}
		return 0, errors.WithMessage(ErrUnsupported, "seek")
	}
	return a.w.Pos(), nil
}

func (a *writerAdapter) Sync() error {
	if a.w.Flush(FlushFromProcess) {
		return nil
	}
	return a.w.Err()
}

func (a *writerAdapter) Close() error { return a.w.Close() }
