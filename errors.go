// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx

import "errors"

// bufx failures carry a kind. The kind is a sentinel error reachable
// through errors.Is; the full terminal status additionally carries an
// operation message and, when available, the underlying OS error.
//
// Mental model:
//   - ErrInvalidArgument: the caller violated a precondition (e.g. seek
//     to a negative or senseless position).
//   - ErrUnsupported: the concrete Reader/Writer cannot perform the
//     operation (e.g. seek on a pipe). Expected control flow for feature
//     probing, terminal once an operation actually required it.
//   - ErrOverflow: 64-bit stream position arithmetic would wrap.
//   - ErrClosed: the object was closed before the operation.
//
// End of stream has no sentinel: it is reported by a false return with
// Ok() still true.

// ErrInvalidArgument means a caller-supplied argument was out of the
// operation's sensible range.
var ErrInvalidArgument = errors.New("bufx: invalid argument")

// ErrUnsupported means the operation is not supported by this
// implementation (seek without random access, truncate on a plain sink,
// read mode on a write-only destination).
var ErrUnsupported = errors.New("bufx: unsupported operation")

// ErrOverflow means a stream position would exceed the maximum
// representable position.
var ErrOverflow = errors.New("bufx: stream position overflow")

// ErrClosed means the object was already closed.
var ErrClosed = errors.New("bufx: object closed")

// IsInvalidArgument reports whether err carries the invalid-argument
// kind, including wrapped forms (via errors.Is).
func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }

// IsUnsupported reports whether err carries the unsupported-operation
// kind, including wrapped forms (via errors.Is).
func IsUnsupported(err error) bool { return errors.Is(err, ErrUnsupported) }

// IsOverflow reports whether err carries the position-overflow kind,
// including wrapped forms (via errors.Is).
func IsOverflow(err error) bool { return errors.Is(err, ErrOverflow) }

// IsClosed reports whether err carries the closed-object kind, including
// wrapped forms (via errors.Is).
func IsClosed(err error) bool { return errors.Is(err, ErrClosed) }

// Kind classifies a terminal status for compact switching.
//
// KindFailure covers failures propagated from the underlying stream that
// carry no bufx kind (mapped from the OS error when available).
type Kind uint8

const (
	KindFailure Kind = iota
	KindOK
	KindInvalidArgument
	KindUnsupported
	KindOverflow
	KindClosed
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "OK"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindUnsupported:
		return "Unsupported"
	case KindOverflow:
		return "Overflow"
	case KindClosed:
		return "Closed"
	default:
		return "Failure"
	}
}

// Classify maps err to a Kind. A nil err is KindOK.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case IsInvalidArgument(err):
		return KindInvalidArgument
	case IsUnsupported(err):
		return KindUnsupported
	case IsOverflow(err):
		return KindOverflow
	case IsClosed(err):
		return KindClosed
	default:
		return KindFailure
	}
}
