// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx

import "github.com/pkg/errors"

// object is the lifecycle state shared by every Reader and Writer:
// open → optionally failed-terminal → closed.
//
// The first recorded failure is sticky; later failures are dropped so
// that Err() always reports the root cause. A closed object still
// answers queries but mutates nothing.
type object struct {
	err    error
	closed bool
}

// Ok reports whether the object is open and has not failed.
func (o *object) Ok() bool { return !o.closed && o.err == nil }

// Err returns the terminal status, or nil if no failure was recorded.
// End of stream is not a failure and is never reported here.
func (o *object) Err() error { return o.err }

// Closed reports whether Close has completed.
func (o *object) Closed() bool { return o.closed }

// fail records err as the terminal status if none is recorded yet.
// It always returns false so slow paths can `return o.fail(...)`.
func (o *object) fail(err error) bool {
	if o.err == nil {
		o.err = err
	}
	return false
}

// failOperation records a "<operation> failed" status wrapping cause.
func (o *object) failOperation(operation string, cause error) bool {
	if cause == nil {
		return o.fail(errors.New(operation + " failed"))
	}
	return o.fail(errors.Wrap(cause, operation+" failed"))
}

// failUnsupported records an ErrUnsupported status annotated with the
// unsupported operation.
func (o *object) failUnsupported(operation string) bool {
	return o.fail(errors.WithMessage(ErrUnsupported, operation))
}

// failInvalid records an ErrInvalidArgument status annotated with the
// violated precondition.
func (o *object) failInvalid(detail string) bool {
	return o.fail(errors.WithMessage(ErrInvalidArgument, detail))
}

// failOverflow records an ErrOverflow status.
func (o *object) failOverflow() bool { return o.fail(ErrOverflow) }
