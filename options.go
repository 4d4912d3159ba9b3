// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx

// Options collects construction-time tunables shared by the concrete
// readers and writers. Fields are set through Option values; the zero
// Options means: adaptive buffer sizing between MinBufferSize and
// MaxBufferSize, no size hint, position taken from the stream, borrowed
// stream.
type Options struct {
	bufferSize    int
	sizeHint      int64
	hasSizeHint   bool
	assumedPos    int64
	hasAssumedPos bool
	growingSource bool
	ownedStream   bool
}

// Option is the property setter function for Options.
type Option func(*Options)

// makeOptions applies setters over the zero Options.
func makeOptions(setters []Option) Options {
	var o Options
	for _, set := range setters {
		if set != nil {
			set(&o)
		}
	}
	return o
}

// WithBufferSize pins the buffer size to n bytes, disabling adaptive
// growth. A request that needs more still gets a larger buffer: a Pull
// or Push whose minimum exceeds n, or a reader's Pull(1, recommended)
// with recommended above n. n < 1 is ignored.
func WithBufferSize(n int) Option {
	return func(o *Options) {
		if n >= 1 {
			o.bufferSize = n
		}
	}
}

// WithSizeHint declares the expected total size of the stream. Readers
// size their first buffers by it; writers avoid overshooting it.
// A wrong hint costs performance, never correctness. n < 0 is ignored.
func WithSizeHint(n int64) Option {
	return func(o *Options) {
		if n >= 0 {
			o.sizeHint = n
			o.hasSizeHint = true
		}
	}
}

// WithAssumedPosition declares the current stream position instead of
// querying the stream for it. For a StreamReader this also disables the
// random access probe: the stream is treated as sequential-only. A
// StreamWriter still seeks whenever its destination is an io.Seeker.
func WithAssumedPosition(pos int64) Option {
	return func(o *Options) {
		o.assumedPos = pos
		o.hasAssumedPos = true
	}
}

// WithGrowingSource declares that the source may gain bytes appended
// externally after construction. A discovered size is then advisory and
// never cached, so a stale size is never surfaced.
func WithGrowingSource() Option {
	return func(o *Options) { o.growingSource = true }
}

// WithOwnedStream transfers ownership of the underlying stream: Close
// also closes the stream if it implements io.Closer.
func WithOwnedStream() Option {
	return func(o *Options) { o.ownedStream = true }
}
