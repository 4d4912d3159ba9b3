// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx

// Package bufx provides a layered buffered reader/writer framework over
// arbitrary byte sources and sinks: in-memory slices, sequential streams
// with or without random access, and user-defined fragmented sources.
//
// Every Reader and Writer exposes a contiguous window into its data and a
// small set of operations written in a fast-path/slow-path pattern: the
// fast path succeeds when the window already holds enough bytes (or space),
// otherwise a slow path asks the concrete implementation to refill, flush,
// or reposition.
//
// Three scaffolds carry most implementations:
//   - BufferedReader: the source delivers bytes into an owned, adaptively
//     sized buffer (see BufferSource).
//   - BufferedWriter: writes are staged in an owned buffer and handed to
//     the sink in large runs (see WriteSink).
//   - PullableReader: the source exposes its own buffers, possibly
//     fragmented; a scratch buffer transparently synthesizes contiguous
//     views across fragment boundaries (see PullSource).
//
// Result semantics
//   - A natural end of stream is not a failure: the operation returns
//     false while Ok() stays true and Err() stays nil.
//   - Any other failure is terminal and sticky: Ok() turns false, Err()
//     reports the cause, and every later mutating operation returns false
//     without touching the stream.
//
// Instances are not safe for concurrent mutation; distinct instances are
// independent.
