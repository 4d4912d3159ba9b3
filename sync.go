// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx

// SyncType tells Reader.Sync how far a buffered cursor advance must
// propagate back toward the source.
type SyncType uint8

const (
	// SyncFromObject synchronizes this object with the source: where the
	// source supports random access, buffered readahead is discarded and
	// the source is repositioned at pos(); otherwise the readahead is
	// kept and the source stays ahead of pos().
	SyncFromObject SyncType = iota

	// SyncFromProcess additionally synchronizes state buffered inside
	// the process (e.g. a stdio layer under the source).
	SyncFromProcess

	// SyncFromMachine additionally synchronizes state buffered by the
	// operating system.
	SyncFromMachine
)

func (t SyncType) String() string {
	switch t {
	case SyncFromObject:
		return "FromObject"
	case SyncFromProcess:
		return "FromProcess"
	case SyncFromMachine:
		return "FromMachine"
	default:
		return "SyncType(unknown)"
	}
}

// FlushType tells Writer.Flush how durable the flushed data must be
// before the call returns.
type FlushType uint8

const (
	// FlushFromObject pushes buffered data out of this object into the
	// destination.
	FlushFromObject FlushType = iota

	// FlushFromProcess additionally pushes data out of process-level
	// buffers (the destination's own staging, stdio, ...).
	FlushFromProcess

	// FlushFromMachine additionally asks the destination for machine
	// durability. Success must mean the destination reported it.
	FlushFromMachine
)

func (t FlushType) String() string {
	switch t {
	case FlushFromObject:
		return "FromObject"
	case FlushFromProcess:
		return "FromProcess"
	case FlushFromMachine:
		return "FromMachine"
	default:
		return "FlushType(unknown)"
	}
}

// lazyBool is a lazily resolved boolean: unknown until the first query
// forces a probe, then pinned.
type lazyBool uint8

const (
	lazyUnknown lazyBool = iota
	lazyFalse
	lazyTrue
)

func (b lazyBool) String() string {
	switch b {
	case lazyFalse:
		return "false"
	case lazyTrue:
		return "true"
	default:
		return "unknown"
	}
}
