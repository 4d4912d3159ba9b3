// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx

import "github.com/bytedance/gopkg/lang/dirtmake"

const (
	// MinBufferSize is the default first buffer size (4KiB). Small first
	// reads and writes should not pay for a full-size buffer.
	MinBufferSize = 4 << 10

	// MaxBufferSize is the default ceiling for adaptive buffer growth
	// (64KiB).
	MaxBufferSize = 64 << 10
)

// growth is an exponential block-size progression with a ceiling, used
// to size read and write buffers adaptively: the first buffer is small,
// each refill doubles the target until the ceiling.
//
// Zero-value is ready to use: a freshly declared growth{} progresses
// from MinBufferSize to MaxBufferSize.
type growth struct {
	base int // first block size
	max  int // ceiling
	cur  int // last size handed out (0 before the first Next)
}

// Next advances the progression and returns the next target size:
// min(base * 2^n, max).
func (g *growth) Next() int {
	if g.cur == 0 {
		g.cur = g.Base()
		if g.cur > g.Max() {
			g.cur = g.Max()
		}
		return g.cur
	}
	if g.cur < g.Max() {
		g.cur *= 2
		if g.cur > g.Max() {
			g.cur = g.Max()
		}
	}
	return g.cur
}

// Current returns the last size handed out without advancing.
// For a zero-value growth, returns Base().
func (g *growth) Current() int {
	if g.cur == 0 {
		return g.Base()
	}
	return g.cur
}

// SetBase configures the first block size.
func (g *growth) SetBase(n int) { g.base = n }

// SetMax configures the ceiling.
func (g *growth) SetMax(n int) { g.max = n }

// Reset restores the progression to the first block.
func (g *growth) Reset() { g.cur = 0 }

// Base returns the configured first block size, defaulting to
// MinBufferSize.
func (g *growth) Base() int {
	if g.base <= 0 {
		return MinBufferSize
	}
	return g.base
}

// Max returns the configured ceiling, defaulting to MaxBufferSize but
// never below Base().
func (g *growth) Max() int {
	m := g.max
	if m <= 0 {
		m = MaxBufferSize
	}
	if b := g.Base(); m < b {
		m = b
	}
	return m
}

// allocBytes allocates a byte slice of the given length and capacity
// without zeroing it. Every byte exposed to a caller is written first:
// refills copy into the slice before the window is extended over it.
func allocBytes(length, capacity int) []byte {
	return dirtmake.Bytes(length, capacity)
}
