// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/bufx"
)

func TestBytesWriterBasics(t *testing.T) {
	w := bufx.NewBytesWriter()
	assert.True(t, w.Ok())
	assert.EqualValues(t, 0, w.Pos())
	assert.True(t, w.SupportsRandomAccess())
	assert.True(t, w.SupportsReadMode())

	require.True(t, w.Write([]byte("hello")))
	require.True(t, w.WriteString(", "))
	require.True(t, w.WriteByte('w'))
	require.True(t, w.Write([]byte("orld")))
	assert.EqualValues(t, 12, w.Pos())

	size, ok := w.Size()
	require.True(t, ok)
	assert.EqualValues(t, 12, size)
	assert.Equal(t, "hello, world", string(w.Bytes()))

	require.NoError(t, w.Close())
	assert.Equal(t, "hello, world", string(w.Bytes()))
	require.NoError(t, w.Close())
}

func TestBytesWriterSeekOverwrite(t *testing.T) {
	w := bufx.NewBytesWriter()
	require.True(t, w.Write([]byte("abcdef")))
	require.True(t, w.Seek(2))
	assert.EqualValues(t, 2, w.Pos())
	require.True(t, w.Write([]byte("XY")))
	assert.EqualValues(t, 4, w.Pos())
	// Writing past the old end extends the contents.
	require.True(t, w.Write([]byte("zzzz")))
	assert.Equal(t, "abXYzzzz", string(w.Bytes()))

	// Seek past the size is a caller error.
	assert.False(t, w.Seek(100))
	assert.True(t, bufx.IsInvalidArgument(w.Err()))
}

func TestBytesWriterTruncate(t *testing.T) {
	w := bufx.NewBytesWriter()
	require.True(t, w.Write([]byte("0123456789")))
	require.True(t, w.Truncate(4))
	assert.EqualValues(t, 4, w.Pos())
	require.True(t, w.Write([]byte("!")))
	assert.Equal(t, "0123!", string(w.Bytes()))

	assert.False(t, w.Truncate(100))
	assert.True(t, bufx.IsInvalidArgument(w.Err()))
}

func TestBytesWriterWriteZeros(t *testing.T) {
	w := bufx.NewBytesWriter()
	require.True(t, w.Write([]byte("ab")))
	require.True(t, w.WriteZeros(5))
	require.True(t, w.Write([]byte("cd")))
	assert.Equal(t, []byte{'a', 'b', 0, 0, 0, 0, 0, 'c', 'd'}, w.Bytes())

	assert.False(t, w.WriteZeros(-1))
	assert.True(t, bufx.IsInvalidArgument(w.Err()))
}

func TestBytesWriterFlushLevels(t *testing.T) {
	w := bufx.NewBytesWriter()
	require.True(t, w.Write([]byte("data")))
	assert.True(t, w.Flush(bufx.FlushFromObject))
	assert.True(t, w.Flush(bufx.FlushFromProcess))
	assert.True(t, w.Flush(bufx.FlushFromMachine))
	size, ok := w.Size()
	require.True(t, ok)
	assert.GreaterOrEqual(t, size, int64(4))
}

// Writer→Reader round-trip: write "xyz", enter read mode at 1, read
// "yz", then a Write repositions the writer at the reader's position
// and appends.
func TestBytesWriterReadMode(t *testing.T) {
	w := bufx.NewBytesWriter()
	require.True(t, w.Write([]byte("xyz")))

	r := w.ReadMode(1)
	require.NotNil(t, r)
	assert.EqualValues(t, 1, r.Pos())
	dst := make([]byte, 2)
	require.True(t, r.Read(dst))
	assert.Equal(t, "yz", string(dst))
	assert.EqualValues(t, 3, r.Pos())

	require.True(t, w.Write([]byte("Q")))
	assert.EqualValues(t, 4, w.Pos())
	assert.Equal(t, "xyzQ", string(w.Bytes()))
}

func TestBytesWriterReadModeRewound(t *testing.T) {
	w := bufx.NewBytesWriter()
	require.True(t, w.Write([]byte("abcdef")))

	r := w.ReadMode(0)
	require.NotNil(t, r)
	b, ok := r.ReadByte()
	require.True(t, ok)
	assert.Equal(t, byte('a'), b)

	// The next write lands where the reader stopped.
	require.True(t, w.Write([]byte("B")))
	assert.Equal(t, "aBcdef", string(w.Bytes()))
}

func TestBytesWriterSizeHintPreallocates(t *testing.T) {
	w := bufx.NewBytesWriter(bufx.WithSizeHint(1 << 20))
	payload := bytes.Repeat([]byte("p"), 1<<16)
	require.True(t, w.Write(payload))
	assert.Equal(t, payload, w.Bytes())
}

func TestWriterPosMonotoneAndSticky(t *testing.T) {
	w := bufx.NewBytesWriter()
	require.True(t, w.Write([]byte("abc")))
	assert.False(t, w.Truncate(-1))
	require.Error(t, w.Err())
	pos := w.Pos()
	assert.False(t, w.Write([]byte("more")))
	assert.False(t, w.WriteByte('x'))
	assert.False(t, w.Push(1, 1))
	assert.Equal(t, pos, w.Pos())
}
