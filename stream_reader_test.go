// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx_test

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/bufx"
)

func TestStreamReaderSequential(t *testing.T) {
	r := bufx.NewStreamReader(&sequentialOnly{r: strings.NewReader("stream data")})
	dst := make([]byte, 6)
	require.True(t, r.Read(dst))
	assert.Equal(t, "stream", string(dst))
	assert.EqualValues(t, 6, r.Pos())

	data, err := bufx.ReadAll(&r.Reader)
	require.NoError(t, err)
	assert.Equal(t, " data", string(data))
	require.NoError(t, r.Close())
}

// End-of-stream short read through the buffered scaffold.
func TestStreamReaderShortRead(t *testing.T) {
	r := bufx.NewStreamReader(&sequentialOnly{r: strings.NewReader("hello")})
	dst := make([]byte, 10)
	assert.False(t, r.Read(dst))
	assert.True(t, r.Ok())
	assert.NoError(t, r.Err())
	assert.EqualValues(t, 5, r.Pos())
	assert.Equal(t, "hello", string(dst[:5]))
}

// Lazy probe over an unseekable source: Size reports nothing, random
// access resolves false, and the reader stays healthy.
func TestStreamReaderUnseekableProbe(t *testing.T) {
	payload := bytes.Repeat([]byte("unseekable"), 20)
	r := bufx.NewStreamReader(&sequentialOnly{r: bytes.NewReader(payload)},
		bufx.WithBufferSize(16))
	_, ok := r.Size()
	assert.False(t, ok)
	assert.False(t, r.SupportsRandomAccess())
	assert.True(t, r.Ok())

	// Forward seeking still works, by reading and discarding.
	require.True(t, r.Seek(150))
	assert.EqualValues(t, 150, r.Pos())
	b, okb := r.ReadByte()
	require.True(t, okb)
	assert.Equal(t, payload[150], b)

	// Backwards out of the buffered window does not.
	assert.False(t, r.Seek(0))
	assert.True(t, bufx.IsUnsupported(r.Err()))
}

// Lazy probe over a seekable source of size 100 starting at position
// 10: the first arbitrary seek resolves random access and records the
// size.
func TestStreamReaderSeekableProbe(t *testing.T) {
	src := newMemFile(bytes.Repeat([]byte{'s'}, 100))
	_, err := src.Seek(10, io.SeekStart)
	require.NoError(t, err)

	r := bufx.NewStreamReader(src)
	assert.EqualValues(t, 10, r.Pos())

	require.True(t, r.Seek(50))
	assert.EqualValues(t, 50, r.Pos())
	assert.True(t, r.SupportsRandomAccess())
	assert.True(t, r.SupportsRewind())

	size, ok := r.Size()
	require.True(t, ok)
	assert.EqualValues(t, 100, size)
	assert.True(t, r.Ok())
}

func TestStreamReaderSeekPastEnd(t *testing.T) {
	r := bufx.NewStreamReader(newMemFile([]byte("0123456789")))
	assert.False(t, r.Seek(42))
	assert.True(t, r.Ok())
	assert.EqualValues(t, 10, r.Pos())
}

func TestStreamReaderRewind(t *testing.T) {
	r := bufx.NewStreamReader(newMemFile([]byte("abcdefghij")))
	dst := make([]byte, 4)
	require.True(t, r.Read(dst))
	require.True(t, r.Seek(1))
	require.True(t, r.Read(dst))
	assert.Equal(t, "bcde", string(dst))
	assert.EqualValues(t, 5, r.Pos())
}

// A probe whose restoring seek fails is terminal: the reading position
// was lost.
func TestStreamReaderBrokenRestoreSeek(t *testing.T) {
	src := &brokenSeeker{r: newMemFile([]byte("abc")), err: errors.New("no seek")}
	r := bufx.NewStreamReader(src)
	assert.False(t, r.SupportsRandomAccess())
	require.Error(t, r.Err())
	assert.ErrorContains(t, r.Err(), "seek failed")
}

// With an assumed position the probe is skipped and positions are
// offset accordingly.
func TestStreamReaderAssumedPosition(t *testing.T) {
	r := bufx.NewStreamReader(&sequentialOnly{r: strings.NewReader("abc")},
		bufx.WithAssumedPosition(1000))
	assert.EqualValues(t, 1000, r.Pos())
	b, ok := r.ReadByte()
	require.True(t, ok)
	assert.Equal(t, byte('a'), b)
	assert.EqualValues(t, 1001, r.Pos())
}

// Reading at the maximum assumed position cannot move the position
// past the representable range.
func TestStreamReaderPositionOverflow(t *testing.T) {
	r := bufx.NewStreamReader(&sequentialOnly{r: strings.NewReader("abc")},
		bufx.WithAssumedPosition(math.MaxInt64))
	assert.False(t, r.Pull(1, 1))
	assert.True(t, bufx.IsOverflow(r.Err()))
}

// A growing source never caches a discovered size: bytes appended
// after a size discovery are still readable and resized.
func TestStreamReaderGrowingSource(t *testing.T) {
	src := newMemFile([]byte("first"))
	r := bufx.NewStreamReader(src, bufx.WithGrowingSource())

	size, ok := r.Size()
	require.True(t, ok)
	assert.EqualValues(t, 5, size)

	// The source grows behind the reader's back.
	src.data = append(src.data, []byte("+more")...)

	size, ok = r.Size()
	require.True(t, ok)
	assert.EqualValues(t, 10, size)

	data, err := bufx.ReadAll(&r.Reader)
	require.NoError(t, err)
	assert.Equal(t, "first+more", string(data))
}

// The ReadSome/Peek fast path drains available fragments, including
// the quirk where ReadSome returns zero right after a successful Peek.
func TestStreamReaderReadSomeFastPath(t *testing.T) {
	src := &chunkySource{data: []byte("fragmented-data-stream"), chunk: 4}
	r := bufx.NewStreamReader(src)
	data, err := bufx.ReadAll(&r.Reader)
	require.NoError(t, err)
	assert.Equal(t, "fragmented-data-stream", string(data))
}

func TestStreamReaderReadSomeWithheldFallsBack(t *testing.T) {
	src := &chunkySource{data: []byte("quirky"), chunk: 3, withheld: 1}
	r := bufx.NewStreamReader(src)
	dst := make([]byte, 6)
	require.True(t, r.Read(dst))
	assert.Equal(t, "quirky", string(dst))
}

func TestStreamReaderOwnedSourceClosed(t *testing.T) {
	src := &closableReader{Reader: strings.NewReader("abc")}
	r := bufx.NewStreamReader(src, bufx.WithOwnedStream())
	require.NoError(t, r.Close())
	assert.Equal(t, 1, src.closes)

	borrowed := &closableReader{Reader: strings.NewReader("abc")}
	r2 := bufx.NewStreamReader(borrowed)
	require.NoError(t, r2.Close())
	assert.Equal(t, 0, borrowed.closes)
}

// Sync discards buffered readahead and repositions the source so an
// external reader observes the logical position.
func TestStreamReaderSyncRepositionsSource(t *testing.T) {
	src := newMemFile([]byte("0123456789"))
	r := bufx.NewStreamReader(src)
	require.True(t, r.Pull(1, 10))
	// The scaffold read ahead past the cursor.
	require.Greater(t, r.Available(), 1)
	r.MoveCursor(2)
	require.True(t, r.Sync(bufx.SyncFromObject))
	assert.EqualValues(t, 2, src.off)
	assert.EqualValues(t, 2, r.Pos())
}

// Chunking schedule law: any read chunking yields the same
// concatenated bytes.
func TestStreamReaderChunkingSchedules(t *testing.T) {
	payload := make([]byte, 3*64+17)
	for i := range payload {
		payload[i] = byte(i * 31)
	}
	for _, chunk := range []int{1, 63, 64, 65, 128} {
		r := bufx.NewStreamReader(&sequentialOnly{r: bytes.NewReader(payload)},
			bufx.WithBufferSize(64))
		var got []byte
		dst := make([]byte, chunk)
		for {
			if r.Read(dst) {
				got = append(got, dst...)
				continue
			}
			require.True(t, r.Ok())
			tail := int(r.Pos()) - len(got)
			got = append(got, dst[:tail]...)
			break
		}
		assert.Equal(t, payload, got, "chunk size %d", chunk)
	}
}
