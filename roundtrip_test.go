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

// Write through a BufferedWriter, read back through a matching reader:
// output equals input for chunk schedules straddling every buffer
// boundary.
func TestRoundTripChunkSchedules(t *testing.T) {
	const size = 64
	payload := make([]byte, 5*size+13)
	for i := range payload {
		payload[i] = byte(i*131 + 7)
	}
	for _, chunk := range []int{1, size - 1, size, size + 1, 2 * size} {
		var sink bytes.Buffer
		w := bufx.NewStreamWriter(&sink, bufx.WithBufferSize(size))
		for off := 0; off < len(payload); off += chunk {
			end := off + chunk
			if end > len(payload) {
				end = len(payload)
			}
			require.True(t, w.Write(payload[off:end]), "chunk %d", chunk)
		}
		require.NoError(t, w.Close())
		require.Equal(t, payload, sink.Bytes(), "chunk %d", chunk)

		r := bufx.NewStreamReader(bytes.NewReader(sink.Bytes()),
			bufx.WithBufferSize(size))
		got, err := bufx.ReadAll(&r.Reader)
		require.NoError(t, err)
		assert.Equal(t, payload, got, "chunk %d", chunk)
		require.NoError(t, r.Close())
	}
}

// Reader.Copy drives arbitrary amounts between a buffered reader and a
// buffered writer.
func TestRoundTripCopy(t *testing.T) {
	payload := bytes.Repeat([]byte("0123456789abcdef"), 100)
	r := bufx.NewStreamReader(bytes.NewReader(payload), bufx.WithBufferSize(64))
	var sink bytes.Buffer
	w := bufx.NewStreamWriter(&sink, bufx.WithBufferSize(48))

	require.True(t, r.Copy(700, &w.Writer))
	require.True(t, r.Copy(900, &w.Writer))
	remaining := int64(len(payload)) - 1600
	require.True(t, r.Copy(remaining, &w.Writer))
	require.NoError(t, w.Close())
	assert.Equal(t, payload, sink.Bytes())

	// Position deltas matched the transfer.
	assert.EqualValues(t, len(payload), r.Pos())
}

// A pullable view feeds a writer across fragment boundaries and the
// result still equals the source.
func TestRoundTripFragmentsToWriter(t *testing.T) {
	payload := bytes.Repeat([]byte("fragmented payload "), 20)
	r := newFragmentReader(fragmented(payload, 7)...)
	w := bufx.NewBytesWriter(bufx.WithSizeHint(int64(len(payload))))
	require.True(t, r.Copy(int64(len(payload)), &w.Writer))
	assert.Equal(t, payload, w.Bytes())
}

// Flush followed by Size reports at least the bytes ever written.
func TestFlushThenSize(t *testing.T) {
	file := newMemFile(nil)
	w := bufx.NewStreamWriter(file, bufx.WithBufferSize(32))
	total := int64(0)
	for i := 0; i < 10; i++ {
		chunk := bytes.Repeat([]byte{byte(i)}, 11)
		require.True(t, w.Write(chunk))
		total += int64(len(chunk))
	}
	require.True(t, w.Flush(bufx.FlushFromObject))
	size, ok := w.Size()
	require.True(t, ok)
	assert.GreaterOrEqual(t, size, total)
	require.NoError(t, w.Close())
}
