// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufx_test

import (
	"errors"
	"io"
)

// memFile is a seekable, truncatable in-memory stream, the shape of an
// os.File for both reading and writing fakes.
type memFile struct {
	data []byte
	off  int64
}

func newMemFile(data []byte) *memFile {
	return &memFile{data: data}
}

func (f *memFile) Read(p []byte) (int, error) {
	if f.off >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.off:])
	f.off += int64(n)
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	if end := f.off + int64(len(p)); end > int64(len(f.data)) {
		grown := make([]byte, end)
		copy(grown, f.data)
		f.data = grown
	}
	n := copy(f.data[f.off:], p)
	f.off += int64(n)
	return n, nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = f.off
	case io.SeekEnd:
		base = int64(len(f.data))
	default:
		return 0, errors.New("bad whence")
	}
	pos := base + offset
	if pos < 0 {
		return 0, errors.New("negative offset")
	}
	f.off = pos
	return pos, nil
}

func (f *memFile) Truncate(size int64) error {
	if size < 0 {
		return errors.New("negative size")
	}
	if size <= int64(len(f.data)) {
		f.data = f.data[:size]
	} else {
		grown := make([]byte, size)
		copy(grown, f.data)
		f.data = grown
	}
	return nil
}

// sequentialOnly hides everything but Read, the shape of a pipe.
type sequentialOnly struct {
	r io.Reader
}

func (s *sequentialOnly) Read(p []byte) (int, error) { return s.r.Read(p) }

// brokenSeeker tells its position but fails every reposition, so a
// random access probe succeeds at telling and fails at seeking.
type brokenSeeker struct {
	r   *memFile
	err error
}

func (s *brokenSeeker) Read(p []byte) (int, error) { return s.r.Read(p) }

func (s *brokenSeeker) Seek(offset int64, whence int) (int64, error) {
	switch {
	case whence == io.SeekCurrent && offset == 0:
		return s.r.off, nil
	case whence == io.SeekEnd:
		return s.r.Seek(offset, whence)
	default:
		return 0, s.err
	}
}

// chunkySource delivers data through the ReadSome/Peek fast path in
// fixed-size chunks; plain Read stays available as the blocking
// fallback. withheld>0 makes the first ReadSome calls return 0 despite
// a successful Peek, the buffered-outside-the-fast-path quirk.
type chunkySource struct {
	data     []byte
	off      int
	chunk    int
	withheld int
}

func (s *chunkySource) Read(p []byte) (int, error) {
	if s.off >= len(s.data) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.off:])
	s.off += n
	return n, nil
}

func (s *chunkySource) ReadSome(p []byte) (int, error) {
	if s.withheld > 0 {
		s.withheld--
		return 0, nil
	}
	if s.off >= len(s.data) {
		return 0, nil
	}
	limit := len(p)
	if limit > s.chunk {
		limit = s.chunk
	}
	n := copy(p[:limit], s.data[s.off:])
	s.off += n
	return n, nil
}

func (s *chunkySource) Peek() (byte, error) {
	if s.off >= len(s.data) {
		return 0, io.EOF
	}
	return s.data[s.off], nil
}

// closableReader counts closes around a wrapped reader.
type closableReader struct {
	io.Reader
	closes int
}

func (c *closableReader) Close() error { c.closes++; return nil }
