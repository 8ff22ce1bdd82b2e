// Copyright 2024 Atomstate Technologies Private Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bufsource

// ArrayBufferedSource adapts an already-populated byte slice to the
// Source contract. It is always exhausted: FillBuffer is a no-op, and
// only SkipBuffer/TrySkip ever change its window.
type ArrayBufferedSource struct {
	buf    []byte
	offset int
	count  int
}

// NewArrayBufferedSource wraps the whole of data.
func NewArrayBufferedSource(data []byte) *ArrayBufferedSource {
	return &ArrayBufferedSource{buf: data, offset: 0, count: len(data)}
}

// NewArrayBufferedSourceRange wraps data[offset : offset+count].
func NewArrayBufferedSourceRange(data []byte, offset, count int) (*ArrayBufferedSource, error) {
	if offset < 0 || count < 0 || offset+count > len(data) {
		return nil, argRange("NewArrayBufferedSourceRange", "offset=%d count=%d len=%d", offset, count, len(data))
	}
	return &ArrayBufferedSource{buf: data, offset: offset, count: count}, nil
}

func (a *ArrayBufferedSource) Buffer() []byte   { return a.buf }
func (a *ArrayBufferedSource) Offset() int      { return a.offset }
func (a *ArrayBufferedSource) Count() int       { return a.count }
func (a *ArrayBufferedSource) IsExhausted() bool { return true }

// FillBuffer is a no-op: an array source already holds all its bytes.
func (a *ArrayBufferedSource) FillBuffer() (int, error) { return a.count, nil }

// EnsureBuffer fails with InsufficientData if size exceeds the bytes
// already available, since an array source can never read more.
func (a *ArrayBufferedSource) EnsureBuffer(size int) error {
	if size < 0 || size > len(a.buf) {
		return argRange("ArrayBufferedSource.EnsureBuffer", "size=%d buffer=%d", size, len(a.buf))
	}
	if size > a.count {
		return insufficientData("ArrayBufferedSource.EnsureBuffer", "requested %d, have %d", size, a.count)
	}
	return nil
}

// SkipBuffer consumes size bytes from the head of the window.
func (a *ArrayBufferedSource) SkipBuffer(size int) error {
	if size < 0 || size > a.count {
		return argRange("ArrayBufferedSource.SkipBuffer", "size=%d count=%d", size, a.count)
	}
	a.offset += size
	a.count -= size
	return nil
}

// TrySkip consumes up to size bytes, returning how many were available.
func (a *ArrayBufferedSource) TrySkip(size int64) (int64, error) {
	if size < 0 {
		return 0, argRange("ArrayBufferedSource.TrySkip", "size=%d", size)
	}
	n := size
	if n > int64(a.count) {
		n = int64(a.count)
	}
	a.offset += int(n)
	a.count -= int(n)
	return n, nil
}
