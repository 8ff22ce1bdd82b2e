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

import (
	"io"

	"golang.org/x/text/encoding"
)

// Reader is a read-only io.Reader/io.ByteReader view over a Source. It
// rejects write/seek entirely by simply not implementing those
// interfaces: there is nothing to reject at runtime.
type Reader struct {
	src Source
}

// NewReader wraps src as an io.Reader.
func NewReader(src Source) *Reader {
	return &Reader{src: src}
}

// Read fills p from src, reading more from the underlying source as
// needed, and returns io.EOF once src is exhausted and drained.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.src.Count() == 0 {
		if r.src.IsExhausted() {
			return 0, io.EOF
		}
		if _, err := r.src.FillBuffer(); err != nil {
			return 0, err
		}
		if r.src.Count() == 0 {
			return 0, io.EOF
		}
	}
	n := len(p)
	if n > r.src.Count() {
		n = r.src.Count()
	}
	copy(p, r.src.Buffer()[r.src.Offset():r.src.Offset()+n])
	if err := r.src.SkipBuffer(n); err != nil {
		return 0, err
	}
	return n, nil
}

// ReadByte reads a single byte, returning io.EOF once src is exhausted
// and drained.
func (r *Reader) ReadByte() (byte, error) {
	var buf [1]byte
	n, err := r.Read(buf[:])
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	return buf[0], err
}

// IsEmpty reports whether src has no more bytes to offer right now,
// without forcing a fill: IsExhausted() and Count() == 0 both hold.
func IsEmpty(src Source) bool {
	return src.Count() == 0 && src.IsExhausted()
}

// IndexOfByte returns the offset (relative to the window start) of the
// first occurrence of b within the bytes currently visible in src's
// window, or -1 if absent. It does not trigger a fill.
func IndexOfByte(src Source, b byte) int {
	buf := src.Buffer()
	start := src.Offset()
	count := src.Count()
	for i := 0; i < count; i++ {
		if buf[start+i] == b {
			return i
		}
	}
	return -1
}

// ReadInto copies exactly len(dst) bytes from src into dst, reading as
// needed, and fails with InsufficientData if src exhausts first.
func ReadInto(src Source, dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	if err := src.EnsureBuffer(len(dst)); err != nil {
		return err
	}
	copy(dst, src.Buffer()[src.Offset():src.Offset()+len(dst)])
	return src.SkipBuffer(len(dst))
}

// ReadAll drains src to exhaustion and returns every remaining byte.
func ReadAll(src Source) ([]byte, error) {
	var out []byte
	for {
		if src.Count() > 0 {
			out = append(out, src.Buffer()[src.Offset():src.Offset()+src.Count()]...)
			if err := src.SkipBuffer(src.Count()); err != nil {
				return out, err
			}
			continue
		}
		if src.IsExhausted() {
			return out, nil
		}
		if _, err := src.FillBuffer(); err != nil {
			return out, err
		}
	}
}

// ReadAllText drains src to exhaustion and decodes the result with enc.
func ReadAllText(src Source, enc encoding.Encoding) (string, error) {
	raw, err := ReadAll(src)
	if err != nil {
		return "", err
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// WriteTo drains src to exhaustion, copying every byte to w.
func WriteTo(src Source, w io.Writer) (int64, error) {
	var written int64
	for {
		if src.Count() > 0 {
			n, err := w.Write(src.Buffer()[src.Offset() : src.Offset()+src.Count()])
			written += int64(n)
			if err != nil {
				return written, err
			}
			if err := src.SkipBuffer(src.Count()); err != nil {
				return written, err
			}
			continue
		}
		if src.IsExhausted() {
			return written, nil
		}
		if _, err := src.FillBuffer(); err != nil {
			return written, err
		}
	}
}
