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

// SizeLimitedBufferedSource wraps an inner Source and exposes at most
// limit bytes of it. It shares the inner source's buffer directly: no
// bytes are copied, only the visible Count is capped.
type SizeLimitedBufferedSource struct {
	inner         Source
	countInBuffer int
	remainder     int64
}

// NewSizeLimitedBufferedSource caps inner to at most limit bytes. limit
// must be >= 0.
func NewSizeLimitedBufferedSource(inner Source, limit int64) (*SizeLimitedBufferedSource, error) {
	if limit < 0 {
		return nil, argRange("NewSizeLimitedBufferedSource", "limit=%d", limit)
	}
	s := &SizeLimitedBufferedSource{inner: inner, remainder: limit}
	s.updateLimits(limit)
	return s, nil
}

func (s *SizeLimitedBufferedSource) Buffer() []byte { return s.inner.Buffer() }
func (s *SizeLimitedBufferedSource) Offset() int    { return s.inner.Offset() }
func (s *SizeLimitedBufferedSource) Count() int     { return s.countInBuffer }

func (s *SizeLimitedBufferedSource) IsExhausted() bool {
	return s.inner.IsExhausted() || s.remainder == 0
}

// updateLimits recomputes the countInBuffer/remainder split given the
// total number of bytes still owed to the consumer (visible + reserved).
func (s *SizeLimitedBufferedSource) updateLimits(total int64) {
	r := total - int64(s.inner.Count())
	if r > 0 {
		s.countInBuffer = s.inner.Count()
		s.remainder = r
		return
	}
	s.countInBuffer = int(total)
	s.remainder = 0
}

// FillBuffer fills the inner source (only if there is remaining
// reservoir left to expose) and recomputes the visible/reserved split.
func (s *SizeLimitedBufferedSource) FillBuffer() (int, error) {
	total := int64(s.countInBuffer) + s.remainder
	if s.remainder > 0 {
		if _, err := s.inner.FillBuffer(); err != nil {
			return s.countInBuffer, err
		}
	}
	s.updateLimits(total)
	return s.countInBuffer, nil
}

// EnsureBuffer reads from the inner source until at least size bytes
// are visible, or fails InsufficientData if the limit or the inner
// source is exhausted first.
func (s *SizeLimitedBufferedSource) EnsureBuffer(size int) error {
	if size < 0 || size > len(s.Buffer()) {
		return argRange("SizeLimitedBufferedSource.EnsureBuffer", "size=%d buffer=%d", size, len(s.Buffer()))
	}
	for size > s.countInBuffer && !s.IsExhausted() {
		if _, err := s.FillBuffer(); err != nil {
			return err
		}
	}
	if size > s.countInBuffer {
		return insufficientData("SizeLimitedBufferedSource.EnsureBuffer", "requested %d, have %d", size, s.countInBuffer)
	}
	return nil
}

// SkipBuffer forwards to the inner source and deducts from the visible
// count.
func (s *SizeLimitedBufferedSource) SkipBuffer(size int) error {
	if size < 0 || size > s.countInBuffer {
		return argRange("SizeLimitedBufferedSource.SkipBuffer", "size=%d count=%d", size, s.countInBuffer)
	}
	if err := s.inner.SkipBuffer(size); err != nil {
		return err
	}
	s.countInBuffer -= size
	return nil
}

// TrySkip consumes up to size bytes, never exceeding the remaining
// limit.
func (s *SizeLimitedBufferedSource) TrySkip(size int64) (int64, error) {
	if size < 0 {
		return 0, argRange("SizeLimitedBufferedSource.TrySkip", "size=%d", size)
	}
	total := int64(s.countInBuffer) + s.remainder
	if size < total {
		skipped, err := s.inner.TrySkip(size)
		if err != nil {
			return skipped, err
		}
		s.updateLimits(total - skipped)
		return skipped, nil
	}
	skipped, err := s.inner.TrySkip(total)
	s.countInBuffer = 0
	s.remainder = 0
	return skipped, err
}
