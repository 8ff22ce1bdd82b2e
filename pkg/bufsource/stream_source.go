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

	"github.com/ackris/bufsource/pkg/bufpool"
	"go.uber.org/zap"
)

// StreamBufferedSource lifts an io.Reader into the Source contract.
// It is grounded on the teacher's ChunkedBytesStream: the same
// defragment-then-read fill loop, and the same seek-then-fall-back
// skip strategy, restated against a buffer window instead of Read().
//
// When the underlying reader also implements io.Seeker, TrySkip probes
// seekability with a single Seek call (the "capability probe" from
// SPEC_FULL.md §4) instead of relying on a distinguished error value;
// any error from that probe demotes the skip to the sequential-read
// fallback rather than failing the call.
type StreamBufferedSource struct {
	r         io.Reader
	supplier  bufpool.Supplier
	buf       []byte
	offset    int
	count     int
	exhausted bool
	logger    *zap.Logger
}

// StreamOption configures a StreamBufferedSource at construction.
type StreamOption func(*StreamBufferedSource)

// WithLogger attaches a zap logger used for debug-level tracing of
// defragmentation and seek-fallback transitions.
func WithLogger(logger *zap.Logger) StreamOption {
	return func(s *StreamBufferedSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStreamBufferedSource wraps r using the caller-supplied buffer,
// which must have length >= 1. The buffer's own Supplier defaults to
// bufpool.NoCaching, meaning the buffer is used exactly as given and
// never returned to a pool by this source.
func NewStreamBufferedSource(r io.Reader, buf []byte, opts ...StreamOption) (*StreamBufferedSource, error) {
	if len(buf) < 1 {
		return nil, argRange("NewStreamBufferedSource", "buffer length %d, want >= 1", len(buf))
	}
	s := &StreamBufferedSource{r: r, supplier: bufpool.NoCaching(), buf: buf, logger: nopLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewPooledStreamBufferedSource requests a bufferSize-byte buffer from
// supplier instead of taking one from the caller. The buffer is
// returned to supplier when Close is called.
func NewPooledStreamBufferedSource(r io.Reader, bufferSize int, supplier bufpool.Supplier, opts ...StreamOption) (*StreamBufferedSource, error) {
	if bufferSize < 1 {
		return nil, argRange("NewPooledStreamBufferedSource", "bufferSize=%d, want >= 1", bufferSize)
	}
	buf := supplier.Get(bufferSize)
	s := &StreamBufferedSource{r: r, supplier: supplier, buf: buf, logger: nopLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close returns the owned buffer to its supplier. Safe to call once;
// the source must not be used afterward.
func (s *StreamBufferedSource) Close() {
	s.supplier.Release(s.buf)
	s.buf = nil
}

func (s *StreamBufferedSource) Buffer() []byte    { return s.buf }
func (s *StreamBufferedSource) Offset() int       { return s.offset }
func (s *StreamBufferedSource) Count() int        { return s.count }
func (s *StreamBufferedSource) IsExhausted() bool { return s.exhausted }

// defragment shifts the live window to the front of the buffer when
// there is trailing free space worth reclaiming.
func (s *StreamBufferedSource) defragment() {
	if s.offset == 0 {
		return
	}
	copy(s.buf[0:s.count], s.buf[s.offset:s.offset+s.count])
	s.offset = 0
	s.logger.Debug("bufsource: defragmented stream buffer", zap.Int("count", s.count))
}

// fill performs one defragment-then-read step. It returns the number
// of bytes newly read (0 at EOF).
func (s *StreamBufferedSource) fill() (int, error) {
	if s.exhausted {
		return 0, nil
	}
	s.defragment()
	free := s.buf[s.offset+s.count:]
	if len(free) == 0 {
		return 0, nil
	}
	n, err := s.r.Read(free)
	if n > 0 {
		s.count += n
	}
	if err == io.EOF {
		if n == 0 {
			s.exhausted = true
		}
		return n, nil
	}
	if err != nil {
		return n, err
	}
	if n == 0 {
		s.exhausted = true
	}
	return n, nil
}

// FillBuffer attempts one read, defragmenting first if needed.
func (s *StreamBufferedSource) FillBuffer() (int, error) {
	if _, err := s.fill(); err != nil {
		return s.count, err
	}
	return s.count, nil
}

// EnsureBuffer reads until Count >= size or the stream is exhausted.
func (s *StreamBufferedSource) EnsureBuffer(size int) error {
	if size < 0 || size > len(s.buf) {
		return argRange("StreamBufferedSource.EnsureBuffer", "size=%d buffer=%d", size, len(s.buf))
	}
	for s.count < size && !s.exhausted {
		if _, err := s.fill(); err != nil {
			return err
		}
	}
	if s.count < size {
		return insufficientData("StreamBufferedSource.EnsureBuffer", "requested %d, have %d", size, s.count)
	}
	return nil
}

// SkipBuffer consumes size bytes from the head of the window.
func (s *StreamBufferedSource) SkipBuffer(size int) error {
	if size < 0 || size > s.count {
		return argRange("StreamBufferedSource.SkipBuffer", "size=%d count=%d", size, s.count)
	}
	s.offset += size
	s.count -= size
	return nil
}

// TrySkip skips within the window when size fits in it. Otherwise it
// discards the window and skips the rest by seeking forward when the
// reader is an io.Seeker and the seek probe succeeds, or else by
// reading and discarding sequentially.
func (s *StreamBufferedSource) TrySkip(size int64) (int64, error) {
	if size < 0 {
		return 0, argRange("StreamBufferedSource.TrySkip", "size=%d", size)
	}

	if size <= int64(s.count) {
		s.offset += int(size)
		s.count -= int(size)
		return size, nil
	}

	discarded := int64(s.count)
	s.offset = 0
	s.count = 0
	remaining := size - discarded

	if seeker, ok := s.r.(io.Seeker); ok {
		if skipped, ok := s.trySeekSkip(seeker, remaining); ok {
			return discarded + skipped, nil
		}
		s.logger.Debug("bufsource: seek probe failed, falling back to sequential skip")
	}

	return discarded + s.sequentialSkip(remaining), nil
}

// trySeekSkip attempts the seek-aware fast path. ok is false whenever
// the probe itself failed (no length/position available, or the seek
// calls errored), signaling the caller to fall back to sequential
// reads; it is not an error in the BufferedSource sense.
func (s *StreamBufferedSource) trySeekSkip(seeker io.Seeker, remaining int64) (int64, bool) {
	curPos, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, false
	}
	end, err := seeker.Seek(0, io.SeekEnd)
	if err != nil {
		// best effort: restore position before giving up
		_, _ = seeker.Seek(curPos, io.SeekStart)
		return 0, false
	}
	available := end - curPos
	if available < 0 {
		available = 0
	}
	toSkip := remaining
	if toSkip > available {
		toSkip = available
	}
	if _, err := seeker.Seek(curPos+toSkip, io.SeekStart); err != nil {
		return 0, false
	}
	if toSkip < remaining {
		s.exhausted = true
	}
	return toSkip, true
}

// sequentialSkip drains the stream by repeated reads into the front of
// the buffer, keeping whatever it over-reads as the new window.
func (s *StreamBufferedSource) sequentialSkip(remaining int64) int64 {
	var skipped int64
	for remaining > 0 && !s.exhausted {
		n, err := s.r.Read(s.buf)
		if n > 0 {
			if int64(n) <= remaining {
				skipped += int64(n)
				remaining -= int64(n)
			} else {
				over := int64(n) - remaining
				skipped += remaining
				remaining = 0
				s.offset = 0
				s.count = int(over)
				copy(s.buf[0:over], s.buf[n-int(over):n])
			}
		}
		if err != nil {
			s.exhausted = true
		}
	}
	return skipped
}
