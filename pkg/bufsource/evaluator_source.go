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

import "github.com/ackris/bufsource/pkg/common"

// Validator inspects the inner window starting at offset+validated and
// extends the validated-prefix length. buf, offset and count describe
// the inner source's current window (buf[offset:offset+count]);
// validated is how much of that window, counted from offset, was
// already classified as part-interior by a previous call. exhausted
// reports whether the inner source has no more bytes to ever offer.
//
// A Validator must set endFound once it can prove no more part-interior
// bytes will appear — including when exhausted is true and no explicit
// epilogue was ever found, in which case the remaining validated bytes
// are the final (unterminated) part and epilogueSize should be 0. This
// is the strategy-contract redesign from SPEC_FULL.md §5 / spec.md §9:
// a function value instead of an abstract base class.
type Validator func(buf []byte, offset, count, validated int, exhausted bool) (newValidated int, endFound bool, epilogueSize int)

// EvaluatorPartitionedBufferedSource partitions an inner Source into
// parts using a caller-supplied Validator, generalizing the
// template-match predicate of TemplateSeparatedBufferedSource to an
// arbitrary boundary rule (spec.md §4.6).
type EvaluatorPartitionedBufferedSource struct {
	inner               Source
	validate            Validator
	partValidatedLength int
	endOfPartFound      bool
	partEpilogueSize    int
}

// NewEvaluatorPartitionedBufferedSource wraps inner, partitioning with
// validate.
func NewEvaluatorPartitionedBufferedSource(inner Source, validate Validator) *EvaluatorPartitionedBufferedSource {
	e := &EvaluatorPartitionedBufferedSource{inner: inner, validate: validate}
	e.runValidate()
	return e
}

func (e *EvaluatorPartitionedBufferedSource) Buffer() []byte { return e.inner.Buffer() }
func (e *EvaluatorPartitionedBufferedSource) Offset() int    { return e.inner.Offset() }
func (e *EvaluatorPartitionedBufferedSource) Count() int     { return e.partValidatedLength }

// IsEndOfPartFound reports whether the validator has located the part
// boundary.
func (e *EvaluatorPartitionedBufferedSource) IsEndOfPartFound() bool { return e.endOfPartFound }

// PartEpilogueSize is the number of trailing bytes to discard (the
// separator) when TrySkipPart advances to the next part.
func (e *EvaluatorPartitionedBufferedSource) PartEpilogueSize() int { return e.partEpilogueSize }

func (e *EvaluatorPartitionedBufferedSource) IsExhausted() bool {
	return e.endOfPartFound || (e.inner.IsExhausted() && e.partValidatedLength >= e.inner.Count())
}

func (e *EvaluatorPartitionedBufferedSource) runValidate() {
	if e.endOfPartFound {
		return
	}
	newValidated, endFound, epilogue := e.validate(e.inner.Buffer(), e.inner.Offset(), e.inner.Count(), e.partValidatedLength, e.inner.IsExhausted())
	e.partValidatedLength = newValidated
	if endFound {
		e.endOfPartFound = true
		e.partEpilogueSize = epilogue
	}
}

// FillBuffer fills the inner source (unless the part boundary is
// already known) and re-validates.
func (e *EvaluatorPartitionedBufferedSource) FillBuffer() (int, error) {
	if !e.endOfPartFound {
		if _, err := e.inner.FillBuffer(); err != nil {
			return e.partValidatedLength, err
		}
		e.runValidate()
	}
	return e.partValidatedLength, nil
}

// EnsureBuffer reads and re-validates until size bytes of the current
// part are visible.
func (e *EvaluatorPartitionedBufferedSource) EnsureBuffer(size int) error {
	if size < 0 || size > len(e.Buffer()) {
		return argRange("EvaluatorPartitionedBufferedSource.EnsureBuffer", "size=%d buffer=%d", size, len(e.Buffer()))
	}
	for size > e.partValidatedLength && !e.endOfPartFound && !e.inner.IsExhausted() {
		if _, err := e.FillBuffer(); err != nil {
			return err
		}
	}
	if size > e.partValidatedLength {
		return insufficientData("EvaluatorPartitionedBufferedSource.EnsureBuffer", "requested %d, have %d", size, e.partValidatedLength)
	}
	return nil
}

// SkipBuffer consumes size bytes from the head of the current part.
func (e *EvaluatorPartitionedBufferedSource) SkipBuffer(size int) error {
	if size < 0 || size > e.partValidatedLength {
		return argRange("EvaluatorPartitionedBufferedSource.SkipBuffer", "size=%d count=%d", size, e.partValidatedLength)
	}
	if err := e.inner.SkipBuffer(size); err != nil {
		return err
	}
	e.partValidatedLength -= size
	return nil
}

// TrySkip consumes up to size bytes of the current part.
func (e *EvaluatorPartitionedBufferedSource) TrySkip(size int64) (int64, error) {
	if size < 0 {
		return 0, argRange("EvaluatorPartitionedBufferedSource.TrySkip", "size=%d", size)
	}
	var skipped int64
	remaining := size
	for {
		validated := int64(e.partValidatedLength)
		if validated >= remaining {
			if err := e.inner.SkipBuffer(int(remaining)); err != nil {
				return skipped, err
			}
			e.partValidatedLength -= int(remaining)
			return skipped + remaining, nil
		}
		if validated > 0 {
			if err := e.inner.SkipBuffer(int(validated)); err != nil {
				return skipped, err
			}
			skipped += validated
			remaining -= validated
			e.partValidatedLength = 0
		}
		if e.endOfPartFound || e.inner.IsExhausted() {
			return skipped, nil
		}
		if _, err := e.FillBuffer(); err != nil {
			return skipped, err
		}
	}
}

// TrySkipPart advances past the current part's epilogue, exposing the
// next part. It fails with BufferTooSmall if a full refill of the inner
// source's buffer (no trailing capacity left to grow into) still
// cannot locate the end of the part.
func (e *EvaluatorPartitionedBufferedSource) TrySkipPart() (bool, error) {
	if e.inner.IsExhausted() && e.inner.Count() == 0 {
		return false, nil
	}
	for !e.endOfPartFound {
		if err := e.inner.SkipBuffer(e.partValidatedLength); err != nil {
			return false, err
		}
		e.partValidatedLength = 0
		before := e.inner.Count()
		after, err := e.inner.FillBuffer()
		if err != nil {
			return false, err
		}
		e.runValidate()
		if !e.endOfPartFound && after == before && !e.inner.IsExhausted() {
			return false, common.New(common.BufferTooSmall, "buffer insufficient for detecting end of part")
		}
	}
	total := e.partValidatedLength + e.partEpilogueSize
	if err := e.inner.SkipBuffer(total); err != nil {
		return false, err
	}
	e.partValidatedLength = 0
	e.endOfPartFound = false
	e.partEpilogueSize = 0
	e.runValidate()
	return true, nil
}
