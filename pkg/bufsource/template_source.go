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

// TemplateSeparatedBufferedSource wraps an inner Source and exposes
// bytes up to (not including) the next occurrence of a fixed byte
// template, with TrySkipPart advancing past the template to the next
// part. The scan never re-examines bytes once they have been ruled out
// as a match start; this is a naive O(n*m) search, correct for the
// small separators this type is meant for (spec.md §4.5).
type TemplateSeparatedBufferedSource struct {
	inner               Source
	template            []byte
	foundTemplateOffset int
	foundTemplateLength int
}

// NewTemplateSeparatedBufferedSource requires a non-empty template that
// fits within inner's buffer.
func NewTemplateSeparatedBufferedSource(inner Source, template []byte) (*TemplateSeparatedBufferedSource, error) {
	if len(template) == 0 || len(template) > len(inner.Buffer()) {
		return nil, argRange("NewTemplateSeparatedBufferedSource", "template length %d, buffer %d", len(template), len(inner.Buffer()))
	}
	t := &TemplateSeparatedBufferedSource{inner: inner, template: template}
	t.searchBuffer(true)
	return t, nil
}

func (t *TemplateSeparatedBufferedSource) Buffer() []byte { return t.inner.Buffer() }
func (t *TemplateSeparatedBufferedSource) Offset() int    { return t.inner.Offset() }
func (t *TemplateSeparatedBufferedSource) Count() int {
	return t.foundTemplateOffset - t.inner.Offset()
}

func (t *TemplateSeparatedBufferedSource) IsExhausted() bool {
	return t.inner.IsExhausted() || t.foundTemplateLength == len(t.template)
}

// searchBuffer extends the scan over newly added bytes. When reset is
// true, scanning restarts from the inner source's current Offset
// (required whenever a Fill defragmented the inner buffer and moved the
// anchor out from under us). It returns true if the inner source ran
// out without ever completing a match ("terminal").
func (t *TemplateSeparatedBufferedSource) searchBuffer(reset bool) bool {
	if reset {
		t.foundTemplateOffset = t.inner.Offset()
		t.foundTemplateLength = 0
	}
	buf := t.inner.Buffer()
	for t.foundTemplateLength != len(t.template) {
		cursor := t.foundTemplateOffset + t.foundTemplateLength
		if cursor < t.inner.Offset() || cursor >= t.inner.Offset()+t.inner.Count() {
			break
		}
		if buf[cursor] == t.template[t.foundTemplateLength] {
			t.foundTemplateLength++
		} else {
			t.foundTemplateOffset++
			t.foundTemplateLength = 0
		}
	}
	if t.inner.IsExhausted() && t.foundTemplateLength != len(t.template) {
		t.foundTemplateOffset = t.inner.Offset() + t.inner.Count()
		t.foundTemplateLength = 0
		return true
	}
	return false
}

// refillAndScan performs one inner FillBuffer call and re-scans,
// resetting the scanner iff the inner source's Offset moved (meaning it
// defragmented and our anchor is stale).
func (t *TemplateSeparatedBufferedSource) refillAndScan() (terminal bool, err error) {
	prevOffset := t.inner.Offset()
	if _, err := t.inner.FillBuffer(); err != nil {
		return false, err
	}
	return t.searchBuffer(t.inner.Offset() != prevOffset), nil
}

// FillBuffer fills the inner source and extends the scan.
func (t *TemplateSeparatedBufferedSource) FillBuffer() (int, error) {
	if t.IsExhausted() {
		return t.Count(), nil
	}
	if _, err := t.refillAndScan(); err != nil {
		return t.Count(), err
	}
	return t.Count(), nil
}

// EnsureBuffer reads until size bytes of pre-template data are visible.
func (t *TemplateSeparatedBufferedSource) EnsureBuffer(size int) error {
	if size < 0 || size > len(t.Buffer()) {
		return argRange("TemplateSeparatedBufferedSource.EnsureBuffer", "size=%d buffer=%d", size, len(t.Buffer()))
	}
	for size > t.Count() && !t.IsExhausted() {
		if _, err := t.refillAndScan(); err != nil {
			return err
		}
	}
	if size > t.Count() {
		return insufficientData("TemplateSeparatedBufferedSource.EnsureBuffer", "requested %d, have %d", size, t.Count())
	}
	return nil
}

// SkipBuffer consumes size bytes from the head of the part.
func (t *TemplateSeparatedBufferedSource) SkipBuffer(size int) error {
	if size < 0 || size > t.Count() {
		return argRange("TemplateSeparatedBufferedSource.SkipBuffer", "size=%d count=%d", size, t.Count())
	}
	return t.inner.SkipBuffer(size)
}

// TrySkip consumes up to size bytes of the current part.
func (t *TemplateSeparatedBufferedSource) TrySkip(size int64) (int64, error) {
	if size < 0 {
		return 0, argRange("TemplateSeparatedBufferedSource.TrySkip", "size=%d", size)
	}
	var skipped int64
	for size > 0 {
		available := int64(t.Count())
		if available >= size {
			if err := t.inner.SkipBuffer(int(size)); err != nil {
				return skipped, err
			}
			return skipped + size, nil
		}
		if available > 0 {
			if err := t.inner.SkipBuffer(int(available)); err != nil {
				return skipped, err
			}
			skipped += available
			size -= available
		}
		if t.IsExhausted() {
			return skipped, nil
		}
		if _, err := t.refillAndScan(); err != nil {
			return skipped, err
		}
	}
	return skipped, nil
}

// TrySkipPart advances past the current part's template separator,
// exposing the following part. It returns false if the inner source
// exhausted without ever completing a template match, having drained
// whatever trailing bytes remained (they belong to the final,
// unterminated part, per the resolution of the open question in
// spec.md §9 recorded in DESIGN.md).
func (t *TemplateSeparatedBufferedSource) TrySkipPart() (bool, error) {
	for t.foundTemplateLength != len(t.template) {
		if err := t.inner.SkipBuffer(t.Count()); err != nil {
			return false, err
		}
		terminal, err := t.refillAndScan()
		if err != nil {
			return false, err
		}
		if terminal {
			if err := t.inner.SkipBuffer(t.inner.Count()); err != nil {
				return false, err
			}
			return false, nil
		}
	}
	total := (t.foundTemplateOffset - t.inner.Offset()) + len(t.template)
	if err := t.inner.SkipBuffer(total); err != nil {
		return false, err
	}
	t.searchBuffer(true)
	return true, nil
}
