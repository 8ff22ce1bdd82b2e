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

// BlockTransform is a block-oriented byte transform: an en/decryption
// or similar codec operating on fixed-size input blocks and producing
// fixed-size output blocks (spec.md §6's crypto collaborator).
//
// TransformBlock is called with inLen a positive multiple of
// InputBlockSize (exactly InputBlockSize when CanTransformMultipleBlocks
// is false), and must return the number of bytes written to
// outBuf[outOff:]. TransformFinalBlock is called at most once per
// source lifetime, with inLen in [0, InputBlockSize), and returns the
// trailing output including any padding.
type BlockTransform interface {
	InputBlockSize() int
	OutputBlockSize() int
	CanTransformMultipleBlocks() bool
	TransformBlock(inBuf []byte, inOff, inLen int, outBuf []byte, outOff int) (int, error)
	TransformFinalBlock(inBuf []byte, inOff, inLen int) ([]byte, error)
}

// CryptoTransformingBufferedSource exposes the result of running a
// BlockTransform over an inner Source, decoupling the inner read size
// from the caller's requested output size via an input/output block
// pairing and a one-block overflow cache (spec.md §4.7).
type CryptoTransformingBufferedSource struct {
	inner     Source
	transform BlockTransform

	buf    []byte
	offset int
	count  int

	inputMaxBlocks int

	sourceEnded bool
	isExhausted bool

	cache      []byte
	cacheStart int
	cacheEnd   int
}

// NewCryptoTransformingBufferedSource wraps inner with transform. buf
// must have length >= max(1, transform.OutputBlockSize()).
func NewCryptoTransformingBufferedSource(inner Source, transform BlockTransform, buf []byte) (*CryptoTransformingBufferedSource, error) {
	ob := transform.OutputBlockSize()
	want := ob
	if want < 1 {
		want = 1
	}
	if len(buf) < want {
		return nil, argRange("NewCryptoTransformingBufferedSource", "buffer length %d, want >= %d", len(buf), want)
	}
	ib := transform.InputBlockSize()
	inputMaxBlocks := 0
	if ib > 0 {
		inputMaxBlocks = len(inner.Buffer()) / ib
	}
	c := &CryptoTransformingBufferedSource{
		inner:          inner,
		transform:      transform,
		buf:            buf,
		inputMaxBlocks: inputMaxBlocks,
		cache:          make([]byte, ob),
	}
	return c, nil
}

func (c *CryptoTransformingBufferedSource) Buffer() []byte   { return c.buf }
func (c *CryptoTransformingBufferedSource) Offset() int      { return c.offset }
func (c *CryptoTransformingBufferedSource) Count() int       { return c.count }
func (c *CryptoTransformingBufferedSource) IsExhausted() bool { return c.isExhausted }

// GetInputSizeToFillOutput computes how many inner-source bytes are
// needed to produce up to outFree bytes of transformed output.
func (c *CryptoTransformingBufferedSource) GetInputSizeToFillOutput(outFree int) int {
	ib := c.transform.InputBlockSize()
	ob := c.transform.OutputBlockSize()
	if c.inputMaxBlocks < 1 {
		return len(c.inner.Buffer())
	}
	blocks := outFree / ob
	if blocks > c.inputMaxBlocks {
		blocks = c.inputMaxBlocks
	}
	if blocks < 1 {
		blocks = 1
	}
	return blocks * ib
}

func (c *CryptoTransformingBufferedSource) defragment() {
	if c.offset == 0 {
		return
	}
	copy(c.buf[0:c.count], c.buf[c.offset:c.offset+c.count])
	c.offset = 0
}

func (c *CryptoTransformingBufferedSource) cacheLen() int { return c.cacheEnd - c.cacheStart }

// loadFromCache drains as much of the overflow cache as fits into the
// free tail of B, returning the number of bytes copied.
func (c *CryptoTransformingBufferedSource) loadFromCache(outFree int) int {
	n := c.cacheLen()
	if n == 0 {
		return 0
	}
	if n > outFree {
		n = outFree
	}
	copy(c.buf[c.offset+c.count:c.offset+c.count+n], c.cache[c.cacheStart:c.cacheStart+n])
	c.cacheStart += n
	c.count += n
	if c.cacheLen() == 0 && c.sourceEnded {
		c.isExhausted = true
	}
	return n
}

// loadFromTransformedSource implements step 3 of the filling algorithm:
// topping up the inner source, running the transform, and routing its
// output either straight into B or through the overflow cache.
func (c *CryptoTransformingBufferedSource) loadFromTransformedSource(outFree int) (int, error) {
	ib := c.transform.InputBlockSize()
	ob := c.transform.OutputBlockSize()
	multi := c.transform.CanTransformMultipleBlocks()

	sourceNeeded := c.GetInputSizeToFillOutput(outFree)
	threshold := ib
	if multi {
		threshold = sourceNeeded
	}
	if threshold > c.inner.Count() && !c.inner.IsExhausted() {
		if _, err := c.inner.FillBuffer(); err != nil {
			return 0, err
		}
		if c.inner.Count() < ib && !c.inner.IsExhausted() {
			return 0, common.New(common.InvariantViolation, "inner source buffer too small to hold one transform block")
		}
	}

	if c.inner.Count() >= ib {
		outBlocks := outFree / ob
		if outBlocks >= 1 {
			blocks := 1
			if multi {
				blocks = c.inner.Count() / ib
				if blocks > outBlocks {
					blocks = outBlocks
				}
			}
			n, err := c.transform.TransformBlock(c.inner.Buffer(), c.inner.Offset(), blocks*ib, c.buf, c.offset+c.count)
			if err != nil {
				return 0, err
			}
			if err := c.inner.SkipBuffer(blocks * ib); err != nil {
				return 0, err
			}
			c.count += n
			return n, nil
		}
		scratch := make([]byte, ob)
		produced, err := c.transform.TransformBlock(c.inner.Buffer(), c.inner.Offset(), ib, scratch, 0)
		if err != nil {
			return 0, err
		}
		if err := c.inner.SkipBuffer(ib); err != nil {
			return 0, err
		}
		n := produced
		if n > outFree {
			n = outFree
		}
		copy(c.buf[c.offset+c.count:c.offset+c.count+n], scratch[0:n])
		c.count += n
		if produced > outFree {
			copy(c.cache, scratch[outFree:produced])
			c.cacheStart = 0
			c.cacheEnd = produced - outFree
		}
		return n, nil
	}

	c.sourceEnded = true
	final, err := c.transform.TransformFinalBlock(c.inner.Buffer(), c.inner.Offset(), c.inner.Count())
	if err != nil {
		return 0, err
	}
	if err := c.inner.SkipBuffer(c.inner.Count()); err != nil {
		return 0, err
	}
	if len(final) > outFree {
		copy(c.buf[c.offset+c.count:c.offset+c.count+outFree], final[0:outFree])
		c.count += outFree
		copy(c.cache, final[outFree:])
		c.cacheStart = 0
		c.cacheEnd = len(final) - outFree
		return outFree, nil
	}
	copy(c.buf[c.offset+c.count:c.offset+c.count+len(final)], final)
	c.count += len(final)
	c.isExhausted = true
	return len(final), nil
}

// fill performs the defragment/cache/transform filling algorithm once
// per iteration, looping while no progress has been made and the
// source is not yet exhausted (spec.md §4.7 step 5).
func (c *CryptoTransformingBufferedSource) fill() error {
	for {
		if c.isExhausted {
			return nil
		}
		c.defragment()
		outFree := len(c.buf) - c.offset - c.count
		if outFree == 0 {
			return nil
		}
		n := c.loadFromCache(outFree)
		if n > 0 {
			return nil
		}
		produced, err := c.loadFromTransformedSource(outFree)
		if err != nil {
			return err
		}
		if produced > 0 || c.isExhausted {
			return nil
		}
	}
}

// FillBuffer runs one pass of the filling algorithm.
func (c *CryptoTransformingBufferedSource) FillBuffer() (int, error) {
	if err := c.fill(); err != nil {
		return c.count, err
	}
	return c.count, nil
}

// EnsureBuffer fills until size bytes of transformed output are
// visible.
func (c *CryptoTransformingBufferedSource) EnsureBuffer(size int) error {
	if size < 0 || size > len(c.buf) {
		return argRange("CryptoTransformingBufferedSource.EnsureBuffer", "size=%d buffer=%d", size, len(c.buf))
	}
	for size > c.count && !c.isExhausted {
		if err := c.fill(); err != nil {
			return err
		}
	}
	if size > c.count {
		return insufficientData("CryptoTransformingBufferedSource.EnsureBuffer", "requested %d, have %d", size, c.count)
	}
	return nil
}

// SkipBuffer consumes size bytes from the head of the transformed
// window.
func (c *CryptoTransformingBufferedSource) SkipBuffer(size int) error {
	if size < 0 || size > c.count {
		return argRange("CryptoTransformingBufferedSource.SkipBuffer", "size=%d count=%d", size, c.count)
	}
	c.offset += size
	c.count -= size
	return nil
}

// TrySkip consumes the visible window first, then drains the transform
// until size is covered or the source is exhausted. There is no fast
// path through the transform.
func (c *CryptoTransformingBufferedSource) TrySkip(size int64) (int64, error) {
	if size < 0 {
		return 0, argRange("CryptoTransformingBufferedSource.TrySkip", "size=%d", size)
	}
	var skipped int64
	for size > 0 {
		available := int64(c.count)
		if available >= size {
			c.offset += int(size)
			c.count -= int(size)
			return skipped + size, nil
		}
		if available > 0 {
			c.offset += int(available)
			c.count -= int(available)
			skipped += available
			size -= available
		}
		if c.isExhausted {
			return skipped, nil
		}
		if err := c.fill(); err != nil {
			return skipped, err
		}
	}
	return skipped, nil
}
