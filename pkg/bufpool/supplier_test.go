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

package bufpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoCachingAlwaysAllocates(t *testing.T) {
	s := NoCaching()
	buf := s.Get(16)
	assert.Len(t, buf, 16)
	s.Release(buf)
	s.Close()
}

func TestClassedSupplierReusesReleasedBuffer(t *testing.T) {
	s := NewClassedSupplier(DefaultLargeThreshold)

	buf := s.Get(128)
	assert.Len(t, buf, 128)

	// Tag the buffer so we can tell whether Get returns this exact
	// backing array or a freshly allocated one.
	buf[0] = 0xAB
	backing := &buf[0]

	s.Release(buf)
	reused := s.Get(128)
	assert.Equal(t, backing, &reused[0], "expected Get to reuse the released buffer's backing array")
}

func TestClassedSupplierBoundsBucketSize(t *testing.T) {
	s := NewClassedSupplier(DefaultLargeThreshold)

	for i := 0; i < ClassesPerSize+2; i++ {
		buf := make([]byte, 64)
		buf[0] = byte(i)
		s.Release(buf)
	}

	bucket, ok := s.classes.get(64)
	assert.True(t, ok)
	assert.LessOrEqual(t, len(bucket), ClassesPerSize)

	// Draining the bucket must still always hand back a usable buffer.
	for i := 0; i < ClassesPerSize+2; i++ {
		buf := s.Get(64)
		assert.Len(t, buf, 64)
	}
}

func TestClassedSupplierUnmapsLargeBuffers(t *testing.T) {
	s := NewClassedSupplier(1024)

	large := make([]byte, 2048)
	large[0] = 0x7F
	s.Release(large)

	// A large buffer is unmapped rather than pooled: requesting the same
	// capacity again must not return the same backing array.
	got := s.Get(2048)
	assert.NotEqual(t, &large[0], &got[0])
}

func TestClassedSupplierCloseDropsCache(t *testing.T) {
	s := NewClassedSupplier(DefaultLargeThreshold)
	buf := s.Get(32)
	s.Release(buf)
	s.Close()

	fresh := s.Get(32)
	assert.Len(t, fresh, 32)
}
