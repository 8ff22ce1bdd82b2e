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

import "github.com/ackris/bufsource/pkg/utils"

// Supplier manages allocation and reuse of byte buffers. bufsource's
// stream- and crypto-backed sources take a Supplier for the buffer they
// own, so a long-lived pipeline can reuse buffers across many
// short-lived sources instead of allocating on every construction.
//
// Supplier is exactly utils.BufferSupplier: the teacher's buffer-supplier
// abstraction already has the right shape for this, so bufpool reuses it
// instead of declaring a parallel interface.
type Supplier = utils.BufferSupplier

// NoCaching returns a Supplier that always allocates a fresh buffer and
// never caches a released one. It is the default used when a bufsource
// constructor is given a caller-supplied buffer directly.
func NoCaching() Supplier {
	return utils.NewNoCachingBufferSupplier()
}

// ClassedSupplier pools buffers by exact capacity, using one bounded LRU
// cache keyed by size class so that a pipeline that repeatedly requests the
// same handful of buffer sizes (the common case: one stream buffer size,
// one crypto output-block size) avoids reallocating on every Get.
//
// Buffers released at or above largeThreshold bytes are unmapped
// (backing slice nilled) before being dropped, rather than cached
// indefinitely; bufsource sources that size their buffer to a large
// crypto block or a large stream chunk do not pin that memory forever
// in the pool.
type ClassedSupplier struct {
	classes        *lruCache[int, [][]byte]
	largeThreshold int
	unmapper       *utils.ByteBufferUnmapper
}

// ClassesPerSize bounds how many distinct buffers ClassedSupplier keeps
// cached for a single capacity before it starts discarding the least
// recently released one.
const ClassesPerSize = 4

// DefaultLargeThreshold is the capacity at or above which ClassedSupplier
// unmaps a released buffer instead of pooling it.
const DefaultLargeThreshold = 1 << 20 // 1 MiB

// NewClassedSupplier creates a ClassedSupplier. A largeThreshold that is
// not positive is replaced by DefaultLargeThreshold.
func NewClassedSupplier(largeThreshold int) *ClassedSupplier {
	if largeThreshold <= 0 {
		largeThreshold = DefaultLargeThreshold
	}
	return &ClassedSupplier{
		classes:        newLRUCache[int, [][]byte](1024),
		largeThreshold: largeThreshold,
		unmapper:       utils.NewByteBufferUnmapper(),
	}
}

// Get returns a buffer of exactly the requested capacity, reusing a
// previously released buffer of the same size if one is cached.
func (s *ClassedSupplier) Get(capacity int) []byte {
	if bucket, ok := s.classes.get(capacity); ok && len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		bucket = bucket[:len(bucket)-1]
		s.classes.put(capacity, bucket)
		return buf[:capacity]
	}
	return make([]byte, capacity)
}

// Release returns buffer to its size-class bucket, or unmaps it when
// its capacity is at or above the large-buffer threshold.
func (s *ClassedSupplier) Release(buffer []byte) {
	capacity := cap(buffer)
	if capacity == 0 {
		return
	}
	if capacity >= s.largeThreshold {
		_ = s.unmapper.Unmap("classed-supplier-large-buffer", &buffer)
		return
	}

	bucket, _ := s.classes.get(capacity)
	if len(bucket) >= ClassesPerSize {
		bucket = bucket[1:]
	}
	bucket = append(bucket, buffer[:capacity])
	s.classes.put(capacity, bucket)
}

// Close drops every cached buffer.
func (s *ClassedSupplier) Close() {
	s.classes = newLRUCache[int, [][]byte](1024)
}
