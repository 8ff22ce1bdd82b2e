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

package bufsource_test

import (
	"math"
	"testing"

	"github.com/ackris/bufsource/pkg/bufsource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTemplateSeparatedBufferedSourceScenario3 is the 768-byte/3-byte
// template scenario from spec.md §8: template {filler(253),
// filler(254), filler(255)} splits the stream into three 253-byte
// parts at 0..252, 256..508, 512..764, and the fourth TrySkipPart call
// returns false.
func TestTemplateSeparatedBufferedSourceScenario3(t *testing.T) {
	data := make([]byte, 768)
	for i := range data {
		data[i] = filler(int64(i))
	}
	template := []byte{filler(253), filler(254), filler(255)}

	inner := bufsource.NewArrayBufferedSource(data)
	ts, err := bufsource.NewTemplateSeparatedBufferedSource(inner, template)
	require.NoError(t, err)

	assert.Equal(t, 253, ts.Count())
	require.NoError(t, ts.EnsureBuffer(253))
	for i := 0; i < 253; i++ {
		assert.Equal(t, filler(int64(i)), ts.Buffer()[ts.Offset()+i])
	}

	ok, err := ts.TrySkipPart()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 253, ts.Count())
	require.NoError(t, ts.EnsureBuffer(253))
	for i := 0; i < 253; i++ {
		assert.Equal(t, filler(int64(256+i)), ts.Buffer()[ts.Offset()+i])
	}

	ok, err = ts.TrySkipPart()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 253, ts.Count())
	require.NoError(t, ts.EnsureBuffer(253))
	for i := 0; i < 253; i++ {
		assert.Equal(t, filler(int64(512+i)), ts.Buffer()[ts.Offset()+i])
	}

	ok, err = ts.TrySkipPart()
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ts.TrySkipPart()
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestTemplateSeparatedBufferedSourceScenario3Streamed is the literal
// spec.md §8 scenario 3, over a StreamBufferedSource rather than an
// array, since that is the only one of the two constructors whose skip
// path does real arithmetic over an unbounded stream and can expose a
// 32-bit position-tracking overflow: skipBefore = 2^32-3, separator
// {filler(162)..filler(166)}. skipBefore's low byte is 253, so the
// first part runs 253..255 then 0..161 (165 bytes) before the template
// matches; the next part begins at
// secondPartPos = (skipBefore | 0xFF) + 1 + 162 + 5.
func TestTemplateSeparatedBufferedSourceScenario3Streamed(t *testing.T) {
	const skipBefore = int64(1)<<32 - 3
	const firstPartLength = 165
	const secondPartPos = (skipBefore | 0xFF) + 1 + 162 + 5

	template := []byte{filler(162), filler(163), filler(164), filler(165), filler(166)}

	inner, err := bufsource.NewStreamBufferedSource(&fillerSeekReader{size: math.MaxInt64}, make([]byte, 256))
	require.NoError(t, err)
	skipped, err := inner.TrySkip(skipBefore)
	require.NoError(t, err)
	require.Equal(t, skipBefore, skipped)

	ts, err := bufsource.NewTemplateSeparatedBufferedSource(inner, template)
	require.NoError(t, err)

	require.NoError(t, ts.EnsureBuffer(firstPartLength))
	assert.Equal(t, firstPartLength, ts.Count())
	for i := 0; i < firstPartLength; i++ {
		assert.Equal(t, filler(skipBefore+int64(i)), ts.Buffer()[ts.Offset()+i], "byte %d", i)
	}

	ok, err := ts.TrySkipPart()
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, ts.EnsureBuffer(1))
	assert.Equal(t, filler(secondPartPos), ts.Buffer()[ts.Offset()])
}

func TestTemplateSeparatedBufferedSourceConstructorValidation(t *testing.T) {
	inner := bufsource.NewArrayBufferedSource(make([]byte, 2))
	_, err := bufsource.NewTemplateSeparatedBufferedSource(inner, []byte{1, 2, 3})
	require.Error(t, err)

	_, err = bufsource.NewTemplateSeparatedBufferedSource(inner, nil)
	require.Error(t, err)
}

func TestTemplateSeparatedBufferedSourceNoMatchDrainsFinalPart(t *testing.T) {
	data := []byte("hello world, no template here")
	inner := bufsource.NewArrayBufferedSource(data)
	ts, err := bufsource.NewTemplateSeparatedBufferedSource(inner, []byte("XYZ"))
	require.NoError(t, err)

	ok, err := ts.TrySkipPart()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, inner.Count())
}
