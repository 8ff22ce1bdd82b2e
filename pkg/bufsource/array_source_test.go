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
	"testing"

	"github.com/ackris/bufsource/pkg/bufsource"
	"github.com/ackris/bufsource/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayBufferedSourceBasics(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	a := bufsource.NewArrayBufferedSource(data)

	assert.True(t, a.IsExhausted())
	assert.Equal(t, 5, a.Count())

	n, err := a.FillBuffer()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	require.NoError(t, a.EnsureBuffer(5))

	require.NoError(t, a.SkipBuffer(2))
	assert.Equal(t, 3, a.Count())
	assert.Equal(t, 2, a.Offset())
	assert.Equal(t, byte(3), a.Buffer()[a.Offset()])

	// len(a.Buffer()) is still 5, but only 3 bytes remain after the
	// skip above, so requesting 4 exercises the InsufficientData
	// branch rather than the ArgRange one.
	assert.ErrorContains(t, a.EnsureBuffer(4), "InsufficientData")

	skipped, err := a.TrySkip(1000)
	require.NoError(t, err)
	assert.Equal(t, int64(3), skipped)
	assert.Equal(t, 0, a.Count())
}

func TestArrayBufferedSourceRange(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	a, err := bufsource.NewArrayBufferedSourceRange(data, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Offset())
	assert.Equal(t, 3, a.Count())
	assert.Equal(t, byte(2), a.Buffer()[a.Offset()])

	_, err = bufsource.NewArrayBufferedSourceRange(data, 3, 3)
	require.Error(t, err)
	var bse *common.BufSourceError
	require.ErrorAs(t, err, &bse)
	assert.Equal(t, common.ArgRange, bse.Kind)
}

func TestArrayBufferedSourceSkipArgRange(t *testing.T) {
	a := bufsource.NewArrayBufferedSource([]byte{1, 2, 3})
	err := a.SkipBuffer(10)
	require.Error(t, err)
	var bse *common.BufSourceError
	require.ErrorAs(t, err, &bse)
	assert.Equal(t, common.ArgRange, bse.Kind)
}

func TestArrayBufferedSourceEmpty(t *testing.T) {
	a := bufsource.NewArrayBufferedSource(nil)
	n, err := a.FillBuffer()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, a.IsExhausted())

	skipped, err := a.TrySkip(5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), skipped)
}
