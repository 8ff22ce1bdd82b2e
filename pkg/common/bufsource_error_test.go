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

package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBufSourceErrorKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{ArgRange, "ArgRange"},
		{InsufficientData, "InsufficientData"},
		{BufferTooSmall, "BufferTooSmall"},
		{InvariantViolation, "InvariantViolation"},
		{Kind(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestNewWithoutCause(t *testing.T) {
	err := New(ArgRange, "size out of range")
	assert.EqualError(t, err, "ArgRange: size out of range")

	var bse *BufSourceError
	assert.True(t, errors.As(err, &bse))
	assert.Nil(t, bse.Unwrap())
}

func TestWrapWithCause(t *testing.T) {
	cause := errors.New("EOF")
	err := Wrap(InsufficientData, "ensure buffer failed", cause)
	assert.EqualError(t, err, "InsufficientData: ensure buffer failed: EOF")
	assert.ErrorIs(t, err, cause)
}

func TestLogDoesNotPanic(t *testing.T) {
	logger := zap.NewNop()
	err := Wrap(BufferTooSmall, "could not find end of part", errors.New("no boundary"))
	bse, ok := err.(*BufSourceError)
	assert.True(t, ok)
	assert.NotPanics(t, func() { bse.Log(logger) })
}
