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

// Package bufsource implements composable byte-buffered data sources
// for sequential, pull-based reading of byte streams. A Source exposes
// a fixed-size buffer window (Buffer/Offset/Count) that a consumer may
// inspect in place and advance with SkipBuffer, growing it on demand
// with FillBuffer/EnsureBuffer. Sources wrap other sources to add
// behavior: adapting an io.Reader, limiting by length, splitting on a
// template or a predicate, or applying a block-oriented transform.
package bufsource

import (
	"fmt"

	"github.com/ackris/bufsource/pkg/common"
	"go.uber.org/zap"
)

// Source is the pull-based byte-window contract every concrete source
// in this package implements.
//
// Window invariants, maintained after every operation:
//
//	0 <= Offset() && 0 <= Count() && Offset()+Count() <= len(Buffer())
//	IsExhausted() is monotone: once true, it never becomes false again.
//	Buffer() has a fixed identity for the lifetime of the source.
//
// A consumer may hold a reference into Buffer() across calls that do
// not change Offset or grow Count; SkipBuffer advances Offset without
// shifting bytes, so references into the still-valid region remain
// valid across a Skip.
type Source interface {
	// Buffer returns the source's backing array. Its identity never
	// changes across the source's lifetime.
	Buffer() []byte

	// Offset is the index of the first valid byte in Buffer.
	Offset() int

	// Count is the number of valid bytes starting at Offset.
	Count() int

	// IsExhausted reports whether the source will never produce more
	// bytes. The window may still hold unread bytes after this returns
	// true, until they are skipped.
	IsExhausted() bool

	// FillBuffer attempts to enlarge the window by reading from behind
	// it, possibly defragmenting first. It returns the updated Count.
	// After a successful call, Count() > 0 or IsExhausted() is true.
	// Idempotent once IsExhausted() is true.
	FillBuffer() (int, error)

	// EnsureBuffer reads until Count() >= size or the source is
	// exhausted, in which case it returns an InsufficientData error.
	// size must be within [0, len(Buffer())]; violating that returns
	// an ArgRange error and changes no state. size == 0 is a no-op.
	EnsureBuffer(size int) error

	// SkipBuffer consumes size bytes from the head of the window.
	// size must be within [0, Count()]. It does not read and does not
	// change IsExhausted(); Offset()+Count() is preserved.
	SkipBuffer(size int) error

	// TrySkip consumes up to size bytes from the source, drawing from
	// both the visible window and the upstream as needed, and returns
	// exactly how many were skipped. skipped < size iff the source
	// exhausted during the call.
	TrySkip(size int64) (int64, error)
}

// argRange builds an ArgRange error for the given operation/argument.
func argRange(op string, format string, args ...any) error {
	return common.New(common.ArgRange, op+": "+fmt.Sprintf(format, args...))
}

// insufficientData builds an InsufficientData error.
func insufficientData(op string, format string, args ...any) error {
	return common.New(common.InsufficientData, op+": "+fmt.Sprintf(format, args...))
}

// nopLogger is used whenever a constructor is not given a logger.
func nopLogger() *zap.Logger { return zap.NewNop() }
