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

// Package common holds the error type shared by every bufsource
// component.
package common

import "go.uber.org/zap"

// Kind classifies a BufSourceError. See the BufferedSource contract for
// which operations can raise which kind.
type Kind int

const (
	// ArgRange means a size/offset argument fell outside its documented
	// bounds. The source's state did not change.
	ArgRange Kind = iota
	// InsufficientData means EnsureBuffer could not reach the requested
	// size before the source was exhausted.
	InsufficientData
	// BufferTooSmall means a predicate partitioner could not find the
	// end of a part within one full refill of the inner source's buffer.
	BufferTooSmall
	// InvariantViolation means a configuration error was detected at
	// runtime, such as an inner source buffer too small to hold one
	// transform input block.
	InvariantViolation
)

func (k Kind) String() string {
	switch k {
	case ArgRange:
		return "ArgRange"
	case InsufficientData:
		return "InsufficientData"
	case BufferTooSmall:
		return "BufferTooSmall"
	case InvariantViolation:
		return "InvariantViolation"
	default:
		return "Unknown"
	}
}

// BufSourceError is the error type returned by every bufsource
// operation that can fail. It carries a Kind so callers can branch on
// the failure category with errors.As, plus an optional wrapped cause.
type BufSourceError struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface, including the cause when present.
func (e *BufSourceError) Error() string {
	if e.Cause != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

// Unwrap returns the underlying cause, if any, enabling errors.Is/As.
func (e *BufSourceError) Unwrap() error {
	return e.Cause
}

// Log logs the error at error level using the provided logger, including
// the cause as a structured field when present. A nil logger is not
// permitted; callers should pass zap.NewNop() when no logger is
// configured.
func (e *BufSourceError) Log(logger *zap.Logger) {
	fields := []zap.Field{zap.String("kind", e.Kind.String())}
	if e.Cause != nil {
		fields = append(fields, zap.Error(e.Cause))
	}
	logger.Error(e.Message, fields...)
}

// New creates a BufSourceError of the given kind with no wrapped cause.
func New(kind Kind, message string) error {
	return &BufSourceError{Kind: kind, Message: message}
}

// Wrap creates a BufSourceError of the given kind wrapping cause.
func Wrap(kind Kind, message string, cause error) error {
	return &BufSourceError{Kind: kind, Message: message, Cause: cause}
}
