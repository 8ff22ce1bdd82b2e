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

import "bytes"

// NewTemplateValidator returns a Validator that splits on a fixed byte
// template, letting EvaluatorPartitionedBufferedSource act as a
// general-purpose alternative to TemplateSeparatedBufferedSource (both
// types are kept; spec.md names them separately). Like
// TemplateSeparatedBufferedSource, the search is naive O(n*m); unlike
// it, this validator re-scans the window from scratch on every call
// instead of resuming where the previous scan stopped. This is
// acceptable for the small templates this type targets.
func NewTemplateValidator(template []byte) Validator {
	return func(buf []byte, offset, count, validated int, exhausted bool) (int, bool, int) {
		limit := count - len(template)
		for start := 0; start <= limit; start++ {
			if bytes.Equal(buf[offset+start:offset+start+len(template)], template) {
				return start, true, len(template)
			}
		}
		safe := count - len(template) + 1
		if safe < 0 {
			safe = 0
		}
		if exhausted {
			return count, true, 0
		}
		return safe, false, 0
	}
}
