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

// NewLinePartitionValidator returns a Validator that partitions on
// '\n', treating an immediately preceding '\r' as part of the epilogue
// so that both LF- and CRLF-terminated lines work. A final line with no
// trailing newline is still a valid part: it ends when the inner
// source reports exhaustion.
func NewLinePartitionValidator() Validator {
	return func(buf []byte, offset, count, validated int, exhausted bool) (int, bool, int) {
		for validated < count {
			if buf[offset+validated] == '\n' {
				epilogue := 1
				if validated > 0 && buf[offset+validated-1] == '\r' {
					epilogue = 2
					validated--
				}
				return validated, true, epilogue
			}
			validated++
		}
		if exhausted {
			return validated, true, 0
		}
		return validated, false, 0
	}
}
