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

// filler reproduces spec.md's test-fixture byte generator:
// filler(p) = 0xAA XOR (p AND 0xFF).
func filler(p int64) byte {
	return 0xAA ^ byte(p&0xFF)
}

// fillerReader is an effectively unbounded io.Reader producing
// filler(base+i) for successive bytes i = 0, 1, 2, ...
type fillerReader struct {
	pos int64
}

func newFillerReader(base int64) *fillerReader {
	return &fillerReader{pos: base}
}

func (f *fillerReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = filler(f.pos)
		f.pos++
	}
	return len(p), nil
}
