// This file is part of TinyPeri.
//
// TinyPeri is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// TinyPeri is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with TinyPeri.  If not, see <https://www.gnu.org/licenses/>.

package test

import (
	"fmt"
)

// RingWriter is an implementation of the io.Writer interface that retains
// only the most recent writes. it should be used to capture the tail of a
// long output stream
type RingWriter struct {
	buffer []byte
	size   int
}

// NewRingWriter is the preferred method of initialisation for the RingWriter
// type. size is the maximum number of bytes retained
func NewRingWriter(size int) (*RingWriter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid size for RingWriter (%d)", size)
	}
	return &RingWriter{size: size}, nil
}

// String implements the Stringer interface. the retained bytes are returned
// in the order they were written
func (r *RingWriter) String() string {
	return string(r.buffer)
}

// Reset empties the buffer
func (r *RingWriter) Reset() {
	r.buffer = r.buffer[:0]
}

// Write implements the io.Writer interface
func (r *RingWriter) Write(p []byte) (n int, err error) {
	r.buffer = append(r.buffer, p...)
	if len(r.buffer) > r.size {
		copy(r.buffer, r.buffer[len(r.buffer)-r.size:])
		r.buffer = r.buffer[:r.size]
	}
	return len(p), nil
}
