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

package test_test

import (
	"testing"

	"github.com/jetsetilly/tinyperi/test"
)

func TestRingWriter(t *testing.T) {
	_, err := test.NewRingWriter(0)
	test.ExpectFailure(t, err)

	r, err := test.NewRingWriter(10)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.String(), "")

	// short writes accumulate until the buffer is full
	r.Write([]byte("abcde"))
	test.ExpectEquality(t, r.String(), "abcde")
	r.Write([]byte("fgh"))
	test.ExpectEquality(t, r.String(), "abcdefgh")
	r.Write([]byte("ij"))
	test.ExpectEquality(t, r.String(), "abcdefghij")

	// once the buffer is full the oldest bytes fall off the front
	r.Write([]byte("kl"))
	test.ExpectEquality(t, r.String(), "cdefghijkl")
	r.Write([]byte("mn"))
	test.ExpectEquality(t, r.String(), "efghijklmn")

	// a write the same size as the buffer replaces the content entirely
	r.Write([]byte("1234567890"))
	test.ExpectEquality(t, r.String(), "1234567890")

	// a write larger than the buffer keeps only its tail
	r.Write([]byte("1234567890ABC"))
	test.ExpectEquality(t, r.String(), "4567890ABC")

	r.Reset()
	test.ExpectEquality(t, r.String(), "")
	r.Write([]byte("1234567890ABC"))
	test.ExpectEquality(t, r.String(), "4567890ABC")
}
