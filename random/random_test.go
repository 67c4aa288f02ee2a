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

package random_test

import (
	"testing"

	"github.com/jetsetilly/tinyperi/random"
	"github.com/jetsetilly/tinyperi/test"
)

type ticks struct {
	count uint64
}

func (m *ticks) TickCount() uint64 {
	return m.count
}

func TestRandom(t *testing.T) {
	a := random.NewRandom()
	b := random.NewRandom()
	a.AttachTicks(&ticks{count: 123456})
	b.AttachTicks(&ticks{count: 123456})
	a.ZeroSeed = true
	b.ZeroSeed = true

	for i := 1; i < 256; i++ {
		test.ExpectEquality(t, a.Replayable(i), b.Replayable(i))
	}
}

func TestRandomTickSensitivity(t *testing.T) {
	tck := &ticks{count: 1000}
	rnd := random.NewRandom()
	rnd.AttachTicks(tck)
	rnd.ZeroSeed = true

	// the same tick always produces the same number
	first := rnd.Replayable(1000000)
	test.ExpectEquality(t, rnd.Replayable(1000000), first)

	// advancing the tick produces new numbers. with one million possibilities
	// a collision on every one of ten ticks is not credible
	same := 0
	for i := 0; i < 10; i++ {
		tck.count++
		if rnd.Replayable(1000000) == first {
			same++
		}
	}
	test.ExpectInequality(t, same, 10)
}
