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

package random

import (
	"math/rand"
	"time"
)

// Ticks provides the current tick count of the emulation
type Ticks interface {
	TickCount() uint64
}

// the base seed for all random numbers
var baseSeed int64

// initialise base seed
func init() {
	baseSeed = int64(time.Now().Nanosecond())
}

// Random is a random number generator that is sensitive to time within the
// emulation. required for reproducible script replays and parallel emulations
type Random struct {
	ticks Ticks

	// use zero seed rather than the random base seed. this is only really
	// useful for normalised instances where random numbers must be predictable
	ZeroSeed bool
}

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom() *Random {
	return &Random{}
}

// AttachTicks connects the emulation's tick counter to the random number
// generator. without an attached counter the generator falls back to the base
// seed alone
func (rnd *Random) AttachTicks(ticks Ticks) {
	rnd.ticks = ticks
}

// the current tick count as a seed component
func (rnd *Random) tickCount() int64 {
	if rnd.ticks == nil {
		return 0
	}
	return int64(rnd.ticks.TickCount())
}

// new RNG from the standard library
func (rnd *Random) rand(seed int64) *rand.Rand {
	if rnd.ZeroSeed {
		return rand.New(rand.NewSource(seed))
	}
	return rand.New(rand.NewSource(baseSeed + seed))
}

// Replayable returns a random number based on the current tick count of the
// emulation. the same number is always returned for the same tick. as such it
// is compatible with script replays
func (rnd *Random) Replayable(n int) int {
	return rnd.rand(rnd.tickCount()).Intn(n)
}

// NoReplay returns random numbers regardless of the current tick count. it is
// therefore not compatible with script replays
func (rnd *Random) NoReplay(n int) int {
	if rnd.ZeroSeed {
		return rand.New(rand.NewSource(0)).Intn(n)
	}
	return rand.New(rand.NewSource(baseSeed + int64(time.Now().Nanosecond()))).Intn(n)
}
