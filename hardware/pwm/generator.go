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

// Package pwm implements the shared PWM generator. a single phase counter,
// clocked at a fraction of the system clock, serves every enabled bit on both
// output ports. the duty value is not stored here, it lives in the register
// file and is presented on every call to the Level() function.
//
// The reference frequency of the generator is 3KHz. this is the 10MHz system
// clock divided by 13 and then by the 256 values of the phase counter. the
// attained frequency is 3004.8Hz which is well inside the tolerance of the
// physical part.
package pwm

import (
	"fmt"

	"github.com/jetsetilly/tinyperi/environment"
)

// Generator is the shared PWM phase counter.
type Generator struct {
	env *environment.Environment

	// the number of system clock ticks per increment of the phase counter
	divider int

	// counts system clock ticks up to the divider
	clock int

	// the phase counter. wraps naturally on increment
	Counter uint8
}

// NewGenerator is the preferred method of initialisation for the Generator
// type. sysclk and freq are in Hz.
func NewGenerator(env *environment.Environment, sysclk int, freq int) (*Generator, error) {
	div, err := DividerForFrequency(sysclk, freq)
	if err != nil {
		return nil, err
	}

	return &Generator{
		env:     env,
		divider: div,
	}, nil
}

// Reset the generator to its power-on state. the phase counter restarts at
// the beginning of the cycle.
func (g *Generator) Reset() {
	g.clock = 0
	g.Counter = 0
}

// Randomise the phase of the generator. models the undefined state of the
// physical hardware before the first reset.
func (g *Generator) Randomise() {
	g.clock = g.env.Random.NoReplay(g.divider)
	g.Counter = uint8(g.env.Random.NoReplay(CounterLimit))
}

// Step the generator on one system clock tick.
func (g *Generator) Step() {
	g.clock++
	if g.clock >= g.divider {
		g.clock = 0
		g.Counter++
	}
}

// Level of the PWM signal for the supplied duty value. the signal is high for
// the first duty values of the phase counter. a duty of zero is always low.
func (g *Generator) Level(duty uint8) bool {
	return g.Counter < duty
}

// CycleTicks is the length of one full PWM cycle in system clock ticks.
func (g *Generator) CycleTicks() int {
	return g.divider * CounterLimit
}

func (g *Generator) String() string {
	return fmt.Sprintf("divider: %d  counter: %d", g.divider, g.Counter)
}
