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

// Package environment provides context for an emulation. Particularly useful
// when more than one emulation is running in the same process: entries in the
// central log can be filtered by emulation and throwaway emulations can be
// prevented from logging at all.
package environment

import (
	"github.com/jetsetilly/tinyperi/random"
)

// Label is used to name the environment
type Label string

// MainEmulation is the label used for the main emulation
const MainEmulation = Label("main")

// Environment is used to provide context for an emulation
type Environment struct {
	Label Label

	// any randomisation required by the emulation should be retrieved through
	// this structure
	Random *random.Random
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type
func NewEnvironment(label Label) *Environment {
	return &Environment{
		Label:  label,
		Random: random.NewRandom(),
	}
}

// Normalise ensures the environment is in a known default state. useful for
// testing where the initial state must be the same for every run
func (env *Environment) Normalise() {
	env.Random.ZeroSeed = true
}

// IsEmulation checks the emulation label and returns true if it matches
func (env *Environment) IsEmulation(label Label) bool {
	return env.Label == label
}

// AllowLogging implements the logger.Permission interface. only the main
// emulation may create log entries
func (env *Environment) AllowLogging() bool {
	return env.IsEmulation(MainEmulation)
}
