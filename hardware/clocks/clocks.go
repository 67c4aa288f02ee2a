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

// Package clocks defines the constant values that define the speed of the
// clocks in the peripheral.
//
// All values are in Hz. The serial clock is not a clock of the peripheral
// itself, it is the rate at which the reference harness toggles the serial
// clock line. The peripheral only ever samples that line with the main clock.
package clocks

const (
	// Main is the system clock rate. every operation in the emulation is
	// measured in ticks of this clock, each tick covering 100ns
	Main = 10_000_000

	// PWM is the target frequency for the PWM waveform. the realisable
	// frequency differs slightly, see the pwm package
	PWM = 3_000

	// Serial is the serial clock rate used by the reference harness
	Serial = 100_000
)
