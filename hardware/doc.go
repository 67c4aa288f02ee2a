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

// Package hardware is the base package for the peripheral emulation. It and
// its sub-packages contain everything required for a headless emulation.
//
// The Device type is the root of the emulation and contains external
// references to all the sub-systems of the peripheral: the serial decoder,
// the register file with its two output ports, and the PWM generator. From
// here, the emulation can either be started to run continuously (with
// optional callback to check for continuation); or it can be stepped tick by
// tick.
//
// Everything in the emulation happens in whole ticks of the system clock.
// The Step() function samples the input pins, runs the decoder, applies any
// register commit, advances the PWM counter and settles the output pins, in
// that order, before notifying any attached monitors. There is no finer
// grain of time.
package hardware
