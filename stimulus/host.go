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

// Package stimulus drives an emulated device the way the reference bench
// drives the physical part. the Host type encodes serial transactions onto
// the input pins bit by bit at the serial clock rate, and the Script type
// runs a file of bench commands through a Host.
package stimulus

import (
	"fmt"

	"github.com/jetsetilly/tinyperi/environment"
	"github.com/jetsetilly/tinyperi/hardware"
	"github.com/jetsetilly/tinyperi/hardware/clocks"
	"github.com/jetsetilly/tinyperi/hardware/spi"
)

// Host encodes serial transactions onto the input pins of a device. one
// transaction is one chip-select window carrying a full 16 bit frame.
type Host struct {
	env    *environment.Environment
	dev    *hardware.Device
	wiring spi.Wiring

	// HalfPeriod is half the period of the serial clock, measured in system
	// clock ticks
	HalfPeriod int

	// Settle is the number of ticks the bus idles after the chip-select is
	// released. the commit, if there is one, fires on the first of them
	Settle int

	// Jitter adds up to this many further idle ticks after every
	// transaction. the amount added is replayable, two runs over the same
	// device produce the same tick sequence
	Jitter int
}

// NewHost is the preferred method of initialisation for the Host type. the
// timings default to the reference bench: a 100KHz serial clock and a 600
// tick settle after every transaction.
func NewHost(env *environment.Environment, dev *hardware.Device) *Host {
	return &Host{
		env:        env,
		dev:        dev,
		wiring:     dev.SPI.Wiring(),
		HalfPeriod: clocks.Main / clocks.Serial / 2,
		Settle:     600,
	}
}

// the level the serial clock rests at between transactions and while data is
// being presented. a falling edge wiring clocks from the high level.
func (hst *Host) idleClk() bool {
	return hst.wiring.Sample == spi.FallingEdge
}

// Idle steps the device n ticks with the serial lines at rest.
func (hst *Host) Idle(n int) {
	in := hst.wiring.Pack(true, false, hst.idleClk())
	for i := 0; i < n; i++ {
		hst.dev.Step(in)
	}
}

// Run steps the device as quickly as possible with the serial lines at
// rest. the continueCheck function is consulted after every tick, see the
// Run() function in the hardware package.
func (hst *Host) Run(continueCheck func() (bool, error)) error {
	return hst.dev.Run(hst.wiring.Pack(true, false, hst.idleClk()), continueCheck)
}

// Write a register over the serial bus. the transaction is complete, settle
// ticks included, by the time the function returns.
func (hst *Host) Write(addr uint8, data uint8) error {
	return hst.transaction(true, addr, data)
}

// Read a register over the serial bus. the peripheral has no reply path so
// the data byte is carried in full and discarded at the far end. useful only
// for confirming that read commands have no effect.
func (hst *Host) Read(addr uint8, data uint8) error {
	return hst.transaction(false, addr, data)
}

// Reset holds the reset line low for n ticks and then high for the same
// time, mirroring the power-on pulse of the reference bench.
func (hst *Host) Reset(n int) {
	hst.dev.ResetLine = false
	hst.Idle(n)
	hst.dev.ResetLine = true
	hst.Idle(n)
}

// Enable sets the level of the enable line. a disabled device is frozen, it
// will not even observe the reset line.
func (hst *Host) Enable(enabled bool) {
	hst.dev.EnableLine = enabled
}

func (hst *Host) transaction(write bool, addr uint8, data uint8) error {
	if addr > 0x7f {
		return fmt.Errorf("stimulus: address does not fit seven bits: %#02x", addr)
	}

	var bits uint16
	if write {
		bits |= 0x8000
	}
	bits |= uint16(addr) << 8
	bits |= uint16(data)

	idleClk := hst.idleClk()

	// assert the chip-select one tick ahead of the first clock phase
	hst.dev.Step(hst.wiring.Pack(false, false, idleClk))

	// most significant bit first. data is presented while the serial clock
	// rests and held while it toggles, giving exactly one sampling edge per
	// bit for either wiring
	for i := 0; i < spi.FrameBits; i++ {
		b := bits&(0x8000>>i) != 0
		for j := 0; j < hst.HalfPeriod; j++ {
			hst.dev.Step(hst.wiring.Pack(false, b, idleClk))
		}
		for j := 0; j < hst.HalfPeriod; j++ {
			hst.dev.Step(hst.wiring.Pack(false, b, !idleClk))
		}
	}

	// release the chip-select and let the bus settle
	hst.Idle(hst.Settle)

	if hst.Jitter > 0 {
		hst.Idle(hst.env.Random.Replayable(hst.Jitter))
	}

	return nil
}
