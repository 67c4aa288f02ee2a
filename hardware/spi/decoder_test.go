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

package spi_test

import (
	"testing"

	"github.com/jetsetilly/tinyperi/environment"
	"github.com/jetsetilly/tinyperi/hardware/spi"
	"github.com/jetsetilly/tinyperi/test"
)

// bitbang the first nbits of a frame, MSB first, holding each serial clock
// phase for half ticks. the serial clock rests at the idle level for the
// wiring and toggles to the active level once per bit, so the same function
// serves rising and falling edge decoders. the frame is ended with a
// chip-select deassertion and any commit is returned
func bitbang(dec *spi.Decoder, w spi.Wiring, bits uint16, nbits int, half int) (fr spi.Frame, ok bool) {
	step := func(cs bool, sdi bool, sclk bool) {
		f, o := dec.Step(w.Pack(cs, sdi, sclk))
		if o {
			fr = f
			ok = o
		}
	}

	idleClk := w.Sample == spi.FallingEdge

	// assert chip-select with the serial clock at rest
	step(false, false, idleClk)

	for i := 0; i < nbits; i++ {
		bit := bits&(0x8000>>i) != 0
		for j := 0; j < half; j++ {
			step(false, bit, idleClk)
		}
		for j := 0; j < half; j++ {
			step(false, bit, !idleClk)
		}
	}

	// return the serial clock to rest before deasserting chip-select
	step(false, false, idleClk)
	step(true, false, idleClk)

	return fr, ok
}

func TestFrameAssembly(t *testing.T) {
	env := environment.NewEnvironment(environment.MainEmulation)

	dec, err := spi.NewDecoder(env, spi.ReferenceWiring)
	test.DemandSuccess(t, err)

	// write command. rw bit, zero address, data 0xf0
	fr, ok := bitbang(dec, spi.ReferenceWiring, 0x80f0, 16, 2)
	test.ExpectSuccess(t, ok)
	test.ExpectSuccess(t, fr.Write)
	test.ExpectEquality(t, fr.Address, 0x00)
	test.ExpectEquality(t, fr.Data, 0xf0)

	// read command. the frame is delivered in full even though it will never
	// mutate anything
	fr, ok = bitbang(dec, spi.ReferenceWiring, 0x30ff, 16, 2)
	test.ExpectSuccess(t, ok)
	test.ExpectFailure(t, fr.Write)
	test.ExpectEquality(t, fr.Address, 0x30)
	test.ExpectEquality(t, fr.Data, 0xff)
}

func TestBitOrder(t *testing.T) {
	env := environment.NewEnvironment(environment.MainEmulation)

	dec, err := spi.NewDecoder(env, spi.ReferenceWiring)
	test.DemandSuccess(t, err)

	// an asymmetric bit pattern catches any confusion over bit order. 0xa5 is
	// rw=1 address=0x25
	fr, ok := bitbang(dec, spi.ReferenceWiring, 0xa53c, 16, 2)
	test.ExpectSuccess(t, ok)
	test.ExpectSuccess(t, fr.Write)
	test.ExpectEquality(t, fr.Address, 0x25)
	test.ExpectEquality(t, fr.Data, 0x3c)
}

func TestHarnessRateFraming(t *testing.T) {
	env := environment.NewEnvironment(environment.MainEmulation)

	dec, err := spi.NewDecoder(env, spi.ReferenceWiring)
	test.DemandSuccess(t, err)

	// the reference harness holds each serial clock phase for 50 ticks. the
	// decoder is rate independent but the reference rate should certainly work
	fr, ok := bitbang(dec, spi.ReferenceWiring, 0x81cc, 16, 50)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, fr.Address, 0x01)
	test.ExpectEquality(t, fr.Data, 0xcc)
}

func TestShortFrameAborts(t *testing.T) {
	env := environment.NewEnvironment(environment.MainEmulation)

	dec, err := spi.NewDecoder(env, spi.ReferenceWiring)
	test.DemandSuccess(t, err)

	// ten bits is not a frame
	_, ok := bitbang(dec, spi.ReferenceWiring, 0xffff, 10, 2)
	test.ExpectFailure(t, ok)

	// a single bit is not a frame
	_, ok = bitbang(dec, spi.ReferenceWiring, 0xffff, 1, 2)
	test.ExpectFailure(t, ok)

	// fifteen bits is very nearly a frame, but still not a frame
	_, ok = bitbang(dec, spi.ReferenceWiring, 0xffff, 15, 2)
	test.ExpectFailure(t, ok)

	// an aborted frame must not damage the next frame
	fr, ok := bitbang(dec, spi.ReferenceWiring, 0x80aa, 16, 2)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, fr.Address, 0x00)
	test.ExpectEquality(t, fr.Data, 0xaa)
}

func TestOverlongFrameAborts(t *testing.T) {
	env := environment.NewEnvironment(environment.MainEmulation)

	dec, err := spi.NewDecoder(env, spi.ReferenceWiring)
	test.DemandSuccess(t, err)

	// seventeen sampling edges poison the chip-select window
	_, ok := bitbang(dec, spi.ReferenceWiring, 0x80f0, 17, 2)
	test.ExpectFailure(t, ok)

	// a whole extra byte is no better
	_, ok = bitbang(dec, spi.ReferenceWiring, 0x80f0, 24, 2)
	test.ExpectFailure(t, ok)

	// recovery
	fr, ok := bitbang(dec, spi.ReferenceWiring, 0x80f0, 16, 2)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, fr.Data, 0xf0)
}

func TestEmptyChipSelectWindow(t *testing.T) {
	env := environment.NewEnvironment(environment.MainEmulation)

	dec, err := spi.NewDecoder(env, spi.ReferenceWiring)
	test.DemandSuccess(t, err)

	// a chip-select assertion with no clock edges at all
	_, ok := bitbang(dec, spi.ReferenceWiring, 0x0000, 0, 2)
	test.ExpectFailure(t, ok)
}

func TestFallingEdgeWiring(t *testing.T) {
	env := environment.NewEnvironment(environment.MainEmulation)

	w := spi.Wiring{CS: 2, SDI: 1, SCLK: 0, Sample: spi.FallingEdge}
	dec, err := spi.NewDecoder(env, w)
	test.DemandSuccess(t, err)

	// the serial clock rests high for this wiring and each bit is sampled as
	// the clock falls
	fr, ok := bitbang(dec, w, 0xa53c, 16, 2)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, fr.Address, 0x25)
	test.ExpectEquality(t, fr.Data, 0x3c)
}

func TestAlternativeWiring(t *testing.T) {
	env := environment.NewEnvironment(environment.MainEmulation)

	// the same serial lines on very different bit positions
	w := spi.Wiring{CS: 7, SDI: 0, SCLK: 4, Sample: spi.RisingEdge}
	dec, err := spi.NewDecoder(env, w)
	test.DemandSuccess(t, err)

	fr, ok := bitbang(dec, w, 0x84aa, 16, 2)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, fr.Address, 0x04)
	test.ExpectEquality(t, fr.Data, 0xaa)
}

func TestWiringCheck(t *testing.T) {
	env := environment.NewEnvironment(environment.MainEmulation)

	// shared bit positions are rejected
	_, err := spi.NewDecoder(env, spi.Wiring{CS: 1, SDI: 1, SCLK: 0})
	test.ExpectFailure(t, err)

	// as are positions outside the input byte
	_, err = spi.NewDecoder(env, spi.Wiring{CS: 8, SDI: 1, SCLK: 0})
	test.ExpectFailure(t, err)

	_, err = spi.NewDecoder(env, spi.Wiring{CS: -1, SDI: 1, SCLK: 0})
	test.ExpectFailure(t, err)
}

// a chip-select rise and a sampling edge arriving on the same tick must end
// the frame without sampling another bit
func TestSimultaneousChipSelectRise(t *testing.T) {
	env := environment.NewEnvironment(environment.MainEmulation)

	w := spi.ReferenceWiring
	dec, err := spi.NewDecoder(env, w)
	test.DemandSuccess(t, err)

	step := func(cs bool, sdi bool, sclk bool) (spi.Frame, bool) {
		return dec.Step(w.Pack(cs, sdi, sclk))
	}

	// fifteen ordinary bits
	step(false, false, false)
	for i := 0; i < 15; i++ {
		bit := uint16(0x80f0)&(0x8000>>i) != 0
		step(false, bit, false)
		step(false, bit, false)
		step(false, bit, true)
		step(false, bit, true)
	}

	// sixteenth bit rises together with chip-select. the frame is one bit
	// short and must abort
	step(false, false, false)
	_, ok := step(true, false, true)
	test.ExpectFailure(t, ok)

	// now a full sixteen bits with the final clock cycle still high as
	// chip-select rises. the sixteenth bit has already been sampled so the
	// commit must fire
	step(false, false, false)
	for i := 0; i < 16; i++ {
		bit := uint16(0x80f0)&(0x8000>>i) != 0
		step(false, bit, false)
		step(false, bit, false)
		step(false, bit, true)
		step(false, bit, true)
	}
	fr, ok := step(true, false, true)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, fr.Data, 0xf0)
}

func TestDecoderReset(t *testing.T) {
	env := environment.NewEnvironment(environment.MainEmulation)

	w := spi.ReferenceWiring
	dec, err := spi.NewDecoder(env, w)
	test.DemandSuccess(t, err)

	// half a frame
	step := func(cs bool, sdi bool, sclk bool) (spi.Frame, bool) {
		return dec.Step(w.Pack(cs, sdi, sclk))
	}
	step(false, false, false)
	for i := 0; i < 8; i++ {
		step(false, true, false)
		step(false, true, true)
	}
	test.ExpectEquality(t, dec.State, spi.DecoderReceiving)

	// reset abandons the frame in flight
	dec.Reset()
	test.ExpectEquality(t, dec.State, spi.DecoderIdle)

	// with chip-select still low the decoder starts a fresh frame. eight more
	// bits do not make a commit
	for i := 0; i < 8; i++ {
		step(false, true, false)
		step(false, true, true)
	}
	step(false, false, false)
	_, ok := step(true, false, false)
	test.ExpectFailure(t, ok)
}
