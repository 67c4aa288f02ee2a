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

// Package spi converts serial line activity into complete command frames.
//
// The protocol is a 3-wire write-only variant of SPI: an active-low
// chip-select, a serial clock and a serial data line. The decoder does not
// clock anything from the serial clock directly, it samples all three lines
// with the system clock once per tick. A frame spans one chip-select
// assertion and carries exactly sixteen bits. Chip-select windows with any
// other number of sampled bits deliver nothing.
//
// The decoder enforces framing only. Whether the address carried by a frame
// means anything is the business of the register file.
package spi

import (
	"fmt"

	"github.com/jetsetilly/tinyperi/environment"
	"github.com/jetsetilly/tinyperi/logger"
)

// DecoderState records how incoming serial activity will be interpreted.
type DecoderState int

// List of valid DecoderState values.
const (
	DecoderIdle DecoderState = iota
	DecoderReceiving
	DecoderComplete
)

// FrameBits is the number of bits in a complete frame.
const FrameBits = 16

// Decoder assembles command frames from the serial lines. one input sample is
// consumed per system-clock tick.
type Decoder struct {
	env *environment.Environment

	wiring Wiring

	// the state of each serial line. exported for the benefit of the debugger
	CS   Trace
	SDI  Trace
	SCLK Trace

	State DecoderState

	// the frame in flight. bits are accumulated MSB first
	Bits   uint16
	BitsCt int

	// a chip-select window that sees more than FrameBits sampling edges
	// commits nothing
	poisoned bool
}

// NewDecoder is the preferred method of initialisation for the Decoder type.
func NewDecoder(env *environment.Environment, wiring Wiring) (*Decoder, error) {
	if err := wiring.Check(); err != nil {
		return nil, fmt.Errorf("spi: %w", err)
	}

	dec := &Decoder{
		env:    env,
		wiring: wiring,
		CS:     NewTrace("CS", true),
		SDI:    NewTrace("SDI", false),
		SCLK:   NewTrace("SCLK", wiring.Sample == FallingEdge),
		State:  DecoderIdle,
	}

	return dec, nil
}

// Wiring returns the line assignment the decoder was created with.
func (dec *Decoder) Wiring() Wiring {
	return dec.wiring
}

// Snapshot creates a copy of the decoder, including the line traces.
func (dec *Decoder) Snapshot() *Decoder {
	n := *dec
	n.CS = *dec.CS.Snapshot()
	n.SDI = *dec.SDI.Snapshot()
	n.SCLK = *dec.SCLK.Snapshot()
	return &n
}

// Reset the decoder to its power-on state. any frame in flight is abandoned.
func (dec *Decoder) Reset() {
	dec.State = DecoderIdle
	dec.resetBits()
	dec.poisoned = false
}

func (dec *Decoder) String() string {
	switch dec.State {
	case DecoderIdle:
		return "spi: idle"
	case DecoderReceiving:
		return fmt.Sprintf("spi: receiving (%d of %d bits)", dec.BitsCt, FrameBits)
	case DecoderComplete:
		if dec.poisoned {
			return "spi: overrun"
		}
		return fmt.Sprintf("spi: complete (%v)", frameFromBits(dec.Bits))
	}
	return "spi: unknown"
}

func (dec *Decoder) resetBits() {
	dec.Bits = 0
	dec.BitsCt = 0
}

// recvBit returns true once the frame is full.
func (dec *Decoder) recvBit(v bool) bool {
	if v {
		dec.Bits |= 0x01 << (FrameBits - 1 - dec.BitsCt)
	}
	dec.BitsCt++
	return dec.BitsCt == FrameBits
}

// sampling returns true if the serial clock has made the transition the
// wiring samples data on.
func (dec *Decoder) sampling() bool {
	if dec.wiring.Sample == FallingEdge {
		return dec.SCLK.Falling()
	}
	return dec.SCLK.Rising()
}

// Step ticks the serial lines with a new input sample. the returned frame is
// valid only when the boolean value is true, which happens at most once per
// chip-select window.
func (dec *Decoder) Step(data uint8) (Frame, bool) {
	dec.CS.Tick(dec.wiring.cs(data))
	dec.SDI.Tick(dec.wiring.sdi(data))
	dec.SCLK.Tick(dec.wiring.sclk(data))

	// chip-select is checked before the serial clock. a tick carrying both a
	// chip-select rise and a sampling edge ends the frame without sampling a
	// seventeenth bit
	if dec.CS.Rising() {
		return dec.endFrame()
	}

	if dec.CS.Hi() {
		return Frame{}, false
	}

	// chip-select is asserted. the frame begins on the first tick it is
	// observed low
	if dec.State == DecoderIdle {
		dec.State = DecoderReceiving
		dec.resetBits()
		dec.poisoned = false
	}

	if !dec.sampling() {
		return Frame{}, false
	}

	switch dec.State {
	case DecoderReceiving:
		if dec.recvBit(dec.SDI.Hi()) {
			dec.State = DecoderComplete
		}

	case DecoderComplete:
		dec.poisoned = true
	}

	return Frame{}, false
}

// the frame ends when chip-select deasserts. a commit is delivered only if
// exactly FrameBits sampling edges occurred while chip-select was low.
func (dec *Decoder) endFrame() (Frame, bool) {
	defer func() {
		dec.State = DecoderIdle
		dec.resetBits()
		dec.poisoned = false
	}()

	switch dec.State {
	case DecoderReceiving:
		logger.Logf(dec.env, "spi", "frame dropped: %d of %d bits", dec.BitsCt, FrameBits)

	case DecoderComplete:
		if dec.poisoned {
			logger.Log(dec.env, "spi", "frame dropped: too many clock edges")
			return Frame{}, false
		}
		return frameFromBits(dec.Bits), true
	}

	return Frame{}, false
}
