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

package spi

import "fmt"

// Edge selects which serial-clock transition the decoder samples data on
type Edge int

// List of valid Edge values
const (
	RisingEdge Edge = iota
	FallingEdge
)

func (e Edge) String() string {
	switch e {
	case RisingEdge:
		return "rising"
	case FallingEdge:
		return "falling"
	}
	return "unknown"
}

// Wiring names the bit position of each serial line within the input byte and
// the serial-clock transition the decoder samples data on. the assignment is
// a property of how the peripheral has been connected, not of the protocol
type Wiring struct {
	CS   int
	SDI  int
	SCLK int

	Sample Edge
}

// ReferenceWiring is the line assignment used by the reference harness. the
// input byte is packed as {ncs, sdi, sclk} in the low three bits, with
// chip-select the most significant of the three
var ReferenceWiring = Wiring{
	CS:     2,
	SDI:    1,
	SCLK:   0,
	Sample: RisingEdge,
}

// Check returns an error if the wiring names a bit position outside the input
// byte or assigns two lines to the same position
func (w Wiring) Check() error {
	for _, p := range []int{w.CS, w.SDI, w.SCLK} {
		if p < 0 || p > 7 {
			return fmt.Errorf("wiring: bit position %d is outside the input byte", p)
		}
	}
	if w.CS == w.SDI || w.CS == w.SCLK || w.SDI == w.SCLK {
		return fmt.Errorf("wiring: serial lines share a bit position")
	}
	return nil
}

func (w Wiring) String() string {
	return fmt.Sprintf("cs=%d sdi=%d sclk=%d (%v edge)", w.CS, w.SDI, w.SCLK, w.Sample)
}

// Pack builds an input byte with the serial lines at the given levels. the
// complement of the decoder's line extraction, used by stimulus drivers
func (w Wiring) Pack(cs bool, sdi bool, sclk bool) uint8 {
	var data uint8
	if cs {
		data |= 0x01 << w.CS
	}
	if sdi {
		data |= 0x01 << w.SDI
	}
	if sclk {
		data |= 0x01 << w.SCLK
	}
	return data
}

// the level of each serial line extracted from the input byte
func (w Wiring) cs(data uint8) bool {
	return data&(0x01<<w.CS) != 0
}

func (w Wiring) sdi(data uint8) bool {
	return data&(0x01<<w.SDI) != 0
}

func (w Wiring) sclk(data uint8) bool {
	return data&(0x01<<w.SCLK) != 0
}
