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

// Frame is one complete 16-bit command received over the serial interface.
// the wire format is MSB first: one read/write bit, a 7-bit address and an
// 8-bit data value
type Frame struct {
	// true if the command is a write. read commands never mutate anything but
	// are carried in full so the register file can account for them
	Write bool

	// the 7-bit register address
	Address uint8

	// the 8-bit data value
	Data uint8
}

// frame assembled from the raw 16 bits as they were sampled
func frameFromBits(bits uint16) Frame {
	return Frame{
		Write:   bits&0x8000 == 0x8000,
		Address: uint8((bits >> 8) & 0x7f),
		Data:    uint8(bits & 0x00ff),
	}
}

func (fr Frame) String() string {
	if fr.Write {
		return fmt.Sprintf("write %#02x = %#02x", fr.Address, fr.Data)
	}
	return fmt.Sprintf("read %#02x", fr.Address)
}
