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

// Package digest produces a cryptographic hash of everything that appears on
// the output ports of the device. if a hash differs from a previously
// recorded value then the behaviour of the device has changed. we use this as
// the basis for regression comparison of stimulus scripts.
package digest

import (
	"crypto/sha1"
	"fmt"
)

// the length of the buffer isn't really important. that said, it needs to be
// at least sha1.Size bytes in length.
const portsBufferLength = 1024 + sha1.Size

// to allow digests of port streams longer than portsBufferLength, the
// previous digest value is stuffed into the first part of the buffer and
// included in the sum of the next digest value.
const portsBufferStart = sha1.Size

// Ports is a rolling digest of the values on the two output ports. it
// implements the hardware.Monitor interface.
type Ports struct {
	digest   [sha1.Size]byte
	buffer   []uint8
	bufferCt int
}

// NewPorts is the preferred method of initialisation for the Ports type.
func NewPorts() *Ports {
	dig := &Ports{
		buffer:   make([]uint8, portsBufferLength),
		bufferCt: portsBufferStart,
	}
	return dig
}

func (dig *Ports) String() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest resets the current digest value to 0.
func (dig *Ports) ResetDigest() {
	for i := range dig.digest {
		dig.digest[i] = 0
	}
	clear(dig.buffer)
	dig.bufferCt = portsBufferStart
}

// PortTick implements the hardware.Monitor interface.
func (dig *Ports) PortTick(_ uint64, portA uint8, portB uint8) {
	dig.buffer[dig.bufferCt] = portA
	dig.buffer[dig.bufferCt+1] = portB
	dig.bufferCt += 2

	if dig.bufferCt >= portsBufferLength {
		dig.flush()
	}
}

// Hash returns the digest value for the port stream so far, folding in any
// samples still waiting in the buffer.
func (dig *Ports) Hash() string {
	if dig.bufferCt > portsBufferStart {
		dig.flush()
	}
	return dig.String()
}

func (dig *Ports) flush() {
	dig.digest = sha1.Sum(dig.buffer[:dig.bufferCt])
	copy(dig.buffer, dig.digest[:])
	dig.bufferCt = portsBufferStart
}
