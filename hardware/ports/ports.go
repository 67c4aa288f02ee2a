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

// Package ports implements the register file of the peripheral and the two
// 8-bit output ports computed from it.
//
// The register file is mutated only by the Apply() function and only by write
// commands carrying a mapped address. Everything else, read commands and
// writes to unmapped addresses, is accepted without complaint and without
// effect. The no-effect rule is the error handling policy of the peripheral,
// there is no error path out of this package.
package ports

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/tinyperi/environment"
	"github.com/jetsetilly/tinyperi/hardware/spi"
	"github.com/jetsetilly/tinyperi/logger"
)

// Ports is the register file and the output pins computed from it.
type Ports struct {
	env *environment.Environment

	// the stored registers. static output levels, the PWM enable masks and
	// the shared duty value. exported for the benefit of the debugger
	OutA    uint8
	OutB    uint8
	EnableA uint8
	EnableB uint8
	Duty    uint8

	// the level of the output pins as of the most recent Step()
	PinsA uint8
	PinsB uint8
}

// NewPorts is the preferred method of initialisation for the Ports type.
func NewPorts(env *environment.Environment) *Ports {
	return &Ports{env: env}
}

// Reset the register file to its power-on state. both output ports fall to
// zero on the same tick.
func (p *Ports) Reset() {
	p.OutA = 0
	p.OutB = 0
	p.EnableA = 0
	p.EnableB = 0
	p.Duty = 0
	p.PinsA = 0
	p.PinsB = 0
}

// Randomise the register file. models the undefined state of the physical
// hardware before the first reset.
func (p *Ports) Randomise() {
	p.OutA = uint8(p.env.Random.NoReplay(256))
	p.OutB = uint8(p.env.Random.NoReplay(256))
	p.EnableA = uint8(p.env.Random.NoReplay(256))
	p.EnableB = uint8(p.env.Random.NoReplay(256))
	p.Duty = uint8(p.env.Random.NoReplay(256))
}

// Apply a commit from the serial decoder to the register file. the returned
// value is false if the frame was not serviced: a read command or a write to
// an unmapped address. an unserviced frame leaves every register untouched.
func (p *Ports) Apply(fr spi.Frame) bool {
	if !fr.Write || !IsWritable(fr.Address) {
		logger.Logf(p.env, "ports", "not serviced: %s", fr.String())
		return false
	}

	switch fr.Address {
	case AddressOutA:
		p.OutA = fr.Data
	case AddressOutB:
		p.OutB = fr.Data
	case AddressPWMEnableA:
		p.EnableA = fr.Data
	case AddressPWMEnableB:
		p.EnableB = fr.Data
	case AddressDuty:
		p.Duty = fr.Data
	}

	return true
}

// Step recomputes the output pins from the stored registers and the current
// level of the shared PWM signal. bits with the corresponding enable bit set
// follow the PWM signal, the rest show their stored static level. the static
// level is retained while PWM is enabled and re-observed as soon as the
// enable bit is cleared.
func (p *Ports) Step(pwm bool) {
	var lv uint8
	if pwm {
		lv = 0xff
	}
	p.PinsA = (p.EnableA & lv) | (^p.EnableA & p.OutA)
	p.PinsB = (p.EnableB & lv) | (^p.EnableB & p.OutB)
}

func (p *Ports) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %#02x   %s: %#02x\n", OUTA, p.OutA, OUTB, p.OutB))
	s.WriteString(fmt.Sprintf("%s: %#02x   %s: %#02x\n", PWMENA, p.EnableA, PWMENB, p.EnableB))
	s.WriteString(fmt.Sprintf("%s: %#02x\n", DUTY, p.Duty))
	s.WriteString(fmt.Sprintf("port a: %#02x   port b: %#02x", p.PinsA, p.PinsB))
	return s.String()
}
