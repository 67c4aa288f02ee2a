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

package ports

// Register represents a named register in the peripheral's register file.
type Register string

// List of valid Register values. The names are the ones used by the
// peripheral's datasheet.
const (
	OUTA   Register = "OUT_A"
	OUTB   Register = "OUT_B"
	PWMENA Register = "PWM_EN_A"
	PWMENB Register = "PWM_EN_B"
	DUTY   Register = "DUTY"
)

// The address of each register in the 7-bit address space.
const (
	AddressOutA uint8 = iota
	AddressOutB
	AddressPWMEnableA
	AddressPWMEnableB
	AddressDuty
)

// WriteSymbols indexes the writable registers by address.
var WriteSymbols = map[uint8]Register{
	AddressOutA:       OUTA,
	AddressOutB:       OUTB,
	AddressPWMEnableA: PWMENA,
	AddressPWMEnableB: PWMENB,
	AddressDuty:       DUTY,
}

// IsWritable returns true if a write to the address will mutate a register.
// addresses outside the register file are accepted at the framing level but
// writes to them have no effect at all
func IsWritable(address uint8) bool {
	_, ok := WriteSymbols[address]
	return ok
}
