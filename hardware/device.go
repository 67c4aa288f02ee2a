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

package hardware

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/tinyperi/environment"
	"github.com/jetsetilly/tinyperi/hardware/clocks"
	"github.com/jetsetilly/tinyperi/hardware/ports"
	"github.com/jetsetilly/tinyperi/hardware/pwm"
	"github.com/jetsetilly/tinyperi/hardware/spi"
)

// Monitor implementations observe the level of the two output ports at the
// end of every enabled tick.
type Monitor interface {
	// PortTick is called once per enabled tick, after the output pins have
	// settled for that tick
	PortTick(tick uint64, portA uint8, portB uint8)
}

// Device is the main container for the emulated components of the
// peripheral.
type Device struct {
	env *environment.Environment

	SPI   *spi.Decoder
	Ports *ports.Ports
	PWM   *pwm.Generator

	// the levels of the two external control lines, sampled by Step(). the
	// reset line is active low and synchronous. while the enable line is low
	// the device is frozen and nothing is sampled, not even the reset line
	ResetLine  bool
	EnableLine bool

	// number of enabled ticks since the device was created
	tick uint64

	monitors []Monitor
}

// NewDevice is the preferred method of initialisation for the Device type.
// the wiring decides which bits of the input byte carry the three serial
// lines. both control lines begin deasserted, reset high and enable high.
func NewDevice(env *environment.Environment, wiring spi.Wiring) (*Device, error) {
	dev := &Device{
		env:        env,
		ResetLine:  true,
		EnableLine: true,
	}

	var err error

	dev.SPI, err = spi.NewDecoder(env, wiring)
	if err != nil {
		return nil, err
	}

	dev.Ports = ports.NewPorts(env)

	dev.PWM, err = pwm.NewGenerator(env, clocks.Main, clocks.PWM)
	if err != nil {
		return nil, err
	}

	// tick sourced randomness comes from this device
	env.Random.AttachTicks(dev)

	return dev, nil
}

// AttachMonitor adds a Monitor implementation to the device. monitors are
// notified in the order they were attached.
func (dev *Device) AttachMonitor(m Monitor) {
	dev.monitors = append(dev.monitors, m)
}

// TickCount implements the random.Ticks interface. disabled ticks are not
// counted.
func (dev *Device) TickCount() uint64 {
	return dev.tick
}

// Randomise the state of the device. models the undefined state of the
// physical hardware before the first reset.
func (dev *Device) Randomise() {
	dev.Ports.Randomise()
	dev.PWM.Randomise()
}

// Reset the device immediately, as though the reset line had been sampled
// low. the reset line field is left at its current level.
func (dev *Device) Reset() {
	dev.SPI.Reset()
	dev.Ports.Reset()
	dev.PWM.Reset()
}

// Step the device one tick of the system clock. input is the byte presented
// on the serial input pins for the duration of the tick.
//
// The order of events within a tick is fixed. the serial decoder is stepped
// first, any commit it produces is applied to the register file, the PWM
// counter advances, and only then are the output pins recomputed. a commit
// is therefore visible on the pins in the same tick it fires.
func (dev *Device) Step(input uint8) {
	if !dev.EnableLine {
		return
	}

	dev.tick++

	if !dev.ResetLine {
		dev.Reset()
		dev.notify()
		return
	}

	fr, ok := dev.SPI.Step(input)
	if ok {
		dev.Ports.Apply(fr)
	}

	dev.PWM.Step()
	dev.Ports.Step(dev.PWM.Level(dev.Ports.Duty))
	dev.notify()
}

func (dev *Device) notify() {
	for _, m := range dev.monitors {
		m.PortTick(dev.tick, dev.Ports.PinsA, dev.Ports.PinsB)
	}
}

func (dev *Device) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("tick: %d\n", dev.tick))
	s.WriteString(dev.SPI.String())
	s.WriteString("\n")
	s.WriteString(dev.Ports.String())
	s.WriteString("\n")
	s.WriteString(dev.PWM.String())
	return s.String()
}
