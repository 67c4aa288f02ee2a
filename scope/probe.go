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

// Package scope measures the waveform on a single output pin. a Probe
// attaches to the device as a monitor and records the tick number of every
// edge it sees. frequency and duty cycle are then derived from the recorded
// edges, in the same way the reference bench derives them from simulation
// timestamps.
package scope

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/tinyperi/hardware/clocks"
)

// Port selects which of the two output ports a Probe watches.
type Port int

// List of valid Port values.
const (
	PortA Port = iota
	PortB
)

func (p Port) String() string {
	if p == PortB {
		return "B"
	}
	return "A"
}

// ParsePin converts a pin label, "A0" or "b.7" for example, into a Port and a
// bit number suitable for NewProbe.
func ParsePin(label string) (Port, int, error) {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.ReplaceAll(s, ".", "")
	if len(s) != 2 {
		return PortA, 0, fmt.Errorf("scope: unrecognised pin label: %s", label)
	}

	var port Port
	switch s[0] {
	case 'a':
		port = PortA
	case 'b':
		port = PortB
	default:
		return PortA, 0, fmt.Errorf("scope: unrecognised pin label: %s", label)
	}

	bit := int(s[1] - '0')
	if bit < 0 || bit > 7 {
		return PortA, 0, fmt.Errorf("scope: unrecognised pin label: %s", label)
	}

	return port, bit, nil
}

// Probe records the transitions of one bit of one output port. it implements
// the hardware.Monitor interface and must be attached to the device with
// AttachMonitor() before it sees anything.
type Probe struct {
	port Port
	bit  int

	// level at the previous tick. meaningless until primed
	prev   bool
	primed bool

	// tick numbers of the observed transitions
	risings  []uint64
	fallings []uint64
}

// NewProbe is the preferred method of initialisation for the Probe type.
func NewProbe(port Port, bit int) (*Probe, error) {
	if bit < 0 || bit > 7 {
		return nil, fmt.Errorf("scope: no bit %d on an eight bit port", bit)
	}
	if port != PortA && port != PortB {
		return nil, fmt.Errorf("scope: no port %d", port)
	}
	return &Probe{port: port, bit: bit}, nil
}

// Clear the recorded transitions, ready for a fresh measurement.
func (prb *Probe) Clear() {
	prb.risings = prb.risings[:0]
	prb.fallings = prb.fallings[:0]
	prb.primed = false
}

// PortTick implements the hardware.Monitor interface.
func (prb *Probe) PortTick(tick uint64, portA uint8, portB uint8) {
	v := portA
	if prb.port == PortB {
		v = portB
	}
	lv := (v>>prb.bit)&0x01 == 0x01

	if prb.primed {
		if lv && !prb.prev {
			prb.risings = append(prb.risings, tick)
		} else if !lv && prb.prev {
			prb.fallings = append(prb.fallings, tick)
		}
	}

	prb.prev = lv
	prb.primed = true
}

// Measurement of a waveform over some number of complete periods.
type Measurement struct {
	// Frequency in Hz, given the reference system clock rate
	Frequency float64

	// Duty is the fraction of each period the pin spends high
	Duty float64

	// the number of complete periods the measurement covers
	Periods int
}

func (m Measurement) String() string {
	return fmt.Sprintf("%.1fHz, %.1f%% duty, over %d periods", m.Frequency, m.Duty*100, m.Periods)
}

// Measure the recorded transitions. a measurement spans the first rising
// edge to the last, so at least two rising edges must have been recorded. a
// pin that never rises, a zero duty value for instance, cannot be measured.
func (prb *Probe) Measure() (Measurement, error) {
	if len(prb.risings) < 2 {
		return Measurement{}, fmt.Errorf("scope: too few rising edges on port %s bit %d", prb.port, prb.bit)
	}

	n := len(prb.risings) - 1
	first := prb.risings[0]
	last := prb.risings[n]
	period := float64(last-first) / float64(n)

	// the high time of each period runs from its rising edge to the next
	// falling edge
	var high uint64
	fi := 0
	for _, r := range prb.risings[:n] {
		for fi < len(prb.fallings) && prb.fallings[fi] <= r {
			fi++
		}
		if fi == len(prb.fallings) {
			return Measurement{}, fmt.Errorf("scope: no falling edge to end the period at tick %d", r)
		}
		high += prb.fallings[fi] - r
	}

	return Measurement{
		Frequency: clocks.Main / period,
		Duty:      float64(high) / float64(last-first),
		Periods:   n,
	}, nil
}
