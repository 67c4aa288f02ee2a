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

// Package wavwriter allows writing of the waveform on a single output pin to
// disk as a WAV file. Note that sample data is buffered in memory in its
// entirety, and written to disk when Save() is called. It is therefore
// probably only suitable for testing purposes.
package wavwriter

import (
	"fmt"
	"os"

	"github.com/jetsetilly/tinyperi/environment"
	"github.com/jetsetilly/tinyperi/hardware/clocks"
	"github.com/jetsetilly/tinyperi/hardware/pwm"
	"github.com/jetsetilly/tinyperi/logger"
	"github.com/jetsetilly/tinyperi/scope"
	"github.com/youpy/go-wav"
)

// WavWriter records the level of a single output pin as 8-bit mono PCM, one
// sample for every step of the PWM divider. it implements the
// hardware.Monitor interface.
type WavWriter struct {
	env      *environment.Environment
	filename string
	port     scope.Port
	bit      int

	// one sample is taken every decimate ticks. the pin level is constant
	// between steps of the PWM divider so nothing is lost in between
	decimate int
	phase    int

	buffer []wav.Sample
}

// New is the preferred method of initialisation for the WavWriter type.
func New(env *environment.Environment, filename string, port scope.Port, bit int) (*WavWriter, error) {
	if bit < 0 || bit > 7 {
		return nil, fmt.Errorf("wavwriter: no bit %d on an eight bit port", bit)
	}
	if port != scope.PortA && port != scope.PortB {
		return nil, fmt.Errorf("wavwriter: no port %d", port)
	}

	decimate, err := pwm.DividerForFrequency(clocks.Main, clocks.PWM)
	if err != nil {
		return nil, fmt.Errorf("wavwriter: %w", err)
	}

	aw := &WavWriter{
		env:      env,
		filename: filename,
		port:     port,
		bit:      bit,
		decimate: decimate,
		buffer:   make([]wav.Sample, 0),
	}

	return aw, nil
}

// SampleRate of the recording in Hz.
func (aw *WavWriter) SampleRate() int {
	return clocks.Main / aw.decimate
}

// PortTick implements the hardware.Monitor interface.
func (aw *WavWriter) PortTick(_ uint64, portA uint8, portB uint8) {
	if aw.phase == 0 {
		v := portA
		if aw.port == scope.PortB {
			v = portB
		}

		w := wav.Sample{}
		if v&(0x01<<aw.bit) != 0x00 {
			w.Values[0] = 0xff
		}
		aw.buffer = append(aw.buffer, w)
	}

	aw.phase++
	if aw.phase >= aw.decimate {
		aw.phase = 0
	}
}

// Save writes the buffered samples to disk. the recording carries on if more
// ticks arrive after a save.
func (aw *WavWriter) Save() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = fmt.Errorf("wavwriter: %w", err)
		}
	}()

	enc := wav.NewWriter(f, uint32(len(aw.buffer)), 1, uint32(aw.SampleRate()), 8)
	if enc == nil {
		return fmt.Errorf("wavwriter: bad parameters for wav encoding")
	}

	err = enc.WriteSamples(aw.buffer)
	if err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}

	logger.Logf(aw.env, "wavwriter", "pin %s%d written to %s (%d samples)",
		aw.port, aw.bit, aw.filename, len(aw.buffer))

	return nil
}
