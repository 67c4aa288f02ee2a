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

package wavload_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/tinyperi/environment"
	"github.com/jetsetilly/tinyperi/hardware"
	"github.com/jetsetilly/tinyperi/hardware/spi"
	"github.com/jetsetilly/tinyperi/scope"
	"github.com/jetsetilly/tinyperi/stimulus"
	"github.com/jetsetilly/tinyperi/test"
	"github.com/jetsetilly/tinyperi/wavload"
	"github.com/jetsetilly/tinyperi/wavwriter"
)

// record pin A0 of a device running at the given duty to a WAV file and
// return the filename.
func record(t *testing.T, env *environment.Environment, duty uint8) string {
	t.Helper()

	dev, err := hardware.NewDevice(env, spi.ReferenceWiring)
	test.DemandSuccess(t, err)

	filename := filepath.Join(t.TempDir(), "a0.wav")
	aw, err := wavwriter.New(env, filename, scope.PortA, 0)
	test.DemandSuccess(t, err)
	dev.AttachMonitor(aw)

	hst := stimulus.NewHost(env, dev)
	hst.Reset(5)
	test.ExpectSuccess(t, hst.Write(0x04, duty))
	test.ExpectSuccess(t, hst.Write(0x02, 0x01))
	hst.Idle(12 * dev.PWM.CycleTicks())
	test.DemandSuccess(t, aw.Save())

	return filename
}

// the full round trip. a recording of a pin measures the same as the pin.
func TestRecordingMeasurement(t *testing.T) {
	env := environment.NewEnvironment(environment.MainEmulation)
	env.Normalise()

	rec, err := wavload.NewRecording(env, record(t, env, 0x80))
	test.DemandSuccess(t, err)

	prb, err := scope.NewProbe(scope.PortA, 0)
	test.DemandSuccess(t, err)

	var tick uint64
	for !rec.Ended() {
		var v uint8
		if rec.Level() {
			v = 0x01
		}
		prb.PortTick(tick, v, v)
		rec.Step()
		tick++
	}

	m, err := prb.Measure()
	test.DemandSuccess(t, err)
	test.ExpectApproximate(t, m.Frequency, 3000.0, 0.01)
	test.ExpectApproximate(t, m.Duty, 128.0/255, 0.01)
	test.ExpectSuccess(t, m.Periods >= 10)
}

func TestRecordingReplay(t *testing.T) {
	env := environment.NewEnvironment(environment.MainEmulation)
	env.Normalise()

	rec, err := wavload.NewRecording(env, record(t, env, 0xff))
	test.DemandSuccess(t, err)

	// the pin is low while the device is being reset and programmed
	test.ExpectEquality(t, rec.Level(), false)

	// run the recording out. the final level holds and Ended() latches
	for !rec.Ended() {
		rec.Step()
	}
	test.ExpectEquality(t, rec.Level(), true)

	lv := rec.Level()
	rec.Step()
	test.ExpectEquality(t, rec.Ended(), true)
	test.ExpectEquality(t, rec.Level(), lv)

	rec.Rewind()
	test.ExpectEquality(t, rec.Ended(), false)
	test.ExpectEquality(t, rec.Level(), false)
}

func TestRecordingErrors(t *testing.T) {
	env := environment.NewEnvironment(environment.MainEmulation)
	env.Normalise()

	_, err := wavload.NewRecording(env, "does_not_exist.wav")
	test.ExpectFailure(t, err)

	dir := t.TempDir()

	filename := filepath.Join(dir, "noise.ogg")
	test.DemandSuccess(t, os.WriteFile(filename, []byte("not a recording"), 0644))
	_, err = wavload.NewRecording(env, filename)
	test.ExpectFailure(t, err)

	filename = filepath.Join(dir, "noise.wav")
	test.DemandSuccess(t, os.WriteFile(filename, []byte("not a recording"), 0644))
	_, err = wavload.NewRecording(env, filename)
	test.ExpectFailure(t, err)
}
