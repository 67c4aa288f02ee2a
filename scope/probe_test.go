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

package scope_test

import (
	"testing"

	"github.com/jetsetilly/tinyperi/environment"
	"github.com/jetsetilly/tinyperi/hardware"
	"github.com/jetsetilly/tinyperi/hardware/spi"
	"github.com/jetsetilly/tinyperi/scope"
	"github.com/jetsetilly/tinyperi/stimulus"
	"github.com/jetsetilly/tinyperi/test"
)

func measureBench(t *testing.T) (*hardware.Device, *stimulus.Host) {
	t.Helper()

	env := environment.NewEnvironment(environment.MainEmulation)
	dev, err := hardware.NewDevice(env, spi.ReferenceWiring)
	test.DemandSuccess(t, err)
	hst := stimulus.NewHost(env, dev)
	hst.Reset(5)
	return dev, hst
}

func TestProbeMeasurement(t *testing.T) {
	dev, hst := measureBench(t)

	prb, err := scope.NewProbe(scope.PortA, 0)
	test.DemandSuccess(t, err)
	dev.AttachMonitor(prb)

	test.ExpectSuccess(t, hst.Write(0x02, 0x01))
	test.ExpectSuccess(t, hst.Write(0x04, 0x80))

	prb.Clear()
	hst.Idle(12 * dev.PWM.CycleTicks())

	m, err := prb.Measure()
	test.DemandSuccess(t, err)
	test.ExpectApproximate(t, m.Frequency, 3000.0, 0.01)
	test.ExpectApproximate(t, m.Duty, 128.0/255, 0.01)
	test.ExpectSuccess(t, m.Periods >= 10)
}

func TestProbeDutyExtremes(t *testing.T) {
	dev, hst := measureBench(t)

	prb, err := scope.NewProbe(scope.PortA, 3)
	test.DemandSuccess(t, err)
	dev.AttachMonitor(prb)

	test.ExpectSuccess(t, hst.Write(0x02, 0xff))

	// the narrowest pulse there is
	test.ExpectSuccess(t, hst.Write(0x04, 0x01))
	prb.Clear()
	hst.Idle(12 * dev.PWM.CycleTicks())
	m, err := prb.Measure()
	test.DemandSuccess(t, err)
	test.ExpectApproximate(t, m.Duty, 1.0/255, 0.01)

	// one counter step short of always high
	test.ExpectSuccess(t, hst.Write(0x04, 0xfe))
	prb.Clear()
	hst.Idle(12 * dev.PWM.CycleTicks())
	m, err = prb.Measure()
	test.DemandSuccess(t, err)
	test.ExpectApproximate(t, m.Duty, 254.0/255, 0.01)

	// very nearly always high
	test.ExpectSuccess(t, hst.Write(0x04, 0xff))
	prb.Clear()
	hst.Idle(12 * dev.PWM.CycleTicks())
	m, err = prb.Measure()
	test.DemandSuccess(t, err)
	test.ExpectApproximate(t, m.Duty, 1.0, 0.01)

	// a zero duty pin never rises and cannot be measured
	test.ExpectSuccess(t, hst.Write(0x04, 0x00))
	prb.Clear()
	hst.Idle(12 * dev.PWM.CycleTicks())
	_, err = prb.Measure()
	test.ExpectFailure(t, err)
}

func TestProbePortB(t *testing.T) {
	dev, hst := measureBench(t)

	prb, err := scope.NewProbe(scope.PortB, 7)
	test.DemandSuccess(t, err)
	dev.AttachMonitor(prb)

	test.ExpectSuccess(t, hst.Write(0x03, 0x80))
	test.ExpectSuccess(t, hst.Write(0x04, 0x40))

	prb.Clear()
	hst.Idle(12 * dev.PWM.CycleTicks())

	m, err := prb.Measure()
	test.DemandSuccess(t, err)
	test.ExpectApproximate(t, m.Frequency, 3000.0, 0.01)
	test.ExpectApproximate(t, m.Duty, 64.0/255, 0.01)
}

func TestProbeArguments(t *testing.T) {
	_, err := scope.NewProbe(scope.PortA, 8)
	test.ExpectFailure(t, err)
	_, err = scope.NewProbe(scope.PortA, -1)
	test.ExpectFailure(t, err)
	_, err = scope.NewProbe(scope.Port(5), 0)
	test.ExpectFailure(t, err)
}

func TestParsePin(t *testing.T) {
	port, bit, err := scope.ParsePin("A0")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, port, scope.PortA)
	test.ExpectEquality(t, bit, 0)

	port, bit, err = scope.ParsePin("b.7")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, port, scope.PortB)
	test.ExpectEquality(t, bit, 7)

	port, bit, err = scope.ParsePin(" B3 ")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, port, scope.PortB)
	test.ExpectEquality(t, bit, 3)

	_, _, err = scope.ParsePin("c0")
	test.ExpectFailure(t, err)
	_, _, err = scope.ParsePin("a8")
	test.ExpectFailure(t, err)
	_, _, err = scope.ParsePin("a")
	test.ExpectFailure(t, err)
	_, _, err = scope.ParsePin("")
	test.ExpectFailure(t, err)
}
