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

package digest_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/tinyperi/digest"
	"github.com/jetsetilly/tinyperi/environment"
	"github.com/jetsetilly/tinyperi/hardware"
	"github.com/jetsetilly/tinyperi/hardware/spi"
	"github.com/jetsetilly/tinyperi/stimulus"
	"github.com/jetsetilly/tinyperi/test"
)

// run a short stimulus sequence against a fresh device and return the digest
// of the resulting port activity.
func run(t *testing.T, duty uint8) string {
	t.Helper()

	env := environment.NewEnvironment(environment.MainEmulation)
	env.Normalise()
	dev, err := hardware.NewDevice(env, spi.ReferenceWiring)
	test.DemandSuccess(t, err)

	dig := digest.NewPorts()
	dev.AttachMonitor(dig)

	hst := stimulus.NewHost(env, dev)
	hst.Reset(5)
	test.ExpectSuccess(t, hst.Write(0x04, duty))
	test.ExpectSuccess(t, hst.Write(0x02, 0xff))
	test.ExpectSuccess(t, hst.Write(0x00, 0x0f))
	hst.Idle(30000)

	return dig.Hash()
}

func TestDigestStability(t *testing.T) {
	a := run(t, 0x80)
	b := run(t, 0x80)
	test.ExpectEquality(t, a, b)
}

func TestDigestSensitivity(t *testing.T) {
	a := run(t, 0x80)
	b := run(t, 0x81)
	test.ExpectInequality(t, a, b)
}

func TestResetDigest(t *testing.T) {
	dig := digest.NewPorts()
	test.ExpectImplements[hardware.Monitor](t, dig, nil)

	zero := strings.Repeat("0", 40)
	test.ExpectEquality(t, dig.String(), zero)

	for i := uint64(0); i < 5000; i++ {
		dig.PortTick(i, 0xaa, 0x55)
	}
	test.ExpectInequality(t, dig.Hash(), zero)

	dig.ResetDigest()
	test.ExpectEquality(t, dig.String(), zero)

	// a digest over the same samples is the same after a reset
	a := dig.Hash()
	for i := uint64(0); i < 5000; i++ {
		dig.PortTick(i, 0xaa, 0x55)
	}
	b := dig.Hash()

	dig.ResetDigest()
	for i := uint64(0); i < 5000; i++ {
		dig.PortTick(i, 0xaa, 0x55)
	}
	test.ExpectInequality(t, a, b)
	test.ExpectEquality(t, dig.Hash(), b)
}
