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

package spi_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/tinyperi/hardware/spi"
	"github.com/jetsetilly/tinyperi/test"
)

func TestTraceEdges(t *testing.T) {
	tr := spi.NewTrace("CS", true)

	// the line rests at its idle level with no transition pending
	test.ExpectSuccess(t, tr.Hi())
	test.ExpectFailure(t, tr.Changed())

	// ticking the idle level is not a transition
	tr.Tick(true)
	test.ExpectFailure(t, tr.Changed())
	test.ExpectFailure(t, tr.Falling())

	tr.Tick(false)
	test.ExpectSuccess(t, tr.Changed())
	test.ExpectSuccess(t, tr.Falling())
	test.ExpectFailure(t, tr.Rising())
	test.ExpectSuccess(t, tr.Lo())

	// holding the new level is not a transition
	tr.Tick(false)
	test.ExpectFailure(t, tr.Changed())
	test.ExpectSuccess(t, tr.Lo())

	tr.Tick(true)
	test.ExpectSuccess(t, tr.Rising())
	test.ExpectSuccess(t, tr.Hi())
}

func TestTraceSnapshot(t *testing.T) {
	tr := spi.NewTrace("SCLK", false)
	tr.Tick(true)

	cp := tr.Snapshot()
	test.ExpectSuccess(t, cp.Rising())

	// activity after the snapshot must not leak into the copy
	tr.Tick(false)
	test.ExpectSuccess(t, tr.Falling())
	test.ExpectSuccess(t, cp.Rising())
	test.ExpectSuccess(t, cp.Hi())
}

func TestTraceString(t *testing.T) {
	tr := spi.NewTrace("SDI", false)
	tr.Tick(true)
	tr.Tick(true)
	tr.Tick(false)

	s := tr.String()
	test.ExpectSuccess(t, strings.HasPrefix(s, "SDI: "))
	test.ExpectSuccess(t, strings.HasSuffix(s, "--_"))
}
