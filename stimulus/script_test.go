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

package stimulus_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/tinyperi/stimulus"
	"github.com/jetsetilly/tinyperi/test"
)

func writeScript(t *testing.T, lines ...string) string {
	t.Helper()

	fn := filepath.Join(t.TempDir(), "stimulus.script")
	err := os.WriteFile(fn, []byte(strings.Join(lines, "\n")), 0644)
	test.DemandSuccess(t, err)
	return fn
}

func TestScriptReferenceScenario(t *testing.T) {
	dev, hst := newBench(t)

	scr, err := stimulus.NewScript(writeScript(t,
		"tinyperi",
		"1",
		"-- the reference bench scenario",
		"RESET 5",
		"WRITE $00 $f0",
		"WRITE $01 $cc",
		"WRITE $30 $aa",
		"READ $30 $be",
		"WRITE $02 $ff",
		"WRITE $04 $80",
		"WAIT 30000",
	), hst)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, scr.Run())

	test.ExpectEquality(t, dev.Ports.OutA, 0xf0)
	test.ExpectEquality(t, dev.Ports.OutB, 0xcc)
	test.ExpectEquality(t, dev.Ports.PinsB, 0xcc)
	test.ExpectEquality(t, dev.Ports.EnableA, 0xff)
	test.ExpectEquality(t, dev.Ports.Duty, 0x80)
}

func TestScriptLoop(t *testing.T) {
	dev, hst := newBench(t)

	// the named counter is visible to WRITE as a % variable
	scr, err := stimulus.NewScript(writeScript(t,
		"tinyperi",
		"1",
		"RESET 5",
		"DO 4 d",
		"WRITE $04 %d",
		"LOOP",
	), hst)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, scr.Run())

	// the last pass of the loop wrote the counter value three
	test.ExpectEquality(t, dev.Ports.Duty, 0x03)
}

func TestScriptNumberFormats(t *testing.T) {
	dev, hst := newBench(t)

	scr, err := stimulus.NewScript(writeScript(t,
		"tinyperi",
		"1",
		"RESET 5",
		"WRITE 0x00 255",
		"WRITE $01 0xaa",
		"WRITE 2 15",
	), hst)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, scr.Run())

	test.ExpectEquality(t, dev.Ports.OutA, 0xff)
	test.ExpectEquality(t, dev.Ports.OutB, 0xaa)
	test.ExpectEquality(t, dev.Ports.EnableA, 0x0f)
}

func TestScriptEnable(t *testing.T) {
	dev, hst := newBench(t)

	scr, err := stimulus.NewScript(writeScript(t,
		"tinyperi",
		"1",
		"RESET 5",
		"WRITE $00 $55",
		"ENABLE 0",
		"WRITE $00 $ff",
		"ENABLE 1",
	), hst)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, scr.Run())

	test.ExpectEquality(t, dev.Ports.PinsA, 0x55)
}

func TestScriptErrors(t *testing.T) {
	_, hst := newBench(t)

	run := func(lines ...string) error {
		scr, err := stimulus.NewScript(writeScript(t, lines...), hst)
		if err != nil {
			return err
		}
		return scr.Run()
	}

	// not a script file at all
	test.ExpectFailure(t, run("not a script", "1"))

	// problem lines stop the script
	test.ExpectFailure(t, run("tinyperi", "1", "FROB"))
	test.ExpectFailure(t, run("tinyperi", "1", "LOOP"))
	test.ExpectFailure(t, run("tinyperi", "1", "WRITE $80 $00"))
	test.ExpectFailure(t, run("tinyperi", "1", "WRITE $00"))
	test.ExpectFailure(t, run("tinyperi", "1", "WRITE $00 %nope"))
	test.ExpectFailure(t, run("tinyperi", "1", "ENABLE 2"))
	test.ExpectFailure(t, run("tinyperi", "1", "WAIT never"))

	// and a well formed script does not
	test.ExpectSuccess(t, run("tinyperi", "1", "-- fine", "WAIT 10"))
}
