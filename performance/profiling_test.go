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

package performance_test

import (
	"testing"

	"github.com/jetsetilly/tinyperi/performance"
	"github.com/jetsetilly/tinyperi/test"
)

func TestParseProfileString(t *testing.T) {
	p, err := performance.ParseProfileString("none")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileNone)

	p, err = performance.ParseProfileString("cpu")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileCPU)

	p, err = performance.ParseProfileString("cpu,mem")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileCPU|performance.ProfileMem)

	p, err = performance.ParseProfileString("ALL")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileAll)

	_, err = performance.ParseProfileString("heap")
	test.ExpectFailure(t, err)
}

func TestCalcTickRate(t *testing.T) {
	// a run that keeps perfect pace with the reference clock
	mhz, accuracy := performance.CalcTickRate(10_000_000, 1.0)
	test.ExpectApproximate(t, mhz, 10.0, 0.001)
	test.ExpectApproximate(t, accuracy, 100.0, 0.001)

	// half pace over a longer measurement
	mhz, accuracy = performance.CalcTickRate(10_000_000, 2.0)
	test.ExpectApproximate(t, mhz, 5.0, 0.001)
	test.ExpectApproximate(t, accuracy, 50.0, 0.001)
}
