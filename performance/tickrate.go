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

package performance

import "github.com/jetsetilly/tinyperi/hardware/clocks"

// CalcTickRate takes the number of ticks and duration (in seconds) and
// returns the attained tick rate in MHz, along with the accuracy of that
// value as a percentage of the reference system clock.
func CalcTickRate(numTicks uint64, duration float64) (mhz float64, accuracy float64) {
	hz := float64(numTicks) / duration
	accuracy = 100 * hz / clocks.Main
	return hz / 1e6, accuracy
}
