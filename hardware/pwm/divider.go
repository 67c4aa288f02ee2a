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

package pwm

import (
	"fmt"
	"math"
)

// CounterLimit is the number of phase counter values in one PWM cycle. the
// counter is eight bits wide.
const CounterLimit = 256

// FrequencyTolerance is the largest relative deviation allowed between the
// requested PWM frequency and the frequency attainable with a whole number
// divider.
const FrequencyTolerance = 0.01

// DividerForFrequency returns the number of system clock ticks per increment
// of the phase counter such that the counter wraps at, or close to, the
// requested frequency.
//
// An error is returned if no whole number divider attains the requested
// frequency within FrequencyTolerance.
func DividerForFrequency(sysclk int, freq int) (int, error) {
	if freq <= 0 {
		return 0, fmt.Errorf("pwm: frequency must be positive")
	}

	div := int(math.Round(float64(sysclk) / float64(freq*CounterLimit)))
	if div < 1 {
		return 0, fmt.Errorf("pwm: %dHz is too fast for a %dHz system clock", freq, sysclk)
	}

	attained := float64(sysclk) / float64(div*CounterLimit)
	deviation := math.Abs(attained-float64(freq)) / float64(freq)
	if deviation > FrequencyTolerance {
		return 0, fmt.Errorf("pwm: %dHz is not attainable from a %dHz system clock", freq, sysclk)
	}

	return div, nil
}
