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

import (
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/tinyperi/environment"
	"github.com/jetsetilly/tinyperi/hardware"
	"github.com/jetsetilly/tinyperi/hardware/clocks"
	"github.com/jetsetilly/tinyperi/hardware/ports"
	"github.com/jetsetilly/tinyperi/hardware/spi"
	"github.com/jetsetilly/tinyperi/performance/limiter"
	"github.com/jetsetilly/tinyperi/stimulus"
)

// Check the performance of the emulation.
//
// The device is prepared with the supplied stimulus script and then run with
// the serial lines at rest for the specified duration. The attained tick
// rate is compared with the reference system clock.
//
// A cpu or memory profile, a trace (or a combination of those) will be
// created as defined by the Profile argument.
func Check(output io.Writer, profile Profile, scriptFile string, realtime bool, dur time.Duration) error {
	env := environment.NewEnvironment(environment.MainEmulation)

	dev, err := hardware.NewDevice(env, spi.ReferenceWiring)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}

	hst := stimulus.NewHost(env, dev)

	// prepare the device. a stimulus script leaves the registers however the
	// script wants them. without a script every bit of both ports is given
	// PWM work to do
	if scriptFile != "" {
		scr, err := stimulus.NewScript(scriptFile, hst)
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}

		err = scr.Run()
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}
	} else {
		hst.Reset(5)

		for _, w := range []struct{ addr, data uint8 }{
			{ports.AddressOutA, 0xf0},
			{ports.AddressOutB, 0xcc},
			{ports.AddressPWMEnableA, 0xff},
			{ports.AddressPWMEnableB, 0xff},
			{ports.AddressDuty, 0x80},
		} {
			err = hst.Write(w.addr, w.data)
			if err != nil {
				return fmt.Errorf("performance: %w", err)
			}
		}
	}

	// pace the run to the reference clock when requested. pacing happens
	// once per PWM cycle, any finer grain than that and the limiter spends
	// more time sleeping than the emulation spends working
	var lim *limiter.Limiter
	if realtime {
		lim, err = limiter.NewLimiter(float64(clocks.Main) / float64(dev.PWM.CycleTicks()))
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}
	}

	// get starting tick count (not zero, the preparation above has run)
	startTick := dev.TickCount()

	// run for specified period of time
	runner := func() error {
		// setup trigger that expires when duration has elapsed. signals true
		// when duration has expired. signals false to indicate that
		// performance measurement should start
		timerChan := make(chan bool)

		// force a two second leadtime to allow the tick rate to settle down
		// and then restart timer for the specified duration
		//
		// the two second leadtime will put false on the timerChan. the
		// conclusion of the rest of the time will put true on the timerChan.
		go func() {
			time.AfterFunc(2*time.Second, func() {
				// signal parent function that 2 second leadtime has elapsed
				timerChan <- false

				time.AfterFunc(dur, func() {
					timerChan <- true
				})
			})
		}()

		// only check for end of measurement period every PerformanceBrake
		// ticks. checking the timerChan is relatively expensive
		performanceBrake := 0

		// number of ticks into the current PWM cycle. used for pacing
		paceCt := 0

		// run until specified time elapses
		return hst.Run(func() (bool, error) {
			if lim != nil {
				paceCt++
				if paceCt >= dev.PWM.CycleTicks() {
					paceCt = 0
					lim.Wait()
				}
			}

			performanceBrake++
			if performanceBrake >= hardware.PerformanceBrake {
				performanceBrake = 0

				select {
				case v := <-timerChan:
					// timerChan has returned true, which means the
					// measurement period has finished, return false to end
					// the run
					if v {
						return false, nil
					}

					// timerChan has returned false which indicates that the
					// leadtime has concluded. this means the performance
					// measurement has begun and we should record the start
					// tick
					startTick = dev.TickCount()
				default:
				}
			}

			return true, nil
		})
	}

	// launch runner directly or through the profiler, depending on supplied
	// arguments
	err = RunProfiler(profile, "performance", runner)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}

	// calculate performance
	numTicks := dev.TickCount() - startTick
	rate, accuracy := CalcTickRate(numTicks, dur.Seconds())
	output.Write([]byte(fmt.Sprintf("%.2f MHz (%d ticks in %.2f seconds) %.1f%%\n", rate, numTicks, dur.Seconds(), accuracy)))

	return nil
}
