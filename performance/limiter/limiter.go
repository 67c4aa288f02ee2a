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

// Package limiter provides a rough and ready way of limiting events to a
// fixed rate.
//
// A new Limiter can be created with (error handling removed for clarity):
//
//	lim, _ := limiter.NewLimiter(3000)
//
// Operations can then be stalled with the Wait() function. For example:
//
//	for {
//		lim.Wait()
//		stepDevice()
//	}
package limiter

import (
	"fmt"
	"time"
)

// this is a really rough attempt at rate limiting. probably only any good
// if base performance of the machine is well above the required rate.

// Limiter will trigger at the requested events per second.
type Limiter struct {
	eventsPerSecond float64
	secondsPerEvent time.Duration

	tick chan bool
}

// NewLimiter is the preferred method of initialisation for the Limiter type.
func NewLimiter(eventsPerSecond float64) (*Limiter, error) {
	if eventsPerSecond <= 0 {
		return nil, fmt.Errorf("limiter: rate must be positive (%f)", eventsPerSecond)
	}

	lim := &Limiter{}
	lim.SetLimit(eventsPerSecond)

	lim.tick = make(chan bool)

	// run ticker concurrently
	go func() {
		adjustedSecondPerEvent := lim.secondsPerEvent
		t := time.Now()
		for {
			lim.tick <- true
			time.Sleep(adjustedSecondPerEvent)
			nt := time.Now()
			adjustedSecondPerEvent -= nt.Sub(t) - lim.secondsPerEvent
			t = nt
		}
	}()

	return lim, nil
}

// SetLimit changes the rate at which the Limiter waits.
func (lim *Limiter) SetLimit(eventsPerSecond float64) {
	lim.eventsPerSecond = eventsPerSecond
	lim.secondsPerEvent, _ = time.ParseDuration(fmt.Sprintf("%fs", 1.0/eventsPerSecond))
}

// Wait will block until trigger.
func (lim *Limiter) Wait() {
	<-lim.tick
}
