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

package hardware

// The continueCheck() function runs after every tick of the system clock. A
// tick is cheap so doing real work in every check can easily dominate the
// run.
//
// It depends on context whether it is used or not but the PerformanceBrake
// is a standard value that can be used to filter out expensive code paths
// within a continueCheck() implementation. For example:
//
//	performanceFilter++
//	if performanceFilter >= hardware.PerformanceBrake {
//		performanceFilter = 0
//		if end_condition == true {
//			return false, nil
//		}
//	}
//	return true, nil
const PerformanceBrake = 100

// Run steps the device as quickly as possible with the input byte held on
// the serial input pins. The continueCheck function is consulted after every
// tick and the loop ends when it returns false or an error.
func (dev *Device) Run(input uint8, continueCheck func() (bool, error)) error {
	if continueCheck == nil {
		continueCheck = func() (bool, error) { return true, nil }
	}

	running := true
	var err error

	for running {
		dev.Step(input)

		running, err = continueCheck()
		if err != nil {
			return err
		}
	}

	return nil
}
