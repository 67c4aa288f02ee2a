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

// Package test contains helper functions to remove common boilerplate and to
// make testing easier.
//
// The Expect functions test a value against an expected condition and mark
// the test as failed if the condition does not hold. The Demand functions are
// the same except that failure is a testing fatality. Demands are useful when
// subsequent tests depend on the demanded condition, for example the lengths
// of two slices being equal before iterating over them in unison.
//
// It is worth describing how the success orientated functions handle the nil
// type because it is not obvious. The nil type is considered a success and
// consequently will cause ExpectFailure to fail and ExpectSuccess to succeed.
// This may not be how we want to interpret nil in all situations but because
// of how errors usually work (nil to indicate no error) we *need* to
// interpret nil in this way.
//
// The CompareWriter type meanwhile, implements the io.Writer interface and
// should be used to capture output. The Compare() function can then be used
// to test for equality.
package test
