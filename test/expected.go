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

package test

import (
	"fmt"
	"strings"
	"testing"
)

// the tags arguments to the Expect and Demand functions are formatted with
// the %v verb and used to identify the test in any fail message
func id(tags ...any) string {
	if len(tags) == 0 {
		return ""
	}

	s := strings.Builder{}
	for i, tag := range tags {
		if i > 0 {
			s.WriteString(", ")
		}
		s.WriteString(fmt.Sprintf("%v", tag))
	}

	return fmt.Sprintf("[%s] ", s.String())
}

// the expect function is the underlying test for ExpectSuccess,
// ExpectFailure, DemandSuccess and DemandFailure. a true bool and a nil error
// are success values
//
// an explicit nil is also a success. this may not be how we want to interpret
// nil in all situations but because of how errors usually work (nil to
// indicate no error) we need to interpret nil in this way
func expect(t *testing.T, v any, tags ...any) bool {
	t.Helper()

	switch v := v.(type) {
	case bool:
		return v
	case error:
		return v == nil
	case nil:
		return true
	default:
		t.Fatalf("%sunsupported type (%T) for expectation testing", id(tags...), v)
	}

	return false
}

// ExpectSuccess is used to test for a value which indicates a 'successful'
// value for the type. supported types are bool and error. a nil argument is
// treated as a success
func ExpectSuccess(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	if !expect(t, v, tags...) {
		t.Errorf("%sa success value is expected for type %T", id(tags...), v)
		return false
	}
	return true
}

// ExpectFailure is used to test for a value which indicates an 'unsuccessful'
// value for the type. see ExpectSuccess() for more information on success
// values
func ExpectFailure(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	if expect(t, v, tags...) {
		t.Errorf("%sa failure value is expected for type %T", id(tags...), v)
		return false
	}
	return true
}

// ExpectEquality is used to test equality between one value and another
func ExpectEquality[T comparable](t *testing.T, v T, expectedValue T, tags ...any) bool {
	t.Helper()
	if v != expectedValue {
		t.Errorf("%sequality test of type %T failed: '%v' does not equal '%v'", id(tags...), v, v, expectedValue)
		return false
	}
	return true
}

// ExpectInequality is used to test inequality between one value and another.
// ie. the test does not want the values to be equal
func ExpectInequality[T comparable](t *testing.T, v T, expectedValue T, tags ...any) bool {
	t.Helper()
	if v == expectedValue {
		t.Errorf("%sinequality test of type %T failed: '%v' does equal '%v'", id(tags...), v, v, expectedValue)
		return false
	}
	return true
}

// Approximate is the type constraint for the ExpectApproximate function
type Approximate interface {
	~int | ~int64 | ~uint | ~uint64 | ~float32 | ~float64
}

// ExpectApproximate is used to test approximate equality between one value
// and another. the tolerance is a fraction of the expected value: a tolerance
// of 0.01 accepts values within one percent either side
func ExpectApproximate[T Approximate](t *testing.T, v T, expectedValue T, tolerance float64, tags ...any) bool {
	t.Helper()

	bot := float64(expectedValue) * (1 - tolerance)
	top := float64(expectedValue) * (1 + tolerance)
	if float64(v) < min(bot, top) || float64(v) > max(bot, top) {
		t.Errorf("%sapproximation test of type %T failed: '%v' is outside the range '%v' to '%v'", id(tags...), v, v, bot, top)
		return false
	}

	return true
}

// ExpectImplements tests whether an instance is an implementation of type T
func ExpectImplements[T comparable](t *testing.T, instance any, implements T, tags ...any) bool {
	t.Helper()
	if _, ok := instance.(T); !ok {
		t.Errorf("%simplementation test of type %T failed: type %T does not implement %T", id(tags...), instance, instance, implements)
		return false
	}
	return true
}
