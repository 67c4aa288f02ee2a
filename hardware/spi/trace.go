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

package spi

import (
	"strings"
)

// Trace records the state of an electrical line, whether it is high or low,
// and also whether the immediately previous state is high or low.
//
// Moving from one state to the other is done with Tick(bool) where a boolean
// value of true indicates a high voltage state.
//
// The function Falling() returns true if the line voltage has moved from a
// high state to a low state; and Rising() returns true if the opposite is
// true.
//
// Deriving conditions from two traces is convenient. For example, given two
// traces A and B, a condition for event E might be:
//
//	 if A.Hi() && B.Rising() {
//			E()
//	 }
type Trace struct {
	Label string

	// new values are added to the end of the array
	Activity []bool

	from bool
	to   bool
}

const (
	activityLength = 64
)

// NewTrace is the preferred method of initialisation for the Trace type. the
// idle argument gives the level the line rests at before any activity
func NewTrace(label string, idle bool) Trace {
	tr := Trace{
		Label:    label,
		Activity: make([]bool, activityLength),
	}
	for i := range tr.Activity {
		tr.Activity[i] = idle
	}
	tr.from = idle
	tr.to = idle
	return tr
}

func (tr *Trace) Snapshot() *Trace {
	cp := *tr
	cp.Activity = make([]bool, len(tr.Activity))
	copy(cp.Activity, tr.Activity)
	return &cp
}

// String renders the recent activity of the line with one character per tick.
// high levels are drawn with a hyphen and low levels with an underscore
func (tr *Trace) String() string {
	s := strings.Builder{}
	s.WriteString(tr.Label)
	s.WriteString(": ")
	for _, v := range tr.Activity {
		if v {
			s.WriteString("-")
		} else {
			s.WriteString("_")
		}
	}
	return s.String()
}

func (tr *Trace) Changed() bool {
	return tr.from != tr.to
}

func (tr *Trace) Falling() bool {
	return tr.from && !tr.to
}

func (tr *Trace) Rising() bool {
	return !tr.from && tr.to
}

func (tr *Trace) Hi() bool {
	return tr.to
}

func (tr *Trace) Lo() bool {
	return !tr.to
}

func (tr *Trace) Tick(v bool) {
	tr.from = tr.to
	tr.to = v
	tr.Activity = append(tr.Activity[1:], v)
}
