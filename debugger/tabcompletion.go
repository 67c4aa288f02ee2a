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

package debugger

import (
	"strings"
)

// tabCompletion implements the terminal.TabCompletion interface over the
// debugger's command set. only the command word is completed, arguments are
// left alone. repeated completion of the same input cycles through the
// matching commands.
type tabCompletion struct {
	options   []string
	idx       int
	lastGuess string
}

func newTabCompletion() *tabCompletion {
	return &tabCompletion{}
}

// Complete implements the terminal.TabCompletion interface.
func (tc *tabCompletion) Complete(input string) string {
	// the input is the same as our last guess so move to the next option in
	// the cycle
	if tc.lastGuess != "" && input == tc.lastGuess {
		tc.idx++
		if tc.idx >= len(tc.options) {
			tc.idx = 0
		}
		tc.lastGuess = tc.options[tc.idx] + " "
		return tc.lastGuess
	}

	tc.Reset()

	// a command word is already in place, nothing to complete
	if strings.ContainsAny(input, " ") {
		return input
	}

	s := strings.ToUpper(input)
	for _, c := range commandList {
		if strings.HasPrefix(c, s) {
			tc.options = append(tc.options, c)
		}
	}
	if len(tc.options) == 0 {
		return input
	}

	tc.lastGuess = tc.options[0] + " "
	return tc.lastGuess
}

// Reset implements the terminal.TabCompletion interface.
func (tc *tabCompletion) Reset() {
	tc.options = tc.options[:0]
	tc.idx = 0
	tc.lastGuess = ""
}
