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

package logger

import (
	"io"
	"strings"

	"github.com/jetsetilly/tinyperi/debugger/terminal/colorterm/easyterm/ansi"
)

// Colorizer applies basic coloring rules to logging output. the first line of
// an entry is written plainly, continuation lines are dimmed.
type Colorizer struct {
	out io.Writer
}

// NewColorizer is the preferred method of initialisation for the Colorizer type.
func NewColorizer(out io.Writer) Colorizer {
	return Colorizer{out: out}
}

// Write implements the io.Writer interface.
func (c Colorizer) Write(p []byte) (n int, err error) {
	lines := strings.Split(strings.TrimSpace(string(p)), "\n")
	if len(lines) == 0 {
		return 0, nil
	}

	m, err := io.WriteString(c.out, lines[0]+"\n")
	n += m
	if err != nil {
		return n, err
	}

	if len(lines) == 1 {
		return n, nil
	}

	// the pen is restored even if one of the continuation writes fails
	defer func() {
		_, _ = io.WriteString(c.out, ansi.NormalPen)
	}()

	_, err = io.WriteString(c.out, ansi.DimPens["red"])
	if err != nil {
		return n, err
	}

	for _, s := range lines[1:] {
		m, err = io.WriteString(c.out, s+"\n")
		n += m
		if err != nil {
			return n, err
		}
	}

	return n, nil
}
