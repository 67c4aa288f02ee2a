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

package stimulus

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Script drives a Host from a series of instructions in a plain-text file.
//
// The file begins with a two line header, the identifying word "tinyperi"
// and a version number. after that, one instruction per line:
//
//	--             comment, the rest of the line is ignored
//	WRITE a v      write value v to register address a
//	READ a v       read command to address a, carrying value v
//	WAIT [n]       idle for n ticks (default one settle period)
//	RESET [n]      pulse the reset line, n ticks low then n high (default 5)
//	ENABLE 0|1     set the level of the enable line
//	DO n [name]    repeat the lines up to the matching LOOP n times. if the
//	               counter is named it can be used in WRITE/READ values with
//	               a % prefix
//	LOOP           end of a DO block
//
// Numeric operands accept decimal, 0x prefixed hex or $ prefixed hex.
type Script struct {
	host *Host

	filename     string
	instructions []string
}

const (
	headerLineID = iota
	headerLineVersion
	headerNumLines
)

const headerID = "tinyperi"

// NewScript is the preferred method of initialisation for the Script type.
func NewScript(filename string, host *Host) (*Script, error) {
	scr := &Script{
		host:     host,
		filename: filename,
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("stimulus: %w", err)
	}
	buffer, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("stimulus: %w", err)
	}
	err = f.Close()
	if err != nil {
		return nil, fmt.Errorf("stimulus: %w", err)
	}

	// convert file contents to an array of lines
	scr.instructions = strings.Split(string(buffer), "\n")
	if len(scr.instructions) < headerNumLines {
		return nil, fmt.Errorf("stimulus: %s: not a stimulus script", filename)
	}
	if scr.instructions[headerLineID] != headerID {
		return nil, fmt.Errorf("stimulus: %s: not a stimulus script", filename)
	}

	// ignore version string for now

	// we no longer need the header
	scr.instructions = scr.instructions[headerNumLines:]

	return scr, nil
}

// Run the script to completion. the first problem line stops the script and
// is returned as an error carrying the filename and line number.
func (scr *Script) Run() error {
	fail := func(ln int, msg string) error {
		return fmt.Errorf("stimulus: %s: %d: %s", scr.filename, ln+headerNumLines+1, msg)
	}

	convertValue := func(s string) (uint8, error) {
		// convert hex indicator to one that ParseUint can deal with
		if s[0] == '$' {
			s = fmt.Sprintf("0x%s", s[1:])
		}

		v, err := strconv.ParseUint(s, 0, 8)
		return uint8(v), err
	}

	convertAddress := func(s string) (uint8, error) {
		v, err := convertValue(s)
		if err != nil {
			return 0, err
		}
		if v > 0x7f {
			return 0, fmt.Errorf("address does not fit seven bits: %#02x", v)
		}
		return v, nil
	}

	type loop struct {
		line int

		// loop counters count upwards because it is more natural when
		// referencing the counter value to think of the counter as counting
		// upwards
		count    int
		countEnd int

		// if the loop counter has been named then we need to know it so that
		// we can update the entry in the variables table
		countName string
	}

	var loops []loop
	variables := make(map[string]any)

	lookupVariable := func(n string) (int, bool, error) {
		if n[0] != '%' {
			return 0, false, nil
		}

		n = n[1:]
		v, ok := variables[n]
		if !ok {
			return 0, true, fmt.Errorf("variable '%s' does not exist", n)
		}
		return v.(int), true, nil
	}

	// resolve an operand that may be a literal value or a loop counter
	operand := func(s string) (uint8, error) {
		v, ok, err := lookupVariable(s)
		if err != nil {
			return 0, err
		}
		if ok {
			return uint8(v), nil
		}
		return convertValue(s)
	}

	for ln := 0; ln < len(scr.instructions); ln++ {
		s := scr.instructions[ln]

		toks := strings.Fields(s)
		if len(toks) == 0 {
			continue // for loop
		}

		switch toks[0] {
		default:
			return fail(ln, fmt.Sprintf("unrecognised command: %s", toks[0]))

		case "--":
			// ignore comment lines

		case "WRITE":
			fallthrough
		case "READ":
			if len(toks) != 3 {
				return fail(ln, fmt.Sprintf("%s requires an address and a value", toks[0]))
			}

			addr, err := convertAddress(toks[1])
			if err != nil {
				return fail(ln, err.Error())
			}

			val, err := operand(toks[2])
			if err != nil {
				return fail(ln, err.Error())
			}

			if toks[0] == "WRITE" {
				err = scr.host.Write(addr, val)
			} else {
				err = scr.host.Read(addr, val)
			}
			if err != nil {
				return fail(ln, err.Error())
			}

		case "WAIT":
			// default to one settle period
			w := scr.host.Settle

			switch len(toks) {
			case 2:
				var err error
				w, err = strconv.Atoi(toks[1])
				if err != nil {
					return fail(ln, err.Error())
				}
				fallthrough

			case 1:
				scr.host.Idle(w)

			default:
				return fail(ln, "too many arguments for WAIT")
			}

		case "RESET":
			// the reference bench pulses reset for five ticks
			n := 5

			switch len(toks) {
			case 2:
				var err error
				n, err = strconv.Atoi(toks[1])
				if err != nil {
					return fail(ln, err.Error())
				}
				fallthrough

			case 1:
				scr.host.Reset(n)

			default:
				return fail(ln, "too many arguments for RESET")
			}

		case "ENABLE":
			if len(toks) != 2 {
				return fail(ln, "ENABLE requires a level, 0 or 1")
			}
			switch toks[1] {
			case "0":
				scr.host.Enable(false)
			case "1":
				scr.host.Enable(true)
			default:
				return fail(ln, "ENABLE requires a level, 0 or 1")
			}

		case "DO":
			tl := len(toks)
			switch tl {
			case 1:
				return fail(ln, "too few arguments for DO")
			case 3:
				fallthrough
			case 2:
				ct, err := strconv.Atoi(toks[1])
				if err != nil {
					return fail(ln, err.Error())
				}
				lp := loop{
					line:     ln,
					countEnd: ct,
				}
				if tl == 3 {
					lp.countName = toks[2]
					variables[lp.countName] = lp.count
				}
				loops = append(loops, lp)
			default:
				return fail(ln, "too many arguments for DO")
			}

		case "LOOP":
			if len(toks) > 1 {
				return fail(ln, "too many arguments for LOOP")
			}

			idx := len(loops) - 1
			if idx == -1 {
				return fail(ln, "LOOP without a DO")
			}

			lp := &loops[idx]
			lp.count++

			if lp.count < lp.countEnd {
				// loop is ongoing so return to start of loop
				ln = lp.line

				// update named variable
				if lp.countName != "" {
					variables[lp.countName] = lp.count
				}
			} else {
				// loop has ended. remove from loop stack and delete variable
				// name
				loops = loops[:idx]
				delete(variables, lp.countName)
			}
		}
	}

	return nil
}
