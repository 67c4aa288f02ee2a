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
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/tinyperi/debugger/terminal"
	"github.com/jetsetilly/tinyperi/hardware/ports"
	"github.com/jetsetilly/tinyperi/logger"
	"github.com/jetsetilly/tinyperi/scope"
	"github.com/jetsetilly/tinyperi/stimulus"
)

// debugger keywords
const (
	KeywordHelp      = "HELP"
	KeywordQuit      = "QUIT"
	KeywordReset     = "RESET"
	KeywordStep      = "STEP"
	KeywordWrite     = "WRITE"
	KeywordRead      = "READ"
	KeywordEnable    = "ENABLE"
	KeywordRandomise = "RANDOMISE"
	KeywordRegisters = "REGISTERS"
	KeywordSPI       = "SPI"
	KeywordPWM       = "PWM"
	KeywordPins      = "PINS"
	KeywordTicks     = "TICKS"
	KeywordMeasure   = "MEASURE"
	KeywordScript    = "SCRIPT"
	KeywordDigest    = "DIGEST"
	KeywordLog       = "LOG"
	KeywordViz       = "VIZ"
)

// Help contains the help text for the debugger's top level commands.
var Help = map[string]string{
	KeywordHelp:      "Lists commands and provides help for individual debugger commands",
	KeywordQuit:      "Exits the debugger",
	KeywordReset:     "Pulse the reset line, n ticks low then n high (default 5)",
	KeywordStep:      "Step the device forward n ticks with the serial bus idle (default 1)",
	KeywordWrite:     "Send a write frame over the serial bus",
	KeywordRead:      "Send a read frame over the serial bus. read frames are never serviced",
	KeywordEnable:    "Set the level of the enable line. a disabled device is frozen",
	KeywordRandomise: "Scramble the device state, as though power had just been applied",
	KeywordRegisters: "Display the current contents of the register file",
	KeywordSPI:       "Display the current state of the serial decoder",
	KeywordPWM:       "Display the current state of the PWM counter",
	KeywordPins:      "Display the current level of the output pins",
	KeywordTicks:     "Display the number of ticks since the device was created",
	KeywordMeasure:   "Measure frequency and duty on an output pin, advancing the device to do so",
	KeywordScript:    "Run a stimulus script through the serial host",
	KeywordDigest:    "Display the rolling digest of port activity. DIGEST RESET starts it over",
	KeywordLog:       "Display the contents of the central log. LOG CLEAR empties it",
	KeywordViz:       "Write the device structure to a file in graphviz dot format",
}

// commandList is the command set in presentation order. used for the HELP
// summary and for tab completion.
var commandList = []string{
	KeywordDigest,
	KeywordEnable,
	KeywordHelp,
	KeywordLog,
	KeywordMeasure,
	KeywordPins,
	KeywordPWM,
	KeywordQuit,
	KeywordRandomise,
	KeywordRead,
	KeywordRegisters,
	KeywordReset,
	KeywordScript,
	KeywordSPI,
	KeywordStep,
	KeywordTicks,
	KeywordViz,
	KeywordWrite,
}

// number of complete PWM cycles the MEASURE command spans when no count is
// given
const measureDefaultCycles = 16

func convertValue(s string) (uint8, error) {
	// convert hex indicator to one that ParseUint can deal with
	if s[0] == '$' {
		s = fmt.Sprintf("0x%s", s[1:])
	}

	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("value does not fit eight bits: %s", s)
	}
	return uint8(v), nil
}

func convertAddress(s string) (uint8, error) {
	v, err := convertValue(s)
	if err != nil || v > 0x7f {
		return 0, fmt.Errorf("address does not fit seven bits: %s", s)
	}
	return v, nil
}

// parseCommand scans user input for a valid command and acts upon it. empty
// input is acceptable and does nothing.
func (dbg *Debugger) parseCommand(input string) error {
	toks := strings.Fields(input)
	if len(toks) == 0 {
		return nil
	}

	command := strings.ToUpper(toks[0])
	args := toks[1:]

	switch command {
	default:
		return fmt.Errorf("%s is not a debugger command", command)

	case KeywordHelp:
		if len(args) > 0 {
			s := strings.ToUpper(args[0])
			txt, ok := Help[s]
			if !ok {
				dbg.printLine(terminal.StyleHelp, "no help for %s", s)
			} else {
				dbg.printLine(terminal.StyleHelp, txt)
			}
		} else {
			for _, c := range commandList {
				dbg.printLine(terminal.StyleHelp, c)
			}
		}

	case KeywordQuit:
		dbg.running = false

	case KeywordReset:
		// the reference bench pulses reset for five ticks
		n := 5

		switch len(args) {
		case 1:
			var err error
			n, err = strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("RESET requires a positive number of ticks")
			}
			fallthrough

		case 0:
			dbg.hst.Reset(n)
			dbg.printLine(terminal.StyleFeedback, "device reset")

		default:
			return fmt.Errorf("too many arguments for RESET")
		}

	case KeywordStep:
		n := 1

		switch len(args) {
		case 1:
			var err error
			n, err = strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("STEP requires a positive number of ticks")
			}
			fallthrough

		case 0:
			dbg.hst.Idle(n)
			dbg.printPins()

		default:
			return fmt.Errorf("too many arguments for STEP")
		}

	case KeywordWrite, KeywordRead:
		if len(args) != 2 {
			return fmt.Errorf("%s requires an address and a value", command)
		}

		addr, err := convertAddress(args[0])
		if err != nil {
			return err
		}

		data, err := convertValue(args[1])
		if err != nil {
			return err
		}

		if command == KeywordWrite {
			err = dbg.hst.Write(addr, data)
			if err != nil {
				return err
			}
			if sym, ok := ports.WriteSymbols[addr]; ok {
				dbg.printLine(terminal.StyleFeedback, "%s <- %#02x", sym, data)
			} else {
				dbg.printLine(terminal.StyleFeedback, "no register at %#02x, write had no effect", addr)
			}
		} else {
			err = dbg.hst.Read(addr, data)
			if err != nil {
				return err
			}
			dbg.printLine(terminal.StyleFeedback, "read frame sent, the device has no response path")
		}

	case KeywordEnable:
		if len(args) != 1 {
			return fmt.Errorf("ENABLE requires a level, 0 or 1")
		}
		switch args[0] {
		case "0":
			dbg.hst.Enable(false)
			dbg.printLine(terminal.StyleFeedback, "enable line low, device is frozen")
		case "1":
			dbg.hst.Enable(true)
			dbg.printLine(terminal.StyleFeedback, "enable line high")
		default:
			return fmt.Errorf("ENABLE requires a level, 0 or 1")
		}

	case KeywordRandomise:
		dbg.dev.Randomise()
		dbg.printLine(terminal.StyleFeedback, "device state randomised")

	case KeywordRegisters:
		dbg.printLine(terminal.StyleInstrument, dbg.dev.Ports.String())

	case KeywordSPI:
		dbg.printLine(terminal.StyleInstrument, dbg.dev.SPI.String())

	case KeywordPWM:
		dbg.printLine(terminal.StyleInstrument, dbg.dev.PWM.String())

	case KeywordPins:
		dbg.printPins()

	case KeywordTicks:
		dbg.printLine(terminal.StyleInstrument, "tick: %d", dbg.dev.TickCount())

	case KeywordMeasure:
		if len(args) < 1 || len(args) > 2 {
			return fmt.Errorf("MEASURE requires a pin label and an optional cycle count")
		}

		port, bit, err := scope.ParsePin(args[0])
		if err != nil {
			return err
		}

		cycles := measureDefaultCycles
		if len(args) == 2 {
			cycles, err = strconv.Atoi(args[1])
			if err != nil || cycles < 2 {
				return fmt.Errorf("MEASURE requires at least two cycles")
			}
		}

		// probes, once attached to the device, cannot be removed. reuse the
		// probe from any earlier measurement of the same pin
		label := fmt.Sprintf("%s%d", port, bit)
		prb, ok := dbg.probes[label]
		if !ok {
			prb, err = scope.NewProbe(port, bit)
			if err != nil {
				return err
			}
			dbg.dev.AttachMonitor(prb)
			dbg.probes[label] = prb
		}

		prb.Clear()
		dbg.hst.Idle(cycles * dbg.dev.PWM.CycleTicks())

		m, err := prb.Measure()
		if err != nil {
			return err
		}
		dbg.printLine(terminal.StyleInstrument, "%s: %s", label, m.String())

	case KeywordScript:
		if len(args) != 1 {
			return fmt.Errorf("SCRIPT requires a filename")
		}
		scr, err := stimulus.NewScript(args[0], dbg.hst)
		if err != nil {
			return err
		}
		err = scr.Run()
		if err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "script %s run to completion", args[0])

	case KeywordDigest:
		switch {
		case len(args) == 0:
			dbg.printLine(terminal.StyleInstrument, dbg.digest.Hash())
		case len(args) == 1 && strings.ToUpper(args[0]) == "RESET":
			dbg.digest.ResetDigest()
			dbg.printLine(terminal.StyleFeedback, "digest reset")
		default:
			return fmt.Errorf("unknown option for DIGEST command (%s)", strings.Join(args, " "))
		}

	case KeywordLog:
		switch {
		case len(args) == 0:
			logger.Write(dbg.printStyle(terminal.StyleLog))
		case len(args) == 1 && strings.ToUpper(args[0]) == "CLEAR":
			logger.Clear()
			dbg.printLine(terminal.StyleFeedback, "log cleared")
		default:
			return fmt.Errorf("unknown option for LOG command (%s)", strings.Join(args, " "))
		}

	case KeywordViz:
		fn := "device.dot"
		switch len(args) {
		case 0:
		case 1:
			fn = args[0]
		default:
			return fmt.Errorf("too many arguments for VIZ")
		}

		f, err := os.Create(fn)
		if err != nil {
			return err
		}
		memviz.Map(f, dbg.dev)
		err = f.Close()
		if err != nil {
			return err
		}
		dbg.printLine(terminal.StyleFeedback, "device structure written to %s (graphviz dot format)", fn)
	}

	return nil
}

func (dbg *Debugger) printPins() {
	dbg.printLine(terminal.StyleInstrument, "port a: %#02x   port b: %#02x",
		dbg.dev.Ports.PinsA, dbg.dev.Ports.PinsB)
}
