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
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jetsetilly/tinyperi/debugger/terminal"
	"github.com/jetsetilly/tinyperi/digest"
	"github.com/jetsetilly/tinyperi/environment"
	"github.com/jetsetilly/tinyperi/hardware"
	"github.com/jetsetilly/tinyperi/scope"
	"github.com/jetsetilly/tinyperi/stimulus"
)

// Debugger is the basic debugging frontend for the emulated peripheral.
type Debugger struct {
	env *environment.Environment
	dev *hardware.Device
	hst *stimulus.Host

	term terminal.Terminal

	// events is passed to the terminal on every TermRead() so that signals
	// arriving mid-read can be acted on
	events *terminal.ReadEvents

	// buffer for user input
	input []byte

	// digest of port activity since the start of the session. attached to
	// the device as a monitor at creation time so that the DIGEST command
	// covers everything the session has done
	digest *digest.Ports

	// probes created by the MEASURE command, keyed by pin label. probes stay
	// attached to the device once created and are cleared before reuse
	probes map[string]*scope.Probe

	// the debugger is to continue reading from the terminal while this is
	// true. cleared by the QUIT command and by interrupt handling
	running bool
}

// NewDebugger is the preferred method of initialisation for the Debugger
// type. the device and the host must share the same environment.
func NewDebugger(env *environment.Environment, dev *hardware.Device, hst *stimulus.Host, term terminal.Terminal) (*Debugger, error) {
	dbg := &Debugger{
		env:  env,
		dev:  dev,
		hst:  hst,
		term: term,
	}

	dbg.digest = digest.NewPorts()
	dbg.dev.AttachMonitor(dbg.digest)

	dbg.probes = make(map[string]*scope.Probe)

	dbg.events = &terminal.ReadEvents{
		Signal: make(chan os.Signal, 1),
		SignalHandler: func(sig os.Signal) error {
			switch sig {
			case syscall.SIGINT:
				return terminal.UserInterrupt
			case syscall.SIGQUIT:
				return terminal.UserAbort
			}
			return nil
		},
	}
	signal.Notify(dbg.events.Signal, os.Interrupt, syscall.SIGQUIT)

	// allocate memory for user input
	dbg.input = make([]byte, 255)

	return dbg, nil
}

// Start the debugger. the function returns when the user quits. initScript
// is the filename of a stimulus script to run before the first prompt, or
// the empty string.
func (dbg *Debugger) Start(initScript string) error {
	err := dbg.term.Initialise()
	if err != nil {
		return fmt.Errorf("debugger: %w", err)
	}
	defer dbg.term.CleanUp()

	dbg.term.RegisterTabCompletion(newTabCompletion())

	if initScript != "" {
		err := func() error {
			// the terminal is quietened while the initialisation script runs
			dbg.term.Silence(true)
			defer dbg.term.Silence(false)

			scr, err := stimulus.NewScript(initScript, dbg.hst)
			if err != nil {
				return err
			}
			return scr.Run()
		}()
		if err != nil {
			dbg.printLine(terminal.StyleError, "error running debugger initialisation script: %s", err)
		}
	}

	dbg.running = true

	err = dbg.inputLoop()
	if err != nil {
		return fmt.Errorf("debugger: %w", err)
	}
	return nil
}

func (dbg *Debugger) inputLoop() error {
	for dbg.running {
		inputLen, err := dbg.term.TermRead(dbg.input, dbg.buildPrompt(), dbg.events)

		if err != nil {
			if errors.Is(err, io.EOF) {
				// the input stream has run dry. treat this the same as a
				// user abort
				err = terminal.UserAbort
			}

			if errors.Is(err, terminal.UserInterrupt) {
				dbg.handleInterrupt()
				continue // for loop
			}
			if errors.Is(err, terminal.UserAbort) {
				dbg.running = false
				continue // for loop
			}
			return err
		}

		// the length of the input includes the terminating character, which
		// we don't want to parse
		if inputLen > 0 {
			err = dbg.parseCommand(string(dbg.input[:inputLen-1]))
			if err != nil {
				dbg.printLine(terminal.StyleError, "%s", err)
			}
		}
	}

	return nil
}

func (dbg *Debugger) buildPrompt() terminal.Prompt {
	return terminal.Prompt{
		Type:    terminal.PromptTypeCommand,
		Content: fmt.Sprintf("tick %d", dbg.dev.TickCount()),
	}
}

// handleInterrupt is called when TermRead() returns a UserInterrupt. in an
// interactive session the user is asked to confirm before quitting.
func (dbg *Debugger) handleInterrupt() {
	if !dbg.term.IsInteractive() {
		dbg.running = false
		return
	}

	confirm := make([]byte, 1)
	_, err := dbg.term.TermRead(confirm,
		terminal.Prompt{
			Content: "really quit (y/n) ",
			Type:    terminal.PromptTypeConfirm,
		}, dbg.events)
	if err != nil {
		// a second interrupt is treated as though 'y' was pressed
		if errors.Is(err, terminal.UserInterrupt) {
			confirm[0] = 'y'
		} else {
			dbg.printLine(terminal.StyleError, "%s", err)
		}
	}

	if confirm[0] == 'y' || confirm[0] == 'Y' {
		dbg.running = false
	}
}

// all print operations from the debugger are made with the printLine()
// function. output is normalised and sent to the attached terminal.
func (dbg *Debugger) printLine(sty terminal.Style, s string, a ...any) {
	if len(a) > 0 {
		s = fmt.Sprintf(s, a...)
	}

	// remove all trailing newlines, and return if the resulting string is
	// empty
	s = strings.TrimRight(s, "\n")
	if len(s) == 0 {
		return
	}

	dbg.term.TermPrintLine(sty, s)
}

// styleWriter implements the io.Writer interface. it is useful for when an
// io.Writer is required and the output is to be directed to the terminal.
// allows the application of a single style.
type styleWriter struct {
	dbg   *Debugger
	style terminal.Style
}

func (dbg *Debugger) printStyle(sty terminal.Style) *styleWriter {
	return &styleWriter{
		dbg:   dbg,
		style: sty,
	}
}

func (wrt styleWriter) Write(p []byte) (n int, err error) {
	wrt.dbg.printLine(wrt.style, "%s", string(p))
	return len(p), nil
}
