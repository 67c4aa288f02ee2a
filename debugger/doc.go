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

// Package debugger implements an interactive terminal for inspecting the
// emulated peripheral. Features include:
//
//   - register file, serial decoder and PWM counter inspection
//   - tick stepping
//   - serial bus transactions typed at the prompt
//   - stimulus scripts
//   - waveform measurement of any output pin
//   - rolling digest of port activity
//
// Initialisation of the debugger is done with the NewDebugger() function
//
//	dbg, _ := debugger.NewDebugger(env, dev, hst, term)
//
// The term argument must be an instance of a type that satisfies the
// Terminal interface defined in the terminal package. The colorterm and
// plainterm sub-packages provide good reference implementations.
//
// Once initialised, the debugger can be started with the Start() function.
//
//	dbg.Start(initScript)
//
// The initScript is the filename of a stimulus script to run before the
// first prompt, or the empty string. A failing init script is reported but
// does not prevent the debugger from starting.
//
// The debugger runs on the calling goroutine and returns when the user
// quits. Interaction is through the Terminal interface alone so the
// debugger can be driven programmatically, by tests for example, with a
// suitable Terminal implementation.
package debugger
