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

// Package terminal defines the operations required for command-line
// interaction with the debugger.
//
// Terminal interaction happens through the Terminal interface, which is the
// compound of the Input and Output interfaces. There are two reference
// implementations: the PlainTerminal and the ColorTerminal, found
// respectively in the plainterm and colorterm sub-packages.
//
// Input is read a line at a time through TermRead(). Implementations that can
// do so should watch the channel in the ReadEvents argument while waiting,
// so that operating system signals interrupt the read rather than the
// program. The UserInterrupt and UserAbort sentinal errors communicate such
// interruptions to the debugger's input loop.
//
// Command history is not handled by this package. The ColorTerminal
// implementation shows how a terminal can provide it. Similarly, tab
// completion is supplied by the debugger through RegisterTabCompletion() and
// it is up to the terminal implementation whether anything is done with it.
package terminal
