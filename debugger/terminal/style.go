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

package terminal

// Style is used to identify the category of text being sent to the
// TermPrintLine() function. terminals with the capability can use the style
// to change how the text is displayed.
type Style int

// List of Style values.
const (
	// input to the debugger, echoed back to implementations that want to
	// record a transcript
	StyleEcho Style = iota

	// information in response to an inspection command
	StyleFeedback

	// measurement results
	StyleInstrument

	// help text
	StyleHelp

	// lines from the central logger
	StyleLog

	// error messages are always shown, even when the terminal is silenced
	StyleError
)
