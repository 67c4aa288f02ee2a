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
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Entry represents a single line/entry in the log
type Entry struct {
	Timestamp time.Time
	tag       string
	detail    string
	repeated  int
}

func (e *Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", e.tag, e.detail))
	if e.repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.repeated+1))
	}
	s.WriteString("\n")
	return s.String()
}

// Logger is an ordered list of log entries. if a new entry repeats the most
// recent entry it is folded into it rather than appended
type Logger struct {
	crit sync.Mutex

	maxEntries int
	entries    []Entry

	// the index of the first entry that has not yet been written by the
	// WriteRecent() function
	recent int

	// if echo is not nil then new entries are written to it as they arrive
	echo io.Writer
}

// NewLogger is the preferred method of initialisation for the Logger type
func NewLogger(maxEntries int) *Logger {
	return &Logger{
		maxEntries: maxEntries,
		entries:    make([]Entry, 0, maxEntries),
	}
}

// convert the detail argument to a string. errors and Stringer types are
// handled explicitly. anything else goes through the %v verb
func detailConversion(detail any) string {
	switch d := detail.(type) {
	case error:
		return d.Error()
	case fmt.Stringer:
		return d.String()
	case string:
		return d
	}
	return fmt.Sprintf("%v", detail)
}

// Log adds an entry to the logger. the detail argument can be of any type
// but errors and Stringer types are treated sympathetically
func (l *Logger) Log(perm Permission, tag string, detail any) {
	if perm != Allow && !perm.AllowLogging() {
		return
	}

	l.crit.Lock()
	defer l.crit.Unlock()
	l.log(tag, detailConversion(detail))
}

// Logf adds a formatted entry to the logger
func (l *Logger) Logf(perm Permission, tag string, format string, args ...any) {
	if perm != Allow && !perm.AllowLogging() {
		return
	}

	l.crit.Lock()
	defer l.crit.Unlock()
	l.log(tag, fmt.Sprintf(format, args...))
}

func (l *Logger) log(tag string, detail string) {
	// remove all newline characters from tag and detail string
	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	last := &Entry{}
	if len(l.entries) > 0 {
		last = &l.entries[len(l.entries)-1]
	}

	if detail == last.detail && tag == last.tag {
		last.repeated++
		last.Timestamp = time.Now()
		if l.echo != nil {
			io.WriteString(l.echo, last.String())
		}
		return
	}

	l.entries = append(l.entries, Entry{Timestamp: time.Now(), tag: tag, detail: detail})

	// maintain maximum length
	if len(l.entries) > l.maxEntries {
		off := len(l.entries) - l.maxEntries
		l.entries = l.entries[off:]
		l.recent = max(l.recent-off, 0)
	}

	if l.echo != nil {
		io.WriteString(l.echo, l.entries[len(l.entries)-1].String())
	}
}

// Clear all entries from the logger
func (l *Logger) Clear() {
	l.crit.Lock()
	defer l.crit.Unlock()

	l.entries = l.entries[:0]
	l.recent = 0
}

// Write contents of the logger to the io.Writer
func (l *Logger) Write(output io.Writer) {
	l.crit.Lock()
	defer l.crit.Unlock()

	for i := range l.entries {
		io.WriteString(output, l.entries[i].String())
	}
}

// WriteRecent writes the entries added since the last call to WriteRecent
func (l *Logger) WriteRecent(output io.Writer) {
	l.crit.Lock()
	defer l.crit.Unlock()

	for i := l.recent; i < len(l.entries); i++ {
		io.WriteString(output, l.entries[i].String())
	}
	l.recent = len(l.entries)
}

// Tail writes the last N entries to the io.Writer
func (l *Logger) Tail(output io.Writer, number int) {
	l.crit.Lock()
	defer l.crit.Unlock()

	// cap number to the number of entries
	if number > len(l.entries) {
		number = len(l.entries)
	}

	for _, e := range l.entries[len(l.entries)-number:] {
		io.WriteString(output, e.String())
	}
}

// SetEcho prints new entries to the io.Writer as they arrive. a nil writer
// stops any echoing. if writeRecent is true then any entries not yet seen by
// the WriteRecent() function are written out immediately
func (l *Logger) SetEcho(output io.Writer, writeRecent bool) {
	l.crit.Lock()
	l.echo = output
	l.crit.Unlock()

	if writeRecent && output != nil {
		l.WriteRecent(output)
	}
}

// BorrowLog gives the provided function the critical section and access to
// the list of log entries
func (l *Logger) BorrowLog(f func([]Entry)) {
	l.crit.Lock()
	defer l.crit.Unlock()

	f(l.entries)
}
