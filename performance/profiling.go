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

package performance

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"strings"
)

// Profile is used to specify the type of profile to generate.
type Profile int

// List of valid Profile values. Values can be combined with the bitwise-or
// operator.
const (
	ProfileNone Profile = 0
	ProfileCPU  Profile = 1 << iota
	ProfileMem
	ProfileTrace
	ProfileAll = ProfileCPU | ProfileMem | ProfileTrace
)

// ParseProfileString converts a string to a Profile value. multiple profile
// types can be requested with commas.
func ParseProfileString(spec string) (Profile, error) {
	p := ProfileNone

	for _, s := range strings.Split(spec, ",") {
		switch strings.ToUpper(strings.TrimSpace(s)) {
		case "NONE":
			// respected only so that the string "none" round-trips. it does
			// not cancel any other type in the list
		case "CPU":
			p |= ProfileCPU
		case "MEM":
			p |= ProfileMem
		case "TRACE":
			p |= ProfileTrace
		case "ALL":
			p = ProfileAll
		default:
			return ProfileNone, fmt.Errorf("profiling: unrecognised profile type (%s)", s)
		}
	}

	return p, nil
}

// RunProfiler runs the supplied function and generates the requested profile
// types. profile files are prefixed with the tag argument.
//
// Unlike the Check() function, RunProfiler() does not limit how long the
// supplied function runs for. It is the better choice when profiling a real
// session, the debugger for instance.
func RunProfiler(profile Profile, tag string, run func() error) error {
	if profile&ProfileCPU == ProfileCPU {
		f, err := os.Create(fmt.Sprintf("%s_cpu.profile", tag))
		if err != nil {
			return fmt.Errorf("profiling: %w", err)
		}
		defer f.Close()

		err = pprof.StartCPUProfile(f)
		if err != nil {
			return fmt.Errorf("profiling: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	if profile&ProfileTrace == ProfileTrace {
		f, err := os.Create(fmt.Sprintf("%s_trace.profile", tag))
		if err != nil {
			return fmt.Errorf("profiling: %w", err)
		}
		defer f.Close()

		err = trace.Start(f)
		if err != nil {
			return fmt.Errorf("profiling: %w", err)
		}
		defer trace.Stop()
	}

	err := run()
	if err != nil {
		return err
	}

	// the memory profile is a snapshot so it is taken once the supplied
	// function has finished
	if profile&ProfileMem == ProfileMem {
		f, err := os.Create(fmt.Sprintf("%s_mem.profile", tag))
		if err != nil {
			return fmt.Errorf("profiling: %w", err)
		}
		defer f.Close()

		runtime.GC()

		err = pprof.WriteHeapProfile(f)
		if err != nil {
			return fmt.Errorf("profiling: %w", err)
		}
	}

	return nil
}
