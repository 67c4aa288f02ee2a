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

// Package wavload converts a sound file back into a logic level that can be
// replayed against the emulation one tick at a time. a recording of an
// output pin made with the wavwriter package can be loaded and measured
// without a device attached. WAV and MP3 files are supported.
package wavload

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jetsetilly/tinyperi/environment"
	"github.com/jetsetilly/tinyperi/hardware/clocks"
	"github.com/jetsetilly/tinyperi/logger"
)

// tag string used in calls to Log().
const loadLogTag = "wavload"

// Recording is one channel of a sound file, replayable as a logic level at
// the rate of the main clock.
type Recording struct {
	// sample levels. mono data, taken from the left channel in the case of
	// stereo source files
	samples []float32

	// the level that divides a high sample from a low one. zero for signed
	// sample formats, mid-scale for the unsigned 8bit format
	threshold float32

	sampleRate float64
	totalTime  float64

	// current index of samples array
	idx int

	// the recording advances every call to Step() which happens at the rate
	// of the main clock
	regulator   int
	regulatorCt int

	ended bool
}

// NewRecording is the preferred method of initialisation for the Recording
// type. the source format is chosen on the file extension.
func NewRecording(env *environment.Environment, filename string) (*Recording, error) {
	rec := &Recording{
		samples: make([]float32, 0),
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("wavload: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		dec := wav.NewDecoder(f)
		if dec == nil {
			return nil, fmt.Errorf("wavload: error decoding %s", filename)
		}

		if !dec.IsValidFile() {
			return nil, fmt.Errorf("wavload: %s is not a valid wav file", filename)
		}

		logger.Log(env, loadLogTag, "loading from wav file")

		// load all data at once
		buf, err := dec.FullPCMBuffer()
		if err != nil {
			return nil, fmt.Errorf("wavload: wav: %w", err)
		}
		floatBuf := buf.AsFloat32Buffer()

		// copy first channel only of the data stream
		rec.samples = make([]float32, 0, len(floatBuf.Data)/int(dec.NumChans))
		for i := 0; i < len(floatBuf.Data); i += int(dec.NumChans) {
			rec.samples = append(rec.samples, floatBuf.Data[i])
		}

		// 8bit wav data is unsigned so mid-scale is half way up the range.
		// every other depth is signed around zero
		if dec.BitDepth == 8 {
			rec.threshold = 128.0
		}

		rec.sampleRate = float64(dec.SampleRate)

		dur, err := dec.Duration()
		if err != nil {
			return nil, fmt.Errorf("wavload: wav: %w", err)
		}
		rec.totalTime = dur.Seconds()

	case ".mp3":
		dec, err := mp3.NewDecoder(f)
		if err != nil {
			return nil, fmt.Errorf("wavload: mp3: %w", err)
		}

		logger.Log(env, loadLogTag, "loading from mp3 file")

		// the go-mp3 stream is always 16bit little endian with two channels,
		// even if the source is a single channel MP3. a sample therefore
		// always consists of four bytes of which we want the first two
		err = nil
		chunk := make([]byte, 4096)
		for err != io.EOF {
			var chunkLen int
			chunkLen, err = dec.Read(chunk)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("wavload: mp3: %w", err)
			}

			for i := 0; i+1 < chunkLen; i += 4 {
				v := int16(uint16(chunk[i]) | uint16(chunk[i+1])<<8)
				rec.samples = append(rec.samples, float32(v))
			}
		}

		rec.sampleRate = float64(dec.SampleRate())
		rec.totalTime = float64(len(rec.samples)) / rec.sampleRate

	default:
		return nil, fmt.Errorf("wavload: unsupported file type: %s", filepath.Ext(filename))
	}

	if len(rec.samples) == 0 {
		return nil, fmt.Errorf("wavload: no samples in %s", filename)
	}

	logger.Logf(env, loadLogTag, "sample rate: %0.2fHz", rec.sampleRate)
	logger.Logf(env, loadLogTag, "total time: %.02fs", rec.totalTime)

	// each sample is held for this many ticks of the main clock
	rec.regulator = int(math.Round(clocks.Main / rec.sampleRate))
	if rec.regulator < 1 {
		return nil, fmt.Errorf("wavload: sample rate %.0fHz is faster than the system clock", rec.sampleRate)
	}
	logger.Logf(env, loadLogTag, "regulator: %d ticks per sample", rec.regulator)

	return rec, nil
}

// Level of the recording at the current replay position. the threshold is at
// mid-scale.
func (rec *Recording) Level() bool {
	return rec.samples[rec.idx] > rec.threshold
}

// Step advances the replay position by one tick of the main clock. the
// sample index only advances when the hold period of the current sample has
// been exhausted.
func (rec *Recording) Step() {
	rec.regulatorCt++
	if rec.regulatorCt < rec.regulator {
		return
	}
	rec.regulatorCt = 0

	// never read past the end of the recording. the last level holds
	if rec.idx >= len(rec.samples)-1 {
		rec.ended = true
		return
	}
	rec.idx++
}

// Ended is true once every sample in the recording has been replayed.
func (rec *Recording) Ended() bool {
	return rec.ended
}

// Rewind the recording to the start.
func (rec *Recording) Rewind() {
	rec.idx = 0
	rec.regulatorCt = 0
	rec.ended = false
}

// SampleRate of the recording in Hz.
func (rec *Recording) SampleRate() float64 {
	return rec.sampleRate
}

func (rec *Recording) String() string {
	return fmt.Sprintf("%d samples at %0.2fHz (%.02fs)", len(rec.samples), rec.sampleRate, rec.totalTime)
}
