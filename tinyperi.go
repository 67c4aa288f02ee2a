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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jetsetilly/tinyperi/debugger"
	"github.com/jetsetilly/tinyperi/debugger/terminal"
	"github.com/jetsetilly/tinyperi/debugger/terminal/colorterm"
	"github.com/jetsetilly/tinyperi/debugger/terminal/plainterm"
	"github.com/jetsetilly/tinyperi/digest"
	"github.com/jetsetilly/tinyperi/environment"
	"github.com/jetsetilly/tinyperi/hardware"
	"github.com/jetsetilly/tinyperi/hardware/clocks"
	"github.com/jetsetilly/tinyperi/hardware/ports"
	"github.com/jetsetilly/tinyperi/hardware/spi"
	"github.com/jetsetilly/tinyperi/logger"
	"github.com/jetsetilly/tinyperi/modalflag"
	"github.com/jetsetilly/tinyperi/performance"
	"github.com/jetsetilly/tinyperi/scope"
	"github.com/jetsetilly/tinyperi/statsview"
	"github.com/jetsetilly/tinyperi/stimulus"
	"github.com/jetsetilly/tinyperi/version"
	"github.com/jetsetilly/tinyperi/wavload"
	"github.com/jetsetilly/tinyperi/wavwriter"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("RUN", "DEBUG", "MEASURE", "PERFORMANCE", "VERSION")

	stats := md.AddBool("statsview", false, "run the statsview HTTP server for the duration of the program")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	if *stats {
		statsview.Launch(os.Stdout)
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)

	case "DEBUG":
		err = debug(md)

	case "MEASURE":
		err = measure(md)

	case "PERFORMANCE":
		err = perform(md)

	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		os.Exit(20)
	}
}

// create an emulated device and a stimulus host wired to its input pins. the
// device uses the reference wiring, there is no flag to change it.
func newBench() (*environment.Environment, *hardware.Device, *stimulus.Host, error) {
	env := environment.NewEnvironment(environment.MainEmulation)

	dev, err := hardware.NewDevice(env, spi.ReferenceWiring)
	if err != nil {
		return nil, nil, nil, err
	}

	return env, dev, stimulus.NewHost(env, dev), nil
}

func run(md *modalflag.Modes) error {
	md.NewMode()

	log := md.AddBool("log", false, "echo debugging log to stdout")
	randomise := md.AddBool("randomise", false, "randomise device state before the run")
	wav := md.AddString("wav", "", "capture a pin to the named WAV file")
	pin := md.AddString("pin", "A0", "pin to capture with the wav flag")
	digestFlag := md.AddBool("digest", false, "print a digest of port activity over the run")
	hold := md.AddInt("hold", 0, "PWM cycles to run after the script has finished")

	md.AdditionalHelp(
		`The run mode accepts a stimulus script. The script drives the serial interface of the
device and the run ends when the script ends. Without a script the built-in reference
sequence is used. The -hold flag extends the run beyond the end of the stimulus, which
is useful when the stimulus enables a PWM waveform.

The -wav flag records the digital level of a single pin to a WAV file. The recording can
be measured later with the MEASURE mode.`)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	// set debugging log echo
	if *log {
		logger.SetEcho(os.Stdout, false)
	} else {
		logger.SetEcho(nil, false)
	}

	var scriptFile string

	switch len(md.RemainingArgs()) {
	case 0:
		// no script. the built-in reference sequence will drive the device
	case 1:
		scriptFile = md.GetArg(0)
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	env, dev, hst, err := newBench()
	if err != nil {
		return err
	}

	// monitors must be attached before the stimulus runs or they will miss
	// the early ticks
	var dig *digest.Ports
	if *digestFlag {
		dig = digest.NewPorts()
		dev.AttachMonitor(dig)
	}

	var aw *wavwriter.WavWriter
	if *wav != "" {
		prt, bit, err := scope.ParsePin(*pin)
		if err != nil {
			return err
		}

		aw, err = wavwriter.New(env, *wav, prt, bit)
		if err != nil {
			return err
		}
		dev.AttachMonitor(aw)
	}

	if *randomise {
		dev.Randomise()
	}

	if scriptFile != "" {
		scr, err := stimulus.NewScript(scriptFile, hst)
		if err != nil {
			return err
		}

		err = scr.Run()
		if err != nil {
			return err
		}
	} else {
		err = referenceSequence(hst)
		if err != nil {
			return err
		}
	}

	if *hold > 0 {
		hst.Idle(*hold * dev.PWM.CycleTicks())
	}

	fmt.Println(dev.String())

	if dig != nil {
		fmt.Printf("digest: %s\n", dig.Hash())
	}

	if aw != nil {
		err = aw.Save()
		if err != nil {
			return err
		}
	}

	return nil
}

// the transaction sequence of the reference harness. static levels on both
// ports, an unmapped write, a read and then a PWM waveform on every bit of
// port A.
func referenceSequence(hst *stimulus.Host) error {
	hst.Reset(5)

	if err := hst.Write(ports.AddressOutA, 0xf0); err != nil {
		return err
	}
	if err := hst.Write(ports.AddressOutB, 0xcc); err != nil {
		return err
	}
	if err := hst.Write(0x30, 0xaa); err != nil {
		return err
	}
	if err := hst.Read(0x30, 0x00); err != nil {
		return err
	}
	if err := hst.Write(ports.AddressPWMEnableA, 0xff); err != nil {
		return err
	}
	return hst.Write(ports.AddressDuty, 0x80)
}

func debug(md *modalflag.Modes) error {
	md.NewMode()

	termType := md.AddString("term", "COLOR", "terminal type to use in debug mode: COLOR, PLAIN")
	initScript := md.AddString("initscript", "", "stimulus script to run on debugger start")
	log := md.AddBool("log", false, "echo debugging log to stdout")
	profile := md.AddString("profile", "none", "run debugger through a profiler: cpu, mem, trace, all")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	// set debugging log echo
	if *log {
		logger.SetEcho(os.Stdout, false)
	} else {
		logger.SetEcho(nil, false)
	}

	prof, err := performance.ParseProfileString(*profile)
	if err != nil {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	env, dev, hst, err := newBench()
	if err != nil {
		return err
	}

	var term terminal.Terminal

	switch strings.ToUpper(*termType) {
	default:
		fmt.Printf("! unknown terminal type (%s) defaulting to plain\n", *termType)
		fallthrough
	case "PLAIN":
		term = &plainterm.PlainTerminal{}
	case "COLOR":
		term = &colorterm.ColorTerminal{}
	}

	dbg, err := debugger.NewDebugger(env, dev, hst, term)
	if err != nil {
		return err
	}

	dbgRun := func() error {
		return dbg.Start(*initScript)
	}

	return performance.RunProfiler(prof, "debugger", dbgRun)
}

func measure(md *modalflag.Modes) error {
	md.NewMode()

	pin := md.AddString("pin", "A0", "pin to measure")
	cycles := md.AddInt("cycles", 16, "number of PWM cycles to measure over")
	duty := md.AddInt("duty", 0x80, "DUTY register value for the built-in setup")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	md.AdditionalHelp(
		`The measure mode accepts a stimulus script or a WAV/MP3 recording made with the -wav
flag of the RUN mode. With no argument at all the device is prepared with a PWM waveform
on the measured pin, at the duty value given by the -duty flag.

Pins are named by port letter and bit number. For example: A0, b7, B.3`)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	// set debugging log echo
	if *log {
		logger.SetEcho(os.Stdout, false)
	} else {
		logger.SetEcho(nil, false)
	}

	if *cycles < 2 {
		return fmt.Errorf("at least two cycles required for %s mode", md)
	}

	prt, bit, err := scope.ParsePin(*pin)
	if err != nil {
		return err
	}

	prb, err := scope.NewProbe(prt, bit)
	if err != nil {
		return err
	}

	// a sound file argument is a recording of a pin, made with the wav flag of
	// the run mode. it is measured directly, without a device. any other
	// argument is a stimulus script for a fresh device
	if len(md.RemainingArgs()) == 1 {
		switch strings.ToLower(filepath.Ext(md.GetArg(0))) {
		case ".wav", ".mp3":
			return measureRecording(md.GetArg(0), prb, prt, bit)
		}
	}

	_, dev, hst, err := newBench()
	if err != nil {
		return err
	}
	dev.AttachMonitor(prb)

	// prepare the device. a stimulus script leaves the registers however the
	// script wants them. without a script the measured pin is given a PWM
	// waveform at the requested duty
	switch len(md.RemainingArgs()) {
	case 0:
		if *duty < 0 || *duty > 255 {
			return fmt.Errorf("duty value does not fit eight bits (%d)", *duty)
		}

		hst.Reset(5)

		enable := ports.AddressPWMEnableA
		if prt == scope.PortB {
			enable = ports.AddressPWMEnableB
		}

		err = hst.Write(enable, uint8(1)<<bit)
		if err != nil {
			return err
		}

		err = hst.Write(ports.AddressDuty, uint8(*duty))
		if err != nil {
			return err
		}

	case 1:
		scr, err := stimulus.NewScript(md.GetArg(0), hst)
		if err != nil {
			return err
		}

		err = scr.Run()
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	prb.Clear()
	hst.Idle(*cycles * dev.PWM.CycleTicks())

	m, err := prb.Measure()
	if err != nil {
		return err
	}

	fmt.Printf("%s%d: %s\n", prt, bit, m.String())

	return nil
}

// measure a recording rather than a live device. the recorded level is
// replayed through the probe at the rate of the main clock, presented on the
// selected pin of both ports.
func measureRecording(filename string, prb *scope.Probe, prt scope.Port, bit int) error {
	env := environment.NewEnvironment(environment.MainEmulation)

	rec, err := wavload.NewRecording(env, filename)
	if err != nil {
		return err
	}
	fmt.Println(rec.String())

	// a recording sampled below twice the PWM rate cannot resolve the waveform
	if rec.SampleRate() < 2*clocks.PWM {
		fmt.Printf("warning: sample rate %.0fHz is too low to resolve a %dHz waveform\n",
			rec.SampleRate(), clocks.PWM)
	}

	var tick uint64
	for !rec.Ended() {
		var v uint8
		if rec.Level() {
			v = 0x01 << bit
		}
		prb.PortTick(tick, v, v)
		rec.Step()
		tick++
	}

	m, err := prb.Measure()
	if err != nil {
		return err
	}

	fmt.Printf("%s%d: %s\n", prt, bit, m.String())

	return nil
}

func perform(md *modalflag.Modes) error {
	md.NewMode()

	duration := md.AddDuration("duration", 5*time.Second, "run duration (note: there is a 2s overhead)")
	profile := md.AddString("profile", "none", "profile types to generate: cpu, mem, trace, all")
	realtime := md.AddBool("realtime", false, "pace the emulation to the reference clock")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	// set debugging log echo
	if *log {
		logger.SetEcho(os.Stdout, false)
	} else {
		logger.SetEcho(nil, false)
	}

	prof, err := performance.ParseProfileString(*profile)
	if err != nil {
		return err
	}

	scriptFile := ""

	switch len(md.RemainingArgs()) {
	case 0:
	case 1:
		scriptFile = md.GetArg(0)
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	return performance.Check(md.Output, prof, scriptFile, *realtime, *duration)
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()

	verbose := md.AddBool("v", false, "display revision information")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	ver, rev, _ := version.Version()
	fmt.Printf("%s %s\n", version.ApplicationName, ver)
	if *verbose {
		fmt.Printf("  %s\n", rev)
	}

	return nil
}
