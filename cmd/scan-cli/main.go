// Interactive hardware bring-up tool for the scanner.
//
// Commands, whitespace separated:
//   scan=N     run the acquisition loop with N tries
//   pin=0|1    drive the enable line directly
//   wait=MS    poll the input device for readiness
//   read       read and print one input event
//   devices    list USB scanner candidates and their mode
//   log=yes|no toggle debug logging
//   sN         pause N milliseconds
package main

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	prompt "github.com/c-bata/go-prompt"
	"github.com/juju/errors"

	"github.com/vmc-kiosk/scanner/hardware/usb"
	"github.com/vmc-kiosk/scanner/helpers/cli"
	"github.com/vmc-kiosk/scanner/internal/state"
	"github.com/vmc-kiosk/scanner/log2"
)

var log = log2.NewStderr(log2.LDebug)

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	devicePath := cmdline.String("device", "/dev/input/event0", "scanner event device")
	pinChip := cmdline.String("pin-chip", "/dev/gpiochip0", "")
	pin := cmdline.String("pin", "25", "enable pin")
	pinDriver := cmdline.String("pin-driver", "cdev", "cdev|periph|none")
	cmdline.Parse(os.Args[1:]) //nolint:errcheck

	log.SetFlags(log2.LInteractiveFlags)

	config := new(state.Config)
	config.Hardware.PinDriver = *pinDriver
	config.Hardware.PinChip = *pinChip
	config.Hardware.Pin = *pin
	config.Hardware.Input.Device = *devicePath
	config.Hardware.Input.NoGrab = true // bring-up tool must not steal the device

	g := state.NewGlobal(log)
	g.MustInit(config)
	defer g.Close()

	cli.MainLoop(log, newExecutor(g), completer)
}

func newExecutor(g *state.Global) func(line string) {
	return func(line string) {
		for _, word := range strings.Fields(line) {
			if err := execute(g, word); err != nil {
				log.Error(errors.ErrorStack(err))
				return
			}
		}
	}
}

func execute(g *state.Global, word string) error {
	switch {
	case word == "help":
		log.Infof("commands: scan=N pin=0|1 wait=MS read devices log=yes|no sN")
		return nil

	case strings.HasPrefix(word, "scan="):
		tries, err := strconv.Atoi(word[5:])
		if err != nil {
			return errors.Annotatef(err, "word=%s", word)
		}
		scanner, err := g.Scanner()
		if err != nil {
			return errors.Trace(err)
		}
		result, err := scanner.Scan(tries)
		if err != nil {
			return errors.Trace(err)
		}
		log.Infof("scan ok=%t code=%q tries=%d duration=%s", result.Ok, result.Code, result.Tries, result.Duration)
		return nil

	case word == "pin=0" || word == "pin=1":
		p, err := g.Pin()
		if err != nil {
			return errors.Trace(err)
		}
		return p.Set(word == "pin=1")

	case strings.HasPrefix(word, "wait="):
		ms, err := strconv.Atoi(word[5:])
		if err != nil {
			return errors.Annotatef(err, "word=%s", word)
		}
		source, err := g.InputSource()
		if err != nil {
			return errors.Trace(err)
		}
		ready, err := source.WaitReady(time.Duration(ms) * time.Millisecond)
		if err != nil {
			return errors.Trace(err)
		}
		log.Infof("ready=%t", ready)
		return nil

	case word == "read":
		source, err := g.InputSource()
		if err != nil {
			return errors.Trace(err)
		}
		event, err := source.ReadEvent()
		if err != nil {
			return errors.Trace(err)
		}
		log.Infof("event=%#v", event)
		return nil

	case word == "devices":
		infos, err := usb.Enumerate()
		if err != nil {
			return errors.Trace(err)
		}
		if len(infos) == 0 {
			log.Infof("no scanner candidates found")
		}
		for _, info := range infos {
			log.Infof("%s", info)
		}
		return nil

	case word == "log=yes":
		log.SetLevel(log2.LDebug)
		return nil
	case word == "log=no":
		log.SetLevel(log2.LInfo)
		return nil

	case len(word) > 1 && word[0] == 's':
		ms, err := strconv.Atoi(word[1:])
		if err != nil {
			return errors.Annotatef(err, "word=%s", word)
		}
		time.Sleep(time.Duration(ms) * time.Millisecond)
		return nil
	}
	return errors.Errorf("unknown command word=%s try help", word)
}

func completer(d prompt.Document) []prompt.Suggest {
	suggests := []prompt.Suggest{
		{Text: "help", Description: "show commands"},
		{Text: "scan=", Description: "run acquisition with N tries"},
		{Text: "pin=1", Description: "enable line HIGH"},
		{Text: "pin=0", Description: "enable line LOW"},
		{Text: "wait=", Description: "poll readiness for MS"},
		{Text: "read", Description: "read one input event"},
		{Text: "devices", Description: "list USB scanner candidates"},
		{Text: "log=yes", Description: "debug logging on"},
		{Text: "log=no", Description: "debug logging off"},
	}
	return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
}
