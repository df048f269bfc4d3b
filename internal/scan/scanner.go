// Package scan owns the code acquisition loop: power-cycle the scanner
// through the enable pin, wait for key events, translate them into an
// ASCII code.
package scan

import (
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/atomic_clock"

	"github.com/vmc-kiosk/scanner/hardware/gpio"
	"github.com/vmc-kiosk/scanner/hardware/input"
	"github.com/vmc-kiosk/scanner/log2"
)

const (
	DefaultPollTimeout = 800 * time.Millisecond
	DefaultSettle      = 200 * time.Millisecond
	DefaultMaxCode     = 64
)

type Config struct {
	// PollTimeout bounds one try: the wait for first input and the
	// whole accumulation that follows.
	PollTimeout time.Duration
	// Settle is how long the scanner needs after power-off before the
	// next try may power it on again.
	Settle time.Duration
	// MaxCode is the capacity bound: a code is finalized as soon as it
	// reaches MaxCode-1 characters, terminator or not.
	MaxCode int
}

func (c *Config) SetDefaults() {
	if c.PollTimeout == 0 {
		c.PollTimeout = DefaultPollTimeout
	}
	if c.Settle == 0 {
		c.Settle = DefaultSettle
	}
	if c.MaxCode == 0 {
		c.MaxCode = DefaultMaxCode
	}
}

type Result struct {
	// Ok distinguishes a captured code (possibly empty, bare terminator)
	// from retry exhaustion.
	Ok       bool
	Code     string
	Tries    int
	Duration time.Duration
}

type Scanner struct {
	Log    *log2.Log
	alive  *alive.Alive
	pin    gpio.Pin
	source input.Source
	conf   Config
	shift  bool
}

func New(log *log2.Log, a *alive.Alive, pin gpio.Pin, source input.Source, conf Config) *Scanner {
	conf.SetDefaults()
	return &Scanner{
		Log:    log,
		alive:  a,
		pin:    pin,
		source: source,
		conf:   conf,
	}
}

// Scan performs up to tries power-cycles of the scanner and returns the
// first captured code. No code within the budget is not an error:
// Result.Ok=false, err=nil. Wait and read failures abort immediately.
func (self *Scanner) Scan(tries int) (Result, error) {
	begin := atomic_clock.Now()
	result := Result{}

	if err := self.source.Grab(); err != nil {
		return result, errors.Annotate(err, "scan grab")
	}

	for result.Tries < tries && self.alive.IsRunning() {
		result.Tries++
		code, ok, err := self.try()
		result.Duration = atomic_clock.Since(begin)
		if err != nil {
			return result, errors.Trace(err)
		}
		if ok {
			result.Ok = true
			result.Code = code
			self.Log.Debugf("scan ok code=%q tries=%d duration=%s", result.Code, result.Tries, result.Duration)
			return result, nil
		}
		self.Log.Debugf("scan try=%d no code", result.Tries)
		self.settle()
	}
	result.Duration = atomic_clock.Since(begin)
	self.Log.Debugf("scan gave up tries=%d duration=%s", result.Tries, result.Duration)
	return result, nil
}

// One try = one power cycle. The pin goes LOW on every way out:
// success, soft timeout and hard error alike.
func (self *Scanner) try() (string, bool, error) {
	if err := self.pin.Set(true); err != nil {
		return "", false, errors.Annotate(err, "scan pin high")
	}
	code, ok, err := self.acquire()
	if errLow := self.pin.Set(false); errLow != nil && err == nil {
		err = errors.Annotate(errLow, "scan pin low")
	}
	return code, ok, err
}

// acquire accumulates one code within the try window. Every read is
// preceded by a readiness wait armed with the remaining slice of the
// window, so a scanner that goes mute mid-code costs one try, not a
// hung process.
func (self *Scanner) acquire() (string, bool, error) {
	deadline := time.Now().Add(self.conf.PollTimeout)
	code := make([]byte, 0, self.conf.MaxCode-1)

	for {
		remain := time.Until(deadline)
		if remain <= 0 {
			return "", false, nil
		}
		ready, err := self.source.WaitReady(remain)
		if err != nil {
			return "", false, errors.Annotate(err, "scan wait")
		}
		if !ready {
			return "", false, nil
		}

		event, err := self.source.ReadEvent()
		if err != nil {
			return "", false, errors.Annotate(err, "scan read")
		}
		if event.Kind != input.EventKey {
			continue
		}
		switch event.State {
		case input.KeyUp:
			if input.IsShift(event.Code) {
				self.shift = false
			}

		case input.KeyDown:
			if event.Code == input.KeycodeEnter {
				return string(code), true, nil
			}
			if input.IsShift(event.Code) {
				self.shift = true
				continue
			}
			if c, ok := input.Translate(event.Code, self.shift); ok {
				code = append(code, c)
				if len(code) >= self.conf.MaxCode-1 {
					return string(code), true, nil
				}
			}

		default: // KeyHold: autorepeat, not a new character
		}
	}
}

func (self *Scanner) settle() {
	select {
	case <-self.alive.StopChan():
	case <-time.After(self.conf.Settle):
	}
}
