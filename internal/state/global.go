package state

import (
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"

	"github.com/vmc-kiosk/scanner/hardware/gpio"
	"github.com/vmc-kiosk/scanner/hardware/input"
	"github.com/vmc-kiosk/scanner/internal/scan"
	"github.com/vmc-kiosk/scanner/log2"
)

const pinConsumer = "scanner"

type Global struct {
	Alive  *alive.Alive
	Config *Config
	Log    *log2.Log

	hardware struct {
		pin       gpio.Pin
		pinErr    error
		source    input.Source
		sourceErr error
	}
	initPinOnce   sync.Once
	initInputOnce sync.Once
}

func NewGlobal(log *log2.Log) *Global {
	return &Global{
		Alive: alive.NewAlive(),
		Log:   log,
	}
}

// If `Init` fails, consider `Global` is in broken state.
func (g *Global) Init(cfg *Config) error {
	g.Config = cfg

	if cfg.Scan.LogDebug {
		g.Log.SetLevel(log2.LDebug)
	}
	if cfg.Hardware.Input.Device == "" {
		return errors.Errorf("config: hardware.input.device is required")
	}
	g.Log.Debugf("config: pin_driver=%s pin_chip=%s pin=%s device=%s",
		cfg.Hardware.PinDriver, cfg.Hardware.PinChip, cfg.Hardware.Pin, cfg.Hardware.Input.Device)
	return nil
}

func (g *Global) MustInit(cfg *Config) {
	if err := g.Init(cfg); err != nil {
		g.Log.Fatal(errors.ErrorStack(err))
	}
}

func (g *Global) Pin() (gpio.Pin, error) {
	g.initPinOnce.Do(func() {
		cfg := &g.Config.Hardware
		switch cfg.PinDriver {
		case "", "cdev":
			g.hardware.pin, g.hardware.pinErr = gpio.NewCdevPin(cfg.PinChip, cfg.Pin, pinConsumer)
		case "periph":
			g.hardware.pin, g.hardware.pinErr = gpio.NewPeriphPin(cfg.Pin)
		case "none":
			g.hardware.pin = &gpio.NopPin{Log: g.Log}
		default:
			g.hardware.pinErr = errors.Errorf("config: unknown pin_driver=\"%s\" valid: cdev, periph, none", cfg.PinDriver)
		}
		g.hardware.pinErr = errors.Annotatef(g.hardware.pinErr, "config: pin=%v", cfg.Pin)
	})
	return g.hardware.pin, g.hardware.pinErr
}

func (g *Global) InputSource() (input.Source, error) {
	g.initInputOnce.Do(func() {
		cfg := &g.Config.Hardware.Input
		src, err := input.NewDevInputEventSource(cfg.Device, !cfg.NoGrab)
		if err != nil {
			g.hardware.sourceErr = errors.Annotatef(err, "config: input=%+v", cfg)
			return
		}
		g.hardware.source = src
	})
	return g.hardware.source, g.hardware.sourceErr
}

// Scanner builds the acquisition loop from configured hardware.
func (g *Global) Scanner() (*scan.Scanner, error) {
	pin, err := g.Pin()
	if err != nil {
		return nil, errors.Trace(err)
	}
	source, err := g.InputSource()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return scan.New(g.Log, g.Alive, pin, source, g.Config.ScanConfig()), nil
}

func (g *Global) Close() {
	if g.hardware.source != nil {
		if err := g.hardware.source.Close(); err != nil {
			g.Log.Errorf("close input err=%v", err)
		}
	}
	if g.hardware.pin != nil {
		if err := g.hardware.pin.Close(); err != nil {
			g.Log.Errorf("close pin err=%v", err)
		}
	}
}
