package gpio

import (
	"github.com/juju/errors"
	periph_gpio "periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

// PeriphPin is the alternate driver on hosts where the cdev interface is
// unavailable or the pin is easier to address by name ("GPIO25").
type PeriphPin struct {
	out periph_gpio.PinIO
}

var _ Pin = new(PeriphPin)

func NewPeriphPin(name string) (*PeriphPin, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Annotate(err, "periph host init")
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, errors.Errorf("periph: pin not found name=%s", name)
	}
	return &PeriphPin{out: p}, nil
}

func (self *PeriphPin) Set(level bool) error {
	return errors.Annotatef(self.out.Out(periph_gpio.Level(level)), "periph pin=%s", self.out.Name())
}

func (self *PeriphPin) Close() error {
	return self.out.Halt()
}
