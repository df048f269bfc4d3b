// Scanner enable line. One output pin, HIGH powers the scanner trigger,
// LOW cuts it.
package gpio

import (
	"strconv"

	"github.com/juju/errors"
	cdev "github.com/temoto/gpio-cdev-go"

	"github.com/vmc-kiosk/scanner/log2"
)

type Pin interface {
	Set(level bool) error
	Close() error
}

// CdevPin drives one line through the linux GPIO character device.
type CdevPin struct {
	chip  cdev.Chiper
	lines cdev.Lineser
	set   cdev.LineSetFunc
}

var _ Pin = new(CdevPin)

func NewCdevPin(chipName, pinName, consumer string) (*CdevPin, error) {
	line, err := strconv.ParseUint(pinName, 10, 32)
	if err != nil {
		return nil, errors.Annotatef(err, "gpio pin=%s", pinName)
	}
	chip, err := cdev.Open(chipName, consumer)
	if err != nil {
		return nil, errors.Annotatef(err, "gpio chip=%s", chipName)
	}
	lines, err := chip.OpenLines(cdev.GPIOHANDLE_REQUEST_OUTPUT, consumer, uint32(line))
	if err != nil {
		chip.Close()
		return nil, errors.Annotatef(err, "gpio chip=%s line=%d", chipName, line)
	}
	self := &CdevPin{
		chip:  chip,
		lines: lines,
		set:   lines.SetFunc(uint32(line)),
	}
	return self, nil
}

func (self *CdevPin) Set(level bool) error {
	var b byte
	if level {
		b = 1
	}
	self.set(b)
	return errors.Annotate(self.lines.Flush(), "gpio flush")
}

func (self *CdevPin) Close() error {
	err := self.lines.Close()
	if e := self.chip.Close(); err == nil {
		err = e
	}
	return err
}

// NopPin logs transitions instead of driving hardware. Useful for dry
// runs on a dev machine without the scanner wired up.
type NopPin struct {
	Log *log2.Log
}

var _ Pin = new(NopPin)

func (self *NopPin) Set(level bool) error {
	self.Log.Debugf("nop-pin set level=%t", level)
	return nil
}

func (self *NopPin) Close() error { return nil }
