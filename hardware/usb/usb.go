// USB scanner discovery. Barcode scanners show up in one of three
// modes depending on vendor configuration; only keyboard emulation is
// usable by this tool, so the dev CLI lists candidates and their mode
// to help operators pick the right /dev/input node.
package usb

import (
	"fmt"

	"github.com/google/gousb"
	"github.com/juju/errors"
)

type Mode uint8

const (
	ModeUnknown Mode = iota
	// interface class=3 subclass=1 protocol=1, HID keyboard emulation
	ModeKeyboard
	// interface class=3 subclass=0 protocol=0, HID POS
	ModeHID
	// interface class=2 subclass=2 protocol=1, CDC-ACM serial
	ModeCOM
)

var modeDescription = map[Mode]string{
	ModeUnknown:  "unknown",
	ModeKeyboard: "keyboard",
	ModeHID:      "hid",
	ModeCOM:      "com",
}

func (m Mode) String() string { return modeDescription[m] }

type DeviceInfo struct {
	Vendor       gousb.ID
	Product      gousb.ID
	Manufacturer string
	Description  string
	Serial       string
	Mode         Mode
}

func (di DeviceInfo) String() string {
	return fmt.Sprintf("%s:%s mode=%s manufacturer=%q product=%q serial=%q",
		di.Vendor, di.Product, di.Mode, di.Manufacturer, di.Description, di.Serial)
}

func classify(desc *gousb.DeviceDesc) Mode {
	for _, cfg := range desc.Configs {
		for _, intf := range cfg.Interfaces {
			for _, alt := range intf.AltSettings {
				switch {
				case alt.Class == 3 && alt.SubClass == 1 && alt.Protocol == 1:
					return ModeKeyboard
				case alt.Class == 3 && alt.SubClass == 0 && alt.Protocol == 0:
					return ModeHID
				case alt.Class == 2 && alt.SubClass == 2 && alt.Protocol == 1:
					return ModeCOM
				}
			}
		}
	}
	return ModeUnknown
}

// Enumerate opens every USB device and reports the ones that look like
// a scanner in any of the known modes.
func Enumerate() ([]DeviceInfo, error) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	infos := make([]DeviceInfo, 0, 8)
	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return classify(desc) != ModeUnknown
	})
	for _, dev := range devs {
		info := DeviceInfo{
			Vendor:  dev.Desc.Vendor,
			Product: dev.Desc.Product,
			Mode:    classify(dev.Desc),
		}
		// string descriptors are best-effort, devices lie or stall
		info.Manufacturer, _ = dev.Manufacturer()
		info.Description, _ = dev.Product()
		info.Serial, _ = dev.SerialNumber()
		infos = append(infos, info)
		dev.Close()
	}
	if err != nil {
		return infos, errors.Annotate(err, "usb enumerate")
	}
	return infos, nil
}
