package input

import (
	"os"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/inputevent-go"
	"golang.org/x/sys/unix"
)

const DevInputEventTag = "dev-input-event"

// EVIOCGRAB = _IOW('E', 0x90, int)
const eviocgrab = 0x40044590

// DevInputEventSource reads raw key events from a /dev/input/event*
// device, typically resolved through /dev/input/by-id for stable naming.
type DevInputEventSource struct {
	f    *os.File
	grab bool
}

// compile-time interface compliance test
var _ Source = new(DevInputEventSource)

func NewDevInputEventSource(device string, grab bool) (*DevInputEventSource, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, errors.Annotatef(err, "%s device=%s", DevInputEventTag, device)
	}
	return &DevInputEventSource{f: f, grab: grab}, nil
}

func (self *DevInputEventSource) String() string { return DevInputEventTag }

func (self *DevInputEventSource) Grab() error {
	if !self.grab {
		return nil
	}
	err := unix.IoctlSetInt(int(self.f.Fd()), eviocgrab, 1)
	return errors.Annotatef(err, "%s grab", DevInputEventTag)
}

func (self *DevInputEventSource) WaitReady(timeout time.Duration) (bool, error) {
	ms := int(timeout / time.Millisecond)
	if ms <= 0 {
		ms = 1
	}
	pfd := []unix.PollFd{{
		Fd:     int32(self.f.Fd()),
		Events: unix.POLLIN | unix.POLLPRI,
	}}
	for {
		n, err := unix.Poll(pfd, ms)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, errors.Annotatef(err, "%s poll", DevInputEventTag)
		}
		return n > 0, nil
	}
}

func (self *DevInputEventSource) ReadEvent() (KeyEvent, error) {
	ie, err := inputevent.ReadOne(self.f)
	if err != nil {
		return KeyEvent{}, errors.Annotatef(err, "%s read", DevInputEventTag)
	}
	if ie.Type != inputevent.EV_KEY {
		return KeyEvent{Kind: EventOther}, nil
	}
	return KeyEvent{
		Kind:  EventKey,
		Code:  ie.Code,
		State: KeyState(ie.Value),
	}, nil
}

func (self *DevInputEventSource) Close() error {
	if self.grab {
		_ = unix.IoctlSetInt(int(self.f.Fd()), eviocgrab, 0)
	}
	return self.f.Close()
}
