package input

import (
	"sync"
	"time"

	"github.com/juju/errors"
)

const MockSourceTag = "mock-input"

type MockWait struct {
	Ready bool
	Err   error
}

type MockRead struct {
	Event KeyEvent
	Err   error
}

// MockSource plays back a scripted stream of readiness results and
// events. When the wait script runs out, readiness follows the event
// script: ready while events remain, timeout after.
type MockSource struct {
	mu      sync.Mutex
	Waits   []MockWait
	Events  []MockRead
	GrabErr error

	WaitCount int
	GrabCount int
	Closed    bool
}

var _ Source = new(MockSource)

func (self *MockSource) String() string { return MockSourceTag }

func (self *MockSource) Grab() error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.GrabCount++
	return self.GrabErr
}

func (self *MockSource) WaitReady(timeout time.Duration) (bool, error) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.WaitCount++
	if len(self.Waits) > 0 {
		w := self.Waits[0]
		self.Waits = self.Waits[1:]
		return w.Ready, w.Err
	}
	return len(self.Events) > 0, nil
}

func (self *MockSource) ReadEvent() (KeyEvent, error) {
	self.mu.Lock()
	defer self.mu.Unlock()
	if len(self.Events) == 0 {
		return KeyEvent{}, errors.Errorf("%s read past end of script", MockSourceTag)
	}
	r := self.Events[0]
	self.Events = self.Events[1:]
	return r.Event, r.Err
}

func (self *MockSource) Close() error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.Closed = true
	return nil
}

// Event script helpers.

func Down(code uint16) MockRead {
	return MockRead{Event: KeyEvent{Kind: EventKey, Code: code, State: KeyDown}}
}

func Up(code uint16) MockRead {
	return MockRead{Event: KeyEvent{Kind: EventKey, Code: code, State: KeyUp}}
}

func Other() MockRead {
	return MockRead{Event: KeyEvent{Kind: EventOther}}
}
