// Abstract key event source for the scanner.
package input

import "time"

type EventKind byte

const (
	EventOther EventKind = iota
	EventKey
)

// Mirrors linux input_event value for EV_KEY.
type KeyState int32

const (
	KeyUp   KeyState = 0
	KeyDown KeyState = 1
	KeyHold KeyState = 2
)

type KeyEvent struct {
	Kind  EventKind
	Code  uint16
	State KeyState
}

func (e KeyEvent) Down() bool { return e.Kind == EventKey && e.State == KeyDown }
func (e KeyEvent) Up() bool   { return e.Kind == EventKey && e.State == KeyUp }

type Source interface {
	// WaitReady blocks until the next ReadEvent would not block, up to
	// timeout. false,nil means timeout expired with nothing to read.
	WaitReady(timeout time.Duration) (bool, error)

	// ReadEvent returns exactly one event. Short reads and closed
	// devices surface as errors, never as partial events.
	ReadEvent() (KeyEvent, error)

	// Grab requests exclusive access so no other process observes the
	// same key events.
	Grab() error

	Close() error
	String() string
}
