package scan

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/temoto/alive/v2"

	"github.com/vmc-kiosk/scanner/hardware/gpio"
	"github.com/vmc-kiosk/scanner/hardware/input"
	"github.com/vmc-kiosk/scanner/log2"
)

func newTestScanner(t testing.TB, source *input.MockSource, conf Config) (*Scanner, *gpio.MockPin) {
	pin := new(gpio.MockPin)
	pin.On("Set", mock.Anything).Return(nil)
	if conf.Settle == 0 {
		conf.Settle = time.Millisecond
	}
	s := New(log2.NewTest(t, log2.LDebug), alive.NewAlive(), pin, source, conf)
	return s, pin
}

func TestScanSimple(t *testing.T) {
	t.Parallel()

	source := &input.MockSource{Events: []input.MockRead{
		input.Down(input.KeycodeA),
		input.Up(input.KeycodeA),
		input.Down(input.KeycodeEnter),
	}}
	s, pin := newTestScanner(t, source, Config{})
	result, err := s.Scan(1)
	require.NoError(t, err)
	assert.True(t, result.Ok)
	assert.Equal(t, "a", result.Code)
	assert.Equal(t, 1, result.Tries)
	assert.Equal(t, 1, source.GrabCount)
	assert.Equal(t, 1, pin.SetCount(true))
	assert.Equal(t, 1, pin.SetCount(false))
}

func TestScanShift(t *testing.T) {
	t.Parallel()

	// shift held over 'a', released before 'b'
	source := &input.MockSource{Events: []input.MockRead{
		input.Down(input.KeycodeLeftShift),
		input.Down(input.KeycodeA),
		input.Up(input.KeycodeLeftShift),
		input.Down(input.KeycodeB),
		input.Down(input.KeycodeEnter),
	}}
	s, _ := newTestScanner(t, source, Config{})
	result, err := s.Scan(1)
	require.NoError(t, err)
	assert.Equal(t, "Ab", result.Code)
}

func TestScanMixed(t *testing.T) {
	t.Parallel()

	// non-key events and autorepeat are ignored, unmapped keys are
	// dropped silently
	source := &input.MockSource{Events: []input.MockRead{
		input.Other(),
		input.Down(input.Keycode1),
		{Event: input.KeyEvent{Kind: input.EventKey, Code: input.Keycode1, State: input.KeyHold}},
		input.Down(15), // tab, not in the tables
		input.Down(input.KeycodeRightShift),
		input.Down(input.Keycode2),
		input.Up(input.KeycodeRightShift),
		input.Down(input.KeycodeDot),
		input.Down(input.KeycodeEnter),
	}}
	s, _ := newTestScanner(t, source, Config{})
	result, err := s.Scan(1)
	require.NoError(t, err)
	assert.Equal(t, "1@.", result.Code)
}

func TestScanBufferFill(t *testing.T) {
	t.Parallel()

	// exactly MaxCode-1 mapped presses finalize without a terminator
	const maxCode = 8
	events := make([]input.MockRead, 0, maxCode)
	for i := 0; i < maxCode-1; i++ {
		events = append(events, input.Down(input.KeycodeX))
	}
	source := &input.MockSource{Events: events}
	s, _ := newTestScanner(t, source, Config{MaxCode: maxCode})
	result, err := s.Scan(1)
	require.NoError(t, err)
	assert.True(t, result.Ok)
	assert.Equal(t, strings.Repeat("x", maxCode-1), result.Code)
}

func TestScanEmptyCode(t *testing.T) {
	t.Parallel()

	// bare terminator yields a captured empty code, not exhaustion
	source := &input.MockSource{Events: []input.MockRead{
		input.Down(input.KeycodeEnter),
	}}
	s, _ := newTestScanner(t, source, Config{})
	result, err := s.Scan(1)
	require.NoError(t, err)
	assert.True(t, result.Ok)
	assert.Equal(t, "", result.Code)
}

func TestScanRetryExhaustion(t *testing.T) {
	t.Parallel()

	const tries = 3
	source := &input.MockSource{} // never ready
	s, pin := newTestScanner(t, source, Config{PollTimeout: 10 * time.Millisecond})
	result, err := s.Scan(tries)
	require.NoError(t, err)
	assert.False(t, result.Ok)
	assert.Equal(t, tries, result.Tries)
	assert.Equal(t, tries, source.WaitCount)
	assert.Equal(t, tries, pin.SetCount(true))
	assert.Equal(t, tries, pin.SetCount(false))
}

func TestScanWaitError(t *testing.T) {
	t.Parallel()

	source := &input.MockSource{Waits: []input.MockWait{
		{Ready: false, Err: io.ErrClosedPipe},
	}}
	s, pin := newTestScanner(t, source, Config{})
	result, err := s.Scan(5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan wait")
	assert.Equal(t, 1, result.Tries)
	assert.Equal(t, 1, pin.SetCount(false))
}

func TestScanReadErrorShortCircuit(t *testing.T) {
	t.Parallel()

	// try 1 times out clean, try 2 hits a short read: tries 3..5 must
	// never run and the pin is lowered exactly once more
	source := &input.MockSource{
		Waits: []input.MockWait{
			{Ready: false},
			{Ready: true},
		},
		Events: []input.MockRead{
			{Err: io.ErrUnexpectedEOF},
		},
	}
	s, pin := newTestScanner(t, source, Config{PollTimeout: 10 * time.Millisecond})
	result, err := s.Scan(5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan read")
	assert.Equal(t, 2, result.Tries)
	assert.Equal(t, 2, source.WaitCount)
	assert.Equal(t, 2, pin.SetCount(true))
	assert.Equal(t, 2, pin.SetCount(false))
}

func TestScanGrabError(t *testing.T) {
	t.Parallel()

	source := &input.MockSource{GrabErr: io.ErrClosedPipe}
	s, pin := newTestScanner(t, source, Config{})
	result, err := s.Scan(5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan grab")
	assert.Equal(t, 0, result.Tries)
	assert.Equal(t, 0, pin.SetCount(true))
}

func TestScanStop(t *testing.T) {
	t.Parallel()

	source := &input.MockSource{} // never ready
	pin := new(gpio.MockPin)
	pin.On("Set", mock.Anything).Return(nil)
	a := alive.NewAlive()
	s := New(log2.NewTest(t, log2.LDebug), a, pin, source, Config{
		PollTimeout: 10 * time.Millisecond,
		Settle:      time.Millisecond,
	})
	a.Stop()
	result, err := s.Scan(1000)
	require.NoError(t, err)
	assert.False(t, result.Ok)
	assert.Equal(t, 0, result.Tries)
}
