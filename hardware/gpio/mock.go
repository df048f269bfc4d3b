// Use to stub the enable pin in tests.
package gpio

import (
	"github.com/stretchr/testify/mock"
)

type MockPin struct{ mock.Mock }

var _ Pin = new(MockPin)

func (m *MockPin) Set(level bool) error { return m.Called(level).Error(0) }

func (m *MockPin) Close() error { return m.Called().Error(0) }

// SetCount returns how many times Set was called with level.
func (m *MockPin) SetCount(level bool) int {
	n := 0
	for _, c := range m.Calls {
		if c.Method == "Set" && c.Arguments.Bool(0) == level {
			n++
		}
	}
	return n
}
