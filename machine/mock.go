package machine

import "sync"

// check MockMachine compliance to its interface during compile time
var _ Machine = (*MockMachine)(nil)

// MockMachine records indicator changes instead of driving hardware.
type MockMachine struct {
	mtx     sync.Mutex
	on      bool
	toggles int
	blinks  int
}

func NewMockMachine() *MockMachine {
	return &MockMachine{}
}

func (m *MockMachine) Start() error { return nil }
func (m *MockMachine) Stop() error  { return nil }

func (m *MockMachine) ToggleIndicator(on bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.on = on
	m.toggles++
}

func (m *MockMachine) DiagnosticBlink() {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.blinks++
}

// Indicator reports whether the status LED would be lit.
func (m *MockMachine) Indicator() bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.on
}

func (m *MockMachine) Blinks() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.blinks
}

func (m *MockMachine) Toggles() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.toggles
}
