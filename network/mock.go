package network

import (
	"context"
	"net"
	"sync"

	"github.com/go-errors/errors"
)

// check MockRadio compliance to its interface during compile time
var _ Radio = (*MockRadio)(nil)

// MockRadio is an in-memory radio with scripted scan results and statuses.
type MockRadio struct {
	mtx          sync.Mutex
	started      bool
	wifis        []*Wifi
	scanErr      error
	associateErr error
	script       []Status
	status       Status
	readings     []int
	reading      int
	address      net.IP
	hardwareAddr net.HardwareAddr
	associations []KnownNetwork
	scans        int
	handlers     map[uint32]func(*Event)
	nextHandler  uint32
}

func NewMockRadio() *MockRadio {
	return &MockRadio{
		status:       StatusIdle,
		script:       []Status{StatusDisconnected, StatusConnected},
		readings:     []int{-60},
		address:      net.IPv4(192, 168, 4, 2),
		hardwareAddr: net.HardwareAddr{0x24, 0x0a, 0xc4, 0x00, 0x00, 0x01},
		handlers:     make(map[uint32]func(*Event)),
	}
}

// SetWifis replaces the networks returned by the next scans.
func (m *MockRadio) SetWifis(wifis ...*Wifi) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.wifis = wifis
}

// SetScript sets the statuses reported after an association, one per
// ConnectionStatus call. The last one repeats.
func (m *MockRadio) SetScript(statuses ...Status) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.script = statuses
}

// SetReadings sets the signal readings RSSI cycles through.
func (m *MockRadio) SetReadings(readings ...int) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.readings = readings
	m.reading = 0
}

func (m *MockRadio) SetScanError(err error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.scanErr = err
}

func (m *MockRadio) SetAssociateError(err error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.associateErr = err
}

// SetStatus forces the reported status, e.g. to simulate a lost connection.
func (m *MockRadio) SetStatus(status Status) {
	m.mtx.Lock()
	m.script = nil
	m.status = status
	m.mtx.Unlock()

	m.emit(&Event{Status: status})
}

// Associations returns every network Associate was called with.
func (m *MockRadio) Associations() []KnownNetwork {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return append([]KnownNetwork(nil), m.associations...)
}

// Scans returns how many scans were run.
func (m *MockRadio) Scans() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.scans
}

// Handlers returns how many status-change callbacks are registered.
func (m *MockRadio) Handlers() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return len(m.handlers)
}

func (m *MockRadio) Start() error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.started = true

	return nil
}

func (m *MockRadio) Stop() error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.started = false

	return nil
}

func (m *MockRadio) Scan(ctx context.Context) ([]*Wifi, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.scanErr != nil {
		return nil, m.scanErr
	}

	m.scans++

	wifis := make([]*Wifi, 0, len(m.wifis))
	for _, wifi := range m.wifis {
		w := *wifi
		wifis = append(wifis, &w)
	}

	return wifis, nil
}

func (m *MockRadio) Associate(ssid string, psk string) error {
	m.mtx.Lock()

	if m.associateErr != nil {
		m.mtx.Unlock()
		return m.associateErr
	}

	m.associations = append(m.associations, KnownNetwork{Ssid: ssid, Psk: psk})
	m.status = StatusDisconnected
	script := m.script
	m.mtx.Unlock()

	if len(script) == 0 {
		return errors.New("no status script")
	}

	m.emit(&Event{Status: StatusDisconnected, Reason: "associating with " + ssid})

	return nil
}

func (m *MockRadio) ConnectionStatus() (Status, error) {
	m.mtx.Lock()

	if len(m.associations) == 0 || len(m.script) == 0 {
		status := m.status
		m.mtx.Unlock()
		return status, nil
	}

	next := m.script[0]
	if len(m.script) > 1 {
		m.script = m.script[1:]
	}

	changed := next != m.status
	m.status = next
	m.mtx.Unlock()

	if changed {
		m.emit(&Event{Status: next})
	}

	return next, nil
}

func (m *MockRadio) OnStatusChange(handler func(*Event)) func() {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	id := m.nextHandler
	m.nextHandler++
	m.handlers[id] = handler

	return func() {
		m.mtx.Lock()
		defer m.mtx.Unlock()

		delete(m.handlers, id)
	}
}

func (m *MockRadio) RSSI() (int, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if len(m.readings) == 0 {
		return floorSignal, nil
	}

	rssi := m.readings[m.reading%len(m.readings)]
	m.reading++

	return rssi, nil
}

func (m *MockRadio) LocalAddress() (net.IP, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.status != StatusConnected {
		return nil, nil
	}

	return m.address, nil
}

func (m *MockRadio) HardwareAddr() (net.HardwareAddr, error) {
	return m.hardwareAddr, nil
}

func (m *MockRadio) emit(event *Event) {
	m.mtx.Lock()
	handlers := make([]func(*Event), 0, len(m.handlers))
	for _, handler := range m.handlers {
		handlers = append(handlers, handler)
	}
	m.mtx.Unlock()

	for _, handler := range handlers {
		handler(event)
	}
}
