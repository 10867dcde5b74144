package machine

import (
	"sync"
	"time"

	"github.com/go-errors/errors"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

// check RaspberryMachine compliance to its interface during compile time
var _ Machine = (*RaspberryMachine)(nil)

const blinkDuration = 150 * time.Millisecond

type RaspberryMachineConfig struct {
	// LedPin is the GPIO name of the status LED, e.g. GPIO17.
	LedPin string
	Logger Logger
}

type RaspberryMachine struct {
	log    Logger
	ledPin string
	led    gpio.PinIO
	mtx    sync.Mutex
	on     bool
}

func NewRaspberryMachine(config *RaspberryMachineConfig) *RaspberryMachine {
	m := &RaspberryMachine{
		ledPin: config.LedPin,
	}

	if config.Logger != nil {
		m.log = config.Logger
	} else {
		m.log = noopLogger{}
	}

	return m
}

func (m *RaspberryMachine) Start() error {
	if _, err := host.Init(); err != nil {
		return errors.Errorf("could not initialize periph: %v", err)
	}

	m.led = gpioreg.ByName(m.ledPin)
	if m.led == nil {
		return errors.Errorf("could not find led pin %v", m.ledPin)
	}

	if err := m.led.Out(gpio.Low); err != nil {
		return errors.Errorf("could not reset led pin %v: %v", m.ledPin, err)
	}

	return nil
}

func (m *RaspberryMachine) Stop() error {
	if m.led == nil {
		return nil
	}

	if err := m.led.Out(gpio.Low); err != nil {
		return errors.Errorf("could not turn off led pin %v: %v", m.ledPin, err)
	}

	return nil
}

func (m *RaspberryMachine) ToggleIndicator(on bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.on = on
	m.write(on)
}

func (m *RaspberryMachine) DiagnosticBlink() {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	for i := 0; i < 2; i++ {
		m.write(true)
		time.Sleep(blinkDuration)
		m.write(false)
		time.Sleep(blinkDuration)
	}

	m.write(m.on)
}

func (m *RaspberryMachine) write(on bool) {
	if m.led == nil {
		return
	}

	if err := m.led.Out(gpio.Level(on)); err != nil {
		m.log.Errorf("Could not switch led pin %v: %v", m.ledPin, err)
	}
}
