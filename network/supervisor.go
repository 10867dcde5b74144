package network

import (
	"context"
	"sync"
	"time"

	"github.com/go-errors/errors"
)

const (
	DefaultPollInterval   = 500 * time.Millisecond
	DefaultSampleInterval = 20 * time.Millisecond

	// updates buffered per subscriber before further ones get dropped
	clientBuffer = 16
)

type SupervisorConfig struct {
	Radio    Radio
	Networks KnownNetworks
	Logger   Logger

	// PollInterval is the delay between connection status checks.
	PollInterval time.Duration

	// SampleInterval is the delay between two signal readings.
	SampleInterval time.Duration

	// ConnectTimeout bounds the wait for an address. Zero waits until the
	// context passed to Connect is done.
	ConnectTimeout time.Duration
}

// Supervisor drives the radio through scan, association and address
// acquisition.
type Supervisor struct {
	log            Logger
	radio          Radio
	networks       KnownNetworks
	pollInterval   time.Duration
	sampleInterval time.Duration
	connectTimeout time.Duration

	// held for the whole of Connect
	connecting sync.Mutex

	mtx          sync.RWMutex
	state        State
	last         *Attempt
	cancelEvents func()
	clients      map[uint32]*Client
	nextClient   uint32
}

func NewSupervisor(config *SupervisorConfig) *Supervisor {
	s := &Supervisor{
		radio:          config.Radio,
		networks:       config.Networks,
		pollInterval:   config.PollInterval,
		sampleInterval: config.SampleInterval,
		connectTimeout: config.ConnectTimeout,
		state:          Idle,
		clients:        make(map[uint32]*Client),
	}

	if config.Logger != nil {
		s.log = config.Logger
	} else {
		s.log = noopLogger{}
	}

	if s.networks == nil {
		s.networks = StaticNetworks(nil)
	}

	if s.pollInterval <= 0 {
		s.pollInterval = DefaultPollInterval
	}

	if s.sampleInterval <= 0 {
		s.sampleInterval = DefaultSampleInterval
	}

	return s
}

// Connect scans for known networks, associates with the strongest one and
// blocks until the radio reports an acquired address.
//
// Not finding any known network is not an error: the returned attempt ends
// in FailedNoKnownNetwork and the caller may try again later. Connect returns
// ErrConnectInProgress if another call is still running.
func (s *Supervisor) Connect(ctx context.Context) (*Attempt, error) {
	if !s.connecting.TryLock() {
		return nil, ErrConnectInProgress
	}
	defer s.connecting.Unlock()

	attempt := &Attempt{
		State:   Idle,
		Status:  StatusIdle,
		Started: time.Now(),
	}

	s.setState(attempt, Scanning)

	known, err := s.networks.KnownNetworks()
	if err != nil {
		s.finish(attempt, Idle)
		return attempt, errors.Errorf("could not list known networks: %v", err)
	}

	s.log.Debugf("Scanning for one of %d known networks", len(known))

	scan, err := s.radio.Scan(ctx)
	if err != nil {
		s.finish(attempt, Idle)
		return attempt, errors.Errorf("could not scan: %v", err)
	}

	s.log.Debugf("Scan found %d networks", len(scan))

	candidate := SelectBest(known, scan)
	if candidate == nil {
		s.log.Infof("No known network was detected. Cannot connect at this time.")
		s.finish(attempt, FailedNoKnownNetwork)
		return attempt, nil
	}

	attempt.Candidate = candidate

	s.setState(attempt, Associating)
	s.watchEvents()

	err = s.radio.Associate(candidate.Ssid, candidate.Psk)
	if err != nil {
		s.finish(attempt, Idle)
		return attempt, errors.Errorf("could not associate with %v: %v", candidate.Ssid, err)
	}

	s.log.Infof("Attempting to connect to %v (%d dBm)", candidate.Ssid, candidate.Signal)

	s.setState(attempt, WaitingForAddress)

	attempt.Status, err = s.waitForAddress(ctx)
	if errors.Is(err, ErrConnectTimeout) {
		s.log.Warnf("Gave up waiting for an address from %v with status %v", candidate.Ssid, attempt.Status)
		s.finish(attempt, FailedTimeout)
		return attempt, err
	} else if err != nil {
		s.finish(attempt, Idle)
		return attempt, err
	}

	attempt.Address, err = s.radio.LocalAddress()
	if err != nil {
		s.log.Warnf("Could not read local address: %v", err)
	}

	s.log.Infof("Connected to %v with status code %d (%v) and address %v",
		candidate.Ssid, attempt.Status, attempt.Status, attempt.Address)

	s.finish(attempt, Connected)

	return attempt, nil
}

func (s *Supervisor) waitForAddress(ctx context.Context) (Status, error) {
	if s.connectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.connectTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	last := Status(-1)

	for {
		status, err := s.radio.ConnectionStatus()
		if err != nil {
			return status, errors.Errorf("could not get connection status: %v", err)
		}

		if status == StatusConnected {
			return status, nil
		}

		if status != last {
			s.log.Debugf("Waiting for an address, status is %v", status)
			last = status
		}

		select {
		case <-ctx.Done():
			return status, errors.Errorf("%w: %v", ErrConnectTimeout, ctx.Err())
		case <-ticker.C:
		}
	}
}

// watchEvents (re)registers the radio event logger.
func (s *Supervisor) watchEvents() {
	cancel := s.radio.OnStatusChange(func(event *Event) {
		if event.Reason != "" {
			s.log.Debugf("Radio event %v (%v)", event.Status, event.Reason)
		} else {
			s.log.Debugf("Radio event %v", event.Status)
		}
	})

	s.mtx.Lock()
	previous := s.cancelEvents
	s.cancelEvents = cancel
	s.mtx.Unlock()

	if previous != nil {
		previous()
	}
}

// IsConnected reports whether the radio currently holds a connection.
func (s *Supervisor) IsConnected() bool {
	status, err := s.radio.ConnectionStatus()
	if err != nil {
		s.log.Debugf("Could not get connection status: %v", err)
		return false
	}

	return status == StatusConnected
}

// AverageRSSI averages samples signal readings taken SampleInterval apart.
// The mean is truncated toward zero.
func (s *Supervisor) AverageRSSI(ctx context.Context, samples int) (int, error) {
	if samples < 1 {
		samples = 1
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	total := 0

	for i := 0; i < samples; i++ {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-timer.C:
		}

		rssi, err := s.radio.RSSI()
		if err != nil {
			return 0, errors.Errorf("could not read signal strength: %v", err)
		}

		total += rssi

		timer.Reset(s.sampleInterval)
	}

	return total / samples, nil
}

// SignalQuality grades the averaged signal strength of the current connection.
func (s *Supervisor) SignalQuality(ctx context.Context, samples int) (Quality, error) {
	rssi, err := s.AverageRSSI(ctx, samples)
	if err != nil {
		return Unusable, err
	}

	return EvalSignal(rssi), nil
}

// State returns the phase of the current or most recent connect cycle.
func (s *Supervisor) State() State {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.state
}

// LastAttempt returns a copy of the most recently finished attempt, or nil.
func (s *Supervisor) LastAttempt() *Attempt {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.last == nil {
		return nil
	}

	attempt := *s.last

	return &attempt
}

// Close releases the radio event registration.
func (s *Supervisor) Close() {
	s.mtx.Lock()
	cancel := s.cancelEvents
	s.cancelEvents = nil
	s.mtx.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (s *Supervisor) finish(attempt *Attempt, state State) {
	attempt.Finished = time.Now()
	attempt.State = state

	s.mtx.Lock()
	last := *attempt
	s.last = &last
	s.mtx.Unlock()

	s.setState(attempt, state)
}

func (s *Supervisor) setState(attempt *Attempt, state State) {
	attempt.State = state

	change := &StateChange{
		State:   state,
		Ssid:    attempt.Ssid(),
		Status:  attempt.Status,
		Address: attempt.Address,
		Time:    time.Now(),
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.state = state

	for _, client := range s.clients {
		select {
		case client.updates <- change:
		default:
			s.log.Debugf("Dropped state change for slow subscriber %d", client.Id)
		}
	}
}

// Subscribe returns a client receiving every subsequent state change.
func (s *Supervisor) Subscribe() *Client {
	updates := make(chan *StateChange, clientBuffer)

	client := &Client{
		Updates:    updates,
		updates:    updates,
		supervisor: s,
	}

	s.mtx.Lock()
	client.Id = s.nextClient
	s.nextClient++
	s.clients[client.Id] = client
	s.mtx.Unlock()

	return client
}

func (s *Supervisor) deleteClient(id uint32) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if client, ok := s.clients[id]; ok {
		delete(s.clients, id)
		close(client.updates)
	}
}
