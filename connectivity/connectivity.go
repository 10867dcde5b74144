package connectivity

import (
	"context"
	"sync"

	"github.com/the-lightning-land/boardd/network"
)

type State int

const (
	Offline State = iota
	Online
)

func (s State) String() string {
	switch s {
	case Offline:
		return "OFFLINE"
	case Online:
		return "ONLINE"
	default:
		return "INVALID STATE"
	}
}

type Reporter interface {
	CurrentState() State
	WaitForStateChange(context.Context, State) bool
}

// check NetworkReporter compliance to its interface during compile time
var _ Reporter = (*NetworkReporter)(nil)

// Subscriber is the part of the supervisor the reporter listens to.
type Subscriber interface {
	Subscribe() *network.Client
}

type Config struct {
	Supervisor Subscriber
	Logger     Logger
}

// NetworkReporter follows supervisor state changes. Loss of a connection
// between attempts is reported through Report.
type NetworkReporter struct {
	log        Logger
	supervisor Subscriber
	client     *network.Client
	done       chan struct{}
	mtx        sync.Mutex
	state      State
	changed    chan struct{}
}

func NewReporter(config *Config) *NetworkReporter {
	r := &NetworkReporter{
		supervisor: config.Supervisor,
		state:      Offline,
		changed:    make(chan struct{}),
	}

	if config.Logger != nil {
		r.log = config.Logger
	} else {
		r.log = noopLogger{}
	}

	return r
}

func (r *NetworkReporter) Start() {
	r.client = r.supervisor.Subscribe()
	r.done = make(chan struct{})

	go r.follow(r.client.Updates, r.done)
}

func (r *NetworkReporter) Stop() {
	if r.client != nil {
		r.client.Cancel()
		<-r.done
		r.client = nil
	}
}

func (r *NetworkReporter) follow(updates <-chan *network.StateChange, done chan<- struct{}) {
	defer close(done)

	for change := range updates {
		switch change.State {
		case network.Connected:
			r.Report(Online)
		case network.Scanning:
			// a new attempt replaces whatever association there was
			r.Report(Offline)
		}
	}
}

// Report sets the current state and wakes up waiters if it changed.
func (r *NetworkReporter) Report(state State) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.state == state {
		return
	}

	r.log.Infof("Connectivity changed from %v to %v", r.state, state)

	r.state = state
	close(r.changed)
	r.changed = make(chan struct{})
}

func (r *NetworkReporter) CurrentState() State {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return r.state
}

// WaitForStateChange blocks until the state differs from state. It returns
// false if ctx is done first.
func (r *NetworkReporter) WaitForStateChange(ctx context.Context, state State) bool {
	for {
		r.mtx.Lock()
		current := r.state
		changed := r.changed
		r.mtx.Unlock()

		if current != state {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-changed:
		}
	}
}
