// Package announce publishes the board on the local network through mDNS.
package announce

import (
	"sync"

	"github.com/go-errors/errors"
	"github.com/grandcat/zeroconf"
)

const (
	DefaultService = "_boardd._tcp"
	domain         = "local."
)

type Logger interface {
	Infof(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(format string, args ...interface{}) {}

type Config struct {
	Service string
	// Port of the api that gets announced.
	Port   int
	Logger Logger
}

type Announcer struct {
	log     Logger
	service string
	port    int
	mtx     sync.Mutex
	server  *zeroconf.Server
	name    string
}

func New(config *Config) *Announcer {
	a := &Announcer{
		service: config.Service,
		port:    config.Port,
	}

	if config.Logger != nil {
		a.log = config.Logger
	} else {
		a.log = noopLogger{}
	}

	if a.service == "" {
		a.service = DefaultService
	}

	return a
}

// Announce registers name with the given TXT records. A previous
// registration under another name is withdrawn first.
func (a *Announcer) Announce(name string, text []string) error {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	if a.server != nil {
		if a.name == name {
			return nil
		}

		a.server.Shutdown()
		a.server = nil
	}

	server, err := zeroconf.Register(name, a.service, domain, a.port, text, nil)
	if err != nil {
		return errors.Errorf("could not register %v as %v: %v", name, a.service, err)
	}

	a.server = server
	a.name = name

	a.log.Infof("Announced %v as %v on port %d", name, a.service, a.port)

	return nil
}

// Withdraw stops announcing the board.
func (a *Announcer) Withdraw() {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	if a.server == nil {
		return
	}

	a.server.Shutdown()
	a.server = nil
	a.name = ""
}

// Name returns the currently announced name, or an empty string.
func (a *Announcer) Name() string {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	return a.name
}
