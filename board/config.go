package board

import (
	"net"
	"time"

	"github.com/the-lightning-land/boardd/boarddb"
	"github.com/the-lightning-land/boardd/boardlog"
	"github.com/the-lightning-land/boardd/connectivity"
	"github.com/the-lightning-land/boardd/knownnet"
	"github.com/the-lightning-land/boardd/machine"
	"github.com/the-lightning-land/boardd/network"
)

const (
	DefaultRetryInterval  = 30 * time.Second
	DefaultQualitySamples = 10
	DefaultNamePrefix     = "board-"
)

type Config struct {
	Radio      network.Radio
	Supervisor *network.Supervisor
	Networks   *knownnet.Store
	Reporter   *connectivity.NetworkReporter
	Machine    machine.Machine
	DB         *boarddb.DB
	BoardLog   *boardlog.BoardLog

	// Optional collaborators, left out on boards without them.
	Announcer Announcer
	Pinger    Pinger
	Gateway   func() (net.IP, error)
	Api       Api

	// ApiListen is the address the api is served on, empty disables it.
	ApiListen string

	NamePrefix     string
	RetryInterval  time.Duration
	QualitySamples int

	Logger Logger
}
