package board

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/go-errors/errors"
	"github.com/the-lightning-land/boardd/boarddb"
	"github.com/the-lightning-land/boardd/boardlog"
	"github.com/the-lightning-land/boardd/connectivity"
	"github.com/the-lightning-land/boardd/knownnet"
	"github.com/the-lightning-land/boardd/machine"
	"github.com/the-lightning-land/boardd/network"
)

// Board keeps the board connected to the strongest known network and
// signals its connectivity through the machine, mDNS and the api.
type Board struct {
	log            Logger
	radio          network.Radio
	supervisor     *network.Supervisor
	networks       *knownnet.Store
	reporter       *connectivity.NetworkReporter
	machine        machine.Machine
	db             *boarddb.DB
	boardLog       *boardlog.BoardLog
	announcer      Announcer
	pinger         Pinger
	gateway        func() (net.IP, error)
	api            Api
	apiListen      string
	apiListeners   []net.Listener
	listenersMtx   sync.Mutex
	namePrefix     string
	retryInterval  time.Duration
	qualitySamples int
	reconnect      chan struct{}
	done           chan struct{}
	shutdown       sync.Once
}

func NewBoard(config *Config) *Board {
	board := &Board{
		radio:          config.Radio,
		supervisor:     config.Supervisor,
		networks:       config.Networks,
		reporter:       config.Reporter,
		machine:        config.Machine,
		db:             config.DB,
		boardLog:       config.BoardLog,
		announcer:      config.Announcer,
		pinger:         config.Pinger,
		gateway:        config.Gateway,
		api:            config.Api,
		apiListen:      config.ApiListen,
		namePrefix:     config.NamePrefix,
		retryInterval:  config.RetryInterval,
		qualitySamples: config.QualitySamples,
		reconnect:      make(chan struct{}, 1),
		done:           make(chan struct{}),
	}

	if config.Logger != nil {
		board.log = config.Logger
	} else {
		board.log = noopLogger{}
	}

	if board.namePrefix == "" {
		board.namePrefix = DefaultNamePrefix
	}

	if board.retryInterval <= 0 {
		board.retryInterval = DefaultRetryInterval
	}

	if board.qualitySamples <= 0 {
		board.qualitySamples = DefaultQualitySamples
	}

	if board.api != nil {
		board.api.SetBoard(board)
	}

	return board
}

// Run serves the api and keeps the board connected until Shutdown is called.
func (b *Board) Run() error {
	b.log.Infof("Starting board...")

	// Signal successful startup with two short blinks
	b.machine.DiagnosticBlink()

	if b.api != nil && b.apiListen != "" {
		lis, err := net.Listen("tcp", b.apiListen)
		if err != nil {
			return errors.Errorf("api unable to listen on %v: %v", b.apiListen, err)
		}

		b.listenersMtx.Lock()
		b.apiListeners = append(b.apiListeners, lis)
		b.listenersMtx.Unlock()

		go func() {
			err := b.api.Serve(lis)
			if err != nil {
				b.log.Errorf("Could not serve api: %v", err)
			}
		}()

		b.log.Infof("Serving api on %v", lis.Addr())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		<-b.done
		cancel()
	}()

	b.maybeConnect(ctx)

	ticker := time.NewTicker(b.retryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.maybeConnect(ctx)

		case <-b.reconnect:
			b.log.Infof("Reconnecting on request")

			if _, err := b.Configure(ctx); err != nil {
				b.log.Errorf("Could not reconnect: %v", err)
			}

		case <-b.done:
			// finish loop when program is done
			return nil
		}
	}
}

// maybeConnect starts a connect cycle unless the radio is connected.
func (b *Board) maybeConnect(ctx context.Context) {
	if b.supervisor.IsConnected() {
		return
	}

	if b.reporter != nil && b.reporter.CurrentState() == connectivity.Online {
		b.log.Warnf("Lost connection to the network")
		b.goneOffline()
	}

	_, err := b.Configure(ctx)
	if errors.Is(err, network.ErrConnectInProgress) {
		b.log.Debugf("Connection attempt still in progress")
	} else if err != nil {
		b.log.Errorf("Could not connect: %v", err)
	}
}

// Configure runs one connect cycle and, once connected, announces the board
// and logs details about the joined network.
func (b *Board) Configure(ctx context.Context) (*network.Attempt, error) {
	attempt, err := b.supervisor.Connect(ctx)
	if err != nil {
		if !errors.Is(err, network.ErrConnectInProgress) {
			b.goneOffline()
		}
		return attempt, err
	}

	if attempt.State != network.Connected {
		b.goneOffline()
		return attempt, nil
	}

	b.machine.ToggleIndicator(true)

	err = b.db.SetLastConnection(&boarddb.Connection{
		Ssid:    attempt.Ssid(),
		Address: attempt.Address.String(),
		Time:    attempt.Finished,
	})
	if err != nil {
		b.log.Errorf("Could not save last connection: %v", err)
	}

	b.announce(attempt)
	b.LogWirelessDetails(ctx, attempt)
	b.checkGateway(ctx)

	return attempt, nil
}

func (b *Board) goneOffline() {
	if b.reporter != nil {
		b.reporter.Report(connectivity.Offline)
	}

	b.machine.ToggleIndicator(false)

	if b.announcer != nil {
		b.announcer.Withdraw()
	}
}

func (b *Board) announce(attempt *network.Attempt) {
	if b.announcer == nil {
		return
	}

	name, err := b.Name()
	if err != nil {
		b.log.Errorf("Could not get name: %v", err)
		return
	}

	err = b.announcer.Announce(name, []string{
		"ssid=" + attempt.Ssid(),
		"address=" + attempt.Address.String(),
	})
	if err != nil {
		b.log.Errorf("Could not announce %v: %v", name, err)
	}
}

// LogWirelessDetails logs the joined network along with its averaged signal
// strength.
func (b *Board) LogWirelessDetails(ctx context.Context, attempt *network.Attempt) {
	b.log.Infof("Access point name: %v", attempt.Ssid())

	if attempt.Candidate != nil {
		b.log.Infof("Encryption type: %v", attempt.Candidate.Encryption)
	}

	rssi, err := b.supervisor.AverageRSSI(ctx, b.qualitySamples)
	if err != nil {
		b.log.Warnf("Could not read signal strength: %v", err)
	} else {
		b.log.Infof("Signal strength: %d dBm (%v)", rssi, network.EvalSignal(rssi))
	}

	mac, err := b.radio.HardwareAddr()
	if err != nil {
		b.log.Warnf("Could not read MAC address: %v", err)
	} else {
		b.log.Infof("MAC address: %v", mac)
	}

	b.log.Infof("IP address: %v", attempt.Address)
}

func (b *Board) checkGateway(ctx context.Context) {
	if b.pinger == nil || b.gateway == nil {
		return
	}

	gw, err := b.gateway()
	if err != nil {
		b.log.Warnf("Could not find gateway: %v", err)
		return
	}

	stats, err := b.pinger.Ping(ctx, gw, 1)
	if err != nil {
		b.log.Warnf("Could not ping gateway %v: %v", gw, err)
		return
	}

	if stats.Reachable() {
		b.log.Infof("Gateway %v answered in %v", gw, stats.AverageRtt())
	} else {
		b.log.Warnf("Gateway %v did not answer", gw)
	}
}

// Reconnect asks the run loop for a new connect cycle.
func (b *Board) Reconnect() {
	select {
	case b.reconnect <- struct{}{}:
	default:
	}
}

func (b *Board) Shutdown() {
	b.shutdown.Do(func() {
		b.listenersMtx.Lock()
		defer b.listenersMtx.Unlock()

		for _, lis := range b.apiListeners {
			err := lis.Close()
			if err != nil {
				b.log.Errorf("Could not close listener: %v", err)
			}
		}

		if b.announcer != nil {
			b.announcer.Withdraw()
		}

		close(b.done)
	})
}
