package main

import (
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	// Blank import to set up profiling HTTP handlers.
	_ "net/http/pprof"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/the-lightning-land/boardd/announce"
	"github.com/the-lightning-land/boardd/api"
	"github.com/the-lightning-land/boardd/board"
	"github.com/the-lightning-land/boardd/boarddb"
	"github.com/the-lightning-land/boardd/boardlog"
	"github.com/the-lightning-land/boardd/connectivity"
	"github.com/the-lightning-land/boardd/knownnet"
	"github.com/the-lightning-land/boardd/machine"
	"github.com/the-lightning-land/boardd/network"
	"github.com/the-lightning-land/boardd/pairing"
	"github.com/the-lightning-land/boardd/reach"
)

var (
	// Commit stores the current commit hash of this build. This should be set using -ldflags during compilation.
	Commit string
	// Version stores the version string of this build. This should be set using -ldflags during compilation.
	Version string
	// Date stores the date of this build. This should be set using -ldflags during compilation.
	Date string
)

// boarddMain is the true entry point for boardd. This is required since defers
// created in the top-level scope of a main method aren't executed if os.Exit() is called.
func boarddMain() error {
	boardLog := boardlog.New()

	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
	log.AddHook(boardLog)

	// Load CLI configuration and defaults
	cfg, err := loadConfig()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		return nil
	} else if err != nil {
		return errors.Errorf("Failed parsing arguments: %v", err)
	}

	// Set logger into debug mode if called with --debug
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
		log.Info("Setting debug mode.")
	}

	log.Debug("Loaded config.")

	// Print version of the daemon
	log.Infof("Version %s (commit %s)", Version, Commit)
	log.Infof("Built on %s", Date)

	// Stop here if only version was requested
	if cfg.ShowVersion {
		return nil
	}

	if cfg.Profiling.Listen != "" {
		go func() {
			log.Infof("Starting profiling server on %v", cfg.Profiling.Listen)
			// Redirect the root path
			http.Handle("/", http.RedirectHandler("/debug/pprof", http.StatusSeeOther))
			// All other handlers are registered on DefaultServeMux through the import of pprof
			err := http.ListenAndServe(cfg.Profiling.Listen, nil)
			if err != nil {
				log.Errorf("Could not run profiler: %v", err)
			}
		}()
	}

	// board.db persistently stores saved networks and settings
	boardDB, err := boarddb.Open(cfg.DataDir)
	if err != nil {
		return errors.Errorf("Could not open board.db: %v", err)
	}

	log.Infof("Opened board.db")

	defer func() {
		err := boardDB.Close()
		if err != nil {
			log.Errorf("Could not close board.db: %v", err)
		} else {
			log.Info("Closed board.db.")
		}
	}()

	// Networks configured by file take priority over the ones saved at runtime
	configured, err := knownnet.LoadFile(cfg.NetworksFile)
	if err != nil {
		return errors.Errorf("Could not load known networks: %v", err)
	}

	log.Infof("Loaded %d configured networks from %v", len(configured), cfg.NetworksFile)

	store := knownnet.NewStore(&knownnet.Config{
		Networks: configured,
		DB:       boardDB,
		Logger:   subsystemLogger("knownnet"),
	})

	// The radio, which acts as the core connectivity
	// provider for all other components
	var radio network.Radio

	switch cfg.Net {
	case "wpa":
		radio = network.NewWpaRadio(&network.WpaRadioConfig{
			Interface: cfg.Wpa.Interface,
			Logger:    subsystemLogger("radio"),
		})

		log.Infof("Created wpa_supplicant radio on %v.", cfg.Wpa.Interface)
	case "mock":
		radio = network.NewMockRadio()

		log.Info("Created a mock radio.")
	default:
		return errors.Errorf("Unknown networking type %v", cfg.Net)
	}

	err = radio.Start()
	if err != nil {
		return errors.Errorf("Could not start radio: %v", err)
	}

	defer func() {
		err := radio.Stop()
		if err != nil {
			log.Errorf("Could not properly shut down radio: %v", err)
		} else {
			log.Info("Stopped radio.")
		}
	}()

	supervisor := network.NewSupervisor(&network.SupervisorConfig{
		Radio:          radio,
		Networks:       store,
		Logger:         subsystemLogger("network"),
		PollInterval:   cfg.Connect.PollInterval,
		SampleInterval: cfg.Connect.SampleInterval,
		ConnectTimeout: cfg.Connect.Timeout,
	})

	defer supervisor.Close()

	reporter := connectivity.NewReporter(&connectivity.Config{
		Supervisor: supervisor,
		Logger:     subsystemLogger("connectivity"),
	})

	reporter.Start()
	defer reporter.Stop()

	// The hardware signalling connectivity
	var m machine.Machine

	switch cfg.Machine {
	case "raspberry":
		m = machine.NewRaspberryMachine(&machine.RaspberryMachineConfig{
			LedPin: cfg.Raspberry.LedPin,
			Logger: subsystemLogger("machine"),
		})

		log.Infof("Created Raspberry Pi machine on led pin %v.", cfg.Raspberry.LedPin)
	case "mock":
		m = machine.NewMockMachine()

		log.Info("Created a mock machine.")
	default:
		return errors.Errorf("Unknown machine type %v", cfg.Machine)
	}

	if err := m.Start(); err != nil {
		return errors.Errorf("Could not start machine: %v", err)
	}

	defer func() {
		err := m.Stop()
		if err != nil {
			log.Errorf("Could not properly stop machine: %v", err)
		} else {
			log.Infof("Stopped machine.")
		}
	}()

	a := api.New(&api.Config{
		Version: Version,
		Log:     subsystemLogger("api"),
	})

	log.Infof("Created API")

	boardConfig := &board.Config{
		Radio:         radio,
		Supervisor:    supervisor,
		Networks:      store,
		Reporter:      reporter,
		Machine:       m,
		DB:            boardDB,
		BoardLog:      boardLog,
		Api:           a,
		ApiListen:     cfg.ApiListen,
		NamePrefix:    cfg.NamePrefix,
		RetryInterval: cfg.Connect.RetryInterval,
		Logger:        subsystemLogger("board"),
		Pinger: reach.NewPinger(&reach.Config{
			Logger: subsystemLogger("reach"),
		}),
		Gateway: reach.DefaultGateway,
	}

	if !cfg.NoAnnounce {
		boardConfig.Announcer = announce.New(&announce.Config{
			Port:   apiPort(cfg.ApiListen),
			Logger: subsystemLogger("announce"),
		})
	}

	// central controller for everything the board does
	b := board.NewBoard(boardConfig)

	log.Infof("Created board.")

	if !cfg.NoPairing {
		// create subsystem responsible for pairing
		pairingController, err := pairing.NewController(&pairing.Config{
			Logger:    subsystemLogger("pairing"),
			AdapterId: cfg.Pairing.Adapter,
			Board:     b,
		})
		if err != nil {
			return errors.Errorf("Could not create pairing controller: %v", err)
		}

		log.Infof("Created pairing controller.")

		err = pairingController.Start()
		if err != nil {
			return errors.Errorf("Could not start pairing controller: %v", err)
		}

		log.Infof("Started pairing controller.")

		defer func() {
			err := pairingController.Stop()
			if err != nil {
				log.Errorf("Could not properly shut down pairing controller: %v", err)
			}

			log.Infof("Stopped pairing controller.")
		}()
	}

	// Handle interrupt signals correctly
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		sig := <-signals
		log.Info(sig)
		log.Info("Received an interrupt, stopping board...")
		b.Shutdown()
	}()

	// blocks until the board is shut down
	err = b.Run()
	if err != nil {
		return errors.Errorf("Failed running board: %v", err)
	}

	// finish with no error
	return nil
}

// subsystemLogger tags entries of the standard logger with the subsystem name,
// so they share its output, level and hooks.
func subsystemLogger(system string) *log.Entry {
	return log.WithField("system", system)
}

// apiPort extracts the port announced through mDNS from the api address.
func apiPort(listen string) int {
	_, port, err := net.SplitHostPort(listen)
	if err != nil {
		return 0
	}

	p, err := strconv.Atoi(port)
	if err != nil {
		return 0
	}

	return p
}

func main() {
	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := boarddMain(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		} else {
			log.WithError(err).Println("Failed running boardd.")
		}
		os.Exit(1)
	}
}
