package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/the-lightning-land/boardd/board"
	"github.com/the-lightning-land/boardd/network"
)

const (
	defaultDataDir      = "/var/lib/boardd"
	defaultNetworksFile = "/etc/boardd/networks.toml"
	defaultNet          = "wpa"
	defaultInterface    = "wlan0"
	defaultMachine      = "raspberry"
	defaultLedPin       = "GPIO17"
	defaultApiListen    = ":9000"
	defaultAdapter      = "hci0"
)

type raspberryConfig struct {
	LedPin string `long:"ledpin" description:"GPIO name of the status LED"`
}

type wpaConfig struct {
	Interface string `long:"interface" description:"WiFi interface managed through wpa_supplicant"`
}

type connectConfig struct {
	PollInterval   time.Duration `long:"pollinterval" description:"Delay between two connection status checks"`
	SampleInterval time.Duration `long:"sampleinterval" description:"Delay between two signal strength readings"`
	Timeout        time.Duration `long:"timeout" description:"Give up waiting for an address after this long, 0 waits forever"`
	RetryInterval  time.Duration `long:"retryinterval" description:"Delay between connection checks while running"`
}

type pairingConfig struct {
	Adapter string `long:"adapter" description:"Bluetooth adapter to advertise the pairing service on"`
}

type profilingConfig struct {
	Listen string `long:"listen" description:"Add an interface/port to expose profiling"`
}

// config defines the configuration options for boardd.
type config struct {
	ShowVersion  bool             `short:"v" long:"version" description:"Display version information and exit"`
	Debug        bool             `long:"debug" description:"Start in debug mode"`
	DataDir      string           `long:"datadir" description:"The directory to store boardd's data within"`
	NetworksFile string           `long:"networks" description:"TOML file listing known networks in order of priority"`
	Net          string           `long:"net" description:"The networking driver" choice:"wpa" choice:"mock"`
	Machine      string           `long:"machine" description:"The hardware signalling connectivity" choice:"raspberry" choice:"mock"`
	NamePrefix   string           `long:"nameprefix" description:"Prefix of the unique board name"`
	ApiListen    string           `long:"listen" description:"Add an interface/port to serve the api on, empty disables the api"`
	NoPairing    bool             `long:"nopairing" description:"Do not advertise the bluetooth pairing service"`
	NoAnnounce   bool             `long:"noannounce" description:"Do not announce the board through mDNS"`
	Wpa          *wpaConfig       `group:"wpa" namespace:"wpa"`
	Raspberry    *raspberryConfig `group:"raspberry" namespace:"raspberry"`
	Connect      *connectConfig   `group:"connect" namespace:"connect"`
	Pairing      *pairingConfig   `group:"pairing" namespace:"pairing"`
	Profiling    *profilingConfig `group:"profiling" namespace:"profiling"`
}

// loadConfig initializes and parses the config using command line options.
func loadConfig() (*config, error) {
	cfg := config{
		DataDir:      defaultDataDir,
		NetworksFile: defaultNetworksFile,
		Net:          defaultNet,
		Machine:      defaultMachine,
		NamePrefix:   board.DefaultNamePrefix,
		ApiListen:    defaultApiListen,
		Wpa: &wpaConfig{
			Interface: defaultInterface,
		},
		Raspberry: &raspberryConfig{
			LedPin: defaultLedPin,
		},
		Connect: &connectConfig{
			PollInterval:   network.DefaultPollInterval,
			SampleInterval: network.DefaultSampleInterval,
			RetryInterval:  board.DefaultRetryInterval,
		},
		Pairing: &pairingConfig{
			Adapter: defaultAdapter,
		},
		Profiling: &profilingConfig{},
	}

	if _, err := flags.Parse(&cfg); err != nil {
		return nil, err
	}

	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.NetworksFile = cleanAndExpandPath(cfg.NetworksFile)

	return &cfg, nil
}

// cleanAndExpandPath expands a leading ~ to the home directory of the
// current user.
func cleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	return filepath.Clean(os.ExpandEnv(path))
}
