package knownnet

import (
	"sync"

	"github.com/go-errors/errors"
	"github.com/the-lightning-land/boardd/boarddb"
	"github.com/the-lightning-land/boardd/network"
)

// check Store compliance to its interface during compile time
var _ network.KnownNetworks = (*Store)(nil)

type Config struct {
	// Networks from the configuration file, highest priority first.
	Networks []Network
	DB       *boarddb.DB
	Logger   Logger
}

// Store lists configured networks followed by the ones saved at runtime.
type Store struct {
	log        Logger
	configured []Network
	db         *boarddb.DB
	mtx        sync.Mutex
}

func NewStore(config *Config) *Store {
	store := &Store{
		configured: config.Networks,
		db:         config.DB,
	}

	if config.Logger != nil {
		store.log = config.Logger
	} else {
		store.log = noopLogger{}
	}

	return store
}

// KnownNetworks returns configured networks first, then saved ones. An SSID
// listed twice keeps its first position and credential.
func (s *Store) KnownNetworks() ([]network.KnownNetwork, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	seen := make(map[string]bool)
	var known []network.KnownNetwork

	add := func(ssid string, psk string) {
		if seen[ssid] {
			s.log.Debugf("Ignoring duplicate known network %v", ssid)
			return
		}
		seen[ssid] = true
		known = append(known, network.KnownNetwork{Ssid: ssid, Psk: psk})
	}

	for _, n := range s.configured {
		add(n.Ssid, n.Psk)
	}

	if s.db != nil {
		saved, err := s.db.GetWifiNetworks()
		if err != nil {
			return nil, errors.Errorf("could not read saved networks: %v", err)
		}

		for _, n := range saved {
			add(n.Ssid, n.Psk)
		}
	}

	return known, nil
}

// Save validates and persists a network for future connection attempts.
func (s *Store) Save(n *Network) error {
	if err := ValidateNetwork(n); err != nil {
		return err
	}

	if s.db == nil {
		return errors.New("no database to save networks in")
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	err := s.db.AddWifiNetwork(&boarddb.WifiNetwork{
		Ssid: n.Ssid,
		Psk:  n.Psk,
	})
	if err != nil {
		return errors.Errorf("could not save network %v: %v", n.Ssid, err)
	}

	s.log.Infof("Saved network %v", n.Ssid)

	return nil
}

// Forget removes a saved network. Configured networks cannot be removed.
func (s *Store) Forget(ssid string) (bool, error) {
	if s.db == nil {
		return false, nil
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.db.RemoveWifiNetwork(ssid)
}
