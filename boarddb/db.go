package boarddb

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-errors/errors"
	"go.etcd.io/bbolt"
)

const (
	dbName           = "board.db"
	dbFilePermission = 0600
)

var (
	settingsBucket = []byte("settings")
	networksBucket = []byte("networks")

	nameKey           = []byte("name")
	knownNetworksKey  = []byte("known")
	lastConnectionKey = []byte("last")
)

// DB persists board settings and the networks saved at runtime.
type DB struct {
	*bbolt.DB
	path string
}

// WifiNetwork is a network saved through pairing or the API.
type WifiNetwork struct {
	Ssid string `json:"ssid"`
	Psk  string `json:"psk"`
}

// Connection is the most recent successful connection.
type Connection struct {
	Ssid    string    `json:"ssid"`
	Address string    `json:"address"`
	Time    time.Time `json:"time"`
}

// Open opens or creates board.db inside dataDir.
func Open(dataDir string) (*DB, error) {
	err := os.MkdirAll(dataDir, 0700)
	if err != nil {
		return nil, errors.Errorf("could not create data dir %v: %v", dataDir, err)
	}

	path := filepath.Join(dataDir, dbName)

	bdb, err := bbolt.Open(path, dbFilePermission, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Errorf("could not open %v: %v", path, err)
	}

	db := &DB{
		DB:   bdb,
		path: path,
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{settingsBucket, networksBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = bdb.Close()
		return nil, errors.Errorf("could not create buckets: %v", err)
	}

	return db, nil
}

func (db *DB) Path() string {
	return db.path
}

func (db *DB) GetName() (string, error) {
	var name string

	_, err := db.getJSON(settingsBucket, nameKey, &name)
	if err != nil {
		return "", err
	}

	return name, nil
}

func (db *DB) SetName(name string) error {
	return db.setJSON(settingsBucket, nameKey, name)
}

// GetWifiNetworks returns the saved networks in the order they were added.
func (db *DB) GetWifiNetworks() ([]*WifiNetwork, error) {
	var networks []*WifiNetwork

	_, err := db.getJSON(networksBucket, knownNetworksKey, &networks)
	if err != nil {
		return nil, err
	}

	return networks, nil
}

// AddWifiNetwork saves a network. Saving an SSID again updates its
// credential and keeps its position.
func (db *DB) AddWifiNetwork(network *WifiNetwork) error {
	networks, err := db.GetWifiNetworks()
	if err != nil {
		return err
	}

	replaced := false

	for _, n := range networks {
		if n.Ssid == network.Ssid {
			n.Psk = network.Psk
			replaced = true
		}
	}

	if !replaced {
		networks = append(networks, network)
	}

	return db.setJSON(networksBucket, knownNetworksKey, networks)
}

// RemoveWifiNetwork deletes a saved network and reports whether it existed.
func (db *DB) RemoveWifiNetwork(ssid string) (bool, error) {
	networks, err := db.GetWifiNetworks()
	if err != nil {
		return false, err
	}

	kept := networks[:0]
	for _, n := range networks {
		if n.Ssid != ssid {
			kept = append(kept, n)
		}
	}

	if len(kept) == len(networks) {
		return false, nil
	}

	return true, db.setJSON(networksBucket, knownNetworksKey, kept)
}

// GetLastConnection returns nil if the board never connected.
func (db *DB) GetLastConnection() (*Connection, error) {
	connection := &Connection{}

	found, err := db.getJSON(settingsBucket, lastConnectionKey, connection)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, nil
	}

	return connection, nil
}

func (db *DB) SetLastConnection(connection *Connection) error {
	return db.setJSON(settingsBucket, lastConnectionKey, connection)
}
