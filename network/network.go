package network

import (
	"context"
	"net"
	"time"
)

// KnownNetwork is a network the board holds credentials for.
type KnownNetwork struct {
	Ssid string
	Psk  string
}

// Wifi is a single network seen during a scan.
type Wifi struct {
	Ssid       string
	Bssid      string
	Signal     int
	Frequency  int
	Encryption Encryption
}

// Candidate is the known network picked for a connection attempt.
type Candidate struct {
	Ssid   string
	Psk    string
	Signal int

	// Encryption as advertised by the chosen scan entry.
	Encryption Encryption
}

// Event is a status change reported by the radio.
type Event struct {
	Status Status
	Reason string
}

// Radio drives the wireless hardware.
type Radio interface {
	Start() error
	Stop() error
	Scan(ctx context.Context) ([]*Wifi, error)
	Associate(ssid string, psk string) error
	ConnectionStatus() (Status, error)
	OnStatusChange(func(*Event)) (cancel func())
	RSSI() (int, error)
	LocalAddress() (net.IP, error)
	HardwareAddr() (net.HardwareAddr, error)
}

// KnownNetworks lists the networks the board may join, in priority order.
type KnownNetworks interface {
	KnownNetworks() ([]KnownNetwork, error)
}

// StaticNetworks is a fixed list of known networks.
type StaticNetworks []KnownNetwork

func (s StaticNetworks) KnownNetworks() ([]KnownNetwork, error) {
	return s, nil
}

// Attempt records the outcome of a single Connect call.
type Attempt struct {
	Candidate *Candidate
	State     State
	Status    Status
	Address   net.IP
	Started   time.Time
	Finished  time.Time
}

// Ssid returns the SSID of the candidate or an empty string.
func (a *Attempt) Ssid() string {
	if a == nil || a.Candidate == nil {
		return ""
	}

	return a.Candidate.Ssid
}
