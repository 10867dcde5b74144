package board

import (
	"context"
	"net"
	"time"

	"github.com/go-errors/errors"
	"github.com/the-lightning-land/boardd/boardlog"
	"github.com/the-lightning-land/boardd/connectivity"
	"github.com/the-lightning-land/boardd/knownnet"
	"github.com/the-lightning-land/boardd/network"
)

type NetworkStatus struct {
	State     network.State
	Ssid      string
	Status    network.Status
	Address   net.IP
	Connected bool
	Since     time.Time
}

// NetworkStatus combines the last connect cycle with the live radio status.
func (b *Board) NetworkStatus() *NetworkStatus {
	status := &NetworkStatus{
		State: b.supervisor.State(),
	}

	if attempt := b.supervisor.LastAttempt(); attempt != nil {
		status.Ssid = attempt.Ssid()
		status.Address = attempt.Address
		status.Since = attempt.Finished
	}

	current, err := b.radio.ConnectionStatus()
	if err != nil {
		b.log.Debugf("Could not get connection status: %v", err)
	}

	status.Status = current
	status.Connected = current == network.StatusConnected

	if !status.Connected {
		status.Address = nil
	}

	return status
}

// QualitySamples returns how many readings SignalQuality takes for samples.
func (b *Board) QualitySamples(samples int) int {
	if samples <= 0 {
		return b.qualitySamples
	}

	return samples
}

// SignalQuality averages samples readings of the current connection. A
// non positive count uses the configured default.
func (b *Board) SignalQuality(ctx context.Context, samples int) (int, network.Quality, error) {
	rssi, err := b.supervisor.AverageRSSI(ctx, b.QualitySamples(samples))
	if err != nil {
		return 0, network.Unusable, err
	}

	return rssi, network.EvalSignal(rssi), nil
}

func (b *Board) ScanWifi(ctx context.Context) ([]*network.Wifi, error) {
	wifis, err := b.radio.Scan(ctx)
	if err != nil {
		return nil, errors.Errorf("could not scan: %v", err)
	}

	return wifis, nil
}

// KnownNetworks lists the SSIDs connections are attempted to, in order of
// priority.
func (b *Board) KnownNetworks() ([]string, error) {
	known, err := b.networks.KnownNetworks()
	if err != nil {
		return nil, err
	}

	ssids := make([]string, 0, len(known))
	for _, k := range known {
		ssids = append(ssids, k.Ssid)
	}

	return ssids, nil
}

// AddNetwork saves a network for the following connect cycles.
func (b *Board) AddNetwork(ssid string, psk string) error {
	b.log.Infof("Adding network %v", ssid)

	return b.networks.Save(&knownnet.Network{
		Ssid: ssid,
		Psk:  psk,
	})
}

func (b *Board) ForgetNetwork(ssid string) (bool, error) {
	b.log.Infof("Forgetting network %v", ssid)

	return b.networks.Forget(ssid)
}

// JoinNetwork saves a network and triggers a new connect cycle.
func (b *Board) JoinNetwork(ssid string, psk string) error {
	err := b.AddNetwork(ssid, psk)
	if err != nil {
		return err
	}

	b.Reconnect()

	return nil
}

// ConnectNow runs a connect cycle in the calling goroutine.
func (b *Board) ConnectNow(ctx context.Context) (*network.Attempt, error) {
	b.log.Infof("Connecting on request")

	return b.Configure(ctx)
}

func (b *Board) SubscribeNetwork() *network.Client {
	return b.supervisor.Subscribe()
}

// Logs returns up to limit of the most recent log entries.
func (b *Board) Logs(limit int) []*boardlog.Entry {
	if b.boardLog == nil {
		return nil
	}

	return b.boardLog.Entries(limit)
}

// Connectivity reports whether the board is online.
func (b *Board) Connectivity() connectivity.State {
	if b.reporter == nil {
		if b.supervisor.IsConnected() {
			return connectivity.Online
		}
		return connectivity.Offline
	}

	return b.reporter.CurrentState()
}
