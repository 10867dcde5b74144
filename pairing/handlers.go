package pairing

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/go-errors/errors"
	"github.com/the-lightning-land/boardd/board"
	"github.com/the-lightning-land/boardd/network"
)

const (
	// BLE reads must answer quickly
	readTimeout = 10 * time.Second

	qualitySamples = 5
)

// check Board compliance to its interface during compile time
var _ Board = (*board.Board)(nil)

// Board is the part of the board the pairing service exposes.
type Board interface {
	Name() (string, error)
	NetworkStatus() *board.NetworkStatus
	ScanWifi(ctx context.Context) ([]*network.Wifi, error)
	JoinNetwork(ssid string, psk string) error
	SignalQuality(ctx context.Context, samples int) (int, network.Quality, error)
}

type wifiScanListItem struct {
	Ssid       string `json:"ssid"`
	Signal     int    `json:"signal"`
	Encryption string `json:"encryption"`
}

type signalQuality struct {
	Rssi    int    `json:"rssi"`
	Quality string `json:"quality"`
}

// handlers keeps the credentials written by a client until it sends the
// connect signal.
type handlers struct {
	log   Logger
	board Board
	mtx   sync.Mutex
	ssid  string
	psk   string
}

func (h *handlers) readNetworkAvailabilityStatus() ([]byte, error) {
	h.log.Debugf("Reading network availability...")

	if h.board.NetworkStatus().Connected {
		return []byte{1}, nil
	}

	return []byte{0}, nil
}

func (h *handlers) readIpAddress() ([]byte, error) {
	h.log.Debugf("Reading ip address...")

	status := h.board.NetworkStatus()
	if status.Address == nil {
		return []byte{}, nil
	}

	return []byte(status.Address.String()), nil
}

func (h *handlers) readWifiScanList() ([]byte, error) {
	h.log.Debugf("Reading wifi scan list...")

	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	wifis, err := h.board.ScanWifi(ctx)
	if err != nil {
		return nil, errors.Errorf("could not get wifi scan list: %v", err)
	}

	seen := make(map[string]bool)

	// literal so that no results serialize into an empty array
	list := []*wifiScanListItem{}
	for _, wifi := range wifis {
		if wifi.Ssid == "" || seen[wifi.Ssid] {
			continue
		}
		seen[wifi.Ssid] = true

		list = append(list, &wifiScanListItem{
			Ssid:       wifi.Ssid,
			Signal:     wifi.Signal,
			Encryption: wifi.Encryption.String(),
		})
	}

	payload, err := json.Marshal(list)
	if err != nil {
		return nil, errors.Errorf("could not serialize wifi scan list: %v", err)
	}

	return payload, nil
}

func (h *handlers) readWifiSsidString() ([]byte, error) {
	h.log.Debugf("Reading wifi ssid...")

	return []byte(h.board.NetworkStatus().Ssid), nil
}

func (h *handlers) writeWifiSsidString(value []byte) error {
	ssid := string(value)

	h.log.Infof("Writing wifi ssid to %v", ssid)

	h.mtx.Lock()
	h.ssid = ssid
	h.mtx.Unlock()

	return nil
}

func (h *handlers) writeWifiPskString(value []byte) error {
	psk := string(value)

	h.log.Infof("Writing wifi psk to %v", strings.Repeat("*", len(psk)))

	h.mtx.Lock()
	h.psk = psk
	h.mtx.Unlock()

	return nil
}

func (h *handlers) writeWifiConnectSignal(value []byte) error {
	h.log.Infof("Writing wifi connect signal to %v", value)

	if !bytes.Equal(value, []byte{1}) {
		return nil
	}

	h.mtx.Lock()
	ssid, psk := h.ssid, h.psk
	h.mtx.Unlock()

	err := h.board.JoinNetwork(ssid, psk)
	if err != nil {
		return errors.Errorf("could not join %v: %v", ssid, err)
	}

	return nil
}

func (h *handlers) readSignalQuality() ([]byte, error) {
	h.log.Debugf("Reading signal quality...")

	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	rssi, quality, err := h.board.SignalQuality(ctx, qualitySamples)
	if err != nil {
		return nil, errors.Errorf("could not read signal quality: %v", err)
	}

	payload, err := json.Marshal(&signalQuality{
		Rssi:    rssi,
		Quality: quality.String(),
	})
	if err != nil {
		return nil, errors.Errorf("could not serialize signal quality: %v", err)
	}

	return payload, nil
}
