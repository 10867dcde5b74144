package pairing

import (
	"context"
	"encoding/json"
	"net"
	"testing"

	"github.com/go-errors/errors"
	"github.com/the-lightning-land/boardd/board"
	"github.com/the-lightning-land/boardd/network"
)

type fakeBoard struct {
	status  *board.NetworkStatus
	wifis   []*network.Wifi
	scanErr error
	joined  []string
	rssi    int
}

func (b *fakeBoard) Name() (string, error) {
	return "board-240AC4000001", nil
}

func (b *fakeBoard) NetworkStatus() *board.NetworkStatus {
	return b.status
}

func (b *fakeBoard) ScanWifi(ctx context.Context) ([]*network.Wifi, error) {
	return b.wifis, b.scanErr
}

func (b *fakeBoard) JoinNetwork(ssid string, psk string) error {
	b.joined = append(b.joined, ssid+"/"+psk)
	return nil
}

func (b *fakeBoard) SignalQuality(ctx context.Context, samples int) (int, network.Quality, error) {
	return b.rssi, network.EvalSignal(b.rssi), nil
}

func newHandlers(b *fakeBoard) *handlers {
	return &handlers{log: noopLogger{}, board: b}
}

func TestHandlers_Status(t *testing.T) {
	b := &fakeBoard{status: &board.NetworkStatus{}}
	h := newHandlers(b)

	value, err := h.readNetworkAvailabilityStatus()
	if err != nil || len(value) != 1 || value[0] != 0 {
		t.Errorf("Expected [0], got %v (%v)", value, err)
	}

	value, _ = h.readIpAddress()
	if len(value) != 0 {
		t.Errorf("Expected no address, got %q", value)
	}

	b.status = &board.NetworkStatus{
		Connected: true,
		Ssid:      "Home",
		Address:   net.IPv4(192, 168, 4, 2),
	}

	value, _ = h.readNetworkAvailabilityStatus()
	if value[0] != 1 {
		t.Errorf("Expected [1], got %v", value)
	}

	value, _ = h.readIpAddress()
	if string(value) != "192.168.4.2" {
		t.Errorf("Expected 192.168.4.2, got %q", value)
	}

	value, _ = h.readWifiSsidString()
	if string(value) != "Home" {
		t.Errorf("Expected Home, got %q", value)
	}
}

func TestHandlers_ScanList(t *testing.T) {
	b := &fakeBoard{
		wifis: []*network.Wifi{
			{Ssid: "Home", Signal: -60, Encryption: network.EncryptionWpa2Psk},
			{Ssid: "Home", Signal: -80, Encryption: network.EncryptionWpa2Psk},
			{Ssid: "", Signal: -50},
			{Ssid: "Cafe", Signal: -70, Encryption: network.EncryptionOpen},
		},
	}
	h := newHandlers(b)

	value, err := h.readWifiScanList()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	var list []wifiScanListItem
	if err := json.Unmarshal(value, &list); err != nil {
		t.Fatalf("Expected valid json, got: %v", err)
	}

	if len(list) != 2 || list[0].Ssid != "Home" || list[0].Signal != -60 || list[1].Encryption != "Open" {
		t.Errorf("Unexpected scan list %+v", list)
	}

	b.wifis = nil
	value, _ = h.readWifiScanList()
	if string(value) != "[]" {
		t.Errorf("Expected an empty array, got %s", value)
	}

	b.scanErr = errors.New("radio off")
	if _, err := h.readWifiScanList(); err == nil {
		t.Error("Expected an error")
	}
}

func TestHandlers_Connect(t *testing.T) {
	b := &fakeBoard{}
	h := newHandlers(b)

	_ = h.writeWifiSsidString([]byte("Home"))
	_ = h.writeWifiPskString([]byte("password1"))

	if err := h.writeWifiConnectSignal([]byte{0}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(b.joined) != 0 {
		t.Fatalf("Expected no join on a zero signal, got %v", b.joined)
	}

	if err := h.writeWifiConnectSignal([]byte{1}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(b.joined) != 1 || b.joined[0] != "Home/password1" {
		t.Errorf("Expected a join of Home, got %v", b.joined)
	}
}

func TestHandlers_SignalQuality(t *testing.T) {
	h := newHandlers(&fakeBoard{rssi: -85})

	value, err := h.readSignalQuality()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	var quality signalQuality
	if err := json.Unmarshal(value, &quality); err != nil {
		t.Fatalf("Expected valid json, got: %v", err)
	}

	if quality.Rssi != -85 || quality.Quality != "Not good" {
		t.Errorf("Unexpected quality %+v", quality)
	}
}
