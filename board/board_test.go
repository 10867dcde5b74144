package board

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/the-lightning-land/boardd/boarddb"
	"github.com/the-lightning-land/boardd/connectivity"
	"github.com/the-lightning-land/boardd/knownnet"
	"github.com/the-lightning-land/boardd/machine"
	"github.com/the-lightning-land/boardd/network"
	"github.com/the-lightning-land/boardd/reach"
)

type fakeAnnouncer struct {
	mtx       sync.Mutex
	names     []string
	withdrawn int
}

func (a *fakeAnnouncer) Announce(name string, text []string) error {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	a.names = append(a.names, name)
	return nil
}

func (a *fakeAnnouncer) Withdraw() {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	a.withdrawn++
}

type fakePinger struct {
	mtx     sync.Mutex
	targets []net.IP
}

func (p *fakePinger) Ping(ctx context.Context, ip net.IP, count int) (*reach.Stats, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.targets = append(p.targets, ip)
	return &reach.Stats{Sent: count, Received: count, Rtts: []time.Duration{time.Millisecond}}, nil
}

type testBoard struct {
	*Board
	radio     *network.MockRadio
	machine   *machine.MockMachine
	announcer *fakeAnnouncer
	pinger    *fakePinger
	db        *boarddb.DB
	reporter  *connectivity.NetworkReporter
}

func newTestBoard(t *testing.T, configured ...knownnet.Network) *testBoard {
	t.Helper()

	db, err := boarddb.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	radio := network.NewMockRadio()
	store := knownnet.NewStore(&knownnet.Config{Networks: configured, DB: db})

	supervisor := network.NewSupervisor(&network.SupervisorConfig{
		Radio:          radio,
		Networks:       store,
		PollInterval:   time.Millisecond,
		SampleInterval: time.Millisecond,
	})

	reporter := connectivity.NewReporter(&connectivity.Config{Supervisor: supervisor})
	reporter.Start()
	t.Cleanup(reporter.Stop)

	tb := &testBoard{
		radio:     radio,
		machine:   machine.NewMockMachine(),
		announcer: &fakeAnnouncer{},
		pinger:    &fakePinger{},
		db:        db,
		reporter:  reporter,
	}

	tb.Board = NewBoard(&Config{
		Radio:          radio,
		Supervisor:     supervisor,
		Networks:       store,
		Reporter:       reporter,
		Machine:        tb.machine,
		DB:             db,
		Announcer:      tb.announcer,
		Pinger:         tb.pinger,
		Gateway:        func() (net.IP, error) { return net.IPv4(192, 168, 4, 1), nil },
		RetryInterval:  5 * time.Millisecond,
		QualitySamples: 2,
	})

	return tb
}

func TestUniqueName(t *testing.T) {
	mac := net.HardwareAddr{0x24, 0x0a, 0xc4, 0xab, 0xcd, 0xef}

	if got := UniqueName("board-", mac); got != "board-240AC4ABCDEF" {
		t.Errorf("Expected board-240AC4ABCDEF, got %v", got)
	}
}

func TestBoard_Configure(t *testing.T) {
	t.Run("connected board announces itself", func(t *testing.T) {
		tb := newTestBoard(t, knownnet.Network{Ssid: "Home", Psk: "password1"})
		tb.radio.SetWifis(&network.Wifi{Ssid: "Home", Signal: -60, Encryption: network.EncryptionWpa2Psk})

		attempt, err := tb.Configure(context.Background())
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if attempt.State != network.Connected {
			t.Fatalf("Expected state %v, got %v", network.Connected, attempt.State)
		}

		if !tb.machine.Indicator() {
			t.Error("Expected the indicator to be on")
		}

		if len(tb.announcer.names) != 1 || tb.announcer.names[0] != "board-240AC4000001" {
			t.Errorf("Expected the unique name to be announced, got %v", tb.announcer.names)
		}

		if len(tb.pinger.targets) != 1 || !tb.pinger.targets[0].Equal(net.IPv4(192, 168, 4, 1)) {
			t.Errorf("Expected the gateway to be pinged, got %v", tb.pinger.targets)
		}

		last, err := tb.db.GetLastConnection()
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if last == nil || last.Ssid != "Home" || last.Address != "192.168.4.2" {
			t.Errorf("Expected last connection to Home, got %+v", last)
		}
	})

	t.Run("no known network leaves the board offline", func(t *testing.T) {
		tb := newTestBoard(t, knownnet.Network{Ssid: "Home", Psk: "password1"})
		tb.radio.SetWifis(&network.Wifi{Ssid: "Other", Signal: -40})

		attempt, err := tb.Configure(context.Background())
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if attempt.State != network.FailedNoKnownNetwork {
			t.Errorf("Expected state %v, got %v", network.FailedNoKnownNetwork, attempt.State)
		}
		if tb.machine.Indicator() {
			t.Error("Expected the indicator to be off")
		}
		if tb.announcer.withdrawn != 1 {
			t.Errorf("Expected the announcement to be withdrawn, got %d", tb.announcer.withdrawn)
		}
		if len(tb.pinger.targets) != 0 {
			t.Errorf("Expected no ping, got %v", tb.pinger.targets)
		}
	})
}

func TestBoard_Name(t *testing.T) {
	tb := newTestBoard(t)

	name, err := tb.Name()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if name != "board-240AC4000001" {
		t.Errorf("Expected the unique name, got %v", name)
	}

	if err := tb.SetName("kitchen"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	name, _ = tb.Name()
	if name != "kitchen" {
		t.Errorf("Expected kitchen, got %v", name)
	}
}

func TestBoard_Networks(t *testing.T) {
	tb := newTestBoard(t, knownnet.Network{Ssid: "Home", Psk: "password1"})

	if err := tb.JoinNetwork("Cafe", "espresso1"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	select {
	case <-tb.reconnect:
	default:
		t.Error("Expected a reconnect to be requested")
	}

	ssids, err := tb.KnownNetworks()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(ssids) != 2 || ssids[0] != "Home" || ssids[1] != "Cafe" {
		t.Errorf("Expected [Home Cafe], got %v", ssids)
	}

	if err := tb.AddNetwork("", "password1"); err == nil {
		t.Error("Expected an error for an empty SSID")
	}

	removed, err := tb.ForgetNetwork("Cafe")
	if err != nil || !removed {
		t.Errorf("Expected Cafe to be forgotten, got removed=%v err=%v", removed, err)
	}
}

func TestBoard_NetworkStatus(t *testing.T) {
	tb := newTestBoard(t, knownnet.Network{Ssid: "Home", Psk: "password1"})
	tb.radio.SetWifis(&network.Wifi{Ssid: "Home", Signal: -60})

	status := tb.NetworkStatus()
	if status.Connected || status.State != network.Idle {
		t.Errorf("Expected an idle, disconnected board, got %+v", status)
	}

	if _, err := tb.ConnectNow(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	status = tb.NetworkStatus()
	if !status.Connected || status.Ssid != "Home" || status.State != network.Connected {
		t.Errorf("Expected a board connected to Home, got %+v", status)
	}
	if status.Address == nil {
		t.Error("Expected an address")
	}

	rssi, quality, err := tb.SignalQuality(context.Background(), 3)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if rssi != -60 || quality != network.Amazing {
		t.Errorf("Expected -60 dBm and Amazing, got %d and %v", rssi, quality)
	}

	if n := tb.QualitySamples(0); n != 2 {
		t.Errorf("Expected the configured 2 samples, got %d", n)
	}
	if n := tb.QualitySamples(5); n != 5 {
		t.Errorf("Expected 5 samples, got %d", n)
	}
}

func TestBoard_RunReconnectsAfterLoss(t *testing.T) {
	tb := newTestBoard(t, knownnet.Network{Ssid: "Home", Psk: "password1"})
	tb.radio.SetWifis(&network.Wifi{Ssid: "Home", Signal: -60})

	done := make(chan error, 1)
	go func() {
		done <- tb.Run()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if !tb.reporter.WaitForStateChange(ctx, connectivity.Offline) {
		t.Fatal("Expected the board to come online")
	}

	tb.radio.SetStatus(network.StatusConnectionLost)
	tb.radio.SetScript(network.StatusConnected)

	deadline := time.Now().Add(2 * time.Second)
	for len(tb.radio.Associations()) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if len(tb.radio.Associations()) < 2 {
		t.Errorf("Expected a second association after the loss, got %v", tb.radio.Associations())
	}

	tb.Shutdown()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected Run to return after Shutdown")
	}

	if tb.machine.Blinks() != 1 {
		t.Errorf("Expected one diagnostic blink, got %d", tb.machine.Blinks())
	}
}
