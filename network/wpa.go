package network

import (
	"context"
	"net"
	"sync"

	"github.com/go-errors/errors"
	"github.com/godbus/dbus/v5"
	"github.com/the-lightning-land/boardd/network/wpa"
	"github.com/vishvananda/netlink"
)

// check WpaRadio compliance to its interface during compile time
var _ Radio = (*WpaRadio)(nil)

type WpaRadioConfig struct {
	Interface string
	Logger    Logger
}

// WpaRadio drives a WiFi interface through wpa_supplicant and reads its
// addresses through netlink.
type WpaRadio struct {
	log         Logger
	wpa         *wpa.Wpa
	ifname      string
	iface       *wpa.Interface
	props       *wpa.PropertiesChangedClient
	done        chan struct{}
	mtx         sync.Mutex
	wpaState    string
	everOnline  bool
	handlers    map[uint32]func(*Event)
	nextHandler uint32
}

func NewWpaRadio(config *WpaRadioConfig) *WpaRadio {
	radio := &WpaRadio{
		ifname:   config.Interface,
		wpa:      wpa.New(),
		handlers: make(map[uint32]func(*Event)),
	}

	if config.Logger != nil {
		radio.log = config.Logger
	} else {
		radio.log = noopLogger{}
	}

	return radio
}

func (r *WpaRadio) Start() error {
	err := r.wpa.Start()
	if err != nil {
		return errors.Errorf("could not start wpa: %v", err)
	}

	iface, err := r.wpa.GetInterface(r.ifname)
	if err != nil {
		_ = r.Stop()
		return errors.Errorf("could not find interface %v: %v", r.ifname, err)
	}

	r.iface = iface

	state, err := iface.State()
	if err != nil {
		r.log.Warnf("Could not read initial state of %v: %v", r.ifname, err)
	}

	r.mtx.Lock()
	r.wpaState = state
	r.mtx.Unlock()

	r.props, err = iface.PropertiesChanged()
	if err != nil {
		_ = r.Stop()
		return errors.Errorf("could not listen for property changes: %v", err)
	}

	r.done = make(chan struct{})

	go r.watchProperties(r.props.Properties, r.done)

	return nil
}

func (r *WpaRadio) Stop() error {
	if r.props != nil {
		r.props.Cancel()
		r.props = nil
	}

	if r.done != nil {
		close(r.done)
		r.done = nil
	}

	err := r.wpa.Stop()
	if err != nil {
		return errors.Errorf("could not stop wpa: %v", err)
	}

	return nil
}

func (r *WpaRadio) watchProperties(props <-chan map[string]dbus.Variant, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case changed := <-props:
			val, ok := changed["State"]
			if !ok {
				continue
			}

			state, ok := val.Value().(string)
			if !ok {
				continue
			}

			r.mtx.Lock()
			previous := r.wpaState
			r.wpaState = state
			r.mtx.Unlock()

			r.emit(&Event{
				Status: r.status(state, previous),
				Reason: previous + " -> " + state,
			})
		}
	}
}

// Scan runs an active scan and returns every BSS seen once it completes.
func (r *WpaRadio) Scan(ctx context.Context) ([]*Wifi, error) {
	if r.iface == nil {
		return nil, ErrNotStarted
	}

	done, err := r.iface.ScanDone()
	if err != nil {
		return nil, errors.Errorf("unable to listen to scan completion: %v", err)
	}

	defer done.Cancel()

	err = r.iface.Scan()
	if err != nil {
		return nil, errors.Errorf("unable to scan: %v", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case success := <-done.ScanDone:
		if !success {
			r.log.Warnf("Scan on %v reported failure, using cached results", r.ifname)
		}
	}

	bsss, err := r.iface.BSSs()
	if err != nil {
		return nil, errors.Errorf("unable to get BSSs: %v", err)
	}

	var wifis []*Wifi

	for _, bss := range bsss {
		b, err := bss.GetAll()
		if err != nil {
			r.log.Debugf("Skipping %v: %v", bss, err)
			continue
		}

		wifis = append(wifis, &Wifi{
			Ssid:       b.Ssid,
			Bssid:      b.Bssid,
			Signal:     b.Signal,
			Frequency:  b.Frequency,
			Encryption: encryptionOf(b),
		})
	}

	return wifis, nil
}

// Associate replaces all configured networks with the given one and selects it.
func (r *WpaRadio) Associate(ssid string, psk string) error {
	if r.iface == nil {
		return ErrNotStarted
	}

	err := r.iface.RemoveAllNetworks()
	if err != nil {
		return errors.Errorf("could not clear networks: %v", err)
	}

	block, err := r.iface.AddNetwork(ssid, psk)
	if err != nil {
		return errors.Errorf("could not add network %v: %v", ssid, err)
	}

	err = r.iface.SelectNetwork(block)
	if err != nil {
		return errors.Errorf("could not select network %v: %v", ssid, err)
	}

	r.mtx.Lock()
	r.everOnline = false
	r.mtx.Unlock()

	return nil
}

func (r *WpaRadio) ConnectionStatus() (Status, error) {
	if r.iface == nil {
		return StatusIdle, ErrNotStarted
	}

	state, err := r.iface.State()
	if err != nil {
		return StatusIdle, err
	}

	r.mtx.Lock()
	previous := r.wpaState
	r.wpaState = state
	r.mtx.Unlock()

	return r.status(state, previous), nil
}

// status maps a wpa_supplicant state to a radio status. A completed
// association only counts as connected once the interface holds an address.
func (r *WpaRadio) status(state string, previous string) Status {
	hasAddress := false

	if state == "completed" {
		ip, err := r.LocalAddress()
		hasAddress = err == nil && ip != nil
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	status := mapWpaState(state, previous, hasAddress, r.everOnline)
	if status == StatusConnected {
		r.everOnline = true
	}

	return status
}

func mapWpaState(state string, previous string, hasAddress bool, everOnline bool) Status {
	switch state {
	case "completed":
		if hasAddress {
			return StatusConnected
		}
		return StatusDisconnected
	case "disconnected":
		if previous == "4way_handshake" || previous == "group_handshake" {
			return StatusConnectFailed
		}
		if everOnline {
			return StatusConnectionLost
		}
		return StatusDisconnected
	case "inactive":
		return StatusIdle
	case "interface_disabled":
		return StatusConnectFailed
	case "scanning", "authenticating", "associating", "associated", "4way_handshake", "group_handshake":
		return StatusDisconnected
	default:
		return StatusIdle
	}
}

func (r *WpaRadio) OnStatusChange(handler func(*Event)) func() {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	id := r.nextHandler
	r.nextHandler++
	r.handlers[id] = handler

	return func() {
		r.mtx.Lock()
		defer r.mtx.Unlock()

		delete(r.handlers, id)
	}
}

func (r *WpaRadio) emit(event *Event) {
	r.mtx.Lock()
	handlers := make([]func(*Event), 0, len(r.handlers))
	for _, handler := range r.handlers {
		handlers = append(handlers, handler)
	}
	r.mtx.Unlock()

	for _, handler := range handlers {
		handler(event)
	}
}

func (r *WpaRadio) RSSI() (int, error) {
	if r.iface == nil {
		return floorSignal, ErrNotStarted
	}

	signal, err := r.iface.SignalPoll()
	if err != nil {
		return floorSignal, err
	}

	return signal.Rssi, nil
}

// LocalAddress returns the first IPv4 address of the interface, or nil.
func (r *WpaRadio) LocalAddress() (net.IP, error) {
	link, err := netlink.LinkByName(r.ifname)
	if err != nil {
		return nil, errors.Errorf("could not find link %v: %v", r.ifname, err)
	}

	addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return nil, errors.Errorf("could not list addresses of %v: %v", r.ifname, err)
	}

	for _, addr := range addrs {
		if addr.IP != nil && !addr.IP.IsLinkLocalUnicast() {
			return addr.IP, nil
		}
	}

	return nil, nil
}

func (r *WpaRadio) HardwareAddr() (net.HardwareAddr, error) {
	link, err := netlink.LinkByName(r.ifname)
	if err != nil {
		return nil, errors.Errorf("could not find link %v: %v", r.ifname, err)
	}

	return link.Attrs().HardwareAddr, nil
}

func encryptionOf(b *wpa.Bss) Encryption {
	rsn := hasKeyMgmt(b.RsnKeyMgmt, "wpa-psk")
	wpaPsk := hasKeyMgmt(b.WpaKeyMgmt, "wpa-psk")

	switch {
	case hasKeyMgmt(b.RsnKeyMgmt, "wpa-eap"):
		return EncryptionWpa2Enterprise
	case rsn && wpaPsk:
		return EncryptionWpaWpa2Psk
	case rsn:
		return EncryptionWpa2Psk
	case wpaPsk:
		return EncryptionWpaPsk
	case b.Privacy:
		return EncryptionWep
	default:
		return EncryptionOpen
	}
}

func hasKeyMgmt(mgmt []string, want string) bool {
	for _, m := range mgmt {
		if m == want {
			return true
		}
	}

	return false
}
