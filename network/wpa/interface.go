package wpa

import (
	"github.com/go-errors/errors"
	"github.com/godbus/dbus/v5"
)

// Interface is a network interface managed by wpa_supplicant.
type Interface struct {
	wpa    *Wpa
	ifname string
	obj    dbus.BusObject
}

func (i *Interface) Ifname() string {
	return i.ifname
}

// Scan requests an active scan. Completion is signalled through ScanDone.
func (i *Interface) Scan() error {
	call := i.obj.Call(interfaceIface+".Scan", 0, map[string]interface{}{
		"Type": "active",
	})
	if call.Err != nil {
		return errors.Errorf("could not scan: %v", call.Err)
	}

	return nil
}

type ScanDoneClient struct {
	ScanDone <-chan bool
	Cancel   func()
}

// ScanDone subscribes to scan completion. The channel receives whether the
// scan succeeded.
func (i *Interface) ScanDone() (*ScanDoneClient, error) {
	doneChan := make(chan bool, 1)

	cancel, err := i.wpa.subscribe(interfaceIface, "ScanDone", i.obj.Path(), func(signal *dbus.Signal) {
		success, ok := scanDoneResult(signal.Body)
		if !ok {
			return
		}

		select {
		case doneChan <- success:
		default:
		}
	})
	if err != nil {
		return nil, err
	}

	return &ScanDoneClient{
		ScanDone: doneChan,
		Cancel:   cancel,
	}, nil
}

// scanDoneResult reads the success flag of a ScanDone signal body.
func scanDoneResult(body []interface{}) (bool, bool) {
	if len(body) == 0 {
		return false, false
	}

	success, ok := body[0].(bool)
	return success, ok
}

type PropertiesChangedClient struct {
	Properties <-chan map[string]dbus.Variant
	Cancel     func()
}

// PropertiesChanged subscribes to property changes of the interface.
func (i *Interface) PropertiesChanged() (*PropertiesChangedClient, error) {
	propsChan := make(chan map[string]dbus.Variant, 8)

	cancel, err := i.wpa.subscribe(interfaceIface, "PropertiesChanged", i.obj.Path(), func(signal *dbus.Signal) {
		if len(signal.Body) == 0 {
			return
		}

		props, ok := signal.Body[0].(map[string]dbus.Variant)
		if !ok {
			return
		}

		select {
		case propsChan <- props:
		default:
		}
	})
	if err != nil {
		return nil, err
	}

	return &PropertiesChangedClient{
		Properties: propsChan,
		Cancel:     cancel,
	}, nil
}

func (i *Interface) BSSs() ([]*BSS, error) {
	v, err := i.obj.GetProperty(interfaceIface + ".BSSs")
	if err != nil {
		return nil, errors.Errorf("could not get bsss: %v", err)
	}

	objectPaths, ok := v.Value().([]dbus.ObjectPath)
	if !ok {
		return nil, errors.Errorf("could not convert bsss: %v", v)
	}

	var bsss []*BSS

	for _, objectPath := range objectPaths {
		bsss = append(bsss, &BSS{
			obj: i.wpa.conn.Object(service, objectPath),
		})
	}

	return bsss, nil
}

// State returns the wpa_supplicant state of the interface, e.g. "completed".
func (i *Interface) State() (string, error) {
	v, err := i.obj.GetProperty(interfaceIface + ".State")
	if err != nil {
		return "", errors.Errorf("could not get state: %v", err)
	}

	state, ok := v.Value().(string)
	if !ok {
		return "", errors.Errorf("could not convert state: %v", v)
	}

	return state, nil
}

type Signal struct {
	Rssi      int
	LinkSpeed int
	Frequency int
}

// SignalPoll reads the signal of the current connection.
func (i *Interface) SignalPoll() (*Signal, error) {
	call := i.obj.Call(interfaceIface+".SignalPoll", 0)
	if call.Err != nil {
		return nil, errors.Errorf("could not poll signal: %v", call.Err)
	}

	var props map[string]dbus.Variant
	err := call.Store(&props)
	if err != nil {
		return nil, errors.Errorf("could not store signal: %v", err)
	}

	val, ok := props["rssi"]
	if !ok {
		return nil, errors.New("mandatory property rssi was missing")
	}

	rssi, ok := val.Value().(int32)
	if !ok {
		return nil, errors.Errorf("could not convert rssi: %v", val)
	}

	signal := &Signal{
		Rssi: int(rssi),
	}

	if val, ok := props["linkspeed"]; ok {
		if speed, ok := val.Value().(int32); ok {
			signal.LinkSpeed = int(speed)
		}
	}

	if val, ok := props["frequency"]; ok {
		if freq, ok := val.Value().(uint32); ok {
			signal.Frequency = int(freq)
		}
	}

	return signal, nil
}

// AddNetwork adds a network block. An empty psk adds an open network.
func (i *Interface) AddNetwork(ssid string, psk string) (*Network, error) {
	args := map[string]interface{}{
		"ssid": ssid,
	}

	if psk != "" {
		args["psk"] = psk
	} else {
		args["key_mgmt"] = "NONE"
	}

	call := i.obj.Call(interfaceIface+".AddNetwork", 0, args)
	if call.Err != nil {
		return nil, errors.Errorf("could not add network: %v", call.Err)
	}

	var objPath dbus.ObjectPath
	err := call.Store(&objPath)
	if err != nil {
		return nil, errors.Errorf("could not store value: %v", err)
	}

	return &Network{
		obj: i.wpa.conn.Object(service, objPath),
	}, nil
}

func (i *Interface) SelectNetwork(net *Network) error {
	call := i.obj.Call(interfaceIface+".SelectNetwork", 0, net.obj.Path())
	if call.Err != nil {
		return errors.Errorf("could not select network: %v", call.Err)
	}

	return nil
}

func (i *Interface) RemoveNetwork(net *Network) error {
	call := i.obj.Call(interfaceIface+".RemoveNetwork", 0, net.obj.Path())
	if call.Err != nil {
		return errors.Errorf("could not remove network: %v", call.Err)
	}

	return nil
}

func (i *Interface) RemoveAllNetworks() error {
	call := i.obj.Call(interfaceIface+".RemoveAllNetworks", 0)
	if call.Err != nil {
		return errors.Errorf("could not remove all networks: %v", call.Err)
	}

	return nil
}
