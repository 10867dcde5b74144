package wpa

import (
	"encoding/hex"

	"github.com/go-errors/errors"
	"github.com/godbus/dbus/v5"
)

type BSS struct {
	obj dbus.BusObject
}

func (b *BSS) String() string {
	return string(b.obj.Path())
}

// Bss holds the properties of a BSS relevant for network selection.
type Bss struct {
	Ssid       string
	Bssid      string
	Signal     int
	Frequency  int
	Privacy    bool
	WpaKeyMgmt []string
	RsnKeyMgmt []string
}

func (b *BSS) GetAll() (*Bss, error) {
	call := b.obj.Call("org.freedesktop.DBus.Properties.GetAll", 0, bssIface)
	if call.Err != nil {
		return nil, errors.Errorf("could not get all properties: %v", call.Err)
	}

	var props map[string]dbus.Variant
	err := call.Store(&props)
	if err != nil {
		return nil, errors.Errorf("could not convert output: %v", err)
	}

	return ParseBss(props)
}

// ParseBss converts a BSS property map as returned by wpa_supplicant.
func ParseBss(props map[string]dbus.Variant) (*Bss, error) {
	bss := Bss{}

	if val, ok := props["SSID"]; ok {
		if ssid, ok := val.Value().([]byte); ok {
			bss.Ssid = string(ssid)
		} else {
			return nil, errors.Errorf("could not convert SSID to string: %v", val)
		}
	} else {
		return nil, errors.New("mandatory property SSID was missing")
	}

	if val, ok := props["BSSID"]; ok {
		if bssid, ok := val.Value().([]byte); ok {
			bss.Bssid = hex.EncodeToString(bssid)
		} else {
			return nil, errors.Errorf("could not convert BSSID to string: %v", val)
		}
	} else {
		return nil, errors.New("mandatory property BSSID was missing")
	}

	if val, ok := props["Signal"]; ok {
		if signal, ok := val.Value().(int16); ok {
			bss.Signal = int(signal)
		} else {
			return nil, errors.Errorf("could not convert Signal to int: %v", val)
		}
	} else {
		return nil, errors.New("mandatory property Signal was missing")
	}

	if val, ok := props["Frequency"]; ok {
		if freq, ok := val.Value().(uint16); ok {
			bss.Frequency = int(freq)
		}
	}

	if val, ok := props["Privacy"]; ok {
		if privacy, ok := val.Value().(bool); ok {
			bss.Privacy = privacy
		}
	}

	bss.WpaKeyMgmt = keyMgmt(props["WPA"])
	bss.RsnKeyMgmt = keyMgmt(props["RSN"])

	return &bss, nil
}

func keyMgmt(val dbus.Variant) []string {
	security, ok := val.Value().(map[string]dbus.Variant)
	if !ok {
		return nil
	}

	mgmt, ok := security["KeyMgmt"].Value().([]string)
	if !ok {
		return nil
	}

	return mgmt
}
