package wpa

import (
	"sync"

	"github.com/go-errors/errors"
	"github.com/godbus/dbus/v5"
)

const (
	service        = "fi.w1.wpa_supplicant1"
	objectPath     = "/fi/w1/wpa_supplicant1"
	interfaceIface = service + ".Interface"
	bssIface       = service + ".BSS"
)

// Wpa is a connection to wpa_supplicant on the system bus.
type Wpa struct {
	conn           *dbus.Conn
	obj            dbus.BusObject
	mtx            sync.Mutex
	subscribers    map[uint32]*subscriber
	nextSubscriber uint32
}

func New() *Wpa {
	return &Wpa{
		subscribers: make(map[uint32]*subscriber),
	}
}

func (w *Wpa) Start() error {
	conn, err := dbus.ConnectSystemBus(dbus.WithSignalHandler(w))
	if err != nil {
		return errors.Errorf("could not connect to system bus: %v", err)
	}

	w.conn = conn
	w.obj = conn.Object(service, objectPath)

	return nil
}

func (w *Wpa) Stop() error {
	if w.conn == nil {
		return nil
	}

	err := w.conn.Close()
	if err != nil {
		return errors.Errorf("could not close system bus connection: %v", err)
	}

	w.conn = nil

	return nil
}

// GetInterface looks up the wpa_supplicant interface managing ifname.
func (w *Wpa) GetInterface(ifname string) (*Interface, error) {
	if w.conn == nil {
		return nil, errors.New("wpa not started")
	}

	call := w.obj.Call(service+".GetInterface", 0, ifname)
	if call.Err != nil {
		return nil, errors.Errorf("could not get interface %v: %v", ifname, call.Err)
	}

	var path dbus.ObjectPath
	err := call.Store(&path)
	if err != nil {
		return nil, errors.Errorf("could not store interface path: %v", err)
	}

	return &Interface{
		wpa:    w,
		ifname: ifname,
		obj:    w.conn.Object(service, path),
	}, nil
}
