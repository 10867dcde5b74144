package wpa

import (
	"sync"

	"github.com/go-errors/errors"
	"github.com/godbus/dbus/v5"
)

var _ dbus.SignalHandler = (*Wpa)(nil)

type subscriber struct {
	name    string
	path    dbus.ObjectPath
	deliver func(*dbus.Signal)
}

// subscribe registers deliver for signals of the given member on path.
// deliver runs on the bus reader goroutine and must not block.
func (w *Wpa) subscribe(iface string, member string, path dbus.ObjectPath, deliver func(*dbus.Signal)) (func(), error) {
	options := []dbus.MatchOption{
		dbus.WithMatchInterface(iface),
		dbus.WithMatchMember(member),
		dbus.WithMatchObjectPath(path),
	}

	err := w.conn.AddMatchSignal(options...)
	if err != nil {
		return nil, errors.Errorf("could not add signal match for %v: %v", member, err)
	}

	w.mtx.Lock()
	id := w.nextSubscriber
	w.nextSubscriber++
	w.subscribers[id] = &subscriber{
		name:    iface + "." + member,
		path:    path,
		deliver: deliver,
	}
	w.mtx.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			w.mtx.Lock()
			delete(w.subscribers, id)
			w.mtx.Unlock()

			if w.conn != nil {
				_ = w.conn.RemoveMatchSignal(options...)
			}
		})
	}, nil
}

// DeliverSignal implements dbus.SignalHandler.
func (w *Wpa) DeliverSignal(iface, name string, signal *dbus.Signal) {
	w.mtx.Lock()
	var targets []func(*dbus.Signal)
	for _, s := range w.subscribers {
		if s.name == signal.Name && s.path == signal.Path {
			targets = append(targets, s.deliver)
		}
	}
	w.mtx.Unlock()

	for _, deliver := range targets {
		deliver(signal)
	}
}
