package pairing

import (
	"github.com/go-errors/errors"
	"github.com/godbus/dbus"
	"github.com/muka/go-bluetooth/bluez"
	"github.com/muka/go-bluetooth/bluez/profile"
	"github.com/muka/go-bluetooth/service"
)

const (
	userDescriptionUuid = "2901"
	presentationUuid    = "2904"

	// utf8 string format of the presentation descriptor
	formatUtf8 = 25
)

type readFunc = func() ([]byte, error)
type writeFunc = func(value []byte) error

// characteristic describes one GATT characteristic. Static values are served
// by BlueZ, dynamic ones through read and write.
type characteristic struct {
	uuid        string
	description string
	value       []byte
	read        readFunc
	write       writeFunc
	// presentation adds a utf8 presentation descriptor
	presentation bool
}

func (c *characteristic) flags() []string {
	var flags []string

	if c.read != nil || c.value != nil {
		flags = append(flags, bluez.FlagCharacteristicRead)
	}

	if c.write != nil {
		flags = append(flags, bluez.FlagCharacteristicWrite)
	}

	return flags
}

// gattServer owns a single advertised primary service.
type gattServer struct {
	app             *service.Application
	characteristics map[string]*characteristic
}

func newGattServer(objectName string, objectPath string, localName string) (*gattServer, error) {
	s := &gattServer{
		characteristics: make(map[string]*characteristic),
	}

	app, err := service.NewApplication(&service.ApplicationConfig{
		ObjectName: objectName,
		ObjectPath: dbus.ObjectPath(objectPath),
		LocalName:  localName,
		ReadFunc:   s.handleRead,
		WriteFunc:  s.handleWrite,
	})
	if err != nil {
		return nil, errors.Errorf("could not create app: %v", err)
	}

	s.app = app

	return s, nil
}

func (s *gattServer) handleRead(app *service.Application, serviceUuid string, characteristicUuid string) ([]byte, error) {
	if c, ok := s.characteristics[characteristicUuid]; ok && c.read != nil {
		return c.read()
	}

	return nil, service.NewCallbackError(service.CallbackNotRegistered, "")
}

func (s *gattServer) handleWrite(app *service.Application, serviceUuid string, characteristicUuid string, value []byte) error {
	if c, ok := s.characteristics[characteristicUuid]; ok && c.write != nil {
		return c.write(value)
	}

	return service.NewCallbackError(service.CallbackNotRegistered, "")
}

// addService creates the primary advertised service with all characteristics.
func (s *gattServer) addService(uuid string, characteristics []*characteristic) error {
	svc, err := s.app.CreateService(&profile.GattService1Properties{
		Primary: true,
		UUID:    uuid,
	}, true)
	if err != nil {
		return errors.Errorf("could not create service %v: %v", uuid, err)
	}

	err = s.app.AddService(svc)
	if err != nil {
		return errors.Errorf("could not add service %v: %v", uuid, err)
	}

	for _, c := range characteristics {
		err := s.addCharacteristic(svc, c)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *gattServer) addCharacteristic(svc *service.GattService1, c *characteristic) error {
	char, err := svc.CreateCharacteristic(&profile.GattCharacteristic1Properties{
		UUID:  c.uuid,
		Value: c.value,
		Flags: c.flags(),
	})
	if err != nil {
		return errors.Errorf("could not create characteristic %v: %v", c.uuid, err)
	}

	err = svc.AddCharacteristic(char)
	if err != nil {
		return errors.Errorf("could not add characteristic %v: %v", c.uuid, err)
	}

	// characteristic UUIDs are unique across the single service
	s.characteristics[c.uuid] = c

	descriptors := map[string][]byte{
		userDescriptionUuid: []byte(c.description),
	}

	if c.presentation {
		descriptors[presentationUuid] = []byte{formatUtf8}
	}

	for uuid, value := range descriptors {
		descriptor, err := char.CreateDescriptor(&profile.GattDescriptor1Properties{
			UUID:  uuid,
			Value: value,
			Flags: []string{
				bluez.FlagDescriptorRead,
			},
		})
		if err != nil {
			return errors.Errorf("could not create descriptor %v of %v: %v", uuid, c.uuid, err)
		}

		err = char.AddDescriptor(descriptor)
		if err != nil {
			return errors.Errorf("could not add descriptor %v of %v: %v", uuid, c.uuid, err)
		}
	}

	return nil
}

func (s *gattServer) run() error {
	err := s.app.Run()
	if err != nil {
		return errors.Errorf("could not run app: %v", err)
	}

	return nil
}
