package pairing

import (
	"time"

	"github.com/go-errors/errors"
	"github.com/muka/go-bluetooth/api"
	"github.com/muka/go-bluetooth/linux/btmgmt"
)

const (
	// Unique UUID suffix for the board
	uuidSuffix = "-4f3c-4e5b-9a57-0b6f3d2e8c41"

	// Prefix of the board service UUID
	boardServiceUuidPrefix = "B0A0"

	// Where to expose the application
	objectName = "land.lightning"
	objectPath = "/board/pairing/service"

	// Local name of the application
	localName = "Board"

	boardServiceUuid          = boardServiceUuidPrefix + "0000" + uuidSuffix
	networkAvailabilityStatus = boardServiceUuidPrefix + "B001" + uuidSuffix
	ipAddress                 = boardServiceUuidPrefix + "B002" + uuidSuffix
	wifiScanList              = boardServiceUuidPrefix + "B003" + uuidSuffix
	wifiSsidString            = boardServiceUuidPrefix + "B004" + uuidSuffix
	wifiPskString             = boardServiceUuidPrefix + "B005" + uuidSuffix
	wifiConnectSignal         = boardServiceUuidPrefix + "B006" + uuidSuffix
	wifiSignalQuality         = boardServiceUuidPrefix + "B007" + uuidSuffix

	deviceNameUuid       = "2A00"
	manufacturerNameUuid = "2A29"
	modelNumberUuid      = "2A24"
)

// Controller exposes network setup of the board over Bluetooth LE so it can
// be paired with a network before it has any other connectivity.
type Controller struct {
	log       Logger
	adapterId string
	server    *gattServer
	handlers  *handlers
}

func NewController(config *Config) (*Controller, error) {
	controller := &Controller{
		adapterId: config.AdapterId,
	}

	if config.Logger != nil {
		controller.log = config.Logger
	} else {
		controller.log = noopLogger{}
	}

	controller.handlers = &handlers{
		log:   controller.log,
		board: config.Board,
	}

	name, err := config.Board.Name()
	if err != nil {
		return nil, errors.Errorf("could not get board name: %v", err)
	}

	controller.server, err = newGattServer(objectName, objectPath, localName)
	if err != nil {
		return nil, err
	}

	h := controller.handlers

	err = controller.server.addService(boardServiceUuid, []*characteristic{
		{uuid: deviceNameUuid, description: "Device Name", value: []byte(name), presentation: true},
		{uuid: manufacturerNameUuid, description: "Manufacturer Name", value: []byte("The Lightning Land"), presentation: true},
		{uuid: modelNumberUuid, description: "Model Number", value: []byte("board"), presentation: true},
		{uuid: networkAvailabilityStatus, description: "Network Availability Status", read: h.readNetworkAvailabilityStatus},
		{uuid: ipAddress, description: "IP Address", read: h.readIpAddress},
		{uuid: wifiScanList, description: "Wi-Fi Scan List", read: h.readWifiScanList},
		{uuid: wifiSsidString, description: "Wi-Fi SSID", read: h.readWifiSsidString, write: h.writeWifiSsidString},
		{uuid: wifiPskString, description: "Wi-Fi PSK", write: h.writeWifiPskString},
		{uuid: wifiConnectSignal, description: "Wi-Fi Connect Signal", write: h.writeWifiConnectSignal},
		{uuid: wifiSignalQuality, description: "Wi-Fi Signal Quality", read: h.readSignalQuality},
	})
	if err != nil {
		return nil, err
	}

	err = controller.server.run()
	if err != nil {
		return nil, err
	}

	return controller, nil
}

func (c *Controller) Start() error {
	mgmt := btmgmt.NewBtMgmt(c.adapterId)
	err := mgmt.Reset()
	if err != nil {
		return errors.Errorf("could not reset %s: %v", c.adapterId, err)
	}

	// Sleep to give the device some time after the reset
	time.Sleep(time.Millisecond * 500)

	gattManager, err := api.GetGattManager(c.adapterId)
	if err != nil {
		return errors.Errorf("could not get gatt manager: %v", err)
	}

	err = gattManager.RegisterApplication(c.server.app.Path(), map[string]interface{}{})
	if err != nil {
		return errors.Errorf("could not register application: %v", err)
	}

	err = c.server.app.StartAdvertising(c.adapterId)
	if err != nil {
		return errors.Errorf("could not advertise: %v", err)
	}

	c.log.Infof("Advertising pairing service on %v", c.adapterId)

	return nil
}

func (c *Controller) Stop() error {
	err := c.server.app.StopAdvertising()
	if err != nil {
		return errors.Errorf("could not stop advertising: %v", err)
	}

	gattManager, err := api.GetGattManager(c.adapterId)
	if err != nil {
		return errors.Errorf("could not get gatt manager: %v", err)
	}

	err = gattManager.UnregisterApplication(c.server.app.Path())
	if err != nil {
		return errors.Errorf("could not unregister application: %v", err)
	}

	return nil
}
