package network

// Status is the connection status reported by the radio.
type Status int

const (
	StatusIdle Status = iota
	StatusNoNetwork
	StatusScanDone
	StatusConnected
	StatusConnectFailed
	StatusConnectionLost
	StatusDisconnected
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "WL_IDLE_STATUS"
	case StatusNoNetwork:
		return "WL_NO_SSID_AVAIL"
	case StatusScanDone:
		return "WL_SCAN_COMPLETED"
	case StatusConnected:
		return "WL_CONNECTED"
	case StatusConnectFailed:
		return "WL_CONNECT_FAILED"
	case StatusConnectionLost:
		return "WL_CONNECTION_LOST"
	case StatusDisconnected:
		return "WL_DISCONNECTED"
	default:
		return "UNKNOWN_STATUS"
	}
}

// State is the phase of the supervisor's connect cycle.
type State int

const (
	Idle State = iota
	Scanning
	Associating
	WaitingForAddress
	Connected
	FailedNoKnownNetwork
	FailedTimeout
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Scanning:
		return "SCANNING"
	case Associating:
		return "ASSOCIATING"
	case WaitingForAddress:
		return "WAITING_FOR_ADDRESS"
	case Connected:
		return "CONNECTED"
	case FailedNoKnownNetwork:
		return "FAILED_NO_KNOWN_NETWORK"
	case FailedTimeout:
		return "FAILED_TIMEOUT"
	default:
		return "INVALID STATE"
	}
}

// Encryption is the authentication method advertised by an access point.
type Encryption int

const (
	EncryptionUnknown Encryption = iota
	EncryptionOpen
	EncryptionWep
	EncryptionWpaPsk
	EncryptionWpa2Psk
	EncryptionWpaWpa2Psk
	EncryptionWpa2Enterprise
)

func (e Encryption) String() string {
	switch e {
	case EncryptionOpen:
		return "Open"
	case EncryptionWep:
		return "WEP"
	case EncryptionWpaPsk:
		return "WPA_PSK"
	case EncryptionWpa2Psk:
		return "WPA2_PSK"
	case EncryptionWpaWpa2Psk:
		return "WPA_WPA2_PSK"
	case EncryptionWpa2Enterprise:
		return "WPA2_ENTERPRISE"
	default:
		return "UNKNOWN"
	}
}
