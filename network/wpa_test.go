package network

import (
	"testing"

	"github.com/the-lightning-land/boardd/network/wpa"
)

func TestMapWpaState(t *testing.T) {
	tests := []struct {
		name       string
		state      string
		previous   string
		hasAddress bool
		everOnline bool
		want       Status
	}{
		{"completed with address", "completed", "group_handshake", true, false, StatusConnected},
		{"completed without address", "completed", "group_handshake", false, false, StatusDisconnected},
		{"handshake in progress", "4way_handshake", "associated", false, false, StatusDisconnected},
		{"wrong passphrase", "disconnected", "4way_handshake", false, false, StatusConnectFailed},
		{"lost after being online", "disconnected", "completed", false, true, StatusConnectionLost},
		{"never online", "disconnected", "scanning", false, false, StatusDisconnected},
		{"inactive", "inactive", "", false, false, StatusIdle},
		{"interface disabled", "interface_disabled", "", false, false, StatusConnectFailed},
		{"unknown state", "whatever", "", false, false, StatusIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapWpaState(tt.state, tt.previous, tt.hasAddress, tt.everOnline)
			if got != tt.want {
				t.Errorf("mapWpaState(%q, %q) = %v, want %v", tt.state, tt.previous, got, tt.want)
			}
		})
	}
}

func TestEncryptionOf(t *testing.T) {
	tests := []struct {
		name string
		bss  *wpa.Bss
		want Encryption
	}{
		{"open", &wpa.Bss{}, EncryptionOpen},
		{"wep", &wpa.Bss{Privacy: true}, EncryptionWep},
		{"wpa", &wpa.Bss{Privacy: true, WpaKeyMgmt: []string{"wpa-psk"}}, EncryptionWpaPsk},
		{"wpa2", &wpa.Bss{Privacy: true, RsnKeyMgmt: []string{"wpa-psk", "wpa-psk-sha256"}}, EncryptionWpa2Psk},
		{"mixed", &wpa.Bss{Privacy: true, WpaKeyMgmt: []string{"wpa-psk"}, RsnKeyMgmt: []string{"wpa-psk"}}, EncryptionWpaWpa2Psk},
		{"enterprise", &wpa.Bss{Privacy: true, RsnKeyMgmt: []string{"wpa-eap"}}, EncryptionWpa2Enterprise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encryptionOf(tt.bss); got != tt.want {
				t.Errorf("encryptionOf() = %v, want %v", got, tt.want)
			}
		})
	}
}
