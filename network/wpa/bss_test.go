package wpa

import (
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestParseBss(t *testing.T) {
	t.Run("complete wpa2 network", func(t *testing.T) {
		bss, err := ParseBss(map[string]dbus.Variant{
			"SSID":      dbus.MakeVariant([]byte("Home")),
			"BSSID":     dbus.MakeVariant([]byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}),
			"Signal":    dbus.MakeVariant(int16(-65)),
			"Frequency": dbus.MakeVariant(uint16(2412)),
			"Privacy":   dbus.MakeVariant(true),
			"RSN": dbus.MakeVariant(map[string]dbus.Variant{
				"KeyMgmt": dbus.MakeVariant([]string{"wpa-psk"}),
			}),
		})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if bss.Ssid != "Home" {
			t.Errorf("Expected SSID Home, got %q", bss.Ssid)
		}
		if bss.Bssid != "deadbeef0001" {
			t.Errorf("Expected BSSID deadbeef0001, got %q", bss.Bssid)
		}
		if bss.Signal != -65 {
			t.Errorf("Expected signal -65, got %d", bss.Signal)
		}
		if bss.Frequency != 2412 {
			t.Errorf("Expected frequency 2412, got %d", bss.Frequency)
		}
		if len(bss.RsnKeyMgmt) != 1 || bss.RsnKeyMgmt[0] != "wpa-psk" {
			t.Errorf("Expected RSN key management [wpa-psk], got %v", bss.RsnKeyMgmt)
		}
		if bss.WpaKeyMgmt != nil {
			t.Errorf("Expected no WPA key management, got %v", bss.WpaKeyMgmt)
		}
	})

	t.Run("missing signal", func(t *testing.T) {
		_, err := ParseBss(map[string]dbus.Variant{
			"SSID":  dbus.MakeVariant([]byte("Home")),
			"BSSID": dbus.MakeVariant([]byte{0x01}),
		})
		if err == nil {
			t.Error("Expected an error for a missing signal")
		}
	})

	t.Run("ssid of wrong type", func(t *testing.T) {
		_, err := ParseBss(map[string]dbus.Variant{
			"SSID": dbus.MakeVariant("Home"),
		})
		if err == nil {
			t.Error("Expected an error for a string SSID")
		}
	})
}
