package board

import (
	"net"
	"strings"
)

// UniqueName appends the hardware address, without separators, to prefix.
func UniqueName(prefix string, mac net.HardwareAddr) string {
	return prefix + strings.ToUpper(strings.ReplaceAll(mac.String(), ":", ""))
}

// Name returns the name stored for the board or, if none was set, its
// unique name.
func (b *Board) Name() (string, error) {
	name, err := b.db.GetName()
	if err != nil {
		return "", err
	}

	if name != "" {
		return name, nil
	}

	mac, err := b.radio.HardwareAddr()
	if err != nil {
		return "", err
	}

	return UniqueName(b.namePrefix, mac), nil
}

func (b *Board) SetName(name string) error {
	b.log.Infof("Setting name to %v", name)

	return b.db.SetName(name)
}
