package knownnet

import (
	"os"
	"path/filepath"

	"github.com/go-errors/errors"
	"github.com/pelletier/go-toml/v2"
)

// File is the layout of networks.toml.
//
//	[[network]]
//	ssid = "Home"
//	psk = "secret123"
type File struct {
	Networks []Network `toml:"network" validate:"dive"`
}

type Network struct {
	Ssid string `toml:"ssid" json:"ssid" validate:"required,max=32"`
	Psk  string `toml:"psk" json:"psk" validate:"omitempty,min=8,max=63"`
}

// LoadFile reads and validates a networks file. A missing file yields no
// networks.
func LoadFile(path string) ([]Network, error) {
	if path == "" {
		return nil, nil
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Errorf("could not read %v: %v", path, err)
	}

	var file File
	if err := toml.Unmarshal(content, &file); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, errors.Errorf("could not parse %v at line %d, column %d: %v", path, row, col, derr)
		}
		return nil, errors.Errorf("could not parse %v: %v", path, err)
	}

	if err := Validate(&file); err != nil {
		return nil, errors.Errorf("invalid networks in %v: %v", path, err)
	}

	return file.Networks, nil
}
