package config

import (
	"fmt"
	"strings"
)

type Storage struct {
	Driver StorageDriver `env:"STORAGE_DRIVER" envDefault:"POSTGRES"`
}

// StorageDriver selects the product store backend.
type StorageDriver uint8

const (
	StorageDriverPostgres StorageDriver = iota
	StorageDriverMongo
	StorageDriverMemory
)

func (d StorageDriver) String() string {
	names := []string{"POSTGRES", "MONGO", "MEMORY"}
	if int(d) >= len(names) {
		return fmt.Sprintf("StorageDriver(%d)", d)
	}
	return names[d]
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *StorageDriver) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "POSTGRES":
		*d = StorageDriverPostgres
	case "MONGO", "MONGODB":
		*d = StorageDriverMongo
	case "MEMORY":
		*d = StorageDriverMemory
	default:
		return fmt.Errorf("unknown storage driver: %s", text)
	}
	return nil
}

func (d StorageDriver) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
