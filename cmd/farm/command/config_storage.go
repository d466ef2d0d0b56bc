package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-farm/internal/storage"
)

type StorageBackend string

const (
	StorageBackendFile     StorageBackend = "file"
	StorageBackendGdata    StorageBackend = "gdata"
	StorageBackendPostgres StorageBackend = "postgres"
	StorageBackendMemory   StorageBackend = "memory"
)

type StorageConfig struct {
	Backend StorageBackend `json:"backend"`
	// Path is the save directory of the file backend.
	Path string `json:"path,omitempty"`
	// AppName names the gdata save location.
	AppName string `json:"app_name,omitempty"`
	DSN     string `json:"dsn,omitempty"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()

	switch c.Backend {
	case StorageBackendFile:
		if c.Path == "" {
			el.Add(fmt.Errorf("storage: path is required for the file backend"))
		}
	case StorageBackendGdata:
		if c.AppName == "" {
			el.Add(fmt.Errorf("storage: app_name is required for the gdata backend"))
		}
	case StorageBackendPostgres:
		if c.DSN == "" {
			el.Add(fmt.Errorf("storage: dsn is required for the postgres backend"))
		}
	case StorageBackendMemory:
	default:
		el.Add(fmt.Errorf("storage: unknown backend %q", c.Backend))
	}

	return el.Err()
}

func (c *StorageConfig) BuildStore() (storage.Storer, error) {
	switch c.Backend {
	case StorageBackendFile:
		s, err := storage.NewFileStore(c.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case StorageBackendGdata:
		s, err := storage.NewGdataStore(c.AppName)
		if err != nil {
			return nil, err
		}
		return s, nil
	case StorageBackendPostgres:
		db, err := storage.OpenPostgres(c.DSN)
		if err != nil {
			return nil, err
		}
		s, err := storage.NewSQLStore(db)
		if err != nil {
			return nil, err
		}
		return s, nil
	case StorageBackendMemory:
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.Backend)
	}
}
