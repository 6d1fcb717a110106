package storage

import (
	"fmt"
	"strings"

	"github.com/quasilyte/gdata/v2"
)

// dataObject is the gdata object every key is stored under.
const dataObject = "ledger"

// DataStore is a key-value backend on top of gdata. It writes to the
// per-user application data directory on desktop and to localStorage when
// compiled for the browser.
type DataStore struct {
	m *gdata.Manager
}

// OpenDataStore opens the gdata storage for the given application name.
func OpenDataStore(appName string) (*DataStore, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open app data %q: %w", appName, err)
	}
	return &DataStore{m: m}, nil
}

// Get returns the value stored under key.
func (d *DataStore) Get(key string) (string, bool, error) {
	prop := dataProp(key)
	if !d.m.ObjectPropExists(dataObject, prop) {
		return "", false, nil
	}
	data, err := d.m.LoadObjectProp(dataObject, prop)
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %q: %w", key, err)
	}
	return string(data), true, nil
}

// Set stores value under key.
func (d *DataStore) Set(key, value string) error {
	if err := d.m.SaveObjectProp(dataObject, dataProp(key), []byte(value)); err != nil {
		return fmt.Errorf("storage: cannot write %q: %w", key, err)
	}
	return nil
}

// dataProp maps a ledger key to a file-safe property name.
func dataProp(key string) string {
	return strings.NewReplacer("/", "__", "\\", "__", ":", "_").Replace(key)
}
