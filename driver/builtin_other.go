//go:build !linux

package driver

import (
	c "lautenbacher.net/gobeep/config"
)

// platformDrivers returns nothing: the speaker APIs are Linux only.
func platformDrivers(cfg c.DriversConfig) []Driver {
	return nil
}
