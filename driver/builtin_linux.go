package driver

import (
	c "lautenbacher.net/gobeep/config"
)

// platformDrivers returns the Linux backends in registration order.
func platformDrivers(cfg c.DriversConfig) []Driver {
	var drivers []Driver
	if cfg.GPIO.Enabled {
		drivers = append(drivers, NewGPIODriver(cfg.GPIO))
	}
	return append(drivers,
		NewConsoleDriver(cfg.Console.Devices),
		NewEvdevDriver(cfg.Evdev.Devices),
	)
}
