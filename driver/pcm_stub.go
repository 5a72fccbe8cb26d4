//go:build !cgo

package driver

import (
	"log/slog"

	c "lautenbacher.net/gobeep/config"
)

// newPCMDriver returns nil: PortAudio needs cgo.
func newPCMDriver(cfg c.PCMConfig) Driver {
	slog.Warn("PCM driver is disabled in this build (requires CGO).")
	return nil
}
