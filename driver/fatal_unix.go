//go:build unix

package driver

import (
	"os"

	"golang.org/x/sys/unix"
)

// safeErrorExit reports err with plain write(2) calls on stderr and exits
// with status 1. It does not go through slog or any buffered writer, as
// the device state is unknown at this point and the message must get out.
func safeErrorExit(op string, err error) {
	msg := []byte(op + ": " + err.Error() + "\n")
	for len(msg) > 0 {
		n, werr := unix.Write(unix.Stderr, msg)
		if werr != nil || n <= 0 {
			break
		}
		msg = msg[n:]
	}
	os.Exit(1)
}
