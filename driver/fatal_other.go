//go:build !unix

package driver

import (
	"os"
)

func safeErrorExit(op string, err error) {
	os.Stderr.Write([]byte(op + ": " + err.Error() + "\n"))
	os.Exit(1)
}
