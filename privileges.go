package main

import (
	"errors"
	"log/slog"
	"os"
)

type processIDs struct {
	uid, euid, gid, egid int
}

func currentIDs() processIDs {
	return processIDs{
		uid:  os.Getuid(),
		euid: os.Geteuid(),
		gid:  os.Getgid(),
		egid: os.Getegid(),
	}
}

var sudoVars = []string{"SUDO_COMMAND", "SUDO_USER", "SUDO_UID", "SUDO_GID"}

var (
	errSetuid = errors.New("running setuid or setgid is not supported, set up permissions for the pcspkr evdev device file instead")
	errSudo   = errors.New("running as root under sudo is not supported, set up permissions for the pcspkr evdev device file and run as non-root user instead")
)

// checkPrivileges refuses the leftovers of old setups that ran the beeper
// with elevated privileges: a setuid/setgid binary or root via sudo.
func checkPrivileges(ids processIDs, lookupEnv func(string) (string, bool)) error {
	if ids.uid != ids.euid || ids.gid != ids.egid {
		return errSetuid
	}
	if ids.uid != 0 && ids.euid != 0 && ids.gid != 0 && ids.egid != 0 {
		return nil
	}
	slog.Debug("Running with root permissions, checking for SUDO_* in environment")
	for _, name := range sudoVars {
		if _, ok := lookupEnv(name); ok {
			return errSudo
		}
	}
	return nil
}
