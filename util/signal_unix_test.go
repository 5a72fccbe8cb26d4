//go:build unix

package util

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifyAbort(t *testing.T) {
	a := NewAbortFlag()
	stop := NotifyAbort(a, syscall.SIGUSR1)
	defer stop()

	assert.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))

	select {
	case <-a.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("signal did not raise the abort flag")
	}
	assert.True(t, a.IsSet())
}
