package util

import (
	"os"
	"os/signal"
	"syscall"
)

// NotifyAbort raises a whenever one of sigs (SIGINT and SIGTERM if none
// are given) is delivered. The receiving goroutine does nothing besides
// a.Set(); silencing the device is left to the tone loop. The returned
// function stops the delivery.
func NotifyAbort(a *AbortFlag, sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	ch := make(chan os.Signal, 1)
	quit := make(chan struct{})
	signal.Notify(ch, sigs...)

	go func() {
		for {
			select {
			case <-ch:
				a.Set()
			case <-quit:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(quit)
	}
}
