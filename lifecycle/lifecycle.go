// Package lifecycle turns process signals into session lifecycle events.
package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

type Signal int

const (
	// SignalHidden: the session went to the background and may never return.
	SignalHidden Signal = iota + 1
	// SignalUnloading: the session is being torn down.
	SignalUnloading
)

func (s Signal) String() string {
	switch s {
	case SignalHidden:
		return "hidden"
	case SignalUnloading:
		return "unloading"
	default:
		return "unknown"
	}
}

// FromOS maps an OS signal to a lifecycle signal.
// SIGHUP (terminal closed or detached) is "hidden"; SIGINT and SIGTERM are "unloading".
func FromOS(sig os.Signal) (Signal, bool) {
	switch sig {
	case syscall.SIGHUP:
		return SignalHidden, true
	case os.Interrupt, syscall.SIGTERM:
		return SignalUnloading, true
	}
	return 0, false
}

// NotifySource relays OS signals as lifecycle signals until ctx is done.
// The returned channel is closed afterwards.
func NotifySource(ctx context.Context) <-chan Signal {
	osCh := make(chan os.Signal, 2)
	signal.Notify(osCh, syscall.SIGHUP, os.Interrupt, syscall.SIGTERM)

	out := make(chan Signal, 2)
	go func() {
		defer close(out)
		defer signal.Stop(osCh)
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-osCh:
				sig, ok := FromOS(s)
				if !ok {
					continue
				}
				select {
				case out <- sig:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
