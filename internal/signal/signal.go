// Package signal provides utilities for handling OS signals in a graceful manner.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"brushcolor/internal/logging"
)

// RunWithContext calls action with a context that is cancelled on the first
// SIGINT or SIGTERM. A second signal exits the process immediately.
func RunWithContext(action func(context.Context) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	done := make(chan struct{})
	defer close(done)
	go watch(sigChan, done, cancel, os.Exit)

	return action(ctx)
}

// watch cancels on the first signal and calls exit on the second. It
// returns once done is closed.
func watch(sigChan <-chan os.Signal, done <-chan struct{}, cancel context.CancelFunc, exit func(int)) {
	select {
	case sig := <-sigChan:
		logging.Logger().Info("shutting down", "signal", sig.String())
		cancel()
	case <-done:
		return
	}
	select {
	case <-sigChan:
		exit(1)
	case <-done:
	}
}
