package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

// setupSignalHandler returns a context cancelled on the first interrupt or
// terminate signal. A second signal exits immediately.
func setupSignalHandler(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Warn("Received signal, stopping after the current round", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			return
		}
		sig := <-sigChan
		logger.Error("Received second signal, exiting", "signal", sig.String())
		os.Exit(130)
	}()

	return ctx, cancel
}
