package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// New returns a context bound to SIGINT/SIGTERM. A second signal aborts the
// process without waiting for graceful teardown.
func New() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
