package scheduler

import (
	"context"
	"log"
	"time"
)

type Task func(ctx context.Context) error

// Every runs task on each tick until ctx is done. The first run is one
// interval after the call. Task errors are logged and do not stop the loop.
// It returns nil so it can run directly under an errgroup.
func Every(ctx context.Context, interval time.Duration, name string, task Task) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if err := task(ctx); err != nil {
				log.Printf("[%s] error: %v", name, err)
			}
		}
	}
}
