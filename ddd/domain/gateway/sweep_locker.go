package gateway

import (
	"context"
	"time"
)

// SweepLocker serialises retention sweeps across replicas sharing a volume.
type SweepLocker interface {
	// TryAcquire returns a release func when the lock was taken, or ok=false
	// when another holder has it.
	TryAcquire(ctx context.Context, name string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}
