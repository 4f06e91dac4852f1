// internal/notify/scheduler/guard.go
package scheduler

import (
	"context"
	"time"

	"github.com/Nasrulloh23256/NesabaLearn/internal/common/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockKey = "notifier:sweep:lock"

// releaseScript deletes the lease only if we still own it, so a sweep that
// outlived its TTL cannot release a successor's lease.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// SweepGuard is the non-overlap guard for the periodic sweep: a Redis lease
// with a TTL sized to the sweep cadence. A sweep killed mid-run leaves the
// lease to expire on its own, so the schedule is never blocked permanently.
type SweepGuard struct {
	rdb    *redis.Client
	ttl    time.Duration
	token  string
	logger logger.Logger
}

func NewSweepGuard(rdb *redis.Client, ttl time.Duration, log logger.Logger) *SweepGuard {
	return &SweepGuard{
		rdb:    rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "sweep-guard"}),
	}
}

// Acquire tries to take the lease. Returns false when another sweep holds it;
// the caller skips (not queues) the sweep.
func (g *SweepGuard) Acquire(ctx context.Context) (bool, error) {
	token := uuid.New().String()
	ok, err := g.rdb.SetNX(ctx, lockKey, token, g.ttl).Result()
	if err != nil {
		return false, err
	}
	if ok {
		g.token = token
	}
	return ok, nil
}

// Release gives the lease back. Best-effort: on error the lease simply
// expires with its TTL.
func (g *SweepGuard) Release(ctx context.Context) {
	if g.token == "" {
		return
	}
	if err := releaseScript.Run(ctx, g.rdb, []string{lockKey}, g.token).Err(); err != nil && err != redis.Nil {
		g.logger.Warn("lease release failed, waiting for TTL expiry", map[string]interface{}{
			"error": err,
		})
	}
	g.token = ""
}
