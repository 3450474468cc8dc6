package bot

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// RestartPolicy controls Supervise.
type RestartPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// MaxRestarts stops supervision after this many restarts; 0 means never.
	MaxRestarts int
}

func DefaultRestartPolicy() RestartPolicy {
	return RestartPolicy{
		InitialInterval: time.Second,
		MaxInterval:     30 * time.Second,
	}
}

// Supervise calls run until ctx ends, waiting between attempts with
// exponential backoff. A run that returns nil (the round closed normally)
// resets the backoff. Positions are never carried between attempts; each
// run starts from the exchange's hello.
func Supervise(ctx context.Context, policy RestartPolicy, run func(context.Context) error, log *zap.SugaredLogger) error {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	bo := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		bo.InitialInterval = policy.InitialInterval
	}
	if policy.MaxInterval > 0 {
		bo.MaxInterval = policy.MaxInterval
	}

	restarts := 0
	for {
		err := run(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err == nil {
			bo.Reset()
		}

		if policy.MaxRestarts > 0 && restarts >= policy.MaxRestarts {
			return err
		}
		restarts++

		sleep := bo.NextBackOff()
		if sleep == backoff.Stop {
			sleep = bo.MaxInterval
		}
		log.Warnw("session_restart", "attempt", restarts, "in", sleep, "err", err)

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
