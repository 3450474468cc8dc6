package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(max int) RestartPolicy {
	return RestartPolicy{
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		MaxRestarts:     max,
	}
}

func TestSuperviseRestartsUntilLimit(t *testing.T) {
	boom := errors.New("connection refused")
	calls := 0

	err := Supervise(context.Background(), fastPolicy(3), func(context.Context) error {
		calls++
		return boom
	}, nil)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 4, calls)
}

func TestSuperviseStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := Supervise(ctx, fastPolicy(0), func(context.Context) error {
		calls++
		if calls == 3 {
			cancel()
		}
		return nil
	}, nil)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, calls)
}

func TestSuperviseCancelDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := RestartPolicy{InitialInterval: time.Hour, MaxInterval: time.Hour}

	done := make(chan error, 1)
	go func() {
		done <- Supervise(ctx, policy, func(context.Context) error { return errors.New("down") }, nil)
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not stop")
	}
}
