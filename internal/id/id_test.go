package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRun_Monotonic(t *testing.T) {
	at := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	prev := NewRunAt(at)
	for i := 0; i < 100; i++ {
		next := NewRunAt(at)
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestRunTime(t *testing.T) {
	at := time.Date(2026, 1, 5, 9, 0, 0, int(250*time.Millisecond), time.UTC)

	got, err := RunTime(NewRunAt(at))
	require.NoError(t, err)
	assert.True(t, got.Equal(at))

	_, err = RunTime("not-a-ulid")
	assert.Error(t, err)
}
