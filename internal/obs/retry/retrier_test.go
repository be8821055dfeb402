package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noWait struct{}

func (noWait) Next(int) time.Duration { return 0 }

func TestDo_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, Policy{Name: "test_ok", Attempts: 5, Backoff: noWait{}})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_Exhausts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	var exhausted error
	err := Do(context.Background(), func() error {
		calls++
		return boom
	}, Policy{
		Name:      "test_exhaust",
		Attempts:  4,
		Backoff:   noWait{},
		OnExhaust: func(e error) { exhausted = e },
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 4, calls)
	assert.ErrorIs(t, exhausted, boom)
}

func TestDo_NonRetryableStopsEarly(t *testing.T) {
	calls := 0
	pol := PublishPolicy("test_cancel", nil)
	pol.Backoff = noWait{}

	err := Do(context.Background(), func() error {
		calls++
		return context.Canceled
	}, pol)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, func() error {
		calls++
		cancel()
		return errors.New("fail")
	}, Policy{Name: "test_ctx", Attempts: 3, Backoff: ExpoJitter{Base: time.Hour}})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestExpoJitter_Caps(t *testing.T) {
	b := ExpoJitter{Base: 100 * time.Millisecond, Max: time.Second}
	assert.Equal(t, 100*time.Millisecond, b.Next(0))
	assert.Equal(t, 400*time.Millisecond, b.Next(2))
	assert.Equal(t, time.Second, b.Next(10))
}
