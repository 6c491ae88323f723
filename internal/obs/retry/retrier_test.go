package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpo_Next(t *testing.T) {
	b := Expo{Base: 250 * time.Millisecond}
	assert.Equal(t, 250*time.Millisecond, b.Next(0))
	assert.Equal(t, 500*time.Millisecond, b.Next(1))
	assert.Equal(t, time.Second, b.Next(2))
	assert.Equal(t, 250*time.Millisecond, b.Next(-1))

	capped := Expo{Base: 250 * time.Millisecond, Max: 600 * time.Millisecond}
	assert.Equal(t, 500*time.Millisecond, capped.Next(1))
	assert.Equal(t, 600*time.Millisecond, capped.Next(2))
	assert.Equal(t, 600*time.Millisecond, capped.Next(10))
}

func TestDo_StopsOnTerminal(t *testing.T) {
	terminal := errors.New("terminal")
	calls := 0

	err := Do(context.Background(), func() error {
		calls++
		return terminal
	}, Policy{
		Name:      "t",
		Attempts:  5,
		Backoff:   Expo{Base: time.Millisecond},
		Retryable: func(error) bool { return false },
	})

	require.ErrorIs(t, err, terminal)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0

	err := Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, Policy{
		Name:     "t",
		Attempts: 5,
		Backoff:  Expo{Base: time.Millisecond},
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustCallback(t *testing.T) {
	var exhausted error
	attempts := 0

	err := Do(context.Background(), func() error {
		return errors.New("always")
	}, Policy{
		Name:      "t",
		Attempts:  3,
		Backoff:   Expo{Base: time.Millisecond},
		OnAttempt: func(int, error) { attempts++ },
		OnExhaust: func(e error) { exhausted = e },
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, err, exhausted)
}

func TestDo_CanceledContextShortCircuits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, func() error {
		calls++
		return nil
	}, Policy{Name: "t", Attempts: 3, Backoff: Expo{Base: time.Millisecond}})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}
