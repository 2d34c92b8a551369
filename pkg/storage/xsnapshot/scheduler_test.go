package xsnapshot

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSaver struct {
	calls atomic.Int32
	err   error
}

func (s *countingSaver) Save(ctx context.Context) error {
	s.calls.Add(1)
	return s.err
}

func TestNewScheduler(t *testing.T) {
	_, err := NewScheduler(nil, "@every 1s")
	assert.ErrorIs(t, err, ErrNilSaver)

	_, err = NewScheduler(&countingSaver{}, "not a schedule")
	assert.Error(t, err)
}

func TestScheduler_Runs(t *testing.T) {
	saver := &countingSaver{err: errors.New("ignored")}
	s, err := NewScheduler(saver, "@every 1s", WithSaveTimeout(time.Second), WithLocation(time.UTC))
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool { return saver.calls.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	n := saver.calls.Load()
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, n, saver.calls.Load(), "no saves after Stop")
}

func TestValidateSchedule(t *testing.T) {
	for _, spec := range []string{"@every 1s", "@daily", "*/5 * * * * *", "0 3 * * *"} {
		assert.NoError(t, ValidateSchedule(spec), spec)
	}
	for _, spec := range []string{"", "not a schedule", "* * *"} {
		assert.Error(t, ValidateSchedule(spec), spec)
	}
}

func TestScheduler_SecondsField(t *testing.T) {
	s, err := NewScheduler(&countingSaver{}, "*/5 * * * * *")
	require.NoError(t, err)
	require.NoError(t, s.Stop(context.Background()))
}
