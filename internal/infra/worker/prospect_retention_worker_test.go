package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPurger struct {
	mock.Mock
}

func (m *mockPurger) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func TestPurgeUsesRetentionCutoff(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := new(mockPurger)
	repo.On("DeleteOlderThan", mock.Anything, now.Add(-72*time.Hour)).Return(int64(3), nil)

	w := NewProspectRetentionWorker(repo, 72*time.Hour, 0)
	w.now = func() time.Time { return now }

	assert.Equal(t, int64(3), w.purge(context.Background()))
	assert.Equal(t, DefaultRetentionTick, w.tickInterval)
	repo.AssertExpectations(t)
}

func TestPurgeErrorIsSwallowed(t *testing.T) {
	repo := new(mockPurger)
	repo.On("DeleteOlderThan", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	w := NewProspectRetentionWorker(repo, time.Hour, time.Minute)

	assert.Zero(t, w.purge(context.Background()))
}

func TestStartDisabledReturnsImmediately(t *testing.T) {
	repo := new(mockPurger)
	w := NewProspectRetentionWorker(repo, 0, time.Minute)

	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled worker did not return")
	}
	repo.AssertNotCalled(t, "DeleteOlderThan", mock.Anything, mock.Anything)
}

func TestStartPurgesOnceThenStopsWithContext(t *testing.T) {
	repo := new(mockPurger)
	purged := make(chan struct{}, 1)
	repo.On("DeleteOlderThan", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { purged <- struct{}{} }).
		Return(int64(0), nil)
	w := NewProspectRetentionWorker(repo, time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	select {
	case <-purged:
	case <-time.After(time.Second):
		t.Fatal("no purge on start")
	}
	cancel()
	<-done
	repo.AssertNumberOfCalls(t, "DeleteOlderThan", 1)
}
