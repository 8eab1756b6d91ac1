package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michel-reyes/coin-copilot/internal/model"
)

type stubNotifier struct {
	ran    chan time.Time
	report *model.NotifierReport
	err    error
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{
		ran:    make(chan time.Time, 1),
		report: &model.NotifierReport{},
	}
}

func (s *stubNotifier) Run(_ context.Context, now time.Time) (*model.NotifierReport, error) {
	s.ran <- now
	return s.report, s.err
}

type stubCleanup struct {
	ran    chan time.Time
	report *model.CleanupReport
	err    error
}

func newStubCleanup() *stubCleanup {
	return &stubCleanup{
		ran:    make(chan time.Time, 1),
		report: &model.CleanupReport{},
	}
}

func (s *stubCleanup) Run(_ context.Context, now time.Time) (*model.CleanupReport, error) {
	s.ran <- now
	return s.report, s.err
}

func TestScheduler_StartRegistersEnabledJobs(t *testing.T) {
	t.Parallel()

	s := New(DefaultConfig(), newStubNotifier(), newStubCleanup(), nil)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.True(t, s.IsRunning())
	assert.False(t, s.NextNotifierRun().IsZero())
	assert.False(t, s.NextCleanupRun().IsZero())
}

func TestScheduler_DisabledJobsAreNotRegistered(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Notifier.Enabled = false
	cfg.Cleanup.Enabled = false

	s := New(cfg, newStubNotifier(), newStubCleanup(), nil)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.False(t, s.IsRunning())
	assert.True(t, s.NextNotifierRun().IsZero())
	assert.True(t, s.NextCleanupRun().IsZero())
}

func TestScheduler_StartRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Notifier.Schedule = "not a cron expression"

	s := New(cfg, newStubNotifier(), newStubCleanup(), nil)

	assert.Error(t, s.Start())
}

func TestScheduler_RunNotifierNow(t *testing.T) {
	t.Parallel()

	notifier := newStubNotifier()
	notifier.report = &model.NotifierReport{Sent: 3}

	s := New(DefaultConfig(), notifier, newStubCleanup(), nil)

	s.RunNotifierNow()

	select {
	case now := <-notifier.ran:
		assert.WithinDuration(t, time.Now(), now, 5*time.Second)
	case <-time.After(2 * time.Second):
		t.Fatal("notifier job did not run")
	}
}

func TestScheduler_RunCleanupNow(t *testing.T) {
	t.Parallel()

	cleanup := newStubCleanup()
	cleanup.err = assert.AnError

	s := New(DefaultConfig(), newStubNotifier(), cleanup, nil)

	// A failing run is logged, not propagated.
	s.RunCleanupNow()

	select {
	case <-cleanup.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup job did not run")
	}
}

func TestScheduler_StopReturnsDoneContext(t *testing.T) {
	t.Parallel()

	s := New(DefaultConfig(), newStubNotifier(), newStubCleanup(), nil)
	require.NoError(t, s.Start())

	ctx := s.Stop()

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
