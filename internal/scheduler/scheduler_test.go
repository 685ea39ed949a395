package scheduler

import (
	"testing"

	"petonrent-backend/internal/config"
	"petonrent-backend/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler(t *testing.T) {
	runner := jobs.NewJobRunner(nil, nil, config.SchedulerConfig{PendingPaymentDigest: "0 */15 * * * *", StaleAfterMinutes: 30})

	s, err := NewScheduler(runner)
	require.NoError(t, err)
	assert.True(t, s.IsRunning())

	next := s.NextRun()
	assert.False(t, next.IsZero())
	assert.Equal(t, 0, next.Second())
	assert.Equal(t, 0, next.Minute()%15)

	s.Start()
	s.Stop()
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	runner := jobs.NewJobRunner(nil, nil, config.SchedulerConfig{PendingPaymentDigest: "every hour"})

	_, err := NewScheduler(runner)
	assert.Error(t, err)
}
