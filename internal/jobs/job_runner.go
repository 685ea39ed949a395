package jobs

import (
	"fmt"
	"sort"
	"time"

	"petonrent-backend/internal/config"
	"petonrent-backend/internal/logger"
	"petonrent-backend/internal/repository"
	"petonrent-backend/internal/service"
)

const JobPendingPaymentDigest = "pending-payment-digest"

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	orderRepo repository.OrderRepository
	notifier  service.Notifier
	config    config.SchedulerConfig
	now       func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(orderRepo repository.OrderRepository, notifier service.Notifier, cfg config.SchedulerConfig) *JobRunner {
	return &JobRunner{
		orderRepo: orderRepo,
		notifier:  notifier,
		config:    cfg,
		now:       time.Now,
	}
}

func (jr *JobRunner) Config() config.SchedulerConfig {
	return jr.config
}

// Jobs returns the runnable jobs keyed by name
func (jr *JobRunner) Jobs() map[string]func() {
	return map[string]func(){
		JobPendingPaymentDigest: jr.SendPendingPaymentDigest,
	}
}

// JobNames lists the registered job names in order
func (jr *JobRunner) JobNames() []string {
	names := make([]string, 0, len(jr.Jobs()))
	for name := range jr.Jobs() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunJob runs a single job by name (for manual execution)
func (jr *JobRunner) RunJob(name string) error {
	job, ok := jr.Jobs()[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	job()
	return nil
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}
