package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"petonrent-backend/internal/config"
	"petonrent-backend/internal/domain"
	"petonrent-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrderRepo struct {
	repository.OrderRepository
	mock.Mock
}

func (m *mockOrderRepo) ListPendingOnline(ctx context.Context, createdBefore time.Time) ([]domain.Order, error) {
	args := m.Called(ctx, createdBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) OrderPlaced(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}
func (m *mockNotifier) PaymentConfirmed(ctx context.Context, order *domain.Order) error {
	return m.Called(ctx, order).Error(0)
}
func (m *mockNotifier) PendingPaymentsDigest(ctx context.Context, orders []domain.Order) error {
	return m.Called(ctx, orders).Error(0)
}

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestRunner(repo *mockOrderRepo, notifier *mockNotifier) *JobRunner {
	jr := NewJobRunner(repo, notifier, config.SchedulerConfig{PendingPaymentDigest: "0 0 * * * *", StaleAfterMinutes: 30})
	jr.now = func() time.Time { return fixedNow }
	return jr
}

func TestSendPendingPaymentDigest(t *testing.T) {
	t.Run("Sends stale orders", func(t *testing.T) {
		repo := new(mockOrderRepo)
		notifier := new(mockNotifier)
		stale := []domain.Order{{ID: "o-1"}, {ID: "o-2"}}
		repo.On("ListPendingOnline", mock.Anything, fixedNow.Add(-30*time.Minute)).Return(stale, nil)
		notifier.On("PendingPaymentsDigest", mock.Anything, stale).Return(nil)

		newTestRunner(repo, notifier).SendPendingPaymentDigest()
		repo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("Nothing pending", func(t *testing.T) {
		repo := new(mockOrderRepo)
		notifier := new(mockNotifier)
		repo.On("ListPendingOnline", mock.Anything, mock.Anything).Return([]domain.Order{}, nil)

		newTestRunner(repo, notifier).SendPendingPaymentDigest()
		notifier.AssertNotCalled(t, "PendingPaymentsDigest", mock.Anything, mock.Anything)
	})

	t.Run("Query failure", func(t *testing.T) {
		repo := new(mockOrderRepo)
		notifier := new(mockNotifier)
		repo.On("ListPendingOnline", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		newTestRunner(repo, notifier).SendPendingPaymentDigest()
		notifier.AssertNotCalled(t, "PendingPaymentsDigest", mock.Anything, mock.Anything)
	})

	t.Run("Notifier failure is contained", func(t *testing.T) {
		repo := new(mockOrderRepo)
		notifier := new(mockNotifier)
		repo.On("ListPendingOnline", mock.Anything, mock.Anything).Return([]domain.Order{{ID: "o-1"}}, nil)
		notifier.On("PendingPaymentsDigest", mock.Anything, mock.Anything).Return(errors.New("sendgrid 500"))

		assert.NotPanics(t, newTestRunner(repo, notifier).SendPendingPaymentDigest)
	})
}

func TestJobRunner_RunWithRecovery(t *testing.T) {
	jr := newTestRunner(new(mockOrderRepo), new(mockNotifier))
	assert.NotPanics(t, func() {
		jr.runWithRecovery("boom", func() { panic("nil map") })
	})
}

func TestJobRunner_RunJob(t *testing.T) {
	repo := new(mockOrderRepo)
	repo.On("ListPendingOnline", mock.Anything, mock.Anything).Return([]domain.Order{}, nil)
	jr := newTestRunner(repo, new(mockNotifier))

	require.NoError(t, jr.RunJob(JobPendingPaymentDigest))
	repo.AssertNumberOfCalls(t, "ListPendingOnline", 1)

	assert.Error(t, jr.RunJob("mark-overdue-rentals"))
	assert.Equal(t, []string{JobPendingPaymentDigest}, jr.JobNames())
}
