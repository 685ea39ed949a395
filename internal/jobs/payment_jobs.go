package jobs

import (
	"context"
	"time"

	"petonrent-backend/internal/logger"
)

// SendPendingPaymentDigest emails the back office a list of online orders that
// are still unpaid after the configured grace period. Orders are not modified.
func (jr *JobRunner) SendPendingPaymentDigest() {
	jr.runWithRecovery("SendPendingPaymentDigest", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		cutoff := jr.now().Add(-jr.config.StaleAfter())
		orders, err := jr.orderRepo.ListPendingOnline(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to query pending online orders", "error", err)
			return
		}

		if len(orders) == 0 {
			logger.Info("No stale pending payments", "cutoff", cutoff)
			return
		}

		if err := jr.notifier.PendingPaymentsDigest(ctx, orders); err != nil {
			logger.Error("Failed to send pending payment digest", "count", len(orders), "error", err)
			return
		}

		logger.Info("Pending payment digest sent", "count", len(orders), "cutoff", cutoff)
	})
}
