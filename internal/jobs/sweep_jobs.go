package jobs

import (
	"context"
	"time"

	"dealdesk-backend/internal/logger"
)

// ExpireStalePublicLinks marks unused links past their expiry so they stop
// showing as outstanding in the dashboard
func (jr *JobRunner) ExpireStalePublicLinks() {
	jr.runWithRecovery("ExpireStalePublicLinks", func() {
		ctx := context.Background()

		count, err := jr.store.PublicLinkRepository.ExpireStale(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to expire stale public links", "error", err)
			return
		}
		logger.Info("Expired stale public links", "count", count)
	})
}

// RemindPendingRequests emails the operator inbox a digest of requests that
// have sat in SUBMITTED longer than the configured window
func (jr *JobRunner) RemindPendingRequests() {
	jr.runWithRecovery("RemindPendingRequests", func() {
		ctx := context.Background()

		cutoff := time.Now().Add(-time.Duration(jr.config.Sweep.PendingReminderAfterHours) * time.Hour)
		stale, err := jr.store.BookingRequestRepository.ListStaleSubmitted(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stale submitted requests", "error", err)
			return
		}
		if len(stale) == 0 {
			logger.Info("No stale submitted requests")
			return
		}

		names := make([]string, 0, len(stale))
		for i := range stale {
			names = append(names, stale[i].DisplayName())
		}
		if err := jr.services.Email.SendPendingReminder(ctx, jr.config.Operators.InboxEmail, names); err != nil {
			logger.Error("Failed to send pending reminder", "error", err)
			return
		}
		logger.Info("Sent pending decision reminder", "count", len(stale))
	})
}

// EscalateUnresolvedConflicts re-alerts operators about approved requests
// still awaiting resolution: flagged conflicts, plus any approved request
// that never received its calendar event
func (jr *JobRunner) EscalateUnresolvedConflicts() {
	jr.runWithRecovery("EscalateUnresolvedConflicts", func() {
		ctx := context.Background()

		unresolved, err := jr.store.BookingRequestRepository.ListNeedingResolution(ctx)
		if err != nil {
			logger.Error("Failed to list unresolved requests", "error", err)
			return
		}
		if len(unresolved) == 0 {
			logger.Info("No unresolved scheduling conflicts")
			return
		}

		names := make([]string, 0, len(unresolved))
		for i := range unresolved {
			names = append(names, unresolved[i].DisplayName())
		}
		if err := jr.services.Email.SendPendingReminder(ctx, jr.config.Operators.InboxEmail, names); err != nil {
			logger.Error("Failed to send escalation digest", "error", err)
			return
		}
		logger.Info("Escalated unresolved conflicts", "count", len(unresolved))
	})
}
