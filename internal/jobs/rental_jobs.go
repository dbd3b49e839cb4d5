package jobs

import (
	"context"
	"time"

	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/logger"
	"rentaldesk-backend/internal/service"
)

// MarkOverdueRentals moves rentals past their end date into overdue.
// It goes through the workflow engine rather than raw SQL so every
// change lands in the status history with the rest of the audit trail.
func (jr *JobRunner) MarkOverdueRentals() {
	jr.runWithRecovery("MarkOverdueRentals", func() {
		ctx := context.Background()

		ids, err := jr.rentalRepo.ListOverdueCandidates(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list overdue candidates", "error", err)
			return
		}

		count := 0
		for _, id := range ids {
			_, err := jr.rentalSvc.RequestTransition(ctx, id, service.TransitionRequest{
				Target:            domain.RentalStatusOverdue,
				Notes:             "rental period ended without return",
				Actor:             "scheduler",
				VisibleToCustomer: true,
			})
			if err != nil {
				// A candidate can legitimately move on between the listing
				// and this call; skip and keep going.
				logger.Warn("Could not mark rental overdue", "rental_id", id, "error", err)
				continue
			}
			count++
			logger.Debug("Marked rental as overdue", "rental_id", id)
		}

		logger.Info("Marked rentals as overdue", "count", count, "candidates", len(ids))
	})
}
