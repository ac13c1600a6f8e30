package jobs

import (
	"context"
	"time"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/logger"
)

// dispatchBatchSize caps how many due jobs one dispatch run picks up.
const dispatchBatchSize = 100

// DispatchDueJobs delivers scheduled reminder emails whose time has come and
// records the outcome on each job row.
func (jr *JobRunner) DispatchDueJobs() {
	jr.runWithRecovery("DispatchDueJobs", func() {
		ctx := context.Background()

		due, err := jr.store.JobRepository.ListDue(ctx, time.Now(), dispatchBatchSize)
		if err != nil {
			logger.Error("Failed to list due jobs", "error", err)
			return
		}

		sent, failed := 0, 0
		for _, job := range due {
			if err := jr.dispatch(ctx, job); err != nil {
				logger.Error("Failed to dispatch job", "job_id", job.ID, "template", job.Template, "error", err)
				if err := jr.store.JobRepository.MarkStatus(ctx, job.ID, domain.JobStatusFailed); err != nil {
					logger.Error("Failed to mark job failed", "job_id", job.ID, "error", err)
				}
				failed++
				continue
			}
			if err := jr.store.JobRepository.MarkStatus(ctx, job.ID, domain.JobStatusSent); err != nil {
				logger.Error("Failed to mark job sent", "job_id", job.ID, "error", err)
			}
			sent++
		}

		logger.Info("Dispatched due jobs", "sent", sent, "failed", failed)
	})
}

func (jr *JobRunner) dispatch(ctx context.Context, job domain.ScheduledJob) error {
	user, err := jr.store.UserRepository.GetByID(ctx, job.UserID)
	if err != nil {
		return err
	}

	subject, body := renderTemplate(job)
	return jr.services.Email.Send(ctx, user.Email, user.Name, subject, body)
}

func renderTemplate(job domain.ScheduledJob) (subject, body string) {
	reference := job.Metadata["booking_reference"]

	switch job.Template {
	case domain.JobTemplatePickupReminder:
		return "Your rental starts soon",
			"Your booking " + reference + " starts within the next day. Remember to bring your license."
	case domain.JobTemplateReturnReminder:
		return "Your rental ends soon",
			"Your booking " + reference + " is due back within the next day."
	case domain.JobTemplateRefundIssued:
		return "Your refund is on its way",
			"A refund for booking " + reference + " has been issued."
	case domain.JobTemplateExtraCharge:
		return "Additional charge on your booking",
			"An additional charge was applied to booking " + reference + ". See the app for details."
	default:
		return "Update on your booking", "There is an update on booking " + reference + "."
	}
}
