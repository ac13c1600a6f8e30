package jobs

import (
	"context"
	"strconv"
	"time"

	"vehiclerental-backend/internal/domain"
	"vehiclerental-backend/internal/logger"
)

// MarkNoShowBookings flags confirmed bookings whose pickup passed without a
// check-in. The grace window before a booking counts as a no-show comes from
// configuration.
func (jr *JobRunner) MarkNoShowBookings() {
	jr.runWithRecovery("MarkNoShowBookings", func() {
		ctx := context.Background()
		cutoff := time.Now().Add(-time.Duration(jr.config.Booking.NoShowAfterHours) * time.Hour)

		query := `
			UPDATE bookings
			SET status = 'no_show',
			    updated_at = NOW()
			WHERE status = 'confirmed'
			  AND pickup_at < $1
			  AND pre_trip IS NULL
			RETURNING id, renter_id, owner_id, reference
		`

		rows, err := jr.db.QueryContext(ctx, query, cutoff)
		if err != nil {
			logger.Error("Failed to mark no-show bookings", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				id, renterID, ownerID int64
				reference             string
			)
			if err := rows.Scan(&id, &renterID, &ownerID, &reference); err != nil {
				logger.Error("Failed to scan no-show booking", "error", err)
				continue
			}
			count++

			if err := jr.store.JobRepository.CancelPending(ctx, id, ""); err != nil {
				logger.Error("Failed to cancel reminders for no-show", "booking_id", id, "error", err)
			}
			jr.createNotification(ctx, ownerID, "Renter did not show up",
				"Booking "+reference+" was marked as a no-show", id, "booking_no_show")
			jr.createNotification(ctx, renterID, "Booking marked as no-show",
				"You did not pick up the vehicle for booking "+reference, id, "booking_no_show")

			logger.Debug("Marked booking as no-show", "booking_id", id, "renter_id", renterID)
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating no-show bookings", "error", err)
			return
		}

		logger.Info("Marked bookings as no-show", "count", count)
	})
}

// SendOverdueReturnNotes nudges renters whose ongoing trip is past its
// scheduled return.
func (jr *JobRunner) SendOverdueReturnNotes() {
	jr.runWithRecovery("SendOverdueReturnNotes", func() {
		ctx := context.Background()

		query := `
			SELECT id, renter_id, reference, return_at
			FROM bookings
			WHERE status = 'ongoing'
			  AND return_at < NOW()
		`

		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to list overdue returns", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				id, renterID int64
				reference    string
				returnAt     time.Time
			)
			if err := rows.Scan(&id, &renterID, &reference, &returnAt); err != nil {
				logger.Error("Failed to scan overdue return", "error", err)
				continue
			}
			count++

			jr.createNotification(ctx, renterID, "Vehicle return overdue",
				"Booking "+reference+" was due back at "+returnAt.Format(time.RFC3339), id, "return_overdue")

			renter, err := jr.store.UserRepository.GetByID(ctx, renterID)
			if err != nil {
				logger.Error("Failed to load renter for overdue note", "renter_id", renterID, "error", err)
				continue
			}
			if err := jr.services.Email.Send(ctx, renter.Email, renter.Name,
				"Your vehicle return is overdue",
				"Your booking "+reference+" was due back at "+returnAt.Format(time.RFC3339)+". Please return the vehicle or extend the booking."); err != nil {
				logger.Error("Failed to send overdue email", "booking_id", id, "error", err)
			}
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue returns", "error", err)
			return
		}

		logger.Info("Sent overdue return notes", "count", count)
	})
}

func (jr *JobRunner) createNotification(ctx context.Context, userID int64, title, message string, bookingID int64, kind string) {
	n := &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"type":       kind,
			"booking_id": strconv.FormatInt(bookingID, 10),
		},
	}
	if err := jr.store.NotificationRepository.Create(ctx, n); err != nil {
		logger.Error("Failed to create notification", "user_id", userID, "type", kind, "error", err)
	}
}
