package job

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"talenthub-backend/internal/domains/booking/repository"
	notifmodel "talenthub-backend/internal/domains/notification/model"
	notifservice "talenthub-backend/internal/domains/notification/service"
	"talenthub-backend/pkg/logger"
)

// ScheduleReminderHandler notifies everyone with a confirmed booking
// for tomorrow's schedules. Runs once per day; failures on individual
// notifications are logged and skipped so one bad row cannot block the
// rest of the batch.
type ScheduleReminderHandler struct {
	bookingRepo repository.BookingRepository
	notifier    notifservice.Emitter
}

func NewScheduleReminderHandler(bookingRepo repository.BookingRepository, notifier notifservice.Emitter) *ScheduleReminderHandler {
	return &ScheduleReminderHandler{
		bookingRepo: bookingRepo,
		notifier:    notifier,
	}
}

func (h *ScheduleReminderHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	tomorrow := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)

	bookings, err := h.bookingRepo.ListConfirmedByScheduleDate(ctx, tomorrow)
	if err != nil {
		logger.Error("failed to list tomorrow's bookings", err)
		return err
	}

	var sent int
	for _, b := range bookings {
		talentID := b.TalentID
		bookingID := b.ID
		message := fmt.Sprintf(
			"Reminder: your booking for %q is tomorrow at %s.",
			b.TalentTitle, b.ScheduleStartTime,
		)

		err := h.notifier.Emit(ctx, b.UserID,
			notifmodel.TypeScheduleReminder,
			"Upcoming booking",
			message,
			&talentID, &bookingID,
		)
		if err != nil {
			logger.Warn("failed to send schedule reminder", map[string]interface{}{
				"booking_id": b.ID.String(),
				"error":      err.Error(),
			})
			continue
		}
		sent++
	}

	logger.Info("schedule reminders sent", map[string]interface{}{
		"date":     tomorrow.Format("2006-01-02"),
		"bookings": len(bookings),
		"sent":     sent,
	})
	return nil
}
