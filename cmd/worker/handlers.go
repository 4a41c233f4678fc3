package main

import (
	"github.com/hibiken/asynq"

	bookingJob "talenthub-backend/internal/domains/booking/job"
	notificationJob "talenthub-backend/internal/domains/notification/job"
	"talenthub-backend/internal/shared"
	"talenthub-backend/pkg/container"
)

// HandlerRegistry holds every job handler.
type HandlerRegistry struct {
	cleanupOldNotifications *notificationJob.CleanupOldNotificationsHandler
	scheduleReminder        *bookingJob.ScheduleReminderHandler
}

// initializeHandlers creates job handlers with their dependencies from
// the container.
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		cleanupOldNotifications: notificationJob.NewCleanupOldNotificationsHandler(c.NotificationRepo),
		scheduleReminder:        bookingJob.NewScheduleReminderHandler(c.BookingRepo, c.NotificationService),
	}
}

// RegisterHandlers registers all handlers with the mux.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeCleanupOldNotifications, h.cleanupOldNotifications.ProcessTask)
	mux.HandleFunc(shared.TypeScheduleReminder, h.scheduleReminder.ProcessTask)
}
