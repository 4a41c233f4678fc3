package shared

// Asynq task types
const (
	TypeCleanupOldNotifications = "notification:cleanup_old"
	TypeScheduleReminder        = "schedule:reminder"
)

// Asynq queues
const (
	QueueDefault       = "default"
	QueueNotifications = "notifications"
)

// CleanupOldNotificationsPayload allows overriding the retention
// window; zero means the configured default.
type CleanupOldNotificationsPayload struct {
	Days int `json:"days"`
}

// ScheduleReminderPayload is empty: the handler derives the target
// day (tomorrow) at execution time.
type ScheduleReminderPayload struct{}
