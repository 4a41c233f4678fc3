package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"talenthub-backend/internal/shared"
	"talenthub-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress string) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterJobs registers every recurring job with its cron schedule.
func (s *Scheduler) RegisterJobs() error {
	if err := s.registerCleanupOldNotificationsJob(); err != nil {
		return err
	}

	if err := s.registerScheduleReminderJob(); err != nil {
		return err
	}

	return nil
}

// ================================================
// JOB 1: Cleanup Old Notifications (Daily at 3 AM)
// ================================================
func (s *Scheduler) registerCleanupOldNotificationsJob() error {
	payload, err := json.Marshal(shared.CleanupOldNotificationsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeCleanupOldNotifications, payload)

	_, err = s.scheduler.Register(
		"0 3 * * *", // Daily at 3 AM
		task,
		asynq.Queue(shared.QueueNotifications),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)

	if err != nil {
		logger.Error("failed to register CleanupOldNotifications job", err)
		return err
	}

	logger.Info("registered CleanupOldNotifications: daily at 3 AM", nil)
	return nil
}

// ================================================
// JOB 2: Schedule Reminders (Daily at 9 AM)
// ================================================
// Morning run so reminders for tomorrow's sessions arrive a full day
// ahead.
func (s *Scheduler) registerScheduleReminderJob() error {
	payload, err := json.Marshal(shared.ScheduleReminderPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeScheduleReminder, payload)

	_, err = s.scheduler.Register(
		"0 9 * * *", // Daily at 9 AM
		task,
		asynq.Queue(shared.QueueNotifications),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)

	if err != nil {
		logger.Error("failed to register ScheduleReminder job", err)
		return err
	}

	logger.Info("registered ScheduleReminder: daily at 9 AM", nil)
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
