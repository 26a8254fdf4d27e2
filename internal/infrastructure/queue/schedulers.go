package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"journal-backend/internal/shared"
	"journal-backend/pkg/logger"
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

	return &Scheduler{
		scheduler: scheduler,
	}
}

// RegisterJobs wires every recurring job.
func (s *Scheduler) RegisterJobs() error {
	return s.registerRevisionDeadlineReminderJob()
}

// ================================================
// JOB: Revision deadline reminders (Daily at 8 AM)
// ================================================
func (s *Scheduler) registerRevisionDeadlineReminderJob() error {
	payload, err := json.Marshal(struct{}{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeRevisionDeadlineReminder, payload)

	_, err = s.scheduler.Register(
		"0 8 * * *", // Daily at 8 AM UTC
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register RevisionDeadlineReminder job", err)
		return err
	}

	logger.Info("Registered RevisionDeadlineReminder job", map[string]interface{}{
		"schedule": "0 8 * * *",
	})

	return nil
}

// Run blocks until the scheduler stops.
func (s *Scheduler) Run() error {
	return s.scheduler.Run()
}

// Shutdown stops the scheduler gracefully.
func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
