package scheduler

import (
	"context"
	"time"

	"ramadan_reminder_bot/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderScheduler triggers the daily reminder run when the service is
// deployed long-running (RUN_MODE=cron) instead of under an external
// scheduler.
type ReminderScheduler struct {
	cronEngine    *cron.Cron
	service       *app.ReminderService
	logger        *logrus.Logger
	cronSpecDaily string
}

func NewReminderScheduler(service *app.ReminderService, logger *logrus.Logger, cronSpecDaily string) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine:    cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		service:       service,
		logger:        logger,
		cronSpecDaily: cronSpecDaily,
	}
}

func (s *ReminderScheduler) Start() error {
	s.logger.Info("Starting reminder scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecDaily, func() {
		s.logger.Info("Cron job triggered for daily reminder run.")
		ctx := context.Background()
		summary, err := s.service.Run(ctx)
		if err != nil {
			s.logger.Errorf("Reminder run failed: %v", err)
			return
		}
		s.logger.Infof("Reminder run complete: %s", summary)
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Infof("Reminder scheduler started (spec %q).", s.cronSpecDaily)
	return nil
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Waits for a running job to finish.
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped.")
}
