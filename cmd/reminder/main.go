package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ramadan_reminder_bot/internal/app"
	"ramadan_reminder_bot/internal/domain/recipient"
	"ramadan_reminder_bot/internal/hijri"
	"ramadan_reminder_bot/internal/infra/config"
	idb "ramadan_reminder_bot/internal/infra/database"
	"ramadan_reminder_bot/internal/infra/logger"
	"ramadan_reminder_bot/internal/infra/scheduler"
	"ramadan_reminder_bot/internal/infra/sheets"
	"ramadan_reminder_bot/internal/infra/whatsapp"
	"ramadan_reminder_bot/internal/phone"
	"ramadan_reminder_bot/internal/throttle"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger config isn't loaded yet; the default logrus instance
		// still gets the diagnostic out with a non-zero exit.
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	log := logger.Get()

	log.Infof("Configuration loaded. Source: %s, RunMode: %s, DryRun: %t, Target: %s",
		cfg.RecipientSource, cfg.RunMode, cfg.DryRun, cfg.RamadanStart.Format("2006-01-02"))

	ctx := context.Background()

	source, cleanup, err := buildSource(ctx, cfg)
	if err != nil {
		log.Fatalf("FATAL: Could not initialize recipient source: %v", err)
	}
	if cleanup != nil {
		defer cleanup()
	}
	log.Info("Recipient source initialized.")

	normalizer := phone.NewNormalizer(cfg.PhoneCountryCode, cfg.PhoneTrunkPrefix, cfg.PhoneMobileDigits)
	converter := hijri.NewConverter(cfg.CalendarTZOffset)
	throttler := throttle.New(cfg.ThrottleInterval)

	transport := whatsapp.NewCloudAPIClient(cfg.WabaAPIBaseURL, cfg.WabaPhoneNumberID, cfg.WabaToken)
	client := app.NewDeliveryClient(transport, cfg.SendMaxAttempts, cfg.SendRetryBase, log)

	service := app.NewReminderService(
		source,
		client,
		normalizer,
		converter,
		throttler,
		log,
		cfg.WabaTemplateName,
		cfg.RamadanStart,
		cfg.DryRun,
	)

	if cfg.RunMode == config.RunCron {
		runScheduled(service, cfg)
		return
	}

	summary, err := service.Run(ctx)
	if err != nil {
		log.Errorf("Reminder run aborted: %v", err)
		os.Exit(1)
	}
	log.Infof("Reminder run complete: %s", summary)
}

// buildSource selects the recipient source implementation from config.
func buildSource(ctx context.Context, cfg *config.AppConfig) (recipient.Source, func(), error) {
	switch cfg.RecipientSource {
	case config.SourcePostgres:
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return idb.NewPostgresRecipientSource(db), func() { db.Close() }, nil
	default:
		src, err := sheets.NewSheetRecipientSource(ctx, cfg.ServiceAccount, cfg.SheetID, cfg.SheetRange, cfg.SheetStatusCol)
		if err != nil {
			return nil, nil, err
		}
		return src, nil, nil
	}
}

// runScheduled keeps the process alive with the embedded cron trigger.
func runScheduled(service *app.ReminderService, cfg *config.AppConfig) {
	log := logger.Get()

	sched := scheduler.NewReminderScheduler(service, log, cfg.CronSpecDaily)
	if err := sched.Start(); err != nil {
		log.Fatalf("FATAL: Could not start reminder scheduler: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	sched.Stop()
	log.Info("Application shut down gracefully.")
}
