// internal/app/reminder_service.go
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ramadan_reminder_bot/internal/domain/messaging"
	"ramadan_reminder_bot/internal/domain/recipient"
	"ramadan_reminder_bot/internal/hijri"
	"ramadan_reminder_bot/internal/phone"

	"github.com/sirupsen/logrus"
)

// optInAffirmative is the only token that counts as consent when the
// source schema carries an opt-in field. Matching is case-insensitive.
const optInAffirmative = "YES"

// Waiter paces the send loop between consecutive recipients.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Rejection names a record excluded during filtering, for the run report.
type Rejection struct {
	Name     string
	RawPhone string
	Reason   string
}

// RunSummary aggregates one run's counters for operator reporting. It
// is never persisted.
type RunSummary struct {
	Fetched    int
	Rejected   int
	Eligible   int
	Sent       int
	Failed     int
	WriteFails int
	Rejections []Rejection
}

func (s *RunSummary) String() string {
	return fmt.Sprintf("fetched=%d rejected=%d eligible=%d sent=%d failed=%d write_failures=%d",
		s.Fetched, s.Rejected, s.Eligible, s.Sent, s.Failed, s.WriteFails)
}

// ReminderService runs the countdown reminder pipeline end to end:
// fetch, filter, then either a dry-run report or the throttled send
// loop with per-record status writeback.
type ReminderService struct {
	source       recipient.Source
	client       messaging.Client
	normalizer   *phone.Normalizer
	converter    *hijri.Converter
	throttler    Waiter
	logger       *logrus.Logger
	templateName string
	target       time.Time
	dryRun       bool

	// now is swappable for tests.
	now func() time.Time
}

func NewReminderService(
	source recipient.Source,
	client messaging.Client,
	normalizer *phone.Normalizer,
	converter *hijri.Converter,
	throttler Waiter,
	logger *logrus.Logger,
	templateName string,
	target time.Time,
	dryRun bool,
) *ReminderService {
	return &ReminderService{
		source:       source,
		client:       client,
		normalizer:   normalizer,
		converter:    converter,
		throttler:    throttler,
		logger:       logger,
		templateName: templateName,
		target:       target,
		dryRun:       dryRun,
		now:          time.Now,
	}
}

// Run executes one full reminder run. Only a fetch failure is returned
// as an error; per-recipient send and writeback failures are aggregated
// into the summary and never abort the loop.
func (s *ReminderService) Run(ctx context.Context) (*RunSummary, error) {
	rows, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipients: %w", err)
	}
	s.logger.Infof("Fetched %d recipient rows from source.", len(rows))

	eligible, rejections := s.filter(rows)
	summary := &RunSummary{
		Fetched:    len(rows),
		Rejected:   len(rejections),
		Eligible:   len(eligible),
		Rejections: rejections,
	}
	for _, rej := range rejections {
		s.logger.WithFields(logrus.Fields{
			"name":      rej.Name,
			"raw_phone": rej.RawPhone,
		}).Warnf("Recipient excluded: %s", rej.Reason)
	}

	if s.dryRun {
		s.logger.Infof("Dry run: %d eligible recipients, no messages will be sent.", len(eligible))
		for _, rec := range eligible {
			s.logger.WithFields(logrus.Fields{
				"name":  rec.FullName,
				"phone": rec.Normalized,
			}).Info("Dry run: would send reminder.")
		}
		return summary, nil
	}

	now := s.now()
	gregorianLabel := s.converter.GregorianLabel(now)
	hijriLabel := s.converter.Label(now)
	if hijriLabel == "" {
		s.logger.Warn("Hijri label unavailable for current date; sending without it.")
	}
	daysLeft := s.converter.DaysUntil(s.target, now)
	s.logger.Infof("Run labels: gregorian=%s hijri=%q days_left=%d", gregorianLabel, hijriLabel, daysLeft)

	for i, rec := range eligible {
		params := buildParams(rec.FullName, gregorianLabel, hijriLabel, daysLeft)

		s.logger.WithFields(logrus.Fields{
			"name":  rec.FullName,
			"phone": rec.Normalized,
		}).Info("Sending reminder...")

		outcome := s.client.Send(ctx, rec.Normalized, s.templateName, params)
		if outcome.Success {
			rec.Status = recipient.StatusSent
			summary.Sent++
			s.logger.WithField("name", rec.FullName).Info("Reminder sent.")
		} else {
			rec.Status = recipient.StatusFailed
			summary.Failed++
			s.logger.WithFields(logrus.Fields{
				"name":   rec.FullName,
				"detail": outcome.Detail,
			}).Error("Reminder delivery failed.")
		}

		// Best-effort bookkeeping: the send already happened, a failed
		// writeback is reported but never retried or rolled back.
		if err := s.source.WriteStatus(ctx, rec.Ref, rec.Status); err != nil {
			summary.WriteFails++
			s.logger.WithFields(logrus.Fields{
				"name": rec.FullName,
				"row":  int64(rec.Ref),
			}).Errorf("Status writeback failed: %v", err)
		}

		if i < len(eligible)-1 {
			s.logger.Debug("Throttling before next send...")
			if err := s.throttler.Wait(ctx); err != nil {
				s.logger.Warnf("Throttle wait interrupted: %v", err)
			}
		}
	}

	return summary, nil
}

// filter turns raw rows into the eligible send set, in stable input
// order, collecting one rejection per excluded row.
func (s *ReminderService) filter(rows []recipient.RawRow) ([]*recipient.Record, []Rejection) {
	eligible := make([]*recipient.Record, 0, len(rows))
	var rejections []Rejection

	for _, row := range rows {
		name := row.Field(recipient.NameFieldKeys...)
		rawPhone := row.Field(recipient.PhoneFieldKeys...)

		normalized, ok := s.normalizer.Normalize(rawPhone)
		if !ok {
			rejections = append(rejections, Rejection{Name: name, RawPhone: rawPhone, Reason: "invalid phone number"})
			continue
		}

		// Opt-in gating only applies when the source schema carries the
		// field at all; a schema without it means phone validity alone
		// decides eligibility.
		if row.HasField(recipient.OptInFieldKeys...) {
			optIn := strings.TrimSpace(row.Field(recipient.OptInFieldKeys...))
			if !strings.EqualFold(optIn, optInAffirmative) {
				rejections = append(rejections, Rejection{Name: name, RawPhone: rawPhone, Reason: "not opted in"})
				continue
			}
		}

		eligible = append(eligible, &recipient.Record{
			Ref:        row.Ref,
			FullName:   name,
			RawPhone:   rawPhone,
			Normalized: normalized,
			Status:     recipient.StatusUnset,
		})
	}
	return eligible, rejections
}

// buildParams renders the ordered template parameters. Position is the
// contract with the template's placeholders: name, Gregorian date,
// Hijri date, days remaining.
func buildParams(name, gregorianLabel, hijriLabel string, daysLeft int) []string {
	return []string{
		name,
		gregorianLabel,
		hijriLabel,
		fmt.Sprintf("%d", daysLeft),
	}
}
