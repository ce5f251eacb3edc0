package service

import (
	"context"
	"fmt"
	"time"

	"movextransfer/internal/db"
	"movextransfer/internal/logger"
	"movextransfer/internal/utils"
)

type DayLister interface {
	ActiveOnDate(ctx context.Context, date string) ([]db.Reservation, error)
}

type DigestSender interface {
	SendOwnerDigest(ctx context.Context, date string, rides []db.Reservation) error
}

type JobService struct {
	repo   DayLister
	sender DigestSender
	loc    *time.Location
	log    logger.ILogger
	now    func() time.Time
}

func NewJobService(repo DayLister, sender DigestSender, loc *time.Location, log logger.ILogger) *JobService {
	if loc == nil {
		loc = time.UTC
	}
	return &JobService{repo: repo, sender: sender, loc: loc, log: log, now: time.Now}
}

// SendDailyDigest mails the owner tomorrow's rides. Nothing is sent for an
// empty day.
func (s *JobService) SendDailyDigest(ctx context.Context) error {
	tomorrow := utils.StartOfDay(s.now().In(s.loc)).AddDate(0, 0, 1).Format(utils.DateLayout)
	s.log.Info("cron job: building digest", logger.String("date", tomorrow))

	rides, err := s.repo.ActiveOnDate(ctx, tomorrow)
	if err != nil {
		return fmt.Errorf("cron job: failed to list reservations for %s: %w", tomorrow, err)
	}
	if len(rides) == 0 {
		s.log.Info("cron job: no rides tomorrow, digest skipped", logger.String("date", tomorrow))
		return nil
	}

	if err := s.sender.SendOwnerDigest(ctx, tomorrow, rides); err != nil {
		return fmt.Errorf("cron job: failed to send digest for %s: %w", tomorrow, err)
	}
	s.log.Info("cron job: digest sent", logger.String("date", tomorrow), logger.Int("rides", len(rides)))
	return nil
}
