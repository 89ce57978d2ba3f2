package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/christiansio/hris-auth/internal/repository"
)

// Scheduler sweeps expired session rows out of the store. The cookie's
// max-age bounds client-side lifetime; this keeps the table from
// accumulating rows whose cookies are long gone.
type Scheduler struct {
	cron     *cron.Cron
	sessions repository.SessionStore
	log      zerolog.Logger
}

func NewScheduler(sessions repository.SessionStore, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		sessions: sessions,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 * * * *", s.purgeExpiredSessions); err != nil { // hourly
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits briefly for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) purgeExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := s.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("session purge failed")
		return
	}
	if purged > 0 {
		s.log.Info().Int64("purged", purged).Msg("expired sessions removed")
	}
}
