package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/RushabhBarot/CityFix/internal/service"
)

// Scheduler keeps the dashboard stats cache warm so reads almost never hit
// the counting queries.
type Scheduler struct {
	cron  *cron.Cron
	stats *service.StatsService
	log   zerolog.Logger
}

func NewScheduler(stats *service.StatsService, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		stats: stats,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 */5 * * * *", s.refreshStats); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for any in-flight job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refreshStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.stats.Refresh(ctx); err != nil {
		s.log.Error().Err(err).Msg("stats refresh failed")
	}
}
