package checklist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"opsboard/feature/history"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// jobTimeout bounds one scheduled run.
const jobTimeout = 10 * time.Minute

// Archiver archives one day of the checklist.
type Archiver interface {
	ArchiveDay(ctx context.Context, date, user string) (history.ArchiveReport, error)
}

// Scheduler runs the daily reconciliation and archive jobs.
type Scheduler struct {
	service  *Service
	archiver Archiver
	cfg      Config
	cron     *cron.Cron
	logger   *zap.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler firing in loc. archiver may be nil to skip archiving.
func NewScheduler(service *Service, archiver Archiver, cfg Config, loc *time.Location, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		service:  service,
		archiver: archiver,
		cfg:      cfg,
		cron:     cron.New(cron.WithLocation(loc)),
		logger:   logger,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if _, err := s.cron.AddFunc(s.cfg.EnsureSchedule, s.RunEnsure); err != nil {
		return fmt.Errorf("adding ensure schedule %q: %w", s.cfg.EnsureSchedule, err)
	}
	if s.archiver != nil {
		if _, err := s.cron.AddFunc(s.cfg.ArchiveSchedule, s.RunArchive); err != nil {
			return fmt.Errorf("adding archive schedule %q: %w", s.cfg.ArchiveSchedule, err)
		}
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("Checklist scheduler started",
		zap.String("ensure", s.cfg.EnsureSchedule),
		zap.String("archive", s.cfg.ArchiveSchedule))
	return nil
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("Checklist scheduler stopped")
}

// RunEnsure reconciles today's matrix.
func (s *Scheduler) RunEnsure() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.service.EnsureDay(ctx, ""); err != nil {
		s.logger.Error("Scheduled matrix reconciliation failed", zap.Error(err))
	}
}

// RunArchive archives today's matrix.
func (s *Scheduler) RunArchive() {
	if s.archiver == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	date := s.service.Today()
	if _, err := s.archiver.ArchiveDay(ctx, date, s.cfg.SystemUser); err != nil {
		s.logger.Error("Scheduled archive failed", zap.String("date", date), zap.Error(err))
	}
}
