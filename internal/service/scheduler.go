package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SchedulerService owns the periodic jobs of the process. Jobs are
// registered under stable names so re-registering replaces the previous
// definition, Start is idempotent, and Stop waits for running jobs to
// finish. Nothing starts as a side effect of package loading; the
// hosting process constructs, starts and stops the service explicitly.
type SchedulerService struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID
	timers  map[string]*time.Timer
	started bool
	log     zerolog.Logger
}

func NewSchedulerService(loc *time.Location, log zerolog.Logger) *SchedulerService {
	if loc == nil {
		loc = time.Local
	}
	return &SchedulerService{
		cron:    cron.New(cron.WithLocation(loc)),
		entries: make(map[string]cron.EntryID),
		timers:  make(map[string]*time.Timer),
		log:     log,
	}
}

// ScheduleInterval registers (or replaces) a named periodic job.
func (s *SchedulerService) ScheduleInterval(name string, interval time.Duration, job func(ctx context.Context) error) error {
	if interval <= 0 {
		return fmt.Errorf("schedule %q: interval must be positive", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[name]; ok {
		s.cron.Remove(old)
	}

	spec := fmt.Sprintf("@every %s", interval)
	id, err := s.cron.AddFunc(spec, s.wrap(name, job))
	if err != nil {
		return fmt.Errorf("schedule %q: %w", name, err)
	}
	s.entries[name] = id
	return nil
}

// ScheduleOnceAfter registers (or replaces) a named one-shot job that
// fires once after the delay. Used for the initial sweep shortly after
// process start.
func (s *SchedulerService) ScheduleOnceAfter(name string, delay time.Duration, job func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[name]; ok {
		old.Stop()
	}
	s.timers[name] = time.AfterFunc(delay, s.wrap(name, job))
}

func (s *SchedulerService) wrap(name string, job func(ctx context.Context) error) func() {
	return func() {
		if err := job(context.Background()); err != nil {
			s.log.Error().Err(err).Str("job", name).Msg("scheduled job failed")
		}
	}
}

// Jobs returns the names of the registered periodic jobs.
func (s *SchedulerService) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}

// Start begins running registered jobs. Calling it again while running
// is a no-op.
func (s *SchedulerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.cron.Start()
	s.started = true
}

// Stop cancels one-shot timers, stops the cron loop and waits for any
// running job to finish. Safe to call when not started.
func (s *SchedulerService) Stop() {
	s.mu.Lock()
	for name, t := range s.timers {
		t.Stop()
		delete(s.timers, name)
	}
	wasStarted := s.started
	s.started = false
	s.mu.Unlock()

	if wasStarted {
		<-s.cron.Stop().Done()
	}
}
