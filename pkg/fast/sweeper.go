package fast

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultSweepSchedule = "@every 10m"

type Expirer interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper periodically removes expired fasts.
type Sweeper struct {
	repo    Expirer
	cron    *cron.Cron
	logger  *zap.SugaredLogger
	now     func() time.Time
	timeout time.Duration

	mu      sync.Mutex
	started bool
}

func NewSweeper(repo Expirer, logger *zap.SugaredLogger) *Sweeper {
	return &Sweeper{
		repo:    repo,
		cron:    cron.New(),
		logger:  logger,
		now:     time.Now,
		timeout: time.Minute,
	}
}

// Schedule registers the sweep with a cron spec such as "@every 10m" or
// "*/5 * * * *". An empty spec uses DefaultSweepSchedule.
func (s *Sweeper) Schedule(spec string) error {
	if spec == "" {
		spec = DefaultSweepSchedule
	}
	if _, err := s.cron.AddFunc(spec, func() { s.Sweep(context.Background()) }); err != nil {
		return fmt.Errorf("fast: bad sweep schedule %q: %w", spec, err)
	}
	return nil
}

// Sweep runs a single pass and returns the number of removed fasts.
func (s *Sweeper) Sweep(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Errorf("fast: sweeping expired fasts failed: %v", err)
		return 0
	}
	if n > 0 {
		s.logger.Infow("expired fasts removed", "count", n)
	}
	return n
}

func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.cron.Start()
		s.started = true
	}
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		<-s.cron.Stop().Done()
		s.started = false
	}
}
