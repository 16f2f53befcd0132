package cache

import (
	"github.com/robfig/cron/v3"

	"github.com/patrickacs/stocklio/internal/logger"
)

// Sweeper periodically deletes expired cache rows, independent of the lazy
// eviction done on read.
type Sweeper struct {
	cron  *cron.Cron
	store Store
}

// NewSweeper creates a sweeper over the given store.
func NewSweeper(store Store) *Sweeper {
	return &Sweeper{cron: cron.New(), store: store}
}

// Start registers the hourly sweep and starts the scheduler.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc("@hourly", s.sweep)
	if err != nil {
		return err
	}
	s.cron.Start()
	logger.Get().Info("cache sweeper started")
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Get().Info("cache sweeper stopped")
}

func (s *Sweeper) sweep() {
	if removed := s.store.DeleteExpired(); removed > 0 {
		logger.Get().Infow("cache sweep completed", "removed", removed)
	}
}
