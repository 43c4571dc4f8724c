package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Refresher is the piece of the store the scheduler needs: a way to drop the
// in-memory cache so rows written by an out-of-band import become visible.
type Refresher interface {
	Refresh()
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron  *cron.Cron
	Store Refresher
}

// NewScheduler creates a new Scheduler.
func NewScheduler(st Refresher) *Scheduler {
	return &Scheduler{
		Cron:  cron.New(cron.WithSeconds()),
		Store: st,
	}
}

// RegisterAll registers the periodic cache refresh.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running scheduled store refresh")
	s.Store.Refresh()
}
