// Package scheduler runs the periodic inbound sync tick.
package scheduler

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/m4tinbeigi-official/didar-crm/internal/models"
)

var specs = map[string]string{
	models.FrequencyHourly:     "@hourly",
	models.FrequencyTwiceDaily: "@every 12h",
	models.FrequencyDaily:      "@daily",
}

// Scheduler wraps a cron runner with a single reschedulable job.
type Scheduler struct {
	mu    sync.Mutex
	cron  *cron.Cron
	entry cron.EntryID
	job   func()
}

// New creates a scheduler invoking job on every tick.
func New(job func()) *Scheduler {
	return &Scheduler{cron: cron.New(), job: job}
}

// Apply (re)schedules the job at the given frequency and starts the runner.
func (s *Scheduler) Apply(frequency string) error {
	spec, ok := specs[frequency]
	if !ok {
		return fmt.Errorf("unknown cron frequency %q", frequency)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entry != 0 {
		s.cron.Remove(s.entry)
	}
	entry, err := s.cron.AddFunc(spec, s.job)
	if err != nil {
		return err
	}
	s.entry = entry
	s.cron.Start()
	return nil
}

// Stop halts the runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
