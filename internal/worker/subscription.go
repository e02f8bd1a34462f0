package worker

import (
	"time"

	"github.com/martinsuchenak/advisorctl/internal/log"
)

// Refresh triggers an out-of-band run, for example right after a power command. It
// returns without waiting; a refresh already in progress is not duplicated.
func (s *Subscription) Refresh() {
	if !s.Mounted() {
		return
	}
	go s.refresh()
}

// RefreshNow runs a refresh on the calling goroutine
func (s *Subscription) RefreshNow() {
	if !s.Mounted() {
		return
	}
	s.refresh()
}

// Unmount cancels the schedule. A refresh already in flight is left to finish.
func (s *Subscription) Unmount() {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = false
	s.mu.Unlock()

	s.poller.remove(s)
	log.Debug("View unmounted", "subscription_id", s.ID, "name", s.Name)
}

// Mounted reports whether the schedule is still active
func (s *Subscription) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Status returns the state of the most recent refresh
func (s *Subscription) Status() (status string, lastRun time.Time, lastErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.lastRun, s.lastErr
}

// Runs returns how many refreshes have finished
func (s *Subscription) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}
