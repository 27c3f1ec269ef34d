package bot

import (
	"sync"
	"time"

	"github.com/mcoot/seabattle-go/internal/dependencies/clock"
	"github.com/mcoot/seabattle-go/internal/model"
)

// scheduler holds at most one pending bot move per match. Scheduling again
// for the same match replaces the pending move; cancelling makes it a no-op.
type scheduler struct {
	clock clock.Clock

	mu    sync.Mutex
	tasks map[model.MatchID]*task
}

type task struct {
	timer clock.Timer
}

func newScheduler(clk clock.Clock) *scheduler {
	return &scheduler{
		clock: clk,
		tasks: make(map[model.MatchID]*task),
	}
}

func (s *scheduler) schedule(matchID model.MatchID, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.tasks[matchID]; ok {
		old.timer.Stop()
	}

	t := &task{}
	s.tasks[matchID] = t
	t.timer = s.clock.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.tasks[matchID] != t {
			s.mu.Unlock()
			return
		}
		delete(s.tasks, matchID)
		s.mu.Unlock()

		fn()
	})
}

func (s *scheduler) cancel(matchID model.MatchID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[matchID]
	if !ok {
		return false
	}
	delete(s.tasks, matchID)
	t.timer.Stop()
	return true
}

func (s *scheduler) pending(matchID model.MatchID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[matchID]
	return ok
}

// stop cancels every pending move
func (s *scheduler) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.tasks {
		t.timer.Stop()
		delete(s.tasks, id)
	}
}
