package task

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Store owns the authoritative, ordered task list and persists it after every mutation.
// It is not safe for concurrent use.
type Store struct {
	persister Persister
	tasks     []Task
	logger    zerolog.Logger
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock overrides the time source for created/completed timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store populated from p.
func NewStore(p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		logger:    log.Logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = append([]Task{}, p.Load()...)
	return s
}

// Add appends a new pending task with the next id and persists.
func (s *Store) Add(description string, priority Priority, tags []string) Task {
	t := New(s.nextID(), description, priority, tags, s.now())
	s.tasks = append(s.tasks, t)
	s.save()
	return t.Clone()
}

// List returns the tasks matching filter in insertion order.
func (s *Store) List(filter string) []Task {
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.MatchesFilter(filter) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// MarkCompleted completes the task with id. It returns false when the task
// does not exist or is already completed.
func (s *Store) MarkCompleted(id int) bool {
	for i, t := range s.tasks {
		if t.ID != id {
			continue
		}
		if t.Completed {
			return false
		}
		s.tasks[i] = t.MarkCompleted(s.now())
		s.save()
		return true
	}
	return false
}

// Delete removes the task with id and reports whether anything was removed.
func (s *Store) Delete(id int) bool {
	kept := make([]Task, 0, len(s.tasks))
	removed := false
	for _, t := range s.tasks {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept
	if removed {
		s.save()
	}
	return removed
}

// nextID is max+1, so the highest id becomes free again once its task is deleted.
func (s *Store) nextID() int {
	maxID := 0
	for _, t := range s.tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}

func (s *Store) save() {
	if err := s.persister.Save(s.tasks); err != nil {
		s.logger.Warn().Err(err).Int("tasks", len(s.tasks)).Msg("failed to save tasks to storage")
	}
}
