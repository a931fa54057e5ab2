// Package session keeps the per-student exam context between the start and
// submit requests: start time, duration and the course being taken. State is
// written on exam start and cleared explicitly on submission.
package session

import (
	"sync"
)

type ExamState struct {
	CourseID        string
	StartTime       string // RFC3339
	DurationMinutes int
}

func (s ExamState) Valid() bool {
	return s.CourseID != "" && s.StartTime != "" && s.DurationMinutes > 0
}

type Store struct {
	mu     sync.RWMutex
	states map[string]ExamState
}

func NewStore() *Store {
	return &Store{
		states: make(map[string]ExamState),
	}
}

func (s *Store) Get(token string) (ExamState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[token]
	return state, ok
}

func (s *Store) Put(token string, state ExamState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[token] = state
}

func (s *Store) Clear(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, token)
}
