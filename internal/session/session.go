// Package session holds the form state of the single local user.
package session

import (
	"sync"

	"jobfinder-engine/internal/domain"
)

type Snapshot struct {
	CVPath   string               `json:"cv_path"`
	Filter   *domain.SearchFilter `json:"last_filter,omitempty"`
	Name     string               `json:"name"`
	Position string               `json:"position"`
}

type Session struct {
	mu       sync.RWMutex
	cvPath   string
	filter   *domain.SearchFilter
	name     string
	position string
}

func New() *Session { return &Session{} }

// SetCVPath records the chosen CV. An empty path clears the choice.
func (s *Session) SetCVPath(p string) {
	s.mu.Lock()
	s.cvPath = p
	s.mu.Unlock()
}

func (s *Session) CVPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cvPath
}

func (s *Session) SetFilter(f domain.SearchFilter) {
	s.mu.Lock()
	s.filter = &f
	s.mu.Unlock()
}

// LastFilter is the last submitted search, if any.
func (s *Session) LastFilter() (domain.SearchFilter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.filter == nil {
		return domain.SearchFilter{}, false
	}
	return *s.filter, true
}

// CVRequest combines name and position with the chosen file and remembers
// them for the next page load.
func (s *Session) CVRequest(name, position string) domain.CVRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name, s.position = name, position
	return domain.CVRequest{Name: name, Position: position, FilePath: s.cvPath}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{CVPath: s.cvPath, Name: s.name, Position: s.position}
	if s.filter != nil {
		f := *s.filter
		snap.Filter = &f
	}
	return snap
}
