package usecase

import (
	"sync"

	"patientscribe/internal/domain"
)

// ResultStore is the single-slot holder for the most recent captured or
// imported artifact plus the live recording flags. It is injected rather
// than process-global so each test can own an isolated instance.
type ResultStore struct {
	mu       sync.Mutex
	artifact *domain.RecordingArtifact
	flags    domain.RecordingFlags
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Set publishes a new artifact, overwriting any previous one and clearing
// the live flags.
func (s *ResultStore) Set(artifact domain.RecordingArtifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifact = &artifact
	s.flags = domain.RecordingFlags{}
}

// Artifact returns the current artifact, if one has been published.
func (s *ResultStore) Artifact() (domain.RecordingArtifact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.artifact == nil {
		return domain.RecordingArtifact{}, false
	}
	return *s.artifact, true
}

// SetFlags updates the live recording/paused flags.
func (s *ResultStore) SetFlags(isRecording bool, isPaused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags = domain.RecordingFlags{IsRecording: isRecording, IsPaused: isPaused}
}

// Flags returns the live recording/paused flags.
func (s *ResultStore) Flags() domain.RecordingFlags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags
}

// Clear drops the artifact and flags, e.g. after a successful submission.
func (s *ResultStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifact = nil
	s.flags = domain.RecordingFlags{}
}
