package service

import "sync"

// GenerationRegistry tracks which session ids currently have a generation job
// in flight. The list endpoint consults it to flag rows as generating; every
// job removes its id on exit regardless of outcome, so entries never outlive
// their job.
type GenerationRegistry struct {
	mu   sync.RWMutex
	jobs map[int64]struct{}
}

// NewGenerationRegistry creates an empty registry
func NewGenerationRegistry() *GenerationRegistry {
	return &GenerationRegistry{jobs: make(map[int64]struct{})}
}

// Add marks a session as generating.
func (r *GenerationRegistry) Add(sessionID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[sessionID] = struct{}{}
}

// Remove clears a session's in-flight mark. Removing an absent id is a no-op.
func (r *GenerationRegistry) Remove(sessionID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, sessionID)
}

// Contains reports whether the session has a job in flight.
func (r *GenerationRegistry) Contains(sessionID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.jobs[sessionID]
	return ok
}

// Len returns the number of in-flight jobs.
func (r *GenerationRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
