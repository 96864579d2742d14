package skip

import (
	"context"
	"sync"

	"github.com/oshokin/upcast/internal/domain/appcast"
)

// MemoryRepository keeps the skipped version in memory. It backs tests and
// callers that do not want the preference to survive a restart.
type MemoryRepository struct {
	mu      sync.Mutex
	version appcast.Version
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Get returns the stored version or ErrNotFound.
func (r *MemoryRepository) Get(_ context.Context) (appcast.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.version == nil {
		return nil, ErrNotFound
	}

	return r.version.Clone(), nil
}

// Set stores a copy of the provided version.
func (r *MemoryRepository) Set(_ context.Context, v appcast.Version) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.version = v.Clone()

	return nil
}

// Clear forgets any stored version.
func (r *MemoryRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.version = nil

	return nil
}
