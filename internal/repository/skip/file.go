package skip

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/upcast/internal/config"
	"github.com/oshokin/upcast/internal/domain/appcast"
)

// Repository defines persistence operations for the skipped-version preference.
type Repository interface {
	Get(ctx context.Context) (appcast.Version, error)
	Set(ctx context.Context, v appcast.Version) error
	Clear(ctx context.Context) error
}

// ErrNotFound is returned when no version has been skipped yet.
var ErrNotFound = errors.New("no skipped version recorded")

// preference is the YAML wire form of the stored preference.
type preference struct {
	// Version is the skipped version as a dotted numeric string.
	Version string `yaml:"version"`
}

// FileRepository persists the skipped version to a YAML file on disk.
type FileRepository struct {
	// path is the filesystem location of the preference file.
	path string
	// mu protects concurrent access to the preference file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes YAML at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Get reads the skipped version from disk.
func (r *FileRepository) Get(_ context.Context) (appcast.Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read skip file: %w", err)
	}

	var pref preference
	if err = yaml.Unmarshal(contents, &pref); err != nil {
		return nil, fmt.Errorf("decode skip file: %w", err)
	}

	if pref.Version == "" {
		return nil, ErrNotFound
	}

	v, err := appcast.ParseVersion(pref.Version)
	if err != nil {
		return nil, fmt.Errorf("decode skip file: %w", err)
	}

	return v, nil
}

// Set writes the skipped version to disk.
func (r *FileRepository) Set(_ context.Context, v appcast.Version) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(preference{Version: v.String()})
	if err != nil {
		return fmt.Errorf("encode skip file: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write skip file: %w", err)
	}

	return nil
}

// Clear removes the preference file, forgetting any skipped version.
func (r *FileRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove skip file: %w", err)
	}

	return nil
}

// IsSkipped reports whether v matches the recorded skipped version.
// A nil repository, a missing preference or a read failure all count as
// "not skipped": the raw version comparison then governs the decision.
func IsSkipped(ctx context.Context, r Repository, v appcast.Version) bool {
	if r == nil {
		return false
	}

	skipped, err := r.Get(ctx)
	if err != nil {
		return false
	}

	return skipped.Equal(v)
}
