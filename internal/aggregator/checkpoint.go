package aggregator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ErrDigestMismatch is returned when a state file was produced from a
// different baseline than the one currently loaded. Resuming over it
// would silently mix statistics from incompatible inputs.
var ErrDigestMismatch = errors.New("state file digest does not match the loaded baseline")

// Checkpoint persists the run statistics to a single JSON file so that
// interrupted runs resume where they left off.
type Checkpoint struct {
	path   string
	digest uint64
}

// stateFile is the on-disk layout. The digest is the baseline hash in
// hex, written alongside the statistics it guards.
type stateFile struct {
	Digest  string    `json:"digest"`
	SavedAt time.Time `json:"saved_at"`
	Stats   Stats     `json:"stats"`
}

// NewCheckpoint creates a checkpoint bound to a state file path and the
// digest of the baseline the statistics belong to.
//
// Parameters:
//   - path: State file path
//   - digest: Baseline digest guarding the file
//
// Returns:
//   - *Checkpoint: Initialized checkpoint
func NewCheckpoint(path string, digest uint64) *Checkpoint {
	return &Checkpoint{path: path, digest: digest}
}

// Load reads the persisted statistics.
//
// A missing file is a fresh start and yields empty statistics. A file
// written against a different baseline, or one that cannot be parsed,
// is an error: the caller must not resume over it.
//
// Returns:
//   - *Stats: Restored statistics (empty when no file exists)
//   - error: Error if the file is unreadable, corrupt or stale
func (c *Checkpoint) Load() (*Stats, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewStats(), nil
		}

		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var file stateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", c.path, err)
	}

	digest, err := strconv.ParseUint(file.Digest, 16, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse state file digest %q: %w", file.Digest, err)
	}
	if digest != c.digest {
		return nil, fmt.Errorf("%w: %s holds %s, baseline is %s",
			ErrDigestMismatch, c.path, file.Digest, strconv.FormatUint(c.digest, 16))
	}

	stats := file.Stats
	if stats.Fails == nil {
		stats.Fails = make(map[string]int64)
	}

	return &stats, nil
}

// Save writes the statistics to the state file. The write goes through
// a temporary file and a rename, so readers never observe a torn file.
//
// Parameters:
//   - stats: Statistics to persist
//
// Returns:
//   - error: Error if the write fails
func (c *Checkpoint) Save(stats *Stats) error {
	file := stateFile{
		Digest:  strconv.FormatUint(c.digest, 16),
		SavedAt: time.Now(),
		Stats:   *stats,
	}

	data, err := json.MarshalIndent(&file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(c.path), "."+filepath.Base(c.path)+".tmp")
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}

// Path returns the state file path.
func (c *Checkpoint) Path() string {
	return c.path
}
