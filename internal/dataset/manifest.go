package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Manifest records how a dataset was produced, so a run can be
// reproduced from its seed alone.
type Manifest struct {
	RunID       string    `json:"run_id"`
	Seed        int64     `json:"seed"`
	NumUsers    int       `json:"num_users"`
	NumEvents   int       `json:"num_events"`
	WindowStart string    `json:"window_start"`
	WindowEnd   string    `json:"window_end"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewManifest stamps a fresh run ID and generation time.
func NewManifest(seed int64, numUsers, numEvents int, windowStart, windowEnd string) Manifest {
	return Manifest{
		RunID:       uuid.NewString(),
		Seed:        seed,
		NumUsers:    numUsers,
		NumEvents:   numEvents,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		GeneratedAt: time.Now().UTC(),
	}
}

// WriteManifest writes manifest.json next to the tables.
func WriteManifest(dir string, m Manifest) error {
	path := filepath.Join(dir, ManifestFile)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads manifest.json if present. A missing manifest is not
// an error; older datasets may predate it.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
