package simulate

import "time"

// Config controls one generation run. The probability constants live in
// journey.go; they are part of the dataset's design, not configuration.
type Config struct {
	NumUsers    int
	WindowStart time.Time
	WindowEnd   time.Time
}

// DefaultConfig reproduces the canonical SyncUp teaching dataset:
// 2000 users signing up between 2024-01-01 and 2024-02-29.
func DefaultConfig() Config {
	return Config{
		NumUsers:    2000,
		WindowStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
	}
}
