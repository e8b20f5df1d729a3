package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/syncuphq/syncup-analytics/internal/domain"
)

// File names inside the data directory. The layout matches the flat
// tabular export consumed by the report and dashboard.
const (
	UsersFile    = "users.csv"
	EventsFile   = "events.csv"
	ManifestFile = "manifest.json"
)

// ErrMissingData indicates a required data file is absent. Callers
// surface it to the operator together with the corrective instruction
// from Check.
var ErrMissingData = errors.New("data file missing")

var usersHeader = []string{"user_id", "sign_up_date", "plan_type", "ab_test_group"}
var eventsHeader = []string{"event_id", "user_id", "event_timestamp", "event_name"}

// Check verifies that both tables exist under dir. The returned error
// tells the operator how to fix the situation.
func Check(dir string) error {
	for _, name := range []string{UsersFile, EventsFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s (run `syncup generate` to create the dataset)", ErrMissingData, path)
		}
	}
	return nil
}

// WriteUsers writes the users table. Output is byte-stable for a given
// slice: same users in, same file out.
func WriteUsers(dir string, users []domain.User) error {
	return writeTable(filepath.Join(dir, UsersFile), usersHeader, len(users), func(i int) []string {
		u := users[i]
		return []string{
			strconv.Itoa(u.ID),
			u.SignUpDate.Format(domain.DateLayout),
			string(u.Plan),
			string(u.Group),
		}
	})
}

// WriteEvents writes the events table in event-ID order.
func WriteEvents(dir string, events []domain.Event) error {
	return writeTable(filepath.Join(dir, EventsFile), eventsHeader, len(events), func(i int) []string {
		e := events[i]
		return []string{
			strconv.Itoa(e.ID),
			strconv.Itoa(e.UserID),
			e.Timestamp.Format(domain.DateTimeLayout),
			string(e.Name),
		}
	})
}

func writeTable(path string, header []string, n int, row func(i int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

// ReadUsers loads the users table.
func ReadUsers(dir string) ([]domain.User, error) {
	rows, err := readTable(filepath.Join(dir, UsersFile), len(usersHeader))
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(rows))
	for i, rec := range rows {
		id, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("users row %d: bad user_id %q", i+1, rec[0])
		}
		signUp, err := time.Parse(domain.DateLayout, rec[1])
		if err != nil {
			return nil, fmt.Errorf("users row %d: bad sign_up_date %q", i+1, rec[1])
		}
		users = append(users, domain.User{
			ID:         id,
			SignUpDate: signUp,
			Plan:       domain.PlanType(rec[2]),
			Group:      domain.ExperimentGroup(rec[3]),
		})
	}
	return users, nil
}

// ReadEvents loads the events table.
func ReadEvents(dir string) ([]domain.Event, error) {
	rows, err := readTable(filepath.Join(dir, EventsFile), len(eventsHeader))
	if err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(rows))
	for i, rec := range rows {
		id, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("events row %d: bad event_id %q", i+1, rec[0])
		}
		userID, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("events row %d: bad user_id %q", i+1, rec[1])
		}
		ts, err := time.Parse(domain.DateTimeLayout, rec[2])
		if err != nil {
			return nil, fmt.Errorf("events row %d: bad event_timestamp %q", i+1, rec[2])
		}
		events = append(events, domain.Event{
			ID:        id,
			UserID:    userID,
			Timestamp: ts,
			Name:      domain.EventName(rec[3]),
		})
	}
	return events, nil
}

func readTable(path string, wantCols int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run `syncup generate` to create the dataset)", ErrMissingData, path)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = wantCols

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read %s: empty file, header expected", path)
	}
	return records[1:], nil
}
