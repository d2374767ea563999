// Package snapshot persists the aggregator's per-day map as month-keyed
// JSON files so the calendar can render the last known state while offline.
// Snapshots are a display convenience, never a source of truth: a network
// refresh always overwrites them.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ess-tools/attend/internal/model"
	"github.com/ess-tools/attend/internal/timecalc"
)

// BaseDir returns the root data directory (~/.attend).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".attend"), nil
}

// MonthFile is the top-level structure stored in each monthly JSON file.
type MonthFile struct {
	Month string            `json:"month"` // "2006-01"
	Days  []model.DayRecord `json:"days"`
}

// monthFilePath returns the path for the given month's JSON file.
func monthFilePath(base string, month time.Time) string {
	return filepath.Join(base, month.Format("2006"), month.Format("01")+".json")
}

// LoadMonth loads the snapshot for the given month as a per-day map.
// A missing file yields an empty map.
func LoadMonth(base string, month time.Time) (map[string]model.DayRecord, error) {
	path := monthFilePath(base, month)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]model.DayRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot error reading %s: %w", path, err)
	}

	var mf MonthFile
	if err := json.Unmarshal(data, &mf); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return nil, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}

	days := make(map[string]model.DayRecord, len(mf.Days))
	for _, rec := range mf.Days {
		days[rec.Date] = rec
	}
	return days, nil
}

// SaveMonth atomically writes the given month's slice of the per-day map.
// Days outside the month are ignored so callers can pass the whole map.
func SaveMonth(base string, month time.Time, days map[string]model.DayRecord) error {
	prefix := timecalc.MonthKey(month) + "-"
	mf := MonthFile{Month: timecalc.MonthKey(month)}
	for date, rec := range days {
		if strings.HasPrefix(date, prefix) {
			mf.Days = append(mf.Days, rec)
		}
	}
	sort.Slice(mf.Days, func(i, j int) bool { return mf.Days[i].Date < mf.Days[j].Date })

	path := monthFilePath(base, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("snapshot error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(mf, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("snapshot error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("snapshot error renaming temp file: %w", err)
	}
	return nil
}
