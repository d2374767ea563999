package model

// Task is one logged timesheet task.
type Task struct {
	ID               string  `json:"id"`
	Date             string  `json:"date"` // "2006-01-02"
	ProjectID        string  `json:"project_id"`
	Description      *string `json:"description"`
	TimeSpentMinutes int64   `json:"time_spent_minutes"`
}

// Project is an assignable project from the project master list.
type Project struct {
	ID   string `json:"project_id"`
	Name string `json:"project_name"`
}

// HourCountEntry is the server's per-day rollup of logged tasks. The
// upstream list carries at most one entry per date.
type HourCountEntry struct {
	Date             string `json:"date"`
	TaskCount        int    `json:"task_count"`
	TimeSpentMinutes int64  `json:"time_spent_minutes"`
}

// HourBucket bands a day's logged minutes for calendar display.
type HourBucket string

const (
	// BucketFull is a day with at least 8 logged hours.
	BucketFull HourBucket = "full"
	// BucketPartial is a day with 4 to 8 logged hours.
	BucketPartial HourBucket = "partial"
	// BucketLow is a day with under 4 logged hours.
	BucketLow HourBucket = "low"
)

// MonthlySummary is the per-day calendar marking record derived from
// HourCountEntry. It is recomputed whenever the hour-count list is
// refetched and never persisted.
type MonthlySummary struct {
	Date         string
	TotalMinutes int64
	TaskCount    int
	HasTimesheet bool
}
