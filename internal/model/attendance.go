package model

// DayStatus classifies a single calendar day of attendance.
type DayStatus string

const (
	// StatusPresent means the day has both a punch-in and a punch-out.
	StatusPresent DayStatus = "present"
	// StatusPartial means the day has a punch-in but no punch-out yet.
	StatusPartial DayStatus = "partial"
	// StatusAbsent means no punch was recorded for the day.
	StatusAbsent DayStatus = "absent"
	// StatusOnLeave means an approved leave covers the day; LeaveKind
	// carries the leave type reported by the server.
	StatusOnLeave DayStatus = "on_leave"
)

// DayRecord is the single representative attendance record for one calendar
// day. Punch times are time-of-day strings ("15:04:05"); both may be absent
// independently. The address/device fields are display-only provenance.
type DayRecord struct {
	Date            string    `json:"date"` // "2006-01-02"
	PunchIn         *string   `json:"punch_in"`
	PunchOut        *string   `json:"punch_out"`
	DurationSeconds *int64    `json:"duration_seconds"`
	Status          DayStatus `json:"status"`
	LeaveKind       string    `json:"leave_kind,omitempty"`
	InAddress       string    `json:"in_address,omitempty"`
	OutAddress      string    `json:"out_address,omitempty"`
	InDevice        string    `json:"in_device,omitempty"`
	OutDevice       string    `json:"out_device,omitempty"`
}

// Absent returns the synthetic record used for a day the server reported
// nothing for.
func Absent(date string) DayRecord {
	return DayRecord{Date: date, Status: StatusAbsent}
}
