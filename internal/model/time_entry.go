package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeEntry is one logged unit of work by an employee on a project for a
// company, with optional same-day start and end times.
type TimeEntry struct {
	ID          int64
	EmployeeID  int64
	CompanyID   int64
	ProjectID   int64
	ServiceID   *int64
	Date        time.Time
	HoursWorked decimal.Decimal
	StartTime   *TimeOfDay
	EndTime     *TimeOfDay
	Comment     *string
	CreatedAt   time.Time
}

// Timed reports whether the entry carries a full time window. Only timed
// entries participate in overlap checks.
func (e TimeEntry) Timed() bool {
	return e.StartTime != nil && e.EndTime != nil
}

// OverlapsWindow reports whether the entry's window intersects [start, end).
// Entries without a full window never overlap anything.
func (e TimeEntry) OverlapsWindow(start, end TimeOfDay) bool {
	if !e.Timed() {
		return false
	}
	return Overlaps(*e.StartTime, *e.EndTime, start, end)
}

// TimeEntryDetail is a time entry joined with the names its listing needs.
type TimeEntryDetail struct {
	TimeEntry
	CompanyName  string
	ProjectName  string
	ServiceName  *string
	ServiceColor *string
}

// TimeEntryPatch carries the updatable fields of a time entry. Project,
// company, date and employee are fixed once an entry exists.
type TimeEntryPatch struct {
	ServiceID   *int64
	Comment     *string
	HoursWorked *decimal.Decimal
	StartTime   *TimeOfDay
	EndTime     *TimeOfDay
}

func (p TimeEntryPatch) Empty() bool {
	return p.ServiceID == nil &&
		p.Comment == nil &&
		p.HoursWorked == nil &&
		p.StartTime == nil &&
		p.EndTime == nil
}

type TimeEntryFilter struct {
	EmployeeID int64
	StartDate  *time.Time
	EndDate    *time.Time
}
