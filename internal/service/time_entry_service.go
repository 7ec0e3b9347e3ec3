package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jdevries/timeflow/internal/model"
	"github.com/jdevries/timeflow/internal/ports"
)

// hoursTolerance is the allowed drift between a supplied hours_worked and the
// duration computed from start and end time.
var hoursTolerance = decimal.NewFromFloat(1e-6)

var maxDailyHours = decimal.NewFromInt(24)

// TimeEntryService admits, updates and removes time entries. Every write runs
// its full validation sequence inside one transaction with the allocation row
// locked, so two concurrent writers cannot jointly overcommit a budget.
type TimeEntryService struct {
	store ports.TimeEntryStore
	log   zerolog.Logger
}

func NewTimeEntryService(store ports.TimeEntryStore, log zerolog.Logger) *TimeEntryService {
	return &TimeEntryService{store: store, log: log}
}

type TimeEntryInput struct {
	CompanyID   int64
	ProjectID   int64
	Date        time.Time
	ServiceID   *int64
	Comment     *string
	HoursWorked *decimal.Decimal
	StartTime   *model.TimeOfDay
	EndTime     *model.TimeOfDay
}

func (s *TimeEntryService) Create(ctx context.Context, principal model.Principal, input TimeEntryInput) (*model.TimeEntryDetail, error) {
	hours, err := resolveHours(input.HoursWorked, input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}

	var detail *model.TimeEntryDetail
	err = s.store.Tx(ctx, func(tx ports.TimeEntryStore) error {
		employee, err := s.resolveEmployee(ctx, tx, principal)
		if err != nil {
			return err
		}

		if err := s.checkBudget(ctx, tx, input.ProjectID, input.CompanyID, hours, 0); err != nil {
			return err
		}
		if input.StartTime != nil && input.EndTime != nil {
			if err := s.checkOverlap(ctx, tx, employee.ID, input.Date, *input.StartTime, *input.EndTime, 0); err != nil {
				return err
			}
		}

		saved, err := tx.Insert(ctx, model.TimeEntry{
			EmployeeID:  employee.ID,
			CompanyID:   input.CompanyID,
			ProjectID:   input.ProjectID,
			ServiceID:   input.ServiceID,
			Date:        dateOnly(input.Date),
			HoursWorked: hours,
			StartTime:   input.StartTime,
			EndTime:     input.EndTime,
			Comment:     input.Comment,
		})
		if err != nil {
			return err
		}
		detail, err = tx.Detail(ctx, saved.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Update re-runs the create validation against the merged entry, excluding
// the entry itself from the cumulative-sum and overlap checks. Only service,
// comment, hours and the time window can change.
func (s *TimeEntryService) Update(ctx context.Context, principal model.Principal, entryID int64, patch model.TimeEntryPatch) (*model.TimeEntryDetail, error) {
	var detail *model.TimeEntryDetail
	err := s.store.Tx(ctx, func(tx ports.TimeEntryStore) error {
		employee, err := s.resolveEmployee(ctx, tx, principal)
		if err != nil {
			return err
		}
		entry, err := tx.GetOwned(ctx, entryID, employee.ID)
		if err != nil {
			return err
		}
		if entry == nil {
			return &NotFoundError{Entity: "time entry", ID: entryID}
		}

		newStart := entry.StartTime
		if patch.StartTime != nil {
			newStart = patch.StartTime
		}
		newEnd := entry.EndTime
		if patch.EndTime != nil {
			newEnd = patch.EndTime
		}

		var newHours decimal.Decimal
		if newStart != nil && newEnd != nil {
			computed, err := windowHours(*newStart, *newEnd)
			if err != nil {
				return err
			}
			if patch.HoursWorked != nil && patch.HoursWorked.Sub(computed).Abs().GreaterThan(hoursTolerance) {
				return validationf("hours_worked", "hours_worked must match the duration between start_time and end_time")
			}
			newHours = computed
		} else if patch.HoursWorked != nil {
			newHours = *patch.HoursWorked
		} else {
			newHours = entry.HoursWorked
		}
		if err := checkHoursRange(newHours); err != nil {
			return err
		}

		if err := s.checkBudget(ctx, tx, entry.ProjectID, entry.CompanyID, newHours, entryID); err != nil {
			return err
		}
		if newStart != nil && newEnd != nil {
			if err := s.checkOverlap(ctx, tx, employee.ID, entry.Date, *newStart, *newEnd, entryID); err != nil {
				return err
			}
		}

		entry.HoursWorked = newHours
		entry.StartTime = newStart
		entry.EndTime = newEnd
		if patch.ServiceID != nil {
			entry.ServiceID = patch.ServiceID
		}
		if patch.Comment != nil {
			entry.Comment = patch.Comment
		}

		updated, err := tx.Update(ctx, *entry)
		if err != nil {
			return err
		}
		detail, err = tx.Detail(ctx, updated.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Delete removes an entry owned by the caller. Entries of other employees
// report not found rather than forbidden.
func (s *TimeEntryService) Delete(ctx context.Context, principal model.Principal, entryID int64) error {
	return s.store.Tx(ctx, func(tx ports.TimeEntryStore) error {
		employee, err := s.resolveEmployee(ctx, tx, principal)
		if err != nil {
			return err
		}
		deleted, err := tx.DeleteOwned(ctx, entryID, employee.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return &NotFoundError{Entity: "time entry", ID: entryID}
		}
		return nil
	})
}

type TimeEntryListFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	EmployeeID *int64
}

func (s *TimeEntryService) List(ctx context.Context, principal model.Principal, filter TimeEntryListFilter) ([]model.TimeEntryDetail, error) {
	var employeeID int64
	if filter.EmployeeID != nil {
		employeeID = *filter.EmployeeID
	} else {
		employee, err := s.resolveEmployee(ctx, s.store, principal)
		if err != nil {
			return nil, err
		}
		employeeID = employee.ID
	}
	return s.store.List(ctx, model.TimeEntryFilter{
		EmployeeID: employeeID,
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
	})
}

// AvailableHoursOverview lists every allocation with its used and remaining
// hours, measured against logged time entries.
func (s *TimeEntryService) AvailableHoursOverview(ctx context.Context) ([]model.AllocationUsage, error) {
	return s.store.AllocationUsage(ctx)
}

func (s *TimeEntryService) Employees(ctx context.Context) ([]model.Employee, error) {
	return s.store.ListEmployees(ctx)
}

func (s *TimeEntryService) resolveEmployee(ctx context.Context, tx ports.TimeEntryStore, principal model.Principal) (*model.Employee, error) {
	return tx.GetOrCreateEmployee(ctx, principal.EmployeeName(), principal.EmployeeEmail(), principal.Subject)
}

// checkBudget requires an allocation row for the pair, then verifies the new
// hours fit in the remaining budget. excludeID keeps an updated entry's own
// hours out of the sum.
func (s *TimeEntryService) checkBudget(ctx context.Context, tx ports.TimeEntryStore, projectID, companyID int64, hours decimal.Decimal, excludeID int64) error {
	alloc, err := tx.AllocationForUpdate(ctx, projectID, companyID)
	if err != nil {
		return err
	}
	if alloc == nil {
		return validationf("project_id", "project %d is not linked to company %d", projectID, companyID)
	}
	if alloc.Hours.Unlimited() {
		return nil
	}

	used, err := tx.SumHours(ctx, projectID, companyID, excludeID)
	if err != nil {
		return err
	}
	if !alloc.Hours.Covers(used.Add(hours)) {
		remaining := alloc.Hours.Remaining(used)
		return validationf("hours_worked", "cannot log %s hours, only %s hours remaining",
			hours.String(), remaining.String())
	}
	return nil
}

func (s *TimeEntryService) checkOverlap(ctx context.Context, tx ports.TimeEntryStore, employeeID int64, date time.Time, start, end model.TimeOfDay, excludeID int64) error {
	existing, err := tx.TimedEntries(ctx, employeeID, dateOnly(date), excludeID)
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.OverlapsWindow(start, end) {
			return &ConflictError{Reason: "this time range overlaps with an existing entry for this day"}
		}
	}
	return nil
}

// resolveHours derives the hours of a new entry. With a full window the
// duration wins and any supplied hours_worked must agree within tolerance;
// without one, hours_worked is required.
func resolveHours(hours *decimal.Decimal, start, end *model.TimeOfDay) (decimal.Decimal, error) {
	if start != nil && end != nil {
		computed, err := windowHours(*start, *end)
		if err != nil {
			return decimal.Zero, err
		}
		if hours != nil && hours.Sub(computed).Abs().GreaterThan(hoursTolerance) {
			return decimal.Zero, validationf("hours_worked", "hours_worked must match the duration between start_time and end_time")
		}
		if err := checkHoursRange(computed); err != nil {
			return decimal.Zero, err
		}
		return computed, nil
	}
	if hours == nil {
		return decimal.Zero, validationf("hours_worked", "provide either hours_worked, or start_time and end_time")
	}
	if err := checkHoursRange(*hours); err != nil {
		return decimal.Zero, err
	}
	return *hours, nil
}

func windowHours(start, end model.TimeOfDay) (decimal.Decimal, error) {
	if !start.Before(end) {
		return decimal.Zero, validationf("end_time", "end_time must be after start_time")
	}
	return start.HoursUntil(end), nil
}

func checkHoursRange(hours decimal.Decimal) error {
	if hours.IsNegative() || hours.GreaterThan(maxDailyHours) {
		return validationf("hours_worked", "hours worked must be between 0 and 24")
	}
	return nil
}
