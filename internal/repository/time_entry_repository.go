package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jdevries/timeflow/internal/model"
	"github.com/jdevries/timeflow/internal/ports"
)

type TimeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

func (r *TimeEntryRepository) Tx(ctx context.Context, fn func(ports.TimeEntryStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewTimeEntryRepository(tx))
	})
}

const entryColumns = `id, employee_id, company_id, project_id, service_id, date, hours_worked, start_time, end_time, comment, created_at`

// GetOrCreateEmployee resolves the caller's employee record, creating it on
// first use. The subject doubles as a legacy email key for records created
// before the identity provider exposed addresses.
func (r *TimeEntryRepository) GetOrCreateEmployee(ctx context.Context, name, email, subject string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, email, created_at
		FROM employees
		WHERE email = ? OR email = ?
		LIMIT 1
	`, email, subject).Scan(&employee).Error
	if err != nil {
		return nil, err
	}
	if employee.ID != 0 {
		return &employee, nil
	}

	err = r.db.WithContext(ctx).Raw(`
		INSERT INTO employees (name, email)
		VALUES (?, ?)
		RETURNING id, name, email, created_at
	`, name, email).Scan(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *TimeEntryRepository) GetEmployee(ctx context.Context, id int64) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, email, created_at
		FROM employees
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&employee).Error
	if err != nil {
		return nil, err
	}
	if employee.ID == 0 {
		return nil, nil
	}
	return &employee, nil
}

func (r *TimeEntryRepository) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, email, created_at
		FROM employees
		ORDER BY name
	`).Scan(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *TimeEntryRepository) AllocationForUpdate(ctx context.Context, projectID, companyID int64) (*model.Allocation, error) {
	return allocationForUpdate(ctx, r.db, projectID, companyID)
}

func (r *TimeEntryRepository) SumHours(ctx context.Context, projectID, companyID, excludeID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(hours_worked), 0)
		FROM time_entries
		WHERE project_id = ? AND company_id = ?
	`
	args := []interface{}{projectID, companyID}
	if excludeID != 0 {
		query += ` AND id <> ?`
		args = append(args, excludeID)
	}

	var total decimal.Decimal
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *TimeEntryRepository) TimedEntries(ctx context.Context, employeeID int64, date time.Time, excludeID int64) ([]model.TimeEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM time_entries
		WHERE employee_id = ? AND date = ?
			AND start_time IS NOT NULL AND end_time IS NOT NULL
	`
	args := []interface{}{employeeID, date}
	if excludeID != 0 {
		query += ` AND id <> ?`
		args = append(args, excludeID)
	}

	var entries []model.TimeEntry
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *TimeEntryRepository) Insert(ctx context.Context, entry model.TimeEntry) (*model.TimeEntry, error) {
	var saved model.TimeEntry
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO time_entries (employee_id, company_id, project_id, service_id, date, hours_worked, start_time, end_time, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+entryColumns,
		entry.EmployeeID,
		entry.CompanyID,
		entry.ProjectID,
		entry.ServiceID,
		entry.Date,
		entry.HoursWorked,
		entry.StartTime,
		entry.EndTime,
		entry.Comment,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *TimeEntryRepository) Update(ctx context.Context, entry model.TimeEntry) (*model.TimeEntry, error) {
	var saved model.TimeEntry
	err := r.db.WithContext(ctx).Raw(`
		UPDATE time_entries
		SET hours_worked = ?,
			start_time = ?,
			end_time = ?,
			service_id = ?,
			comment = ?
		WHERE id = ?
		RETURNING `+entryColumns,
		entry.HoursWorked,
		entry.StartTime,
		entry.EndTime,
		entry.ServiceID,
		entry.Comment,
		entry.ID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *TimeEntryRepository) GetOwned(ctx context.Context, id, employeeID int64) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+entryColumns+`
		FROM time_entries
		WHERE id = ? AND employee_id = ?
		LIMIT 1
	`, id, employeeID).Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.ID == 0 {
		return nil, nil
	}
	return &entry, nil
}

func (r *TimeEntryRepository) DeleteOwned(ctx context.Context, id, employeeID int64) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM time_entries WHERE id = ? AND employee_id = ?
	`, id, employeeID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *TimeEntryRepository) List(ctx context.Context, filter model.TimeEntryFilter) ([]model.TimeEntryDetail, error) {
	query := `
		SELECT te.id, te.employee_id, te.company_id, c.company_name,
			te.project_id, p.project_name, te.service_id, s.name AS service_name, s.service_color,
			te.date, te.hours_worked, te.start_time, te.end_time, te.comment, te.created_at
		FROM time_entries te
		JOIN companies c ON c.id = te.company_id
		JOIN projects p ON p.id = te.project_id
		LEFT JOIN services s ON s.id = te.service_id
		WHERE te.employee_id = ?
	`
	args := []interface{}{filter.EmployeeID}
	if filter.StartDate != nil {
		query += ` AND te.date >= ?`
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += ` AND te.date <= ?`
		args = append(args, *filter.EndDate)
	}
	query += ` ORDER BY te.date DESC, te.start_time NULLS LAST, te.created_at DESC`

	var entries []model.TimeEntryDetail
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *TimeEntryRepository) Detail(ctx context.Context, id int64) (*model.TimeEntryDetail, error) {
	var detail model.TimeEntryDetail
	err := r.db.WithContext(ctx).Raw(`
		SELECT te.id, te.employee_id, te.company_id, c.company_name,
			te.project_id, p.project_name, te.service_id, s.name AS service_name, s.service_color,
			te.date, te.hours_worked, te.start_time, te.end_time, te.comment, te.created_at
		FROM time_entries te
		JOIN companies c ON c.id = te.company_id
		JOIN projects p ON p.id = te.project_id
		LEFT JOIN services s ON s.id = te.service_id
		WHERE te.id = ?
		LIMIT 1
	`, id).Scan(&detail).Error
	if err != nil {
		return nil, err
	}
	if detail.ID == 0 {
		return nil, nil
	}
	return &detail, nil
}

func (r *TimeEntryRepository) AllocationUsage(ctx context.Context) ([]model.AllocationUsage, error) {
	var rows []struct {
		CompanyID      int64
		CompanyName    string
		ProjectID      int64
		ProjectName    string
		AvailableHours *decimal.Decimal
		UnlimitedHours bool
		UsedHours      decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			pc.company_id, c.company_name,
			pc.project_id, p.project_name,
			pc.available_hours,
			pc.unlimited_hours,
			COALESCE(SUM(te.hours_worked), 0) AS used_hours
		FROM project_companies pc
		JOIN companies c ON c.id = pc.company_id
		JOIN projects p ON p.id = pc.project_id
		LEFT JOIN time_entries te ON te.project_id = pc.project_id AND te.company_id = pc.company_id
		GROUP BY pc.company_id, c.company_name, pc.project_id, p.project_name, pc.available_hours, pc.unlimited_hours
		ORDER BY c.company_name, p.project_name
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	usage := make([]model.AllocationUsage, 0, len(rows))
	for _, row := range rows {
		hours := model.UnlimitedHours()
		if !row.UnlimitedHours {
			value := decimal.Zero
			if row.AvailableHours != nil {
				value = *row.AvailableHours
			}
			hours = model.BoundedHours(value)
		}
		usage = append(usage, model.AllocationUsage{
			CompanyID:   row.CompanyID,
			CompanyName: row.CompanyName,
			ProjectID:   row.ProjectID,
			ProjectName: row.ProjectName,
			Hours:       hours,
			UsedHours:   row.UsedHours,
		})
	}
	return usage, nil
}
