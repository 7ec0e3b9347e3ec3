package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jdevries/timeflow/internal/model"
	"github.com/jdevries/timeflow/internal/ports"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Tx(ctx context.Context, fn func(ports.ServiceStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewServiceRepository(tx))
	})
}

const serviceColumns = `id, project_id, company_id, name, price_type, budget_hours, fixed_price, hourly_rate, start_date, end_date, service_color, created_at`

func (r *ServiceRepository) Create(ctx context.Context, svc model.Service) (*model.Service, error) {
	var saved model.Service
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO services (project_id, company_id, name, price_type, budget_hours, fixed_price, hourly_rate, start_date, end_date, service_color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+serviceColumns,
		svc.ProjectID,
		svc.CompanyID,
		svc.Name,
		svc.PriceType,
		svc.BudgetHours,
		svc.FixedPrice,
		svc.HourlyRate,
		svc.StartDate,
		svc.EndDate,
		svc.ServiceColor,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ServiceRepository) Get(ctx context.Context, id int64) (*model.Service, error) {
	var svc model.Service
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+serviceColumns+`
		FROM services
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&svc).Error
	if err != nil {
		return nil, err
	}
	if svc.ID == 0 {
		return nil, nil
	}
	return &svc, nil
}

func (r *ServiceRepository) Update(ctx context.Context, svc model.Service) (*model.Service, error) {
	var saved model.Service
	err := r.db.WithContext(ctx).Raw(`
		UPDATE services
		SET company_id = ?,
			name = ?,
			price_type = ?,
			budget_hours = ?,
			fixed_price = ?,
			hourly_rate = ?,
			start_date = ?,
			end_date = ?,
			service_color = ?
		WHERE id = ?
		RETURNING `+serviceColumns,
		svc.CompanyID,
		svc.Name,
		svc.PriceType,
		svc.BudgetHours,
		svc.FixedPrice,
		svc.HourlyRate,
		svc.StartDate,
		svc.EndDate,
		svc.ServiceColor,
		svc.ID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM services WHERE id = ?`, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ServiceRepository) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, project_name, description, created_at
		FROM projects
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&project).Error
	if err != nil {
		return nil, err
	}
	if project.ID == 0 {
		return nil, nil
	}
	return &project, nil
}

func (r *ServiceRepository) CompanyExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM companies WHERE id = ?
	`, id).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ServiceRepository) AllocationForUpdate(ctx context.Context, projectID, companyID int64) (*model.Allocation, error) {
	return allocationForUpdate(ctx, r.db, projectID, companyID)
}

func (r *ServiceRepository) AllocationsForUpdate(ctx context.Context, projectID int64) ([]model.Allocation, error) {
	var rows []allocationRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT project_id, company_id, available_hours, unlimited_hours, created_at
		FROM project_companies
		WHERE project_id = ?
		FOR UPDATE
	`, projectID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	allocations := make([]model.Allocation, 0, len(rows))
	for _, row := range rows {
		allocations = append(allocations, row.toModel())
	}
	return allocations, nil
}

func (r *ServiceRepository) SumBudgetHours(ctx context.Context, projectID int64, companyID *int64, excludeID int64) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(budget_hours), 0) FROM services WHERE project_id = ?`
	args := []interface{}{projectID}
	if companyID != nil {
		query += ` AND company_id = ?`
		args = append(args, *companyID)
	}
	if excludeID != 0 {
		query += ` AND id <> ?`
		args = append(args, excludeID)
	}
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *ServiceRepository) TimeEntryCount(ctx context.Context, serviceID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM time_entries WHERE service_id = ?
	`, serviceID).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ServiceRepository) Usage(ctx context.Context, projectID int64) ([]model.ServiceUsage, error) {
	var rows []struct {
		ID           int64
		ProjectID    int64
		CompanyID    *int64
		Name         string
		PriceType    model.PriceType
		BudgetHours  decimal.Decimal
		FixedPrice   *decimal.Decimal
		HourlyRate   *decimal.Decimal
		StartDate    *time.Time
		EndDate      *time.Time
		ServiceColor *string
		CreatedAt    time.Time
		SpentHours   decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			s.project_id,
			s.company_id,
			s.name,
			s.price_type,
			s.budget_hours,
			s.fixed_price,
			s.hourly_rate,
			s.start_date,
			s.end_date,
			s.service_color,
			s.created_at,
			COALESCE(SUM(te.hours_worked), 0) AS spent_hours
		FROM services s
		LEFT JOIN time_entries te ON te.service_id = s.id
		WHERE s.project_id = ?
		GROUP BY s.id
		ORDER BY s.name
	`, projectID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	usage := make([]model.ServiceUsage, 0, len(rows))
	for _, row := range rows {
		usage = append(usage, model.NewServiceUsage(model.Service{
			ID:           row.ID,
			ProjectID:    row.ProjectID,
			CompanyID:    row.CompanyID,
			Name:         row.Name,
			PriceType:    row.PriceType,
			BudgetHours:  row.BudgetHours,
			FixedPrice:   row.FixedPrice,
			HourlyRate:   row.HourlyRate,
			StartDate:    row.StartDate,
			EndDate:      row.EndDate,
			ServiceColor: row.ServiceColor,
			CreatedAt:    row.CreatedAt,
		}, row.SpentHours))
	}
	return usage, nil
}

func (r *ServiceRepository) Allocations(ctx context.Context, projectID int64) ([]model.Allocation, error) {
	return NewProjectRepository(r.db).Allocations(ctx, projectID)
}

// allocationForUpdate locks the pair's allocation row for the rest of the
// transaction; nil when the project and company are not linked.
func allocationForUpdate(ctx context.Context, db *gorm.DB, projectID, companyID int64) (*model.Allocation, error) {
	var rows []allocationRow
	err := db.WithContext(ctx).Raw(`
		SELECT project_id, company_id, available_hours, unlimited_hours, created_at
		FROM project_companies
		WHERE project_id = ? AND company_id = ?
		FOR UPDATE
	`, projectID, companyID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	alloc := rows[0].toModel()
	return &alloc, nil
}
