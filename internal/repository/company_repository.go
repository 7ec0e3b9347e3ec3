package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jdevries/timeflow/internal/model"
	"github.com/jdevries/timeflow/internal/ports"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Tx(ctx context.Context, fn func(ports.CompanyStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewCompanyRepository(tx))
	})
}

func (r *CompanyRepository) Create(ctx context.Context, company model.Company) (*model.Company, error) {
	var saved model.Company
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO companies (company_name, visit_address, contact_details, company_size, branch, relation_manager)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, company_name, visit_address, contact_details, company_size, branch, relation_manager, created_at
	`,
		company.CompanyName,
		company.VisitAddress,
		company.ContactDetails,
		company.CompanySize,
		company.Branch,
		company.RelationManager,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *CompanyRepository) List(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, company_name, visit_address, contact_details, company_size, branch, relation_manager, created_at
		FROM companies
		ORDER BY created_at DESC
	`).Scan(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *CompanyRepository) Get(ctx context.Context, id int64) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, company_name, visit_address, contact_details, company_size, branch, relation_manager, created_at
		FROM companies
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&company).Error
	if err != nil {
		return nil, err
	}
	if company.ID == 0 {
		return nil, nil
	}
	return &company, nil
}

func (r *CompanyRepository) Update(ctx context.Context, company model.Company) (*model.Company, error) {
	var saved model.Company
	err := r.db.WithContext(ctx).Raw(`
		UPDATE companies
		SET company_name = ?,
			visit_address = ?,
			contact_details = ?,
			company_size = ?,
			branch = ?,
			relation_manager = ?
		WHERE id = ?
		RETURNING id, company_name, visit_address, contact_details, company_size, branch, relation_manager, created_at
	`,
		company.CompanyName,
		company.VisitAddress,
		company.ContactDetails,
		company.CompanySize,
		company.Branch,
		company.RelationManager,
		company.ID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM companies WHERE id = ?`, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *CompanyRepository) DependentCounts(ctx context.Context, id int64) (int64, int64, error) {
	var row struct {
		ProjectCount   int64
		TimeEntryCount int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM project_companies WHERE company_id = ?) AS project_count,
			(SELECT COUNT(*) FROM time_entries WHERE company_id = ?) AS time_entry_count
	`, id, id).Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.ProjectCount, row.TimeEntryCount, nil
}
