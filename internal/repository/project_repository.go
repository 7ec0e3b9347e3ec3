package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jdevries/timeflow/internal/model"
	"github.com/jdevries/timeflow/internal/ports"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Tx(ctx context.Context, fn func(ports.ProjectStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewProjectRepository(tx))
	})
}

// allocationRow is the storage shape of an allocation; available_hours is
// NULL for unlimited rows.
type allocationRow struct {
	ProjectID      int64
	CompanyID      int64
	CompanyName    string
	AvailableHours *decimal.Decimal
	UnlimitedHours bool
	CreatedAt      time.Time
}

func (row allocationRow) toModel() model.Allocation {
	hours := model.UnlimitedHours()
	if !row.UnlimitedHours {
		value := decimal.Zero
		if row.AvailableHours != nil {
			value = *row.AvailableHours
		}
		hours = model.BoundedHours(value)
	}
	return model.Allocation{
		ProjectID:   row.ProjectID,
		CompanyID:   row.CompanyID,
		CompanyName: row.CompanyName,
		Hours:       hours,
		CreatedAt:   row.CreatedAt,
	}
}

func (r *ProjectRepository) Create(ctx context.Context, project model.Project) (*model.Project, error) {
	var saved model.Project
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO projects (project_name, description)
		VALUES (?, ?)
		RETURNING id, project_name, description, created_at
	`, project.ProjectName, project.Description).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, project_name, description, created_at
		FROM projects
		ORDER BY created_at DESC
	`).Scan(&projects).Error
	if err != nil {
		return nil, err
	}
	for i := range projects {
		links, err := r.Allocations(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].Links = links
	}
	return projects, nil
}

func (r *ProjectRepository) Get(ctx context.Context, id int64) (*model.Project, error) {
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
	links, err := r.Allocations(ctx, id)
	if err != nil {
		return nil, err
	}
	project.Links = links
	return &project, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project model.Project) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE projects
		SET project_name = ?, description = ?
		WHERE id = ?
	`, project.ProjectName, project.Description, project.ID).Error
}

func (r *ProjectRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM projects WHERE id = ?`, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ProjectRepository) TimeEntryCount(ctx context.Context, projectID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM time_entries WHERE project_id = ?
	`, projectID).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProjectRepository) MissingCompanies(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var existing []int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT id FROM companies WHERE id IN ?
	`, ids).Scan(&existing).Error
	if err != nil {
		return nil, err
	}
	found := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		found[id] = struct{}{}
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// ReplaceAllocations swaps the project's full allocation set in place:
// delete-all-then-insert, never a diff.
func (r *ProjectRepository) ReplaceAllocations(ctx context.Context, projectID int64, links []model.AllocationInput) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM project_companies WHERE project_id = ?`, projectID).Error; err != nil {
			return err
		}
		for _, link := range links {
			if link.Unlimited {
				if err := tx.Exec(`
					INSERT INTO project_companies (project_id, company_id, available_hours, unlimited_hours)
					VALUES (?, ?, NULL, TRUE)
				`, projectID, link.CompanyID).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Exec(`
				INSERT INTO project_companies (project_id, company_id, available_hours, unlimited_hours)
				VALUES (?, ?, ?, FALSE)
			`, projectID, link.CompanyID, link.AvailableHours).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ProjectRepository) Allocations(ctx context.Context, projectID int64) ([]model.Allocation, error) {
	var rows []allocationRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT pc.project_id, pc.company_id, c.company_name, pc.available_hours, pc.unlimited_hours, pc.created_at
		FROM project_companies pc
		JOIN companies c ON c.id = pc.company_id
		WHERE pc.project_id = ?
		ORDER BY c.company_name
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
