package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jdevries/timeflow/internal/model"
	"github.com/jdevries/timeflow/internal/ports"
)

// ProjectService manages projects and the allocation ledger: the per-company
// hour budgets owned by each project.
type ProjectService struct {
	store ports.ProjectStore
	log   zerolog.Logger
}

func NewProjectService(store ports.ProjectStore, log zerolog.Logger) *ProjectService {
	return &ProjectService{store: store, log: log}
}

type ProjectInput struct {
	ProjectName string
	Description *string
	Links       []model.AllocationInput
}

// ProjectUpdate is a project patch plus an optional full replacement of its
// company links. A nil Links leaves the allocations untouched.
type ProjectUpdate struct {
	Patch model.ProjectPatch
	Links []model.AllocationInput
}

func (s *ProjectService) Create(ctx context.Context, input ProjectInput) (*model.Project, error) {
	name := strings.TrimSpace(input.ProjectName)
	if name == "" {
		return nil, validationf("project_name", "project name cannot be empty")
	}
	if err := validateLinks(input.Links); err != nil {
		return nil, err
	}

	var created *model.Project
	err := s.store.Tx(ctx, func(tx ports.ProjectStore) error {
		if err := s.checkCompaniesExist(ctx, tx, input.Links); err != nil {
			return err
		}
		project, err := tx.Create(ctx, model.Project{
			ProjectName: name,
			Description: input.Description,
		})
		if err != nil {
			return err
		}
		if len(input.Links) > 0 {
			if err := tx.ReplaceAllocations(ctx, project.ID, input.Links); err != nil {
				return err
			}
		}
		created, err = tx.Get(ctx, project.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	return s.store.List(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id int64) (*model.Project, error) {
	project, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, &NotFoundError{Entity: "project", ID: id}
	}
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, id int64, update ProjectUpdate) (*model.Project, error) {
	if update.Patch.ProjectName != nil {
		trimmed := strings.TrimSpace(*update.Patch.ProjectName)
		if trimmed == "" {
			return nil, validationf("project_name", "project name cannot be empty")
		}
		update.Patch.ProjectName = &trimmed
	}
	if update.Links != nil {
		if err := validateLinks(update.Links); err != nil {
			return nil, err
		}
	}

	var updated *model.Project
	err := s.store.Tx(ctx, func(tx ports.ProjectStore) error {
		project, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if project == nil {
			return &NotFoundError{Entity: "project", ID: id}
		}
		if update.Links != nil {
			if err := s.checkCompaniesExist(ctx, tx, update.Links); err != nil {
				return err
			}
		}
		if !update.Patch.Empty() {
			update.Patch.ApplyTo(project)
			if err := tx.Update(ctx, *project); err != nil {
				return err
			}
		}
		if update.Links != nil {
			if err := tx.ReplaceAllocations(ctx, id, update.Links); err != nil {
				return err
			}
		}
		updated, err = tx.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a project; allocations, services and time entries cascade.
// Time entries only produce a warning, never a block.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	return s.store.Tx(ctx, func(tx ports.ProjectStore) error {
		project, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if project == nil {
			return &NotFoundError{Entity: "project", ID: id}
		}
		entries, err := tx.TimeEntryCount(ctx, id)
		if err != nil {
			return err
		}
		if entries > 0 {
			s.log.Warn().
				Int64("project_id", id).
				Int64("time_entries", entries).
				Msg("deleting project with time entries")
		}
		deleted, err := tx.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return &NotFoundError{Entity: "project", ID: id}
		}
		return nil
	})
}

// AvailableHours reads the allocation ledger. With a company it returns that
// pair's budget, zero when no link exists; without one it folds all of the
// project's allocations per the unlimited-absorbs rule.
func (s *ProjectService) AvailableHours(ctx context.Context, projectID int64, companyID *int64) (model.AvailableHours, error) {
	allocations, err := s.store.Allocations(ctx, projectID)
	if err != nil {
		return model.AvailableHours{}, err
	}
	if companyID == nil {
		return model.ProjectAvailableHours(allocations), nil
	}
	for _, alloc := range allocations {
		if alloc.CompanyID == *companyID {
			return alloc.Hours, nil
		}
	}
	return model.BoundedHours(decimal.Zero), nil
}

func validateLinks(links []model.AllocationInput) error {
	seen := make(map[int64]struct{}, len(links))
	for _, link := range links {
		if _, dup := seen[link.CompanyID]; dup {
			return validationf("company_links", "duplicate companies are not allowed")
		}
		seen[link.CompanyID] = struct{}{}
		if !link.Unlimited && link.AvailableHours.IsNegative() {
			return validationf("company_links", "available_hours must be >= 0")
		}
	}
	return nil
}

func (s *ProjectService) checkCompaniesExist(ctx context.Context, tx ports.ProjectStore, links []model.AllocationInput) error {
	if len(links) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.CompanyID)
	}
	missing, err := tx.MissingCompanies(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	parts := make([]string, 0, len(missing))
	for _, id := range missing {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return validationf("company_links", "companies not found: %s", strings.Join(parts, ", "))
}
