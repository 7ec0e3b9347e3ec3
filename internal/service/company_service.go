package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jdevries/timeflow/internal/model"
	"github.com/jdevries/timeflow/internal/ports"
)

type CompanyService struct {
	store ports.CompanyStore
	log   zerolog.Logger
}

func NewCompanyService(store ports.CompanyStore, log zerolog.Logger) *CompanyService {
	return &CompanyService{store: store, log: log}
}

type CompanyInput struct {
	CompanyName     string
	VisitAddress    *string
	ContactDetails  model.ContactDetails
	CompanySize     *string
	Branch          *string
	RelationManager *string
}

func (s *CompanyService) Create(ctx context.Context, input CompanyInput) (*model.Company, error) {
	name := strings.TrimSpace(input.CompanyName)
	if name == "" {
		return nil, validationf("company_name", "company name cannot be empty")
	}

	details := input.ContactDetails
	if details == nil {
		details = model.ContactDetails{}
	}

	return s.store.Create(ctx, model.Company{
		CompanyName:     name,
		VisitAddress:    input.VisitAddress,
		ContactDetails:  details,
		CompanySize:     input.CompanySize,
		Branch:          input.Branch,
		RelationManager: input.RelationManager,
	})
}

func (s *CompanyService) List(ctx context.Context) ([]model.Company, error) {
	return s.store.List(ctx)
}

func (s *CompanyService) Get(ctx context.Context, id int64) (*model.Company, error) {
	company, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, &NotFoundError{Entity: "company", ID: id}
	}
	return company, nil
}

func (s *CompanyService) Update(ctx context.Context, id int64, patch model.CompanyPatch) (*model.Company, error) {
	if patch.Empty() {
		return nil, validationf("", "no fields to update")
	}
	if patch.CompanyName != nil {
		trimmed := strings.TrimSpace(*patch.CompanyName)
		if trimmed == "" {
			return nil, validationf("company_name", "company name cannot be empty")
		}
		patch.CompanyName = &trimmed
	}

	var updated *model.Company
	err := s.store.Tx(ctx, func(tx ports.CompanyStore) error {
		company, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if company == nil {
			return &NotFoundError{Entity: "company", ID: id}
		}
		patch.ApplyTo(company)
		updated, err = tx.Update(ctx, *company)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a company. Dependent allocations and time entries are
// cascaded away rather than blocking the delete; only a warning is recorded.
func (s *CompanyService) Delete(ctx context.Context, id int64) error {
	projects, timeEntries, err := s.store.DependentCounts(ctx, id)
	if err != nil {
		return err
	}
	if projects > 0 || timeEntries > 0 {
		s.log.Warn().
			Int64("company_id", id).
			Int64("project_links", projects).
			Int64("time_entries", timeEntries).
			Msg("deleting company with dependents")
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return &NotFoundError{Entity: "company", ID: id}
	}
	return nil
}
