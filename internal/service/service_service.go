package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jdevries/timeflow/internal/model"
	"github.com/jdevries/timeflow/internal/ports"
)

// ServiceService manages the budgeted work items of a project and enforces
// that their budget hours stay within the allocation ledger.
type ServiceService struct {
	store ports.ServiceStore
	log   zerolog.Logger
}

func NewServiceService(store ports.ServiceStore, log zerolog.Logger) *ServiceService {
	return &ServiceService{store: store, log: log}
}

type ServiceInput struct {
	ProjectID    int64
	CompanyID    *int64
	Name         string
	PriceType    model.PriceType
	BudgetHours  decimal.Decimal
	FixedPrice   *decimal.Decimal
	HourlyRate   *decimal.Decimal
	StartDate    *string
	EndDate      *string
	ServiceColor *string
}

func (s *ServiceService) Create(ctx context.Context, input ServiceInput) (*model.Service, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationf("name", "service name cannot be empty")
	}
	if !input.PriceType.Valid() {
		return nil, validationf("price_type", "price type must be FIXED or HOURLY")
	}
	if input.PriceType == model.PriceTypeFixed && input.FixedPrice == nil {
		return nil, validationf("fixed_price", "fixed price is required for FIXED price type")
	}
	if input.PriceType == model.PriceTypeHourly && input.HourlyRate == nil {
		return nil, validationf("hourly_rate", "hourly rate is required for HOURLY price type")
	}
	if input.BudgetHours.IsNegative() {
		return nil, validationf("budget_hours", "budget_hours must be >= 0")
	}
	startDate, err := parseOptionalDate("start_date", input.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseOptionalDate("end_date", input.EndDate)
	if err != nil {
		return nil, err
	}

	var created *model.Service
	err = s.store.Tx(ctx, func(tx ports.ServiceStore) error {
		project, err := tx.GetProject(ctx, input.ProjectID)
		if err != nil {
			return err
		}
		if project == nil {
			return &NotFoundError{Entity: "project", ID: input.ProjectID}
		}
		if input.CompanyID != nil {
			exists, err := tx.CompanyExists(ctx, *input.CompanyID)
			if err != nil {
				return err
			}
			if !exists {
				return &NotFoundError{Entity: "company", ID: *input.CompanyID}
			}
		}

		if err := s.checkBudget(ctx, tx, input.ProjectID, input.CompanyID, input.BudgetHours, 0); err != nil {
			return err
		}

		created, err = tx.Create(ctx, model.Service{
			ProjectID:    input.ProjectID,
			CompanyID:    input.CompanyID,
			Name:         name,
			PriceType:    input.PriceType,
			BudgetHours:  input.BudgetHours,
			FixedPrice:   input.FixedPrice,
			HourlyRate:   input.HourlyRate,
			StartDate:    startDate,
			EndDate:      endDate,
			ServiceColor: input.ServiceColor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *ServiceService) Get(ctx context.Context, id int64) (*model.Service, error) {
	svc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, &NotFoundError{Entity: "service", ID: id}
	}
	return svc, nil
}

// Update applies a patch. The budget check is only rerun when company_id or
// budget_hours are part of the patch; it then uses the patched company and
// budget against the project's current allocations.
func (s *ServiceService) Update(ctx context.Context, id int64, patch model.ServicePatch) (*model.Service, error) {
	if patch.Empty() {
		return nil, validationf("", "no fields to update")
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, validationf("name", "service name cannot be empty")
		}
		patch.Name = &trimmed
	}
	if patch.PriceType != nil && !patch.PriceType.Valid() {
		return nil, validationf("price_type", "price type must be FIXED or HOURLY")
	}
	if patch.BudgetHours != nil && patch.BudgetHours.IsNegative() {
		return nil, validationf("budget_hours", "budget_hours must be >= 0")
	}

	var updated *model.Service
	err := s.store.Tx(ctx, func(tx ports.ServiceStore) error {
		svc, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if svc == nil {
			return &NotFoundError{Entity: "service", ID: id}
		}
		if patch.CompanyID != nil {
			exists, err := tx.CompanyExists(ctx, *patch.CompanyID)
			if err != nil {
				return err
			}
			if !exists {
				return &NotFoundError{Entity: "company", ID: *patch.CompanyID}
			}
		}

		if patch.TouchesBudget() {
			companyID := svc.CompanyID
			if patch.CompanyID != nil {
				companyID = patch.CompanyID
			}
			budget := svc.BudgetHours
			if patch.BudgetHours != nil {
				budget = *patch.BudgetHours
			}
			if err := s.checkBudget(ctx, tx, svc.ProjectID, companyID, budget, svc.ID); err != nil {
				return err
			}
		}

		patch.ApplyTo(svc)
		updated, err = tx.Update(ctx, *svc)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete refuses to remove a service that still has time entries; they must
// be reassigned or removed first.
func (s *ServiceService) Delete(ctx context.Context, id int64) error {
	return s.store.Tx(ctx, func(tx ports.ServiceStore) error {
		svc, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if svc == nil {
			return &NotFoundError{Entity: "service", ID: id}
		}
		entries, err := tx.TimeEntryCount(ctx, id)
		if err != nil {
			return err
		}
		if entries > 0 {
			return &ConflictError{Reason: "cannot delete service that has time entries; remove or reassign them first"}
		}
		deleted, err := tx.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return &NotFoundError{Entity: "service", ID: id}
		}
		return nil
	})
}

// ProjectSummary rolls up spent hours and costs per service and for the whole
// project, plus the allocation headroom left for new service budgets.
func (s *ServiceService) ProjectSummary(ctx context.Context, projectID int64) (*model.ProjectServicesSummary, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, &NotFoundError{Entity: "project", ID: projectID}
	}

	usage, err := s.store.Usage(ctx, projectID)
	if err != nil {
		return nil, err
	}
	allocations, err := s.store.Allocations(ctx, projectID)
	if err != nil {
		return nil, err
	}
	summary := model.BuildProjectServicesSummary(usage, allocations)
	return &summary, nil
}

// checkBudget validates requested budget hours against the allocation ledger:
// the pair's budget when a company is set, otherwise the project-wide fold.
// The check is cumulative over the other services drawing on the same
// allocation; excludeID keeps an updated service's own budget out of the sum.
// Rows are locked so concurrent budget writers serialize on the allocation.
func (s *ServiceService) checkBudget(ctx context.Context, tx ports.ServiceStore, projectID int64, companyID *int64, budget decimal.Decimal, excludeID int64) error {
	var available model.AvailableHours
	if companyID != nil {
		alloc, err := tx.AllocationForUpdate(ctx, projectID, *companyID)
		if err != nil {
			return err
		}
		available = model.BoundedHours(decimal.Zero)
		if alloc != nil {
			available = alloc.Hours
		}
	} else {
		allocations, err := tx.AllocationsForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		available = model.ProjectAvailableHours(allocations)
	}
	if available.Unlimited() {
		return nil
	}

	budgeted, err := tx.SumBudgetHours(ctx, projectID, companyID, excludeID)
	if err != nil {
		return err
	}
	if !available.Covers(budgeted.Add(budget)) {
		remaining := available.Remaining(budgeted)
		return validationf("budget_hours",
			"budget_hours (%s) cannot exceed available hours (%s) from project allocations",
			budget.String(), remaining.String())
	}
	return nil
}
