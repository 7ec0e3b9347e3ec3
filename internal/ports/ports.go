// Package ports declares the storage interfaces the service layer depends on.
// The gorm repositories implement them; tests substitute in-memory fakes.
package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jdevries/timeflow/internal/model"
)

// CompanyStore persists companies. Tx runs fn against a store bound to one
// database transaction; returning an error rolls everything back.
type CompanyStore interface {
	Tx(ctx context.Context, fn func(CompanyStore) error) error
	Create(ctx context.Context, company model.Company) (*model.Company, error)
	List(ctx context.Context) ([]model.Company, error)
	Get(ctx context.Context, id int64) (*model.Company, error)
	Update(ctx context.Context, company model.Company) (*model.Company, error)
	Delete(ctx context.Context, id int64) (bool, error)
	// DependentCounts reports how many project links and time entries still
	// reference the company.
	DependentCounts(ctx context.Context, id int64) (projects, timeEntries int64, err error)
}

// ProjectStore persists projects and owns their allocations.
type ProjectStore interface {
	Tx(ctx context.Context, fn func(ProjectStore) error) error
	Create(ctx context.Context, project model.Project) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
	Get(ctx context.Context, id int64) (*model.Project, error)
	Update(ctx context.Context, project model.Project) error
	Delete(ctx context.Context, id int64) (bool, error)
	TimeEntryCount(ctx context.Context, projectID int64) (int64, error)
	// MissingCompanies returns the subset of ids without a companies row.
	MissingCompanies(ctx context.Context, ids []int64) ([]int64, error)
	// ReplaceAllocations drops all allocations of the project and inserts the
	// given set.
	ReplaceAllocations(ctx context.Context, projectID int64, links []model.AllocationInput) error
	Allocations(ctx context.Context, projectID int64) ([]model.Allocation, error)
}

// ServiceStore persists services and exposes the allocation reads the budget
// validation needs.
type ServiceStore interface {
	Tx(ctx context.Context, fn func(ServiceStore) error) error
	Create(ctx context.Context, svc model.Service) (*model.Service, error)
	Get(ctx context.Context, id int64) (*model.Service, error)
	Update(ctx context.Context, svc model.Service) (*model.Service, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetProject(ctx context.Context, id int64) (*model.Project, error)
	CompanyExists(ctx context.Context, id int64) (bool, error)
	// AllocationForUpdate locks and returns the allocation row of the pair,
	// or nil when the project and company are not linked.
	AllocationForUpdate(ctx context.Context, projectID, companyID int64) (*model.Allocation, error)
	// AllocationsForUpdate locks and returns all allocations of the project.
	AllocationsForUpdate(ctx context.Context, projectID int64) ([]model.Allocation, error)
	// SumBudgetHours sums budget_hours over the project's services, narrowed
	// to one company when companyID is set, skipping excludeID when nonzero.
	SumBudgetHours(ctx context.Context, projectID int64, companyID *int64, excludeID int64) (decimal.Decimal, error)
	TimeEntryCount(ctx context.Context, serviceID int64) (int64, error)
	// Usage returns the project's services with their summed spent hours.
	Usage(ctx context.Context, projectID int64) ([]model.ServiceUsage, error)
	Allocations(ctx context.Context, projectID int64) ([]model.Allocation, error)
}

// TimeEntryStore persists time entries and the lazily created employees that
// own them.
type TimeEntryStore interface {
	Tx(ctx context.Context, fn func(TimeEntryStore) error) error
	GetOrCreateEmployee(ctx context.Context, name, email, subject string) (*model.Employee, error)
	GetEmployee(ctx context.Context, id int64) (*model.Employee, error)
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	AllocationForUpdate(ctx context.Context, projectID, companyID int64) (*model.Allocation, error)
	// SumHours sums hours_worked over the pair's entries, skipping excludeID
	// when nonzero.
	SumHours(ctx context.Context, projectID, companyID, excludeID int64) (decimal.Decimal, error)
	// TimedEntries returns the employee's fully time-windowed entries on a
	// date, skipping excludeID when nonzero.
	TimedEntries(ctx context.Context, employeeID int64, date time.Time, excludeID int64) ([]model.TimeEntry, error)
	Insert(ctx context.Context, entry model.TimeEntry) (*model.TimeEntry, error)
	Update(ctx context.Context, entry model.TimeEntry) (*model.TimeEntry, error)
	GetOwned(ctx context.Context, id, employeeID int64) (*model.TimeEntry, error)
	DeleteOwned(ctx context.Context, id, employeeID int64) (bool, error)
	List(ctx context.Context, filter model.TimeEntryFilter) ([]model.TimeEntryDetail, error)
	Detail(ctx context.Context, id int64) (*model.TimeEntryDetail, error)
	AllocationUsage(ctx context.Context) ([]model.AllocationUsage, error)
}
