package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jdevries/timeflow/internal/model"
	"github.com/jdevries/timeflow/internal/ports"
)

// memStore is a single in-memory database shared by the fake stores. The
// fakes run Tx callbacks against themselves; rollback fidelity is not needed
// for these tests because failing paths assert on the returned error, not on
// partially written state.
type memStore struct {
	nextID    int64
	companies map[int64]model.Company
	projects  map[int64]model.Project
	links     map[int64][]model.Allocation
	services  map[int64]model.Service
	employees map[int64]model.Employee
	entries   map[int64]model.TimeEntry
}

func newMemStore() *memStore {
	return &memStore{
		nextID:    1,
		companies: make(map[int64]model.Company),
		projects:  make(map[int64]model.Project),
		links:     make(map[int64][]model.Allocation),
		services:  make(map[int64]model.Service),
		employees: make(map[int64]model.Employee),
		entries:   make(map[int64]model.TimeEntry),
	}
}

func (m *memStore) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *memStore) addCompany(name string) model.Company {
	company := model.Company{ID: m.id(), CompanyName: name, CreatedAt: time.Now()}
	m.companies[company.ID] = company
	return company
}

func (m *memStore) addProject(name string) model.Project {
	project := model.Project{ID: m.id(), ProjectName: name, CreatedAt: time.Now()}
	m.projects[project.ID] = project
	return project
}

func (m *memStore) addLink(projectID, companyID int64, hours model.AvailableHours) {
	name := m.companies[companyID].CompanyName
	m.links[projectID] = append(m.links[projectID], model.Allocation{
		ProjectID:   projectID,
		CompanyID:   companyID,
		CompanyName: name,
		Hours:       hours,
	})
}

func (m *memStore) addService(projectID int64, companyID *int64, budget decimal.Decimal) model.Service {
	rate := decimal.NewFromInt(80)
	svc := model.Service{
		ID:          m.id(),
		ProjectID:   projectID,
		CompanyID:   companyID,
		Name:        "service",
		PriceType:   model.PriceTypeHourly,
		BudgetHours: budget,
		HourlyRate:  &rate,
		CreatedAt:   time.Now(),
	}
	m.services[svc.ID] = svc
	return svc
}

func (m *memStore) addEmployee(name, email string) model.Employee {
	employee := model.Employee{ID: m.id(), Name: name, Email: email, CreatedAt: time.Now()}
	m.employees[employee.ID] = employee
	return employee
}

func (m *memStore) addEntry(entry model.TimeEntry) model.TimeEntry {
	entry.ID = m.id()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.entries[entry.ID] = entry
	return entry
}

func (m *memStore) allocation(projectID, companyID int64) *model.Allocation {
	for _, alloc := range m.links[projectID] {
		if alloc.CompanyID == companyID {
			copied := alloc
			return &copied
		}
	}
	return nil
}

// fakeCompanyStore implements ports.CompanyStore.
type fakeCompanyStore struct {
	mem *memStore
}

func (f *fakeCompanyStore) Tx(ctx context.Context, fn func(ports.CompanyStore) error) error {
	return fn(f)
}

func (f *fakeCompanyStore) Create(_ context.Context, company model.Company) (*model.Company, error) {
	company.ID = f.mem.id()
	company.CreatedAt = time.Now()
	f.mem.companies[company.ID] = company
	return &company, nil
}

func (f *fakeCompanyStore) List(context.Context) ([]model.Company, error) {
	companies := make([]model.Company, 0, len(f.mem.companies))
	for _, company := range f.mem.companies {
		companies = append(companies, company)
	}
	sort.Slice(companies, func(i, j int) bool { return companies[i].ID < companies[j].ID })
	return companies, nil
}

func (f *fakeCompanyStore) Get(_ context.Context, id int64) (*model.Company, error) {
	company, ok := f.mem.companies[id]
	if !ok {
		return nil, nil
	}
	return &company, nil
}

func (f *fakeCompanyStore) Update(_ context.Context, company model.Company) (*model.Company, error) {
	f.mem.companies[company.ID] = company
	return &company, nil
}

func (f *fakeCompanyStore) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.mem.companies[id]; !ok {
		return false, nil
	}
	delete(f.mem.companies, id)
	return true, nil
}

func (f *fakeCompanyStore) DependentCounts(_ context.Context, id int64) (int64, int64, error) {
	var projects, entries int64
	for _, links := range f.mem.links {
		for _, link := range links {
			if link.CompanyID == id {
				projects++
			}
		}
	}
	for _, entry := range f.mem.entries {
		if entry.CompanyID == id {
			entries++
		}
	}
	return projects, entries, nil
}

// fakeProjectStore implements ports.ProjectStore.
type fakeProjectStore struct {
	mem *memStore
}

func (f *fakeProjectStore) Tx(ctx context.Context, fn func(ports.ProjectStore) error) error {
	return fn(f)
}

func (f *fakeProjectStore) Create(_ context.Context, project model.Project) (*model.Project, error) {
	project.ID = f.mem.id()
	project.CreatedAt = time.Now()
	f.mem.projects[project.ID] = project
	return &project, nil
}

func (f *fakeProjectStore) List(context.Context) ([]model.Project, error) {
	projects := make([]model.Project, 0, len(f.mem.projects))
	for id := range f.mem.projects {
		project, _ := f.Get(context.Background(), id)
		projects = append(projects, *project)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (f *fakeProjectStore) Get(_ context.Context, id int64) (*model.Project, error) {
	project, ok := f.mem.projects[id]
	if !ok {
		return nil, nil
	}
	project.Links = append([]model.Allocation(nil), f.mem.links[id]...)
	return &project, nil
}

func (f *fakeProjectStore) Update(_ context.Context, project model.Project) error {
	project.Links = nil
	f.mem.projects[project.ID] = project
	return nil
}

func (f *fakeProjectStore) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.mem.projects[id]; !ok {
		return false, nil
	}
	delete(f.mem.projects, id)
	delete(f.mem.links, id)
	return true, nil
}

func (f *fakeProjectStore) TimeEntryCount(_ context.Context, projectID int64) (int64, error) {
	var count int64
	for _, entry := range f.mem.entries {
		if entry.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

func (f *fakeProjectStore) MissingCompanies(_ context.Context, ids []int64) ([]int64, error) {
	var missing []int64
	for _, id := range ids {
		if _, ok := f.mem.companies[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (f *fakeProjectStore) ReplaceAllocations(_ context.Context, projectID int64, links []model.AllocationInput) error {
	f.mem.links[projectID] = nil
	for _, link := range links {
		f.mem.addLink(projectID, link.CompanyID, link.Hours())
	}
	return nil
}

func (f *fakeProjectStore) Allocations(_ context.Context, projectID int64) ([]model.Allocation, error) {
	return append([]model.Allocation(nil), f.mem.links[projectID]...), nil
}

// fakeServiceStore implements ports.ServiceStore.
type fakeServiceStore struct {
	mem *memStore
}

func (f *fakeServiceStore) Tx(ctx context.Context, fn func(ports.ServiceStore) error) error {
	return fn(f)
}

func (f *fakeServiceStore) Create(_ context.Context, svc model.Service) (*model.Service, error) {
	svc.ID = f.mem.id()
	svc.CreatedAt = time.Now()
	f.mem.services[svc.ID] = svc
	return &svc, nil
}

func (f *fakeServiceStore) Get(_ context.Context, id int64) (*model.Service, error) {
	svc, ok := f.mem.services[id]
	if !ok {
		return nil, nil
	}
	return &svc, nil
}

func (f *fakeServiceStore) Update(_ context.Context, svc model.Service) (*model.Service, error) {
	f.mem.services[svc.ID] = svc
	return &svc, nil
}

func (f *fakeServiceStore) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.mem.services[id]; !ok {
		return false, nil
	}
	delete(f.mem.services, id)
	return true, nil
}

func (f *fakeServiceStore) GetProject(_ context.Context, id int64) (*model.Project, error) {
	project, ok := f.mem.projects[id]
	if !ok {
		return nil, nil
	}
	project.Links = append([]model.Allocation(nil), f.mem.links[id]...)
	return &project, nil
}

func (f *fakeServiceStore) CompanyExists(_ context.Context, id int64) (bool, error) {
	_, ok := f.mem.companies[id]
	return ok, nil
}

func (f *fakeServiceStore) AllocationForUpdate(_ context.Context, projectID, companyID int64) (*model.Allocation, error) {
	return f.mem.allocation(projectID, companyID), nil
}

func (f *fakeServiceStore) AllocationsForUpdate(_ context.Context, projectID int64) ([]model.Allocation, error) {
	return append([]model.Allocation(nil), f.mem.links[projectID]...), nil
}

func (f *fakeServiceStore) SumBudgetHours(_ context.Context, projectID int64, companyID *int64, excludeID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, svc := range f.mem.services {
		if svc.ProjectID != projectID {
			continue
		}
		if companyID != nil && (svc.CompanyID == nil || *svc.CompanyID != *companyID) {
			continue
		}
		if excludeID != 0 && svc.ID == excludeID {
			continue
		}
		total = total.Add(svc.BudgetHours)
	}
	return total, nil
}

func (f *fakeServiceStore) TimeEntryCount(_ context.Context, serviceID int64) (int64, error) {
	var count int64
	for _, entry := range f.mem.entries {
		if entry.ServiceID != nil && *entry.ServiceID == serviceID {
			count++
		}
	}
	return count, nil
}

func (f *fakeServiceStore) Usage(_ context.Context, projectID int64) ([]model.ServiceUsage, error) {
	var usage []model.ServiceUsage
	for _, svc := range f.mem.services {
		if svc.ProjectID != projectID {
			continue
		}
		spent := decimal.Zero
		for _, entry := range f.mem.entries {
			if entry.ServiceID != nil && *entry.ServiceID == svc.ID {
				spent = spent.Add(entry.HoursWorked)
			}
		}
		usage = append(usage, model.NewServiceUsage(svc, spent))
	}
	sort.Slice(usage, func(i, j int) bool { return usage[i].ID < usage[j].ID })
	return usage, nil
}

func (f *fakeServiceStore) Allocations(_ context.Context, projectID int64) ([]model.Allocation, error) {
	return append([]model.Allocation(nil), f.mem.links[projectID]...), nil
}

// fakeTimeEntryStore implements ports.TimeEntryStore.
type fakeTimeEntryStore struct {
	mem *memStore
}

func (f *fakeTimeEntryStore) Tx(ctx context.Context, fn func(ports.TimeEntryStore) error) error {
	return fn(f)
}

func (f *fakeTimeEntryStore) GetOrCreateEmployee(_ context.Context, name, email, subject string) (*model.Employee, error) {
	for _, employee := range f.mem.employees {
		if employee.Email == email || employee.Email == subject {
			return &employee, nil
		}
	}
	employee := f.mem.addEmployee(name, email)
	return &employee, nil
}

func (f *fakeTimeEntryStore) GetEmployee(_ context.Context, id int64) (*model.Employee, error) {
	employee, ok := f.mem.employees[id]
	if !ok {
		return nil, nil
	}
	return &employee, nil
}

func (f *fakeTimeEntryStore) ListEmployees(context.Context) ([]model.Employee, error) {
	employees := make([]model.Employee, 0, len(f.mem.employees))
	for _, employee := range f.mem.employees {
		employees = append(employees, employee)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].Name < employees[j].Name })
	return employees, nil
}

func (f *fakeTimeEntryStore) AllocationForUpdate(_ context.Context, projectID, companyID int64) (*model.Allocation, error) {
	return f.mem.allocation(projectID, companyID), nil
}

func (f *fakeTimeEntryStore) SumHours(_ context.Context, projectID, companyID, excludeID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, entry := range f.mem.entries {
		if entry.ProjectID != projectID || entry.CompanyID != companyID {
			continue
		}
		if excludeID != 0 && entry.ID == excludeID {
			continue
		}
		total = total.Add(entry.HoursWorked)
	}
	return total, nil
}

func (f *fakeTimeEntryStore) TimedEntries(_ context.Context, employeeID int64, date time.Time, excludeID int64) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	for _, entry := range f.mem.entries {
		if entry.EmployeeID != employeeID || !entry.Date.Equal(date) || !entry.Timed() {
			continue
		}
		if excludeID != 0 && entry.ID == excludeID {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (f *fakeTimeEntryStore) Insert(_ context.Context, entry model.TimeEntry) (*model.TimeEntry, error) {
	saved := f.mem.addEntry(entry)
	return &saved, nil
}

func (f *fakeTimeEntryStore) Update(_ context.Context, entry model.TimeEntry) (*model.TimeEntry, error) {
	f.mem.entries[entry.ID] = entry
	return &entry, nil
}

func (f *fakeTimeEntryStore) GetOwned(_ context.Context, id, employeeID int64) (*model.TimeEntry, error) {
	entry, ok := f.mem.entries[id]
	if !ok || entry.EmployeeID != employeeID {
		return nil, nil
	}
	return &entry, nil
}

func (f *fakeTimeEntryStore) DeleteOwned(_ context.Context, id, employeeID int64) (bool, error) {
	entry, ok := f.mem.entries[id]
	if !ok || entry.EmployeeID != employeeID {
		return false, nil
	}
	delete(f.mem.entries, id)
	return true, nil
}

func (f *fakeTimeEntryStore) List(_ context.Context, filter model.TimeEntryFilter) ([]model.TimeEntryDetail, error) {
	var details []model.TimeEntryDetail
	for _, entry := range f.mem.entries {
		if entry.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.StartDate != nil && entry.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && entry.Date.After(*filter.EndDate) {
			continue
		}
		details = append(details, f.detail(entry))
	}
	sort.Slice(details, func(i, j int) bool { return details[i].ID < details[j].ID })
	return details, nil
}

func (f *fakeTimeEntryStore) Detail(_ context.Context, id int64) (*model.TimeEntryDetail, error) {
	entry, ok := f.mem.entries[id]
	if !ok {
		return nil, nil
	}
	detail := f.detail(entry)
	return &detail, nil
}

func (f *fakeTimeEntryStore) detail(entry model.TimeEntry) model.TimeEntryDetail {
	detail := model.TimeEntryDetail{
		TimeEntry:   entry,
		CompanyName: f.mem.companies[entry.CompanyID].CompanyName,
		ProjectName: f.mem.projects[entry.ProjectID].ProjectName,
	}
	if entry.ServiceID != nil {
		if svc, ok := f.mem.services[*entry.ServiceID]; ok {
			detail.ServiceName = &svc.Name
			detail.ServiceColor = svc.ServiceColor
		}
	}
	return detail
}

func (f *fakeTimeEntryStore) AllocationUsage(_ context.Context) ([]model.AllocationUsage, error) {
	var usage []model.AllocationUsage
	for projectID, links := range f.mem.links {
		for _, link := range links {
			used, _ := f.SumHours(context.Background(), projectID, link.CompanyID, 0)
			usage = append(usage, model.AllocationUsage{
				CompanyID:   link.CompanyID,
				CompanyName: link.CompanyName,
				ProjectID:   projectID,
				ProjectName: f.mem.projects[projectID].ProjectName,
				Hours:       link.Hours,
				UsedHours:   used,
			})
		}
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].CompanyName != usage[j].CompanyName {
			return usage[i].CompanyName < usage[j].CompanyName
		}
		return usage[i].ProjectName < usage[j].ProjectName
	})
	return usage, nil
}
