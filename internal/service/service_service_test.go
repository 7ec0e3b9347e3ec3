package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jdevries/timeflow/internal/model"
)

func newServiceService(mem *memStore) *ServiceService {
	return NewServiceService(&fakeServiceStore{mem: mem}, zerolog.Nop())
}

func decptr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func TestServiceCreateWithinBudget(t *testing.T) {
	mem := newMemStore()
	acme := mem.addCompany("Acme")
	project := mem.addProject("Audit")
	mem.addLink(project.ID, acme.ID, model.BoundedHours(dec("100")))
	svc := newServiceService(mem)

	created, err := svc.Create(context.Background(), ServiceInput{
		ProjectID:   project.ID,
		CompanyID:   &acme.ID,
		Name:        "Design",
		PriceType:   model.PriceTypeHourly,
		BudgetHours: dec("100"),
		HourlyRate:  decptr("90"),
	})
	require.NoError(t, err)
	require.True(t, created.BudgetHours.Equal(dec("100")))
}

func TestServiceCreateOverBudget(t *testing.T) {
	mem := newMemStore()
	acme := mem.addCompany("Acme")
	project := mem.addProject("Audit")
	mem.addLink(project.ID, acme.ID, model.BoundedHours(dec("100")))
	svc := newServiceService(mem)

	_, err := svc.Create(context.Background(), ServiceInput{
		ProjectID:   project.ID,
		CompanyID:   &acme.ID,
		Name:        "Design",
		PriceType:   model.PriceTypeHourly,
		BudgetHours: dec("150"),
		HourlyRate:  decptr("90"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Contains(t, err.Error(), "budget_hours (150) cannot exceed available hours (100)")
}

func TestServiceCreateCumulativeBudget(t *testing.T) {
	mem := newMemStore()
	acme := mem.addCompany("Acme")
	project := mem.addProject("Audit")
	mem.addLink(project.ID, acme.ID, model.BoundedHours(dec("10")))
	svc := newServiceService(mem)

	first, err := svc.Create(context.Background(), ServiceInput{
		ProjectID:   project.ID,
		CompanyID:   &acme.ID,
		Name:        "Design",
		PriceType:   model.PriceTypeHourly,
		BudgetHours: dec("10"),
		HourlyRate:  decptr("90"),
	})
	require.NoError(t, err)

	// The allocation is fully budgeted; even one more hour is rejected.
	_, err = svc.Create(context.Background(), ServiceInput{
		ProjectID:   project.ID,
		CompanyID:   &acme.ID,
		Name:        "Review",
		PriceType:   model.PriceTypeHourly,
		BudgetHours: dec("1"),
		HourlyRate:  decptr("90"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Contains(t, err.Error(), "budget_hours (1) cannot exceed available hours (0)")

	// Shrinking the first service frees headroom for the second.
	_, err = svc.Update(context.Background(), first.ID, model.ServicePatch{BudgetHours: decptr("9")})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), ServiceInput{
		ProjectID:   project.ID,
		CompanyID:   &acme.ID,
		Name:        "Review",
		PriceType:   model.PriceTypeHourly,
		BudgetHours: dec("1"),
		HourlyRate:  decptr("90"),
	})
	require.NoError(t, err)
}

func TestServiceCreateUnlimitedAllocation(t *testing.T) {
	mem := newMemStore()
	acme := mem.addCompany("Acme")
	project := mem.addProject("Audit")
	mem.addLink(project.ID, acme.ID, model.UnlimitedHours())
	svc := newServiceService(mem)

	_, err := svc.Create(context.Background(), ServiceInput{
		ProjectID:   project.ID,
		CompanyID:   &acme.ID,
		Name:        "Design",
		PriceType:   model.PriceTypeHourly,
		BudgetHours: dec("100000"),
		HourlyRate:  decptr("90"),
	})
	require.NoError(t, err)
}

func TestServiceCreateNoCompanyUsesProjectFold(t *testing.T) {
	mem := newMemStore()
	acme := mem.addCompany("Acme")
	globex := mem.addCompany("Globex")
	project := mem.addProject("Audit")
	mem.addLink(project.ID, acme.ID, model.BoundedHours(dec("30")))
	mem.addLink(project.ID, globex.ID, model.BoundedHours(dec("20")))
	svc := newServiceService(mem)

	_, err := svc.Create(context.Background(), ServiceInput{
		ProjectID:   project.ID,
		Name:        "Design",
		PriceType:   model.PriceTypeFixed,
		BudgetHours: dec("50"),
		FixedPrice:  decptr("5000"),
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), ServiceInput{
		ProjectID:   project.ID,
		Name:        "Extra",
		PriceType:   model.PriceTypeFixed,
		BudgetHours: dec("51"),
		FixedPrice:  decptr("5000"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestServiceCreateUnlinkedCompanyHasZeroBudget(t *testing.T) {
	mem := newMemStore()
	acme := mem.addCompany("Acme")
	project := mem.addProject("Audit")
	svc := newServiceService(mem)

	_, err := svc.Create(context.Background(), ServiceInput{
		ProjectID:   project.ID,
		CompanyID:   &acme.ID,
		Name:        "Design",
		PriceType:   model.PriceTypeHourly,
		BudgetHours: dec("1"),
		HourlyRate:  decptr("90"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	// A zero budget is always admissible.
	_, err = svc.Create(context.Background(), ServiceInput{
		ProjectID:  project.ID,
		CompanyID:  &acme.ID,
		Name:       "Placeholder",
		PriceType:  model.PriceTypeHourly,
		HourlyRate: decptr("90"),
	})
	require.NoError(t, err)
}

func TestServiceCreateValidation(t *testing.T) {
	mem := newMemStore()
	project := mem.addProject("Audit")
	svc := newServiceService(mem)

	cases := []struct {
		name  string
		input ServiceInput
	}{
		{"empty name", ServiceInput{ProjectID: project.ID, Name: " ", PriceType: model.PriceTypeHourly, HourlyRate: decptr("1")}},
		{"bad price type", ServiceInput{ProjectID: project.ID, Name: "x", PriceType: "WEEKLY"}},
		{"fixed without price", ServiceInput{ProjectID: project.ID, Name: "x", PriceType: model.PriceTypeFixed}},
		{"hourly without rate", ServiceInput{ProjectID: project.ID, Name: "x", PriceType: model.PriceTypeHourly}},
		{"negative budget", ServiceInput{ProjectID: project.ID, Name: "x", PriceType: model.PriceTypeHourly, HourlyRate: decptr("1"), BudgetHours: dec("-1")}},
		{"bad date", ServiceInput{ProjectID: project.ID, Name: "x", PriceType: model.PriceTypeHourly, HourlyRate: decptr("1"), StartDate: strptr("01-02-2025")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := svc.Create(context.Background(), ServiceInput{
		ProjectID: 404, Name: "x", PriceType: model.PriceTypeHourly, HourlyRate: decptr("1"),
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestServiceUpdateBudgetRevalidation(t *testing.T) {
	mem := newMemStore()
	acme := mem.addCompany("Acme")
	project := mem.addProject("Audit")
	mem.addLink(project.ID, acme.ID, model.BoundedHours(dec("100")))
	existing := mem.addService(project.ID, &acme.ID, dec("80"))
	svc := newServiceService(mem)

	// A patch that does not touch the budget skips the check even when the
	// current budget no longer fits.
	mem.links[project.ID][0].Hours = model.BoundedHours(dec("50"))
	updated, err := svc.Update(context.Background(), existing.ID, model.ServicePatch{Name: strptr("Renamed")})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)

	// Touching budget_hours triggers re-validation against the allocations.
	_, err = svc.Update(context.Background(), existing.ID, model.ServicePatch{BudgetHours: decptr("60")})
	require.ErrorIs(t, err, ErrInvalidInput)

	updated, err = svc.Update(context.Background(), existing.ID, model.ServicePatch{BudgetHours: decptr("50")})
	require.NoError(t, err)
	require.True(t, updated.BudgetHours.Equal(dec("50")))
}

func TestServiceUpdateCompanyChangeChecksNewPair(t *testing.T) {
	mem := newMemStore()
	acme := mem.addCompany("Acme")
	globex := mem.addCompany("Globex")
	project := mem.addProject("Audit")
	mem.addLink(project.ID, acme.ID, model.BoundedHours(dec("100")))
	mem.addLink(project.ID, globex.ID, model.BoundedHours(dec("10")))
	existing := mem.addService(project.ID, &acme.ID, dec("80"))
	svc := newServiceService(mem)

	// Moving the service onto the smaller allocation keeps the old budget,
	// which no longer fits.
	_, err := svc.Update(context.Background(), existing.ID, model.ServicePatch{CompanyID: &globex.ID})
	require.ErrorIs(t, err, ErrInvalidInput)

	updated, err := svc.Update(context.Background(), existing.ID, model.ServicePatch{
		CompanyID:   &globex.ID,
		BudgetHours: decptr("10"),
	})
	require.NoError(t, err)
	require.Equal(t, globex.ID, *updated.CompanyID)
}

func TestServiceUpdateEmptyPatch(t *testing.T) {
	svc := newServiceService(newMemStore())
	_, err := svc.Update(context.Background(), 1, model.ServicePatch{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestServiceDeleteWithTimeEntries(t *testing.T) {
	mem := newMemStore()
	acme := mem.addCompany("Acme")
	project := mem.addProject("Audit")
	mem.addLink(project.ID, acme.ID, model.BoundedHours(dec("100")))
	existing := mem.addService(project.ID, &acme.ID, dec("10"))
	employee := mem.addEmployee("Dana", "dana@example.com")
	mem.addEntry(model.TimeEntry{
		EmployeeID:  employee.ID,
		CompanyID:   acme.ID,
		ProjectID:   project.ID,
		ServiceID:   &existing.ID,
		HoursWorked: dec("2"),
	})
	svc := newServiceService(mem)

	err := svc.Delete(context.Background(), existing.ID)
	require.ErrorIs(t, err, ErrConflict)

	for id := range mem.entries {
		delete(mem.entries, id)
	}
	require.NoError(t, svc.Delete(context.Background(), existing.ID))
}

func TestProjectServicesSummary(t *testing.T) {
	mem := newMemStore()
	acme := mem.addCompany("Acme")
	project := mem.addProject("Audit")
	mem.addLink(project.ID, acme.ID, model.BoundedHours(dec("100")))
	design := mem.addService(project.ID, &acme.ID, dec("40"))
	employee := mem.addEmployee("Dana", "dana@example.com")
	mem.addEntry(model.TimeEntry{
		EmployeeID:  employee.ID,
		CompanyID:   acme.ID,
		ProjectID:   project.ID,
		ServiceID:   &design.ID,
		HoursWorked: dec("12.5"),
	})
	svc := newServiceService(mem)

	summary, err := svc.ProjectSummary(context.Background(), project.ID)
	require.NoError(t, err)
	require.Len(t, summary.Services, 1)
	require.True(t, summary.Services[0].SpentHours.Equal(dec("12.5")))
	// Fake services are hourly at rate 80.
	require.True(t, summary.Services[0].SpentCost.Equal(dec("1000")))
	require.True(t, summary.Totals.HoursBudget.Equal(dec("40")))
	require.True(t, summary.RemainingHours.Hours().Equal(dec("60")))

	_, err = svc.ProjectSummary(context.Background(), 404)
	require.ErrorIs(t, err, ErrNotFound)
}
