package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jdevries/timeflow/internal/model"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func strptr(s string) *string { return &s }

func newProjectService(mem *memStore) *ProjectService {
	return NewProjectService(&fakeProjectStore{mem: mem}, zerolog.Nop())
}

func TestProjectCreateWithLinks(t *testing.T) {
	mem := newMemStore()
	acme := mem.addCompany("Acme")
	globex := mem.addCompany("Globex")
	svc := newProjectService(mem)

	project, err := svc.Create(context.Background(), ProjectInput{
		ProjectName: "  Website Relaunch  ",
		Links: []model.AllocationInput{
			{CompanyID: acme.ID, AvailableHours: dec("40")},
			{CompanyID: globex.ID, Unlimited: true},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "Website Relaunch", project.ProjectName)
	require.Len(t, project.Links, 2)
	require.False(t, project.Links[0].Hours.Unlimited())
	require.True(t, project.Links[0].Hours.Hours().Equal(dec("40")))
	require.True(t, project.Links[1].Hours.Unlimited())
}

func TestProjectCreateEmptyName(t *testing.T) {
	svc := newProjectService(newMemStore())
	_, err := svc.Create(context.Background(), ProjectInput{ProjectName: "   "})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestProjectCreateDuplicateLinks(t *testing.T) {
	mem := newMemStore()
	acme := mem.addCompany("Acme")
	svc := newProjectService(mem)

	_, err := svc.Create(context.Background(), ProjectInput{
		ProjectName: "Audit",
		Links: []model.AllocationInput{
			{CompanyID: acme.ID, AvailableHours: dec("10")},
			{CompanyID: acme.ID, AvailableHours: dec("20")},
		},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Contains(t, err.Error(), "duplicate")
}

func TestProjectCreateMissingCompanies(t *testing.T) {
	mem := newMemStore()
	acme := mem.addCompany("Acme")
	svc := newProjectService(mem)

	_, err := svc.Create(context.Background(), ProjectInput{
		ProjectName: "Audit",
		Links: []model.AllocationInput{
			{CompanyID: acme.ID, AvailableHours: dec("10")},
			{CompanyID: 98, AvailableHours: dec("10")},
			{CompanyID: 97, AvailableHours: dec("10")},
		},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Contains(t, err.Error(), "companies not found: 97, 98")
}

func TestProjectUpdateReplacesLinks(t *testing.T) {
	mem := newMemStore()
	acme := mem.addCompany("Acme")
	globex := mem.addCompany("Globex")
	project := mem.addProject("Audit")
	mem.addLink(project.ID, acme.ID, model.BoundedHours(dec("40")))
	svc := newProjectService(mem)

	// Applying the same link set twice is idempotent.
	links := []model.AllocationInput{{CompanyID: globex.ID, AvailableHours: dec("15")}}
	for i := 0; i < 2; i++ {
		updated, err := svc.Update(context.Background(), project.ID, ProjectUpdate{Links: links})
		require.NoError(t, err)
		require.Len(t, updated.Links, 1)
		require.Equal(t, globex.ID, updated.Links[0].CompanyID)
		require.True(t, updated.Links[0].Hours.Hours().Equal(dec("15")))
	}
}

func TestProjectUpdateNilLinksLeavesAllocations(t *testing.T) {
	mem := newMemStore()
	acme := mem.addCompany("Acme")
	project := mem.addProject("Audit")
	mem.addLink(project.ID, acme.ID, model.BoundedHours(dec("40")))
	svc := newProjectService(mem)

	updated, err := svc.Update(context.Background(), project.ID, ProjectUpdate{
		Patch: model.ProjectPatch{Description: strptr("new scope")},
	})
	require.NoError(t, err)
	require.Equal(t, "new scope", *updated.Description)
	require.Len(t, updated.Links, 1)
}

func TestProjectUpdateNotFound(t *testing.T) {
	svc := newProjectService(newMemStore())
	_, err := svc.Update(context.Background(), 42, ProjectUpdate{
		Patch: model.ProjectPatch{ProjectName: strptr("x")},
	})
	require.ErrorIs(t, err, ErrNotFound)

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, int64(42), notFound.ID)
}

func TestProjectAvailableHours(t *testing.T) {
	mem := newMemStore()
	acme := mem.addCompany("Acme")
	globex := mem.addCompany("Globex")
	project := mem.addProject("Audit")
	mem.addLink(project.ID, acme.ID, model.BoundedHours(dec("40")))
	mem.addLink(project.ID, globex.ID, model.BoundedHours(dec("10")))
	svc := newProjectService(mem)

	total, err := svc.AvailableHours(context.Background(), project.ID, nil)
	require.NoError(t, err)
	require.True(t, total.Hours().Equal(dec("50")))

	pair, err := svc.AvailableHours(context.Background(), project.ID, &acme.ID)
	require.NoError(t, err)
	require.True(t, pair.Hours().Equal(dec("40")))

	other := int64(999)
	missing, err := svc.AvailableHours(context.Background(), project.ID, &other)
	require.NoError(t, err)
	require.False(t, missing.Unlimited())
	require.True(t, missing.Hours().IsZero())
}

func TestProjectAvailableHoursUnlimitedAbsorbs(t *testing.T) {
	mem := newMemStore()
	acme := mem.addCompany("Acme")
	globex := mem.addCompany("Globex")
	project := mem.addProject("Audit")
	mem.addLink(project.ID, acme.ID, model.BoundedHours(dec("40")))
	mem.addLink(project.ID, globex.ID, model.UnlimitedHours())
	svc := newProjectService(mem)

	total, err := svc.AvailableHours(context.Background(), project.ID, nil)
	require.NoError(t, err)
	require.True(t, total.Unlimited())
}

func TestProjectDeleteNotFound(t *testing.T) {
	svc := newProjectService(newMemStore())
	err := svc.Delete(context.Background(), 5)
	require.ErrorIs(t, err, ErrNotFound)
}
