package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceUsage is a service together with its consumption roll-up.
type ServiceUsage struct {
	Service
	SpentHours decimal.Decimal
	BudgetCost decimal.Decimal
	SpentCost  decimal.Decimal
}

func NewServiceUsage(s Service, spentHours decimal.Decimal) ServiceUsage {
	return ServiceUsage{
		Service:    s,
		SpentHours: spentHours,
		BudgetCost: s.BudgetCost(),
		SpentCost:  s.SpentCost(spentHours),
	}
}

type ServicesTotals struct {
	HoursBudget decimal.Decimal
	HoursSpent  decimal.Decimal
	CostBudget  decimal.Decimal
	CostSpent   decimal.Decimal
}

type ProjectServicesSummary struct {
	Services []ServiceUsage
	Totals   ServicesTotals
	// RemainingHours is allocation headroom at the service-budget layer:
	// total allocated hours minus total budgeted hours, not minus spent hours.
	RemainingHours AvailableHours
}

// BuildProjectServicesSummary derives the read-side summary of a project from
// its services, their spent hours, and the project's allocations.
func BuildProjectServicesSummary(services []ServiceUsage, allocations []Allocation) ProjectServicesSummary {
	totals := ServicesTotals{
		HoursBudget: decimal.Zero,
		HoursSpent:  decimal.Zero,
		CostBudget:  decimal.Zero,
		CostSpent:   decimal.Zero,
	}
	for _, usage := range services {
		totals.HoursBudget = totals.HoursBudget.Add(usage.BudgetHours)
		totals.HoursSpent = totals.HoursSpent.Add(usage.SpentHours)
		totals.CostBudget = totals.CostBudget.Add(usage.BudgetCost)
		totals.CostSpent = totals.CostSpent.Add(usage.SpentCost)
	}

	available := ProjectAvailableHours(allocations)
	remaining := UnlimitedHours()
	if !available.Unlimited() {
		remaining = BoundedHours(available.Hours().Sub(totals.HoursBudget))
	}

	return ProjectServicesSummary{
		Services:       services,
		Totals:         totals,
		RemainingHours: remaining,
	}
}

// AllocationUsage is one project-company allocation with its consumed hours,
// for the available-hours overview.
type AllocationUsage struct {
	CompanyID   int64
	CompanyName string
	ProjectID   int64
	ProjectName string
	Hours       AvailableHours
	UsedHours   decimal.Decimal
}

// Timesheet is an employee's entries over a period, exported to a workbook.
type Timesheet struct {
	Employee    Employee
	PeriodStart time.Time
	PeriodEnd   time.Time
	Entries     []TimeEntryDetail
}

func (t Timesheet) TotalHours() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range t.Entries {
		total = total.Add(entry.HoursWorked)
	}
	return total
}

// ProjectSummaryDocument is the input of the PDF summary sheet.
type ProjectSummaryDocument struct {
	Project Project
	Summary ProjectServicesSummary
}
