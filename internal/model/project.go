package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Project struct {
	ID          int64
	ProjectName string
	Description *string
	CreatedAt   time.Time
	Links       []Allocation
}

// Allocation is one project-company link and its hour budget. Allocations are
// owned by the project and replaced wholesale when its links are edited.
type Allocation struct {
	ProjectID   int64
	CompanyID   int64
	CompanyName string
	Hours       AvailableHours
	CreatedAt   time.Time
}

// AllocationInput is the requested budget for one company when setting a
// project's links.
type AllocationInput struct {
	CompanyID      int64
	AvailableHours decimal.Decimal
	Unlimited      bool
}

func (in AllocationInput) Hours() AvailableHours {
	if in.Unlimited {
		return UnlimitedHours()
	}
	return BoundedHours(in.AvailableHours)
}

type ProjectPatch struct {
	ProjectName *string
	Description *string
}

func (p ProjectPatch) Empty() bool {
	return p.ProjectName == nil && p.Description == nil
}

func (p ProjectPatch) ApplyTo(pr *Project) {
	if p.ProjectName != nil {
		pr.ProjectName = *p.ProjectName
	}
	if p.Description != nil {
		pr.Description = p.Description
	}
}
