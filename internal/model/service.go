package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PriceType string

const (
	PriceTypeFixed  PriceType = "FIXED"
	PriceTypeHourly PriceType = "HOURLY"
)

func (p PriceType) Valid() bool {
	return p == PriceTypeFixed || p == PriceTypeHourly
}

// Service is a budgeted work item inside a project, optionally scoped to one
// of the project's companies.
type Service struct {
	ID           int64
	ProjectID    int64
	CompanyID    *int64
	Name         string
	PriceType    PriceType
	BudgetHours  decimal.Decimal
	FixedPrice   *decimal.Decimal
	HourlyRate   *decimal.Decimal
	StartDate    *time.Time
	EndDate      *time.Time
	ServiceColor *string
	CreatedAt    time.Time
}

// BudgetCost is the planned cost of the service: the fixed price for FIXED
// services, budget hours times rate for HOURLY ones.
func (s Service) BudgetCost() decimal.Decimal {
	switch s.PriceType {
	case PriceTypeFixed:
		if s.FixedPrice != nil {
			return *s.FixedPrice
		}
	case PriceTypeHourly:
		if s.HourlyRate != nil {
			return s.BudgetHours.Mul(*s.HourlyRate)
		}
	}
	return decimal.Zero
}

// SpentCost is the cost of hours already logged. Always zero for FIXED
// services; their price does not depend on consumption.
func (s Service) SpentCost(spentHours decimal.Decimal) decimal.Decimal {
	if s.PriceType == PriceTypeHourly && s.HourlyRate != nil {
		return spentHours.Mul(*s.HourlyRate)
	}
	return decimal.Zero
}

// ServicePatch carries the fields of a service update. Nil fields are left
// untouched; company can be reassigned but not cleared.
type ServicePatch struct {
	CompanyID    *int64
	Name         *string
	PriceType    *PriceType
	BudgetHours  *decimal.Decimal
	FixedPrice   *decimal.Decimal
	HourlyRate   *decimal.Decimal
	StartDate    *time.Time
	EndDate      *time.Time
	ServiceColor *string
}

func (p ServicePatch) Empty() bool {
	return p.CompanyID == nil &&
		p.Name == nil &&
		p.PriceType == nil &&
		p.BudgetHours == nil &&
		p.FixedPrice == nil &&
		p.HourlyRate == nil &&
		p.StartDate == nil &&
		p.EndDate == nil &&
		p.ServiceColor == nil
}

// TouchesBudget reports whether applying the patch requires re-validating the
// service budget against the project's allocations.
func (p ServicePatch) TouchesBudget() bool {
	return p.CompanyID != nil || p.BudgetHours != nil
}

func (p ServicePatch) ApplyTo(s *Service) {
	if p.CompanyID != nil {
		s.CompanyID = p.CompanyID
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.PriceType != nil {
		s.PriceType = *p.PriceType
	}
	if p.BudgetHours != nil {
		s.BudgetHours = *p.BudgetHours
	}
	if p.FixedPrice != nil {
		s.FixedPrice = p.FixedPrice
	}
	if p.HourlyRate != nil {
		s.HourlyRate = p.HourlyRate
	}
	if p.StartDate != nil {
		s.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		s.EndDate = p.EndDate
	}
	if p.ServiceColor != nil {
		s.ServiceColor = p.ServiceColor
	}
}
