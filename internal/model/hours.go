package model

import "github.com/shopspring/decimal"

// AvailableHours is the hour budget assigned to a project-company pair.
// A budget is either bounded to a nonnegative number of hours or explicitly
// unlimited; unlimited budgets have no numeric value.
type AvailableHours struct {
	unlimited bool
	hours     decimal.Decimal
}

func UnlimitedHours() AvailableHours {
	return AvailableHours{unlimited: true}
}

func BoundedHours(hours decimal.Decimal) AvailableHours {
	return AvailableHours{hours: hours}
}

func (a AvailableHours) Unlimited() bool {
	return a.unlimited
}

// Hours returns the bounded budget. Zero for unlimited budgets; callers must
// check Unlimited first when the distinction matters.
func (a AvailableHours) Hours() decimal.Decimal {
	if a.unlimited {
		return decimal.Zero
	}
	return a.hours
}

// Plus combines two budgets. Unlimited absorbs everything it is added to.
func (a AvailableHours) Plus(b AvailableHours) AvailableHours {
	if a.unlimited || b.unlimited {
		return UnlimitedHours()
	}
	return BoundedHours(a.hours.Add(b.hours))
}

// Covers reports whether the budget admits the requested number of hours.
func (a AvailableHours) Covers(requested decimal.Decimal) bool {
	if a.unlimited {
		return true
	}
	return requested.LessThanOrEqual(a.hours)
}

// Remaining returns the budget left after used hours. Meaningless for
// unlimited budgets; returns zero in that case.
func (a AvailableHours) Remaining(used decimal.Decimal) decimal.Decimal {
	if a.unlimited {
		return decimal.Zero
	}
	return a.hours.Sub(used)
}

func (a AvailableHours) String() string {
	if a.unlimited {
		return "unlimited"
	}
	return a.hours.String()
}

// ProjectAvailableHours folds the allocations of a project into one budget:
// the sum of all bounded allocations, or unlimited as soon as any single
// allocation is unlimited.
func ProjectAvailableHours(allocations []Allocation) AvailableHours {
	total := BoundedHours(decimal.Zero)
	for _, alloc := range allocations {
		total = total.Plus(alloc.Hours)
	}
	return total
}
