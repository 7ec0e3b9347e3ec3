package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestAvailableHoursPlus(t *testing.T) {
	sum := BoundedHours(dec("10")).Plus(BoundedHours(dec("30.5")))
	require.False(t, sum.Unlimited())
	require.True(t, sum.Hours().Equal(dec("40.5")))

	absorbed := BoundedHours(dec("10")).Plus(UnlimitedHours())
	require.True(t, absorbed.Unlimited())
	require.True(t, absorbed.Hours().IsZero())

	absorbed = UnlimitedHours().Plus(BoundedHours(dec("10")))
	require.True(t, absorbed.Unlimited())
}

func TestAvailableHoursCovers(t *testing.T) {
	budget := BoundedHours(dec("40"))
	require.True(t, budget.Covers(dec("40")))
	require.True(t, budget.Covers(dec("39.99")))
	require.False(t, budget.Covers(dec("40.01")))

	require.True(t, UnlimitedHours().Covers(dec("100000")))
}

func TestAvailableHoursRemaining(t *testing.T) {
	budget := BoundedHours(dec("40"))
	require.True(t, budget.Remaining(dec("35.5")).Equal(dec("4.5")))
	require.True(t, budget.Remaining(dec("41")).Equal(dec("-1")))
	require.True(t, UnlimitedHours().Remaining(dec("10")).IsZero())
}

func TestProjectAvailableHoursFold(t *testing.T) {
	bounded := ProjectAvailableHours([]Allocation{
		{CompanyID: 1, Hours: BoundedHours(dec("10"))},
		{CompanyID: 2, Hours: BoundedHours(dec("25.25"))},
	})
	require.False(t, bounded.Unlimited())
	require.True(t, bounded.Hours().Equal(dec("35.25")))

	unlimited := ProjectAvailableHours([]Allocation{
		{CompanyID: 1, Hours: BoundedHours(dec("10"))},
		{CompanyID: 2, Hours: UnlimitedHours()},
	})
	require.True(t, unlimited.Unlimited())

	empty := ProjectAvailableHours(nil)
	require.False(t, empty.Unlimited())
	require.True(t, empty.Hours().IsZero())
}

func TestAvailableHoursString(t *testing.T) {
	require.Equal(t, "unlimited", UnlimitedHours().String())
	require.Equal(t, "12.5", BoundedHours(dec("12.5")).String())
}
