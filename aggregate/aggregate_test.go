package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protrack/models"
	"protrack/taxonomy"
)

func exp(id uint, date, category string, amount float64, mode string) models.Expense {
	return models.Expense{ID: id, Date: date, Category: category, Amount: amount, PaymentMode: mode}
}

func entry(id uint, date, activity string, h, m int) models.TimeEntry {
	return models.TimeEntry{ID: id, Date: date, Activity: activity, Hours: h, Minutes: m}
}

var workSet = taxonomy.NewActivitySet(taxonomy.DefaultWorkActivities...)

func ids(expenses []models.Expense) []uint {
	out := make([]uint, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, e.ID)
	}
	return out
}

func TestEmptyInputs(t *testing.T) {
	assert.Empty(t, FilterByDate([]models.Expense{}, "2024-06-01"))
	assert.Empty(t, FilterByMonth([]models.TimeEntry(nil), time.June, 2024))
	assert.Empty(t, SumBy([]models.Expense{}, func(e models.Expense) string { return e.Category }, func(e models.Expense) float64 { return e.Amount }))
	assert.Empty(t, Breakdown(nil))
	assert.Empty(t, TopByAmount(nil, 5))
	assert.Equal(t, 0.0, TotalAmount(nil))
	assert.Equal(t, 0, TotalMinutes(nil))
	assert.Equal(t, Split{}, WorkSplit(nil, workSet))

	d := BuildDashboard(nil, nil, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), workSet)
	assert.Equal(t, 0.0, d.TodayTotal)
	assert.Equal(t, 0.0, d.ChangePercent)
	assert.Equal(t, 0, d.Productivity)
	assert.Equal(t, 1440, d.RemainingMinutes)
	assert.Empty(t, d.TopExpenses)
	assert.Empty(t, d.ActivityBreakdown)

	m := BuildMonthly(nil, nil, 2024, time.June, workSet)
	assert.Equal(t, 0.0, m.TotalSpending)
	assert.Equal(t, 0.0, m.DailyAverage)
	assert.Len(t, m.Daily, 30)
	assert.Empty(t, m.Categories)
}

func TestFilterByMonth_UsesDateComponents(t *testing.T) {
	records := []models.Expense{
		exp(1, "2024-06-01", "Food", 10, "Cash"),
		exp(2, "2024-05-31", "Food", 10, "Cash"),
		exp(3, "2023-06-15", "Food", 10, "Cash"),
		exp(4, "not-a-date", "Food", 10, "Cash"),
	}
	assert.Equal(t, []uint{1}, ids(FilterByMonth(records, time.June, 2024)))
	assert.Equal(t, []uint{2}, ids(FilterByMonth(records, time.May, 2024)))
	assert.Equal(t, []uint{1}, ids(FilterByMonthKey(records, "2024-06")))
}

func TestFilterByMonthKey_RejectsMalformedKeys(t *testing.T) {
	records := []models.Expense{
		exp(1, "2024-10-05", "Food", 10, "Cash"),
		exp(2, "2024-01-05", "Food", 10, "Cash"),
		exp(3, "2024-12-31", "Food", 10, "Cash"),
	}
	for _, key := range []string{"2024-1", "2024", "2024-13", "24-01", "2024-01-05", "junk"} {
		assert.Empty(t, FilterByMonthKey(records, key), key)
	}
	assert.Equal(t, []uint{2}, ids(FilterByMonthKey(records, "2024-01")))
	assert.Equal(t, []uint{2}, ids(FilterByMonthKey(records, " 2024-01 ")))

	assert.Empty(t, FilterExpenses(records, ExpenseFilter{Month: "2024-1"}))
	assert.Empty(t, FilterTimeEntries([]models.TimeEntry{entry(4, "2024-10-05", taxonomy.ActivitySleep, 1, 0)}, TimeFilter{Month: "2024-1"}))
}

func TestSumByKeepsInsertionOrder(t *testing.T) {
	records := []models.Expense{
		exp(1, "2024-06-01", "Travel", 5, ""),
		exp(2, "2024-06-01", "Food", 30, ""),
		exp(3, "2024-06-01", "Travel", 10, ""),
	}
	groups := SumBy(records, func(e models.Expense) string { return e.Category }, func(e models.Expense) float64 { return e.Amount })
	assert.Equal(t, []Group{{"Travel", 15}, {"Food", 30}}, groups)
	assert.Equal(t, []Group{{"Food", 30}, {"Travel", 15}}, SortGroupsDesc(groups))
	// 原切片不变
	assert.Equal(t, "Travel", groups[0].Key)
}

func TestBreakdown(t *testing.T) {
	shares := Breakdown([]Group{{"a", 1}, {"b", 2}})
	assert.Equal(t, 33.3, shares[0].Percentage)
	assert.Equal(t, 66.7, shares[1].Percentage)

	zero := Breakdown([]Group{{"a", 0}, {"b", 0}})
	for _, s := range zero {
		assert.Equal(t, 0.0, s.Percentage)
	}
}

func TestTopByAmountStable(t *testing.T) {
	records := []models.Expense{
		exp(1, "", "", 50, ""),
		exp(2, "", "", 80, ""),
		exp(3, "", "", 50, ""),
		exp(4, "", "", 10, ""),
	}
	assert.Equal(t, []uint{2, 1, 3}, ids(TopByAmount(records, 3)))
	assert.Equal(t, []uint{2, 1, 3, 4}, ids(TopByAmount(records, 10)))
	assert.Equal(t, []uint{1, 2, 3, 4}, ids(records))
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 0.0, PercentChange(0, 0))
	assert.Equal(t, 0.0, PercentChange(50, 0))
	assert.Equal(t, 100.0, PercentChange(100, 50))
	assert.Equal(t, -50.0, PercentChange(25, 50))
}

func TestTotalAmountDecimal(t *testing.T) {
	records := []models.Expense{exp(1, "", "", 0.1, ""), exp(2, "", "", 0.2, "")}
	assert.Equal(t, 0.3, TotalAmount(records))
}

func TestWorkSplit(t *testing.T) {
	entries := []models.TimeEntry{
		entry(1, "2024-06-01", taxonomy.ActivityOfficeWork, 6, 0),
		entry(2, "2024-06-01", taxonomy.ActivityMeetings, 1, 30),
		entry(3, "2024-06-01", taxonomy.ActivitySleep, 8, 0),
		entry(4, "2024-06-01", taxonomy.ActivityCommute, 0, 30),
	}
	s := WorkSplit(entries, workSet)
	assert.Equal(t, 450, s.WorkMinutes)
	assert.Equal(t, 30, s.PersonalMinutes)
	assert.Equal(t, 960, s.TotalMinutes)
	assert.Equal(t, 47, s.Productivity)
}

func TestRemainingAndProgress(t *testing.T) {
	assert.Equal(t, 1440, RemainingMinutes(0))
	assert.Equal(t, 0, RemainingMinutes(1500))
	assert.Equal(t, 1380, RemainingMinutes(60))
	assert.Equal(t, 100.0, DayProgress(2000))
	assert.Equal(t, 4.2, DayProgress(60))
}

func TestFilterExpenses(t *testing.T) {
	records := []models.Expense{
		exp(1, "2024-06-01", "Food", 20, "UPI"),
		exp(2, "2024-06-03", "Gym Membership", 50, "Card"),
		exp(3, "2024-05-20", "Travel", 5, "Cash"),
		exp(4, "2024-06-02", "Other", 15, "UPI"),
	}

	all := FilterExpenses(records, ExpenseFilter{})
	assert.Equal(t, []uint{2, 4, 1, 3}, ids(all))

	june := FilterExpenses(records, ExpenseFilter{Month: "2024-06", Sort: SortAmountAsc})
	assert.Equal(t, []uint{4, 1, 2}, ids(june))

	other := FilterExpenses(records, ExpenseFilter{Category: taxonomy.Other, Sort: SortDateAsc})
	assert.Equal(t, []uint{4, 2}, ids(other))

	custom := FilterExpenses(records, ExpenseFilter{Category: taxonomy.Other, CustomCategory: "GYM"})
	assert.Equal(t, []uint{2}, ids(custom))

	upi := FilterExpenses(records, ExpenseFilter{PaymentMode: "UPI", Sort: SortAmountDesc})
	assert.Equal(t, []uint{1, 4}, ids(upi))

	day := FilterExpenses(records, ExpenseFilter{Date: "2024-06-01", Month: "2024-05"})
	assert.Equal(t, []uint{1}, ids(day))

	byCategory := FilterExpenses(records, ExpenseFilter{Sort: SortCategory})
	assert.Equal(t, []uint{1, 2, 4, 3}, ids(byCategory))
}

func TestFilterTimeEntries(t *testing.T) {
	entries := []models.TimeEntry{
		entry(1, "2024-06-01", taxonomy.ActivityOfficeWork, 2, 0),
		entry(2, "2024-06-02", "Gardening", 0, 45),
		entry(3, "2024-06-02", taxonomy.ActivitySleep, 7, 0),
	}
	got := FilterTimeEntries(entries, TimeFilter{Sort: SortDurationDesc})
	require.Len(t, got, 3)
	assert.Equal(t, uint(3), got[0].ID)
	assert.Equal(t, uint(2), got[2].ID)

	other := FilterTimeEntries(entries, TimeFilter{Activity: taxonomy.Other})
	require.Len(t, other, 1)
	assert.Equal(t, "Gardening", other[0].Activity)
}

func TestBuildDaySummary(t *testing.T) {
	all := []models.TimeEntry{
		entry(1, "2024-06-01", taxonomy.ActivityOfficeWork, 8, 0),
		entry(2, "2024-06-02", taxonomy.ActivityOfficeWork, 2, 0),
	}
	s := BuildDaySummary(all, all, TimeFilter{}, "2024-06-01")
	assert.Equal(t, "2024-06-01", s.Date)
	assert.Equal(t, "8h", s.Total)
	assert.Equal(t, "16h", s.Remaining)
	assert.Equal(t, 33.3, s.Progress)
	assert.Zero(t, s.MonthMinutes)

	f := TimeFilter{Month: "2024-06"}
	s = BuildDaySummary(all, FilterTimeEntries(all, f), f, "2024-06-02")
	assert.Equal(t, 120, s.TotalMinutes)
	assert.Equal(t, 600, s.MonthMinutes)
	assert.Equal(t, "10h", s.MonthTotal)
}

func TestBuildDashboard(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2024, 6, 2, 0, 30, 0, 0, loc)

	expenses := []models.Expense{
		exp(1, "2024-06-02", "Food", 30, "UPI"),
		exp(2, "2024-06-02", "Travel", 60, "Cash"),
		exp(3, "2024-06-01", "Food", 60, "UPI"),
		exp(4, "2024-05-31", "Rent", 500, "Card"),
	}
	entries := []models.TimeEntry{
		entry(1, "2024-06-02", taxonomy.ActivityOfficeWork, 3, 0),
		entry(2, "2024-06-02", taxonomy.ActivityBreaks, 1, 0),
	}

	d := BuildDashboard(expenses, entries, now, workSet)
	assert.Equal(t, "2024-06-02", d.Date)
	assert.Equal(t, 90.0, d.TodayTotal)
	assert.Equal(t, 60.0, d.YesterdayTotal)
	assert.Equal(t, 50.0, d.ChangePercent)
	assert.Equal(t, 150.0, d.MonthTotal)
	assert.Equal(t, 240, d.TodayMinutes)
	assert.Equal(t, "4h", d.TodayTracked)
	assert.Equal(t, "20h", d.Remaining)
	assert.Equal(t, 75, d.Productivity)
	assert.Equal(t, []uint{2, 1}, ids(d.TopExpenses))
	require.Len(t, d.ActivityBreakdown, 2)
	assert.Equal(t, taxonomy.ActivityOfficeWork, d.ActivityBreakdown[0].Key)
	assert.Equal(t, 75.0, d.ActivityBreakdown[0].Percentage)
	assert.Equal(t, "3h", d.ActivityBreakdown[0].Display)
}

func TestBuildMonthly(t *testing.T) {
	expenses := []models.Expense{
		exp(1, "2024-06-01", "Food", 100, "UPI"),
		exp(2, "2024-06-02", "Food", 50, "Cash"),
		exp(3, "2024-06-02", "Custom", 150, "UPI"),
		exp(4, "2024-07-01", "Food", 999, "UPI"),
	}
	entries := []models.TimeEntry{
		entry(1, "2024-06-01", taxonomy.ActivityOfficeWork, 30, 0),
		entry(2, "2024-06-03", taxonomy.ActivityPersonalTime, 2, 30),
		entry(3, "2024-06-03", taxonomy.ActivitySleep, 8, 0),
	}

	m := BuildMonthly(expenses, entries, 2024, time.June, workSet)
	assert.Equal(t, "2024-06", m.Month)
	assert.Equal(t, 30, m.DaysInMonth)
	assert.Equal(t, 300.0, m.TotalSpending)
	assert.Equal(t, 10.0, m.DailyAverage)
	assert.Equal(t, 60, m.AvgWorkMinutes)
	assert.Equal(t, "1h", m.AvgWork)
	assert.Equal(t, 30, m.WorkHours)
	assert.Equal(t, 3, m.PersonalHours)

	require.Len(t, m.Categories, 2)
	assert.Equal(t, "Food", m.Categories[0].Key)
	assert.Equal(t, 50.0, m.Categories[0].Percentage)
	assert.Equal(t, taxonomy.CategoryIcon(taxonomy.Other), m.Categories[1].Icon)

	require.Len(t, m.PaymentModes, 2)
	assert.Equal(t, "UPI", m.PaymentModes[0].Key)
	assert.Equal(t, 250.0, m.PaymentModes[0].Value)

	assert.Len(t, m.Daily, 30)
	assert.Equal(t, 100.0, m.Daily[0].Amount)
	assert.Equal(t, 200.0, m.Daily[1].Amount)
	assert.Equal(t, 0.0, m.Daily[2].Amount)
	assert.Equal(t, 3, m.ExpenseCount)
}

func TestLastNDays(t *testing.T) {
	today := time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)
	expenses := []models.Expense{
		exp(1, "2024-06-02", "Food", 10, ""),
		exp(2, "2024-05-27", "Food", 20, ""),
		exp(3, "2024-05-26", "Food", 40, ""),
	}
	points := LastNDays(expenses, today, 7)
	require.Len(t, points, 7)
	assert.Equal(t, "2024-05-27", points[0].Date)
	assert.Equal(t, 20.0, points[0].Amount)
	assert.Equal(t, "Mon", points[0].Weekday)
	assert.Equal(t, "2024-06-02", points[6].Date)
	assert.Equal(t, 10.0, points[6].Amount)
	assert.Empty(t, LastNDays(expenses, today, 0))
}

func TestBuildInsights(t *testing.T) {
	entries := []models.TimeEntry{
		entry(1, "2024-06-01", taxonomy.ActivityLearning, 1, 0),
		entry(2, "2024-06-01", taxonomy.ActivityBreaks, 2, 0),
	}
	in := BuildInsights(entries, workSet)
	assert.Equal(t, 33.3, in.Productivity)
	assert.Equal(t, "1h", in.TotalWork)
	assert.Equal(t, "2m", in.AvgDailyWork)
	assert.Equal(t, 0.0, BuildInsights(nil, workSet).Productivity)
}
