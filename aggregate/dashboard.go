package aggregate

import (
	"math"
	"time"

	"protrack/models"
	"protrack/taxonomy"
	"protrack/timemath"
)

// TopExpenseCount 仪表盘展示的今日消费条数
const TopExpenseCount = 5

// Slice 带展示属性的占比
type Slice struct {
	Share
	Icon    string `json:"icon"`
	Color   string `json:"color"`
	Display string `json:"display,omitempty"` // 时长类分组的格式化值
}

// DailyPoint 按天的金额
type DailyPoint struct {
	Date    string  `json:"date"`
	Weekday string  `json:"weekday,omitempty"`
	Amount  float64 `json:"amount"`
}

// Dashboard 首页概览
type Dashboard struct {
	Date              string           `json:"date"`
	TodayTotal        float64          `json:"today_total"`
	YesterdayTotal    float64          `json:"yesterday_total"`
	ChangePercent     float64          `json:"change_percent"`
	MonthTotal        float64          `json:"month_total"`
	TodayMinutes      int              `json:"today_minutes"`
	TodayTracked      string           `json:"today_tracked"`
	RemainingMinutes  int              `json:"remaining_minutes"`
	Remaining         string           `json:"remaining"`
	Productivity      int              `json:"productivity"`
	TopExpenses       []models.Expense `json:"top_expenses"`
	ActivityBreakdown []Slice          `json:"activity_breakdown"`
}

// Monthly 月度统计
type Monthly struct {
	Month            string       `json:"month"`
	DaysInMonth      int          `json:"days_in_month"`
	TotalSpending    float64      `json:"total_spending"`
	DailyAverage     float64      `json:"daily_average"`
	AvgWorkMinutes   int          `json:"avg_work_minutes"`
	AvgWork          string       `json:"avg_work"`
	WorkHours        int          `json:"work_hours"`
	PersonalHours    int          `json:"personal_hours"`
	Categories       []Slice      `json:"categories"`
	PaymentModes     []Share      `json:"payment_modes"`
	Activities       []Slice      `json:"activities"`
	Daily            []DailyPoint `json:"daily"`
	ExpenseCount     int          `json:"expense_count"`
	TimeEntryCount   int          `json:"time_entry_count"`
	TrackedMinutes   int          `json:"tracked_minutes"`
	TrackedFormatted string       `json:"tracked"`
}

// CategorySlices 类别占比，附带图标与颜色
func CategorySlices(expenses []models.Expense) []Slice {
	shares := Breakdown(CategoryTotals(expenses))
	out := make([]Slice, 0, len(shares))
	for _, s := range shares {
		out = append(out, Slice{
			Share: s,
			Icon:  taxonomy.CategoryIcon(s.Key),
			Color: taxonomy.CategoryColor(s.Key),
		})
	}
	return out
}

// ActivitySlices 活动占比，附带图标、颜色与格式化时长
func ActivitySlices(entries []models.TimeEntry) []Slice {
	shares := Breakdown(ActivityMinutes(entries))
	out := make([]Slice, 0, len(shares))
	for _, s := range shares {
		out = append(out, Slice{
			Share:   s,
			Icon:    taxonomy.ActivityIcon(s.Key),
			Color:   taxonomy.ActivityColor(s.Key),
			Display: timemath.FormatMinutes(int(s.Value)),
		})
	}
	return out
}

// DailySeries 某月每天的消费合计，无消费的日期为 0
func DailySeries(expenses []models.Expense, year int, month time.Month) []DailyPoint {
	byDate := dailyTotals(FilterByMonth(expenses, month, year))
	dates := timemath.DatesInMonth(year, month)
	out := make([]DailyPoint, 0, len(dates))
	for _, d := range dates {
		out = append(out, DailyPoint{Date: d, Amount: byDate[d]})
	}
	return out
}

// LastNDays 截至 today（含）最近 n 天每天的消费合计，按日期升序
func LastNDays(expenses []models.Expense, today time.Time, n int) []DailyPoint {
	if n <= 0 {
		return []DailyPoint{}
	}
	byDate := dailyTotals(expenses)
	out := make([]DailyPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := timemath.DateKey(day)
		out = append(out, DailyPoint{
			Date:    key,
			Weekday: day.Weekday().String()[:3],
			Amount:  byDate[key],
		})
	}
	return out
}

func dailyTotals(expenses []models.Expense) map[string]float64 {
	byDate := make(map[string]float64)
	for _, g := range SumBy(expenses,
		func(e models.Expense) string { return e.Date },
		func(e models.Expense) float64 { return e.Amount }) {
		byDate[g.Key] = Round2(g.Value)
	}
	return byDate
}

// BuildDashboard 计算首页概览；today 为调用方所在时区的当前时间
func BuildDashboard(expenses []models.Expense, entries []models.TimeEntry, today time.Time, work taxonomy.ActivitySet) Dashboard {
	todayKey := timemath.DateKey(today)
	yesterdayKey := timemath.DateKey(today.AddDate(0, 0, -1))

	todayExpenses := FilterByDate(expenses, todayKey)
	todayTotal := TotalAmount(todayExpenses)
	yesterdayTotal := TotalAmount(FilterByDate(expenses, yesterdayKey))
	monthTotal := TotalAmount(FilterByMonth(expenses, today.Month(), today.Year()))

	todayEntries := FilterByDate(entries, todayKey)
	split := WorkSplit(todayEntries, work)
	remaining := RemainingMinutes(split.TotalMinutes)

	return Dashboard{
		Date:              todayKey,
		TodayTotal:        todayTotal,
		YesterdayTotal:    yesterdayTotal,
		ChangePercent:     Round1(PercentChange(todayTotal, yesterdayTotal)),
		MonthTotal:        monthTotal,
		TodayMinutes:      split.TotalMinutes,
		TodayTracked:      timemath.FormatMinutes(split.TotalMinutes),
		RemainingMinutes:  remaining,
		Remaining:         timemath.FormatMinutes(remaining),
		Productivity:      split.Productivity,
		TopExpenses:       TopByAmount(todayExpenses, TopExpenseCount),
		ActivityBreakdown: ActivitySlices(todayEntries),
	}
}

// BuildMonthly 计算指定月份的统计
func BuildMonthly(expenses []models.Expense, entries []models.TimeEntry, year int, month time.Month, work taxonomy.ActivitySet) Monthly {
	monthExpenses := FilterByMonth(expenses, month, year)
	monthEntries := FilterByMonth(entries, month, year)
	days := timemath.DaysInMonth(year, month)

	total := TotalAmount(monthExpenses)
	split := WorkSplit(monthEntries, work)
	avgWork := int(math.Round(float64(split.WorkMinutes) / float64(days)))

	return Monthly{
		Month:            timemath.MonthKey(year, month),
		DaysInMonth:      days,
		TotalSpending:    total,
		DailyAverage:     Round2(total / float64(days)),
		AvgWorkMinutes:   avgWork,
		AvgWork:          timemath.FormatMinutes(avgWork),
		WorkHours:        int(math.Round(float64(split.WorkMinutes) / 60)),
		PersonalHours:    int(math.Round(float64(split.PersonalMinutes) / 60)),
		Categories:       CategorySlices(monthExpenses),
		PaymentModes:     Breakdown(PaymentModeTotals(monthExpenses)),
		Activities:       ActivitySlices(monthEntries),
		Daily:            DailySeries(expenses, year, month),
		ExpenseCount:     len(monthExpenses),
		TimeEntryCount:   len(monthEntries),
		TrackedMinutes:   split.TotalMinutes,
		TrackedFormatted: timemath.FormatMinutes(split.TotalMinutes),
	}
}
