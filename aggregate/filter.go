// Package aggregate 消费与时间记录的统计汇总
//
// 所有函数都是纯函数：不修改入参，空输入返回零值结果。
package aggregate

import (
	"sort"
	"time"

	"protrack/models"
	"protrack/taxonomy"
	"protrack/timemath"
)

// Dated 带日期键的记录
type Dated interface {
	DateKey() string
}

// FilterByDate 按日期键精确匹配
func FilterByDate[T Dated](records []T, date string) []T {
	out := make([]T, 0)
	for _, r := range records {
		if r.DateKey() == date {
			out = append(out, r)
		}
	}
	return out
}

// FilterByMonth 按年月筛选，直接读取日期键中的年月，不做时区换算
func FilterByMonth[T Dated](records []T, month time.Month, year int) []T {
	out := make([]T, 0)
	for _, r := range records {
		y, m, _, ok := timemath.ParseDateKey(r.DateKey())
		if ok && y == year && m == month {
			out = append(out, r)
		}
	}
	return out
}

// FilterByMonthKey 按 "YYYY-MM" 筛选，月份格式不合法时返回空结果
func FilterByMonthKey[T Dated](records []T, monthKey string) []T {
	year, month, ok := timemath.ParseMonthKey(monthKey)
	if !ok {
		return make([]T, 0)
	}
	return FilterByMonth(records, month, year)
}

// 列表排序方式
const (
	SortDateDesc     = "date-desc"
	SortDateAsc      = "date-asc"
	SortAmountDesc   = "amount-desc"
	SortAmountAsc    = "amount-asc"
	SortCategory     = "category"
	SortDurationDesc = "duration-desc"
	SortDurationAsc  = "duration-asc"
)

// ExpenseFilter 消费列表筛选条件
type ExpenseFilter struct {
	Date           string `form:"date"`
	Month          string `form:"month"` // YYYY-MM，指定 Date 时忽略
	Category       string `form:"category"`
	CustomCategory string `form:"custom_category"`
	PaymentMode    string `form:"payment_mode"`
	Sort           string `form:"sort"`
}

// TimeFilter 时间记录列表筛选条件
type TimeFilter struct {
	Date           string `form:"date"`
	Month          string `form:"month"`
	Activity       string `form:"activity"`
	CustomActivity string `form:"custom_activity"`
	Sort           string `form:"sort"`
}

func filterPeriod[T Dated](records []T, date, month string) []T {
	switch {
	case date != "":
		return FilterByDate(records, date)
	case month != "":
		return FilterByMonthKey(records, month)
	default:
		return append(make([]T, 0, len(records)), records...)
	}
}

// FilterExpenses 按筛选条件过滤并排序消费记录
func FilterExpenses(expenses []models.Expense, f ExpenseFilter) []models.Expense {
	list := filterPeriod(expenses, f.Date, f.Month)

	out := list[:0]
	for _, e := range list {
		if !taxonomy.Match(e.Category, f.Category, f.CustomCategory, taxonomy.IsStandardCategory) {
			continue
		}
		if f.PaymentMode != "" && e.PaymentMode != f.PaymentMode {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch f.Sort {
		case SortDateAsc:
			return a.Date < b.Date
		case SortAmountDesc:
			return a.Amount > b.Amount
		case SortAmountAsc:
			return a.Amount < b.Amount
		case SortCategory:
			return a.Category < b.Category
		default:
			return a.Date > b.Date
		}
	})
	return out
}

// FilterTimeEntries 按筛选条件过滤并排序时间记录
func FilterTimeEntries(entries []models.TimeEntry, f TimeFilter) []models.TimeEntry {
	list := filterPeriod(entries, f.Date, f.Month)

	out := list[:0]
	for _, e := range list {
		if taxonomy.Match(e.Activity, f.Activity, f.CustomActivity, taxonomy.IsStandardActivity) {
			out = append(out, e)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch f.Sort {
		case SortDateAsc:
			return a.Date < b.Date
		case SortDurationDesc:
			return a.TotalMinutes() > b.TotalMinutes()
		case SortDurationAsc:
			return a.TotalMinutes() < b.TotalMinutes()
		default:
			return a.Date > b.Date
		}
	})
	return out
}
