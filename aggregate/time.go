package aggregate

import (
	"math"

	"protrack/models"
	"protrack/taxonomy"
	"protrack/timemath"
)

// Split 工作/个人时间划分
type Split struct {
	WorkMinutes     int `json:"work_minutes"`
	PersonalMinutes int `json:"personal_minutes"` // 不含工作与睡眠
	TotalMinutes    int `json:"total_minutes"`
	Productivity    int `json:"productivity"` // 工作时长占比，四舍五入到整数
}

// WorkSplit 按工作活动集合统计时长
func WorkSplit(entries []models.TimeEntry, work taxonomy.ActivitySet) Split {
	var s Split
	for _, e := range entries {
		m := e.TotalMinutes()
		s.TotalMinutes += m
		switch {
		case work.Has(e.Activity):
			s.WorkMinutes += m
		case e.Activity != taxonomy.ActivitySleep:
			s.PersonalMinutes += m
		}
	}
	if s.TotalMinutes > 0 {
		s.Productivity = int(math.Round(float64(s.WorkMinutes) / float64(s.TotalMinutes) * 100))
	}
	return s
}

// RemainingMinutes 当天剩余分钟数，超过 24 小时按 0 计
func RemainingMinutes(total int) int {
	return max(0, timemath.MinutesPerDay-total)
}

// DayProgress 当天已记录时长占 24 小时的百分比（一位小数，最多 100）
func DayProgress(total int) float64 {
	clamped := min(timemath.MinutesPerDay, max(0, total))
	return Round1(float64(clamped) / timemath.MinutesPerDay * 100)
}

// DaySummary 时间记录页的当日汇总
type DaySummary struct {
	Date             string  `json:"date"`
	TotalMinutes     int     `json:"total_minutes"`
	Total            string  `json:"total"`
	RemainingMinutes int     `json:"remaining_minutes"`
	Remaining        string  `json:"remaining"`
	Progress         float64 `json:"progress"`
	MonthMinutes     int     `json:"month_minutes,omitempty"`
	MonthTotal       string  `json:"month_total,omitempty"`
}

// BuildDaySummary 统计筛选日期（未指定则为 today）的记录时长；
// 仅按月筛选时额外给出筛选结果的月度合计
func BuildDaySummary(all, filtered []models.TimeEntry, f TimeFilter, today string) DaySummary {
	date := f.Date
	if date == "" {
		date = today
	}
	total := TotalMinutes(FilterByDate(all, date))
	remaining := RemainingMinutes(total)

	s := DaySummary{
		Date:             date,
		TotalMinutes:     total,
		Total:            timemath.FormatMinutes(total),
		RemainingMinutes: remaining,
		Remaining:        timemath.FormatMinutes(remaining),
		Progress:         DayProgress(total),
	}
	if f.Month != "" && f.Date == "" {
		s.MonthMinutes = TotalMinutes(filtered)
		s.MonthTotal = timemath.FormatMinutes(s.MonthMinutes)
	}
	return s
}

// Insights 工作效率概览
type Insights struct {
	WorkMinutes  int     `json:"work_minutes"`
	TotalWork    string  `json:"total_work"`
	Productivity float64 `json:"productivity"` // 一位小数
	AvgDailyWork string  `json:"avg_daily_work"`
}

// insightDays 平均每日工作时长按 30 天估算
const insightDays = 30

// BuildInsights 计算全部时间记录的工作效率概览
func BuildInsights(entries []models.TimeEntry, work taxonomy.ActivitySet) Insights {
	s := WorkSplit(entries, work)
	in := Insights{
		WorkMinutes:  s.WorkMinutes,
		TotalWork:    timemath.FormatMinutes(s.WorkMinutes),
		AvgDailyWork: timemath.FormatMinutes(int(math.Round(float64(s.WorkMinutes) / insightDays))),
	}
	if s.TotalMinutes > 0 {
		in.Productivity = Round1(float64(s.WorkMinutes) / float64(s.TotalMinutes) * 100)
	}
	return in
}
