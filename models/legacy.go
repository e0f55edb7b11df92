package models

import (
	"strings"

	"protrack/timemath"
)

// LegacyImport 旧版本导出的 JSON 数据
type LegacyImport struct {
	Expenses    []LegacyExpense   `json:"expenses"`
	TimeEntries []LegacyTimeEntry `json:"timeEntries"`
	Budget      any               `json:"budget,omitempty"`
}

// LegacyExpense 旧版消费记录，金额可能是字符串
type LegacyExpense struct {
	Date        string `json:"date"`
	Category    string `json:"category"`
	Amount      any    `json:"amount"`
	PaymentMode string `json:"paymentMode"`
	Notes       string `json:"notes"`
}

// LegacyTimeEntry 旧版时间记录，hours/minutes 可能缺失或非数字
type LegacyTimeEntry struct {
	Date      string `json:"date"`
	Activity  string `json:"activity"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Hours     any    `json:"hours"`
	Minutes   any    `json:"minutes"`
	Duration  string `json:"duration"`
	Notes     string `json:"notes"`
}

// ToExpense 转为消费记录，无法解析的金额按 0 处理
func (l LegacyExpense) ToExpense(userID uint) Expense {
	return Expense{
		UserID:      userID,
		Date:        l.Date,
		Category:    l.Category,
		Amount:      coerceAmount(l.Amount),
		PaymentMode: l.PaymentMode,
		Notes:       l.Notes,
	}
}

// ToRow 转为存储行；hours 或 minutes 缺失时保留为空，由 Normalize 按起止时间补齐
func (l LegacyTimeEntry) ToRow(userID uint) TimeEntryRow {
	row := TimeEntryRow{
		UserID:    userID,
		Date:      l.Date,
		Activity:  l.Activity,
		StartTime: normalizeClock(l.StartTime),
		EndTime:   normalizeClock(l.EndTime),
		Notes:     l.Notes,
	}
	if l.Hours != nil && l.Minutes != nil {
		h, m := timemath.CoerceInt(l.Hours), timemath.CoerceInt(l.Minutes)
		row.Hours, row.Minutes = &h, &m
	}
	if l.Duration != "" {
		d := l.Duration
		row.Duration = &d
	}
	return row
}

// AmountValue 解析后的预算金额
func (l LegacyImport) AmountValue() float64 {
	return coerceAmount(l.Budget)
}

func normalizeClock(s string) string {
	if v, ok := timemath.To24Hour(s); ok {
		return v
	}
	return strings.TrimSpace(s)
}
