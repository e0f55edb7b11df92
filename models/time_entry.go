package models

import (
	"time"

	"protrack/timemath"

	"gorm.io/gorm"
)

// TimeEntryRow 时间记录的存储行
// 历史数据中 hours/minutes/duration 可能为空，只能通过 Normalize 转为 TimeEntry 后参与统计
type TimeEntryRow struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    uint           `gorm:"index;not null"`
	Date      string         `gorm:"size:10;index;not null"`
	Activity  string         `gorm:"size:50;not null"`
	StartTime string         `gorm:"size:5"`
	EndTime   string         `gorm:"size:5"`
	Hours     *int           `gorm:"default:null"`
	Minutes   *int           `gorm:"default:null"`
	Duration  *string        `gorm:"size:20;default:null"`
	Notes     string         `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
	User      User           `gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (TimeEntryRow) TableName() string {
	return "time_entries"
}

// TimeEntry 规范化后的时间记录，Hours/Minutes/Duration 均已填充
type TimeEntry struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Date      string    `json:"date"`
	Activity  string    `json:"activity"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Hours     int       `json:"hours"`
	Minutes   int       `json:"minutes"`
	Duration  string    `json:"duration"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DateKey 实现按日期筛选所需的接口
func (e TimeEntry) DateKey() string {
	return e.Date
}

// TotalMinutes 记录时长（分钟）
func (e TimeEntry) TotalMinutes() int {
	return timemath.ToMinutes(e.Hours, e.Minutes)
}

// Normalize 将存储行转为规范化记录
// hours 或 minutes 缺失时按起止时间重新计算（跨午夜规则），起止时间也无法解析则记为 0
func (r TimeEntryRow) Normalize() TimeEntry {
	e := TimeEntry{
		ID:        r.ID,
		UserID:    r.UserID,
		Date:      r.Date,
		Activity:  r.Activity,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	if r.Hours != nil && r.Minutes != nil {
		d := timemath.FromMinutes(timemath.ToMinutes(*r.Hours, *r.Minutes))
		e.Hours, e.Minutes = d.Hours, d.Minutes
	} else if d, ok := timemath.DurationFromRange(r.StartTime, r.EndTime); ok {
		e.Hours, e.Minutes = d.Hours, d.Minutes
	}

	if r.Duration != nil && *r.Duration != "" {
		e.Duration = *r.Duration
	} else {
		e.Duration = timemath.FormatDuration(e.Hours, e.Minutes)
	}
	return e
}

// ToRow 转为存储行
func (e TimeEntry) ToRow() TimeEntryRow {
	hours, minutes := e.Hours, e.Minutes
	duration := e.Duration
	if duration == "" {
		duration = timemath.FormatDuration(hours, minutes)
	}
	return TimeEntryRow{
		ID:        e.ID,
		UserID:    e.UserID,
		Date:      e.Date,
		Activity:  e.Activity,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Hours:     &hours,
		Minutes:   &minutes,
		Duration:  &duration,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// NewTimeEntry 根据起止时间（12 或 24 小时制）创建规范化记录
// 时间无法识别时返回 false
func NewTimeEntry(userID uint, date, activity, startTime, endTime, notes string) (TimeEntry, bool) {
	start24, ok := timemath.To24Hour(startTime)
	if !ok {
		return TimeEntry{}, false
	}
	end24, ok := timemath.To24Hour(endTime)
	if !ok {
		return TimeEntry{}, false
	}
	d, ok := timemath.DurationFromRange(start24, end24)
	if !ok {
		return TimeEntry{}, false
	}
	return TimeEntry{
		UserID:    userID,
		Date:      date,
		Activity:  activity,
		StartTime: start24,
		EndTime:   end24,
		Hours:     d.Hours,
		Minutes:   d.Minutes,
		Duration:  d.String(),
		Notes:     notes,
	}, true
}
