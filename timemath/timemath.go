// Package timemath 时长与时钟换算
//
// 所有函数均为纯函数，不做 I/O，可被任意调用方并发使用。
package timemath

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay 一天的分钟数
const MinutesPerDay = 24 * 60

// DateLayout 日期键格式
const DateLayout = "2006-01-02"

// ClockLayout 24 小时制时钟格式
const ClockLayout = "15:04"

// Duration 以小时+分钟表示的时长，Minutes 始终在 [0,60)
type Duration struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// Total 返回总分钟数
func (d Duration) Total() int {
	return ToMinutes(d.Hours, d.Minutes)
}

// String 返回格式化时长，如 "1h 30m"
func (d Duration) String() string {
	return FormatDuration(d.Hours, d.Minutes)
}

// ToMinutes 小时+分钟转总分钟数
func ToMinutes(hours, minutes int) int {
	return hours*60 + minutes
}

// ToMinutesLoose 与 ToMinutes 相同，但接受任意类型输入，无法解析的值按 0 处理
func ToMinutesLoose(hours, minutes any) int {
	return ToMinutes(CoerceInt(hours), CoerceInt(minutes))
}

// FromMinutes 总分钟数转小时+分钟
// 采用向下取整除法：FromMinutes(-1) == {-1, 59}
func FromMinutes(total int) Duration {
	h := total / 60
	m := total % 60
	if m < 0 {
		m += 60
		h--
	}
	return Duration{Hours: h, Minutes: m}
}

// CoerceInt 宽松整数解析，行为与前端 parseInt(x) || 0 一致：
// 数字取整，字符串取前导整数部分，其它情况返回 0
func CoerceInt(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return n
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint:
		return int(n)
	case uint8:
		return int(n)
	case uint16:
		return int(n)
	case uint32:
		return int(n)
	case uint64:
		return int(n)
	case float32:
		return truncFloat(float64(n))
	case float64:
		return truncFloat(n)
	case json.Number:
		return parseLeadingInt(n.String())
	case string:
		return parseLeadingInt(n)
	case *int:
		if n == nil {
			return 0
		}
		return *n
	default:
		return 0
	}
}

func truncFloat(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Trunc(f))
}

// parseLeadingInt 解析字符串的前导整数，"12abc" -> 12，"abc" -> 0
func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// DurationFromRange 计算两个 24 小时制时钟之间的时长
// 结束时间不晚于开始时间时视为跨越午夜（加 1440 分钟），
// 包括起止相同的情况：DurationFromRange("10:00", "10:00") == {24, 0}
func DurationFromRange(startTime, endTime string) (Duration, bool) {
	start, err := time.Parse(ClockLayout, strings.TrimSpace(startTime))
	if err != nil {
		return Duration{}, false
	}
	end, err := time.Parse(ClockLayout, strings.TrimSpace(endTime))
	if err != nil {
		return Duration{}, false
	}

	diff := int(end.Sub(start) / time.Minute)
	if diff <= 0 {
		diff += MinutesPerDay
	}
	return FromMinutes(diff), true
}

// To24Hour 将 "02:30 PM" 转为 "14:30"
// 含冒号且无空格的输入视为 24 小时制原样返回，由 DurationFromRange 负责校验
// 12 小时制要求时、分为 1~2 位数字且后缀为 AM/PM（不区分大小写），否则返回 false
func To24Hour(timeStr string) (string, bool) {
	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" {
		return "", false
	}
	if strings.Contains(timeStr, ":") && !strings.Contains(timeStr, " ") {
		return timeStr, true
	}

	parts := strings.Fields(timeStr)
	if len(parts) < 2 {
		return "", false
	}
	modifier := strings.ToUpper(parts[1])
	if modifier != "AM" && modifier != "PM" {
		return "", false
	}

	hours, minutes, found := strings.Cut(parts[0], ":")
	if !found || !isClockField(hours) || !isClockField(minutes) {
		return "", false
	}

	// 先处理 12 点，再处理 PM：12 AM -> 00，12 PM -> 12
	if hours == "12" {
		hours = "00"
	}
	if modifier == "PM" {
		h, _ := strconv.Atoi(hours)
		hours = strconv.Itoa(h + 12)
	}

	return padLeft(hours) + ":" + padLeft(minutes), true
}

// isClockField 1~2 位数字
func isClockField(s string) bool {
	if len(s) == 0 || len(s) > 2 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// To12Hour 将 "14:30" 转为 "02:30 PM"，无法识别时返回空字符串
func To12Hour(timeStr string) string {
	hour, minute, found := strings.Cut(strings.TrimSpace(timeStr), ":")
	if !found {
		return ""
	}
	h, err := strconv.Atoi(hour)
	if err != nil {
		return ""
	}
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%02d:%s %s", h12, minute, ampm)
}

func padLeft(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}

// FormatDuration 格式化时长：0m / 2h / 45m / 1h 30m
func FormatDuration(hours, minutes int) string {
	switch {
	case hours == 0 && minutes == 0:
		return "0m"
	case hours == 0:
		return fmt.Sprintf("%dm", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
}

// FormatMinutes 格式化总分钟数
func FormatMinutes(total int) string {
	return FromMinutes(total).String()
}

// DateKey 返回 t 所在时区的日历日期，如 "2024-06-01"
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey 直接读取 "YYYY-MM-DD" 中的年月日，不做任何时区换算
func ParseDateKey(s string) (year int, month time.Month, day int, ok bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, 0, false
	}
	return t.Year(), t.Month(), t.Day(), true
}

// ParseMonthKey 解析 "YYYY-MM"
func ParseMonthKey(s string) (year int, month time.Month, ok bool) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), t.Month(), true
}

// MonthKey 返回 "YYYY-MM"
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// DaysInMonth 返回指定月份的天数
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DatesInMonth 返回该月每一天的日期键
func DatesInMonth(year int, month time.Month) []string {
	n := DaysInMonth(year, month)
	dates := make([]string, 0, n)
	for d := 1; d <= n; d++ {
		dates = append(dates, time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Format(DateLayout))
	}
	return dates
}
