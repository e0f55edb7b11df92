// Package budget 月度预算计算
package budget

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Status 预算状态
type Status string

const (
	StatusNoBudget  Status = "NoBudget"
	StatusOk        Status = "Ok"
	StatusWarning   Status = "Warning"
	StatusOverLimit Status = "OverLimit"
)

// 状态阈值（百分比）
const (
	WarningThreshold   = 85.0
	OverLimitThreshold = 100.0
)

// Evaluation 预算与当月支出的对比结果
type Evaluation struct {
	Amount     float64 `json:"amount"`
	Spent      float64 `json:"spent"`
	Balance    float64 `json:"balance"`    // 可能为负
	Percentage float64 `json:"percentage"` // 不封顶，如 142
	Status     Status  `json:"status"`
	BarWidth   float64 `json:"bar_width"` // 进度条宽度，最多 100
}

// Evaluate 计算预算状态，预算为 0 时百分比为 0、状态为 NoBudget
func Evaluate(amount, spent float64) Evaluation {
	e := Evaluation{
		Amount:  amount,
		Spent:   spent,
		Balance: amount - spent,
	}
	if amount > 0 {
		e.Percentage = spent / amount * 100
	}
	e.Status = classify(amount, e.Percentage)
	e.BarWidth = math.Min(e.Percentage, 100)
	return e
}

func classify(amount, percentage float64) Status {
	switch {
	case amount <= 0:
		return StatusNoBudget
	case percentage >= OverLimitThreshold:
		return StatusOverLimit
	case percentage >= WarningThreshold:
		return StatusWarning
	default:
		return StatusOk
	}
}

func (s Status) rank() int {
	switch s {
	case StatusWarning:
		return 1
	case StatusOverLimit:
		return 2
	default:
		return 0
	}
}

// Escalated 状态是否升级（Ok -> Warning，Warning -> OverLimit 等），用于触发提醒
func Escalated(before, after Status) bool {
	return after.rank() > before.rank()
}

// Message 预算提示文案
func Message(e Evaluation) string {
	switch e.Status {
	case StatusNoBudget:
		return "Set a budget to track your monthly spending limit."
	case StatusOverLimit:
		return fmt.Sprintf("You have exceeded your budget by %s!", FormatCurrency(math.Abs(e.Balance)))
	case StatusWarning:
		return "You are approaching your budget limit."
	default:
		return fmt.Sprintf("You have %s remaining for this month.", FormatCurrency(e.Balance))
	}
}

// FormatCurrency 卢比金额格式化：印度数字分组，最多两位小数，去掉末尾的 0
// 例如 123456.5 -> "₹1,23,456.5"
func FormatCurrency(v float64) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	var b strings.Builder
	b.WriteString("₹")
	if v < 0 && s != "0.00" {
		b.WriteByte('-')
	}
	b.WriteString(groupIndian(intPart))
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// groupIndian 末三位一组，其余每两位一组
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return strings.Join(groups, ",") + "," + tail
}
