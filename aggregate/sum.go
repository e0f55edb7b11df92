package aggregate

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"protrack/models"
)

// Group 分组汇总结果
type Group struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Share 分组占比
type Share struct {
	Key        string  `json:"key"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// SumBy 按 key 分组求和，结果保持 key 首次出现的顺序
func SumBy[T any](records []T, key func(T) string, value func(T) float64) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Value += value(r)
	}
	return groups
}

// SortGroupsDesc 按值降序排序（稳定），返回新切片
func SortGroupsDesc(groups []Group) []Group {
	out := append(make([]Group, 0, len(groups)), groups...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out
}

// Breakdown 计算各分组占总数的百分比（保留一位小数），总数为 0 时百分比均为 0
func Breakdown(groups []Group) []Share {
	var total float64
	for _, g := range groups {
		total += g.Value
	}
	shares := make([]Share, 0, len(groups))
	for _, g := range groups {
		s := Share{Key: g.Key, Value: g.Value}
		if total > 0 {
			s.Percentage = Round1(g.Value / total * 100)
		}
		shares = append(shares, s)
	}
	return shares
}

// Round1 四舍五入到一位小数
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 四舍五入到两位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PercentChange 相对上一期的变化百分比，上一期不为正时返回 0
func PercentChange(current, previous float64) float64 {
	if previous > 0 {
		return (current - previous) / previous * 100
	}
	return 0
}

// TopByAmount 按金额降序取前 n 条，金额相同保持原顺序
func TopByAmount(expenses []models.Expense, n int) []models.Expense {
	out := append(make([]models.Expense, 0, len(expenses)), expenses...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// TotalAmount 金额合计，使用十进制累加避免浮点误差
func TotalAmount(expenses []models.Expense) float64 {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(decimal.NewFromFloat(e.Amount))
	}
	f, _ := sum.Float64()
	return f
}

// TotalMinutes 时长合计（分钟）
func TotalMinutes(entries []models.TimeEntry) int {
	total := 0
	for _, e := range entries {
		total += e.TotalMinutes()
	}
	return total
}

// CategoryTotals 按类别汇总金额，降序
func CategoryTotals(expenses []models.Expense) []Group {
	return SortGroupsDesc(SumBy(expenses,
		func(e models.Expense) string { return e.Category },
		func(e models.Expense) float64 { return e.Amount }))
}

// PaymentModeTotals 按支付方式汇总金额，降序
func PaymentModeTotals(expenses []models.Expense) []Group {
	return SortGroupsDesc(SumBy(expenses,
		func(e models.Expense) string { return e.PaymentMode },
		func(e models.Expense) float64 { return e.Amount }))
}

// ActivityMinutes 按活动汇总分钟数，降序
func ActivityMinutes(entries []models.TimeEntry) []Group {
	return SortGroupsDesc(SumBy(entries,
		func(e models.TimeEntry) string { return e.Activity },
		func(e models.TimeEntry) float64 { return float64(e.TotalMinutes()) }))
}
