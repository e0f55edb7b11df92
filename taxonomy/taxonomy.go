// Package taxonomy 消费类别、活动类型与支付方式
package taxonomy

import "strings"

// Other 兜底类型，枚举之外的任意文本都按 Other 处理图标和颜色
const Other = "Other"

// 消费类别
const (
	CategoryFood          = "Food"
	CategoryTravel        = "Travel"
	CategoryRent          = "Rent"
	CategoryBills         = "Bills"
	CategoryShopping      = "Shopping"
	CategoryEntertainment = "Entertainment"
	CategoryMedical       = "Medical"
)

// 活动类型
const (
	ActivityOfficeWork   = "Office Work"
	ActivityCommute      = "Commute"
	ActivityMeetings     = "Meetings"
	ActivityBreaks       = "Breaks"
	ActivityPersonalTime = "Personal Time"
	ActivitySleep        = "Sleep"
	ActivityLearning     = "Learning"
)

// Item 枚举项及其展示属性
type Item struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var categories = []Item{
	{CategoryFood, "🍔", "#f093fb"},
	{CategoryTravel, "🚗", "#4facfe"},
	{CategoryRent, "🏠", "#fa709a"},
	{CategoryBills, "📄", "#fee140"},
	{CategoryShopping, "🛍️", "#667eea"},
	{CategoryEntertainment, "🎬", "#764ba2"},
	{CategoryMedical, "💊", "#f5576c"},
	{Other, "📦", "#a0aec0"},
}

var activities = []Item{
	{ActivityOfficeWork, "💼", "#667eea"},
	{ActivityCommute, "🚌", "#f093fb"},
	{ActivityMeetings, "👥", "#4facfe"},
	{ActivityBreaks, "☕", "#43e97b"},
	{ActivityPersonalTime, "🏃", "#fa709a"},
	{ActivitySleep, "😴", "#fee140"},
	{ActivityLearning, "📚", "#764ba2"},
	{Other, "📌", "#a0aec0"},
}

// PaymentModes 常用支付方式，允许自由填写
var PaymentModes = []string{"Cash", "UPI", "Card", "Net Banking", "Wallet", Other}

// DefaultWorkActivities 默认计入“工作”的活动
var DefaultWorkActivities = []string{ActivityOfficeWork, ActivityMeetings, ActivityLearning}

// Categories 返回全部消费类别（含 Other）
func Categories() []Item {
	return append([]Item(nil), categories...)
}

// Activities 返回全部活动类型（含 Other）
func Activities() []Item {
	return append([]Item(nil), activities...)
}

func lookup(items []Item, name string) Item {
	for _, it := range items {
		if it.Name == name {
			return it
		}
	}
	return items[len(items)-1]
}

func isStandard(items []Item, name string) bool {
	for _, it := range items[:len(items)-1] {
		if it.Name == name {
			return true
		}
	}
	return false
}

// CategoryIcon 类别图标，未知类别返回 Other 的图标
func CategoryIcon(category string) string {
	return lookup(categories, category).Icon
}

// CategoryColor 类别颜色
func CategoryColor(category string) string {
	return lookup(categories, category).Color
}

// ActivityIcon 活动图标
func ActivityIcon(activity string) string {
	return lookup(activities, activity).Icon
}

// ActivityColor 活动颜色
func ActivityColor(activity string) string {
	return lookup(activities, activity).Color
}

// IsStandardCategory 是否为 Other 以外的预置类别
func IsStandardCategory(category string) bool {
	return isStandard(categories, category)
}

// IsStandardActivity 是否为 Other 以外的预置活动
func IsStandardActivity(activity string) bool {
	return isStandard(activities, activity)
}

// Resolve 选择 Other 时使用自定义文本，自定义文本为空则保留 Other
func Resolve(selected, custom string) string {
	selected = strings.TrimSpace(selected)
	if selected == Other {
		if c := strings.TrimSpace(custom); c != "" {
			return c
		}
	}
	return selected
}

// Match 按筛选条件匹配类别/活动：
//   - 未指定筛选：全部匹配
//   - 筛选 Other 且有自定义文本：不区分大小写的子串匹配
//   - 筛选 Other 无自定义文本：匹配所有非预置值
//   - 其它：精确匹配
func Match(value, filter, custom string, standard func(string) bool) bool {
	if filter == "" {
		return true
	}
	if filter != Other {
		return value == filter
	}
	if c := strings.TrimSpace(custom); c != "" {
		return strings.Contains(strings.ToLower(value), strings.ToLower(c))
	}
	return !standard(value)
}

// ActivitySet 活动集合，用于工作/个人分类
type ActivitySet map[string]struct{}

// NewActivitySet 创建活动集合
func NewActivitySet(names ...string) ActivitySet {
	s := make(ActivitySet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has 判断是否包含
func (s ActivitySet) Has(name string) bool {
	_, ok := s[name]
	return ok
}
